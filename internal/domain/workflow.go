// Package domain wires the options tree to its definitions, the installer
// storage and the UI.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/breakerb0y/aaropa-calamares/internal/adapter"
	"github.com/breakerb0y/aaropa-calamares/internal/controller"
	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

var (
	// ErrNoDefinitions is returned when no definitions file is given.
	ErrNoDefinitions = errors.New("no definitions given")
	// ErrUnknownNode is returned when a name matches no group or option.
	ErrUnknownNode = errors.New("no such group or option")
	// ErrNotCheckable is returned when a node may not be toggled.
	ErrNotCheckable = errors.New("not checkable")
	// ErrNotEditable is returned when input is set on a node without input.
	ErrNotEditable = errors.New("not editable")
	// ErrAborted is returned when the user leaves the chooser without
	// accepting.
	ErrAborted = errors.New("selection aborted")
)

// LoadArgs describes where the tree and the installer state come from.
type LoadArgs struct {
	Definitions []m.Path
	Selections  []string
	StoragePath m.Path
	StorageKey  string
	Required    bool
	HiddenRules []m.HiddenRule
}

// ShowArgs contains the arguments for printing the tree.
type ShowArgs struct {
	LoadArgs
}

// ChooseArgs contains the arguments for the interactive chooser.
type ChooseArgs struct {
	LoadArgs
}

// ApplyArgs contains the arguments for a non-interactive selection.
type ApplyArgs struct {
	LoadArgs
	Check   []string
	Uncheck []string
	Set     map[string]string
	DryRun  bool
}

// Workflow defines the options step operations behind the CLI.
type Workflow interface {
	Show(ctx context.Context, args ShowArgs) error
	Choose(ctx context.Context, args ChooseArgs) error
	Apply(ctx context.Context, args ApplyArgs) error
}

type workflow struct {
	adapter.DefinitionLoader
	adapter.StorageOpener
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	loader adapter.DefinitionLoader,
	opener adapter.StorageOpener,
	ui controller.UI,
) Workflow {
	return &workflow{
		DefinitionLoader: loader,
		StorageOpener:    opener,
		UI:               ui,
	}
}

func (w *workflow) Show(ctx context.Context, args ShowArgs) error {
	step, err := w.load(ctx, args.LoadArgs)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithShowMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	return w.DisplayTree(ctx, step.Tree(), step.Summary())
}

func (w *workflow) Choose(ctx context.Context, args ChooseArgs) error {
	step, err := w.load(ctx, args.LoadArgs)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithChooseMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	accepted, err := w.UI.Choose(ctx, step.Session())
	if errors.Is(err, controller.ErrInteractiveUnavailable) {
		slog.Info("no terminal, showing the default selection")
		return w.DisplayTree(ctx, step.Tree(), step.Summary())
	}

	if err != nil {
		return fmt.Errorf("choose: %w", err)
	}

	if !accepted {
		return ErrAborted
	}

	if _, err := step.Finalize(); err != nil {
		return err
	}

	return w.DisplayTree(ctx, step.Tree(), step.Summary())
}

func (w *workflow) Apply(ctx context.Context, args ApplyArgs) error {
	step, err := w.load(ctx, args.LoadArgs)
	if err != nil {
		return err
	}

	if err := applyChanges(step.Tree(), args); err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithShowMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	if args.DryRun {
		diff, err := dryRun(step)
		if err != nil {
			return err
		}

		return w.DisplayDiff(ctx, step.cfg.StorageKey, diff)
	}

	if _, err := step.Finalize(); err != nil {
		return err
	}

	return w.DisplayTree(ctx, step.Tree(), step.Summary())
}

func (w *workflow) load(ctx context.Context, args LoadArgs) (*Step, error) {
	if len(args.Definitions) == 0 {
		return nil, ErrNoDefinitions
	}

	storage, err := w.Open(args.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open global storage: %w", err)
	}

	results, err := w.LoadAll(ctx, args.Definitions)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}

	hidden := NewHiddenPredicate(args.HiddenRules, storage)

	tree := selection.NewTree()
	for i, groups := range results {
		if i == 0 {
			tree.Build(groups, hidden)
			continue
		}

		tree.Append(groups, hidden)
	}

	if len(args.Selections) > 0 {
		tree.MarkGroupsSelectedByName(args.Selections)
	}

	slog.Debug("options tree loaded",
		"files", len(args.Definitions),
		"groups", tree.RowCount(nil),
		"ready", tree.Ready(),
	)

	return NewStep(tree, storage, StepConfig{
		StorageKey: args.StorageKey,
		Required:   args.Required,
	}), nil
}

func applyChanges(tree *selection.Tree, args ApplyArgs) error {
	if err := setChecked(tree, args.Check, m.Checked); err != nil {
		return err
	}

	if err := setChecked(tree, args.Uncheck, m.Unchecked); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(args.Set)) {
		n := tree.Find(name)
		if n == nil {
			return fmt.Errorf("%w: %s", ErrUnknownNode, name)
		}

		if !tree.Flags(n, selection.ColumnInput).Has(selection.FlagEditable) {
			return fmt.Errorf("%w: %s", ErrNotEditable, name)
		}

		tree.SetData(n, selection.ColumnInput, args.Set[name], selection.RoleEdit)
	}

	return nil
}

func setChecked(tree *selection.Tree, names []string, state m.CheckState) error {
	for _, name := range names {
		n := tree.Find(name)
		if n == nil {
			return fmt.Errorf("%w: %s", ErrUnknownNode, name)
		}

		if !tree.Flags(n, selection.ColumnName).Has(selection.FlagCheckable) {
			return fmt.Errorf("%w: %s", ErrNotCheckable, name)
		}

		tree.SetData(n, selection.ColumnName, state, selection.RoleCheckState)
	}

	return nil
}

// dryRun records the selection in memory and returns the storage change as
// a unified diff.
func dryRun(step *Step) (string, error) {
	before, err := adapter.MarshalStorage(step.storage.Snapshot())
	if err != nil {
		return "", err
	}

	if _, err := step.Record(); err != nil {
		return "", err
	}

	after, err := adapter.MarshalStorage(step.storage.Snapshot())
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "global storage",
		ToFile:   "global storage (after)",
		Context:  3,
	})
}
