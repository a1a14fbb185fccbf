package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/breakerb0y/aaropa-calamares/internal/adapter"
	"github.com/breakerb0y/aaropa-calamares/internal/controller"
	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
)

// DefaultStorageKey is the storage key the boot configuration jobs read.
const DefaultStorageKey = "options"

// ErrNotReady is returned when a required selection is incomplete.
var ErrNotReady = errors.New("selection is not ready")

// StepConfig configures a Step.
type StepConfig struct {
	// StorageKey is where Finalize stores the operation string.
	StorageKey string
	// Required blocks the step until the tree is ready.
	Required bool
}

// Step is the installer page around one options tree: it gates "next" on
// readiness and hands the selection to the later jobs.
type Step struct {
	tree    *selection.Tree
	storage adapter.GlobalStorage
	cfg     StepConfig

	ready  bool
	onNext func(enabled bool)
}

// NewStep attaches a step to tree. The step owns the tree's readiness
// callback from now on.
func NewStep(tree *selection.Tree, storage adapter.GlobalStorage, cfg StepConfig) *Step {
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}

	s := &Step{tree: tree, storage: storage, cfg: cfg}
	s.ready = tree.Ready()
	tree.SetReadyCallback(s.readyChanged)

	return s
}

// Tree returns the tree of the step.
func (s *Step) Tree() *selection.Tree { return s.tree }

// SetNextCallback registers fn to hear when IsNextEnabled changes.
func (s *Step) SetNextCallback(fn func(enabled bool)) {
	s.onNext = fn
}

func (s *Step) readyChanged(ready bool) {
	before := s.IsNextEnabled()
	s.ready = ready

	if after := s.IsNextEnabled(); after != before && s.onNext != nil {
		s.onNext(after)
	}
}

// IsNextEnabled reports whether the installer may leave the step.
func (s *Step) IsNextEnabled() bool {
	return !s.cfg.Required || s.ready
}

// Operations returns the operation tokens of the current selection.
func (s *Step) Operations() []string {
	return selection.Operations(s.tree.SelectedOptions())
}

// OperationString joins the operations the way the jobs expect them.
func (s *Step) OperationString() string {
	return strings.Join(s.Operations(), " ")
}

// Summary describes the current state for display.
func (s *Step) Summary() controller.Summary {
	return controller.Summary{
		Operations:  s.Operations(),
		StorageKey:  s.cfg.StorageKey,
		Ready:       s.tree.Ready(),
		NextEnabled: s.IsNextEnabled(),
	}
}

// Session exposes the step to an interactive chooser.
func (s *Step) Session() controller.Session {
	return controller.Session{
		Tree:        s.tree,
		NextEnabled: s.IsNextEnabled,
		Summary:     s.Summary,
	}
}

// Record stores the operation string in the storage without saving it and
// returns it.
func (s *Step) Record() (string, error) {
	if !s.IsNextEnabled() {
		return "", ErrNotReady
	}

	ops := s.OperationString()
	s.storage.Insert(s.cfg.StorageKey, ops)

	slog.Debug("recorded options", "key", s.cfg.StorageKey, "options", ops)

	return ops, nil
}

// Finalize records the selection and saves the storage. It is what
// leaving the step does.
func (s *Step) Finalize() (string, error) {
	ops, err := s.Record()
	if err != nil {
		return "", err
	}

	if err := s.storage.Save(); err != nil {
		return "", fmt.Errorf("save global storage: %w", err)
	}

	return ops, nil
}
