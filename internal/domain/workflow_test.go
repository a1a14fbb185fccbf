package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/breakerb0y/aaropa-calamares/internal/adapter"
	adaptermocks "github.com/breakerb0y/aaropa-calamares/internal/adapter/mocks"
	"github.com/breakerb0y/aaropa-calamares/internal/controller"
	controllermocks "github.com/breakerb0y/aaropa-calamares/internal/controller/mocks"
	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

var kernelPaths = []m.Path{"kernel.yaml"}

type workflowFixture struct {
	loader  *adaptermocks.MockDefinitionLoader
	ui      *controllermocks.MockUI
	storage *adapter.MemoryGlobalStorage
	wf      Workflow
}

func newWorkflowFixture(t *testing.T, seed map[string]any) *workflowFixture {
	t.Helper()

	f := &workflowFixture{
		loader:  adaptermocks.NewMockDefinitionLoader(t),
		ui:      controllermocks.NewMockUI(t),
		storage: adapter.NewMemoryGlobalStorage(seed),
	}

	opener := adapter.StorageOpenerFunc(func(m.Path) (adapter.GlobalStorage, error) {
		return f.storage, nil
	})
	f.wf = NewWorkflow(f.loader, opener, f.ui)

	return f
}

func (f *workflowFixture) expectDefinitions(results ...[]m.GroupDefinition) {
	f.loader.On("LoadAll", mock.Anything, definitionPaths(len(results))).Return(results, nil).Once()
}

func definitionPaths(n int) []m.Path {
	paths := make([]m.Path, n)
	for i := range paths {
		paths[i] = m.Path(filepath.Join("defs", string(rune('a'+i))+".yaml"))
	}

	return paths
}

func (f *workflowFixture) expectSession() {
	f.ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.On("Close", mock.Anything).Once()
}

// expectDisplay captures the tree and summary handed to the UI.
func (f *workflowFixture) expectDisplay(tree **selection.Tree, summary *controller.Summary) {
	f.ui.On("DisplayTree", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*tree = args.Get(1).(*selection.Tree)
			*summary = args.Get(2).(controller.Summary)
		}).
		Return(nil).Once()
}

func TestWorkflow_Show(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.expectDefinitions(kernelGroups())
	f.expectSession()

	var (
		tree    *selection.Tree
		summary controller.Summary
	)
	f.expectDisplay(&tree, &summary)

	err := f.wf.Show(context.Background(), ShowArgs{LoadArgs{
		Definitions: definitionPaths(1),
		Required:    true,
	}})
	require.NoError(t, err)

	require.NotNil(t, tree)
	assert.Equal(t, 2, tree.RowCount(nil))
	assert.Equal(t, controller.Summary{
		Operations:  []string{},
		StorageKey:  DefaultStorageKey,
		Ready:       false,
		NextEnabled: false,
	}, summary)

	_, stored := f.storage.Value(DefaultStorageKey)
	assert.False(t, stored, "show never writes the storage")
}

func TestWorkflow_ShowSelections(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	f.expectDefinitions(kernelGroups())
	f.expectSession()

	var (
		tree    *selection.Tree
		summary controller.Summary
	)
	f.expectDisplay(&tree, &summary)

	err := f.wf.Show(context.Background(), ShowArgs{LoadArgs{
		Definitions: definitionPaths(1),
		Selections:  []string{"Kernel"},
		StorageKey:  "bootargs",
		Required:    true,
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"quiet", "DATA=data.img"}, summary.Operations)
	assert.Equal(t, "bootargs", summary.StorageKey)
	assert.True(t, summary.Ready)
	assert.True(t, summary.NextEnabled)
}

func TestWorkflow_ShowHiddenRules(t *testing.T) {
	f := newWorkflowFixture(t, map[string]any{"partitions": "/dev/sda2:/data"})
	f.expectDefinitions(kernelGroups())
	f.expectSession()

	var (
		tree    *selection.Tree
		summary controller.Summary
	)
	f.expectDisplay(&tree, &summary)

	err := f.wf.Show(context.Background(), ShowArgs{LoadArgs{
		Definitions: definitionPaths(1),
		HiddenRules: DefaultHiddenRules(),
	}})
	require.NoError(t, err)

	assert.True(t, tree.Find("data").IsHidden())
	assert.False(t, tree.Find("quiet").IsHidden())
}

func TestWorkflow_ShowAppendsLaterFiles(t *testing.T) {
	first := append(kernelGroups(), m.GroupDefinition{
		Name:    "Old drivers",
		Source:  "drivers",
		Options: []m.OptionDefinition{{Name: "legacy", Description: "legacy"}},
	})
	second := []m.GroupDefinition{{
		Name:    "Drivers",
		Source:  "drivers",
		Options: []m.OptionDefinition{{Name: "modern", Description: "modern"}},
	}}

	f := newWorkflowFixture(t, nil)
	f.expectDefinitions(first, second)
	f.expectSession()

	var (
		tree    *selection.Tree
		summary controller.Summary
	)
	f.expectDisplay(&tree, &summary)

	err := f.wf.Show(context.Background(), ShowArgs{LoadArgs{Definitions: definitionPaths(2)}})
	require.NoError(t, err)

	var names []string
	for _, n := range tree.Root().Children() {
		names = append(names, n.Name())
	}

	assert.Equal(t, []string{"Kernel", "Base", "Drivers"}, names)
}

func TestWorkflow_LoadErrors(t *testing.T) {
	t.Run("no definitions", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)

		err := f.wf.Show(context.Background(), ShowArgs{})
		require.ErrorIs(t, err, ErrNoDefinitions)
	})

	t.Run("loader fails", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.loader.On("LoadAll", mock.Anything, kernelPaths).
			Return(nil, adapter.ErrInvalidDefinitions).Once()

		err := f.wf.Choose(context.Background(), ChooseArgs{LoadArgs{Definitions: kernelPaths}})
		require.ErrorIs(t, err, adapter.ErrInvalidDefinitions)
	})

	t.Run("storage fails", func(t *testing.T) {
		openErr := errors.New("permission denied")
		opener := adapter.StorageOpenerFunc(func(m.Path) (adapter.GlobalStorage, error) {
			return nil, openErr
		})

		wf := NewWorkflow(adaptermocks.NewMockDefinitionLoader(t), opener, controllermocks.NewMockUI(t))

		err := wf.Apply(context.Background(), ApplyArgs{LoadArgs: LoadArgs{Definitions: kernelPaths}})
		require.ErrorIs(t, err, openErr)
	})
}

func TestWorkflow_Choose(t *testing.T) {
	t.Run("accepted selection is stored", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.expectDefinitions(kernelGroups())
		f.expectSession()

		f.ui.On("Choose", mock.Anything, mock.Anything).
			Return(func(_ context.Context, s controller.Session) bool {
				s.Tree.SetChecked(s.Tree.Find("quiet"), m.Checked)
				return s.NextEnabled()
			}, nil).Once()

		var (
			tree    *selection.Tree
			summary controller.Summary
		)
		f.expectDisplay(&tree, &summary)

		err := f.wf.Choose(context.Background(), ChooseArgs{LoadArgs{
			Definitions: definitionPaths(1),
			Required:    true,
		}})
		require.NoError(t, err)

		value, ok := f.storage.Value(DefaultStorageKey)
		require.True(t, ok)
		assert.Equal(t, "quiet", value)
		assert.Equal(t, []string{"quiet"}, summary.Operations)
	})

	t.Run("quitting aborts", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.expectDefinitions(kernelGroups())
		f.expectSession()
		f.ui.On("Choose", mock.Anything, mock.Anything).Return(false, nil).Once()

		err := f.wf.Choose(context.Background(), ChooseArgs{LoadArgs{Definitions: definitionPaths(1)}})
		require.ErrorIs(t, err, ErrAborted)

		_, stored := f.storage.Value(DefaultStorageKey)
		assert.False(t, stored)
	})

	t.Run("without a terminal the defaults are shown", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.expectDefinitions(kernelGroups())
		f.expectSession()
		f.ui.On("Choose", mock.Anything, mock.Anything).
			Return(false, controller.ErrInteractiveUnavailable).Once()

		var (
			tree    *selection.Tree
			summary controller.Summary
		)
		f.expectDisplay(&tree, &summary)

		err := f.wf.Choose(context.Background(), ChooseArgs{LoadArgs{Definitions: definitionPaths(1)}})
		require.NoError(t, err)

		_, stored := f.storage.Value(DefaultStorageKey)
		assert.False(t, stored)
	})

	t.Run("accepting an incomplete required selection", func(t *testing.T) {
		f := newWorkflowFixture(t, nil)
		f.expectDefinitions(kernelGroups())
		f.expectSession()
		f.ui.On("Choose", mock.Anything, mock.Anything).Return(true, nil).Once()

		err := f.wf.Choose(context.Background(), ChooseArgs{LoadArgs{
			Definitions: definitionPaths(1),
			Required:    true,
		}})
		require.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("ui fails", func(t *testing.T) {
		uiErr := errors.New("tty closed")

		f := newWorkflowFixture(t, nil)
		f.expectDefinitions(kernelGroups())
		f.expectSession()
		f.ui.On("Choose", mock.Anything, mock.Anything).Return(false, uiErr).Once()

		err := f.wf.Choose(context.Background(), ChooseArgs{LoadArgs{Definitions: definitionPaths(1)}})
		require.ErrorIs(t, err, uiErr)
	})
}

func TestWorkflow_Apply(t *testing.T) {
	f := newWorkflowFixture(t, map[string]any{"partitions": "/"})
	f.expectDefinitions(kernelGroups())
	f.expectSession()

	var (
		tree    *selection.Tree
		summary controller.Summary
	)
	f.expectDisplay(&tree, &summary)

	err := f.wf.Apply(context.Background(), ApplyArgs{
		LoadArgs: LoadArgs{Definitions: definitionPaths(1), Required: true},
		Check:    []string{"kernel"},
		Uncheck:  []string{"quiet"},
		Set:      map[string]string{"data": "big.img"},
	})
	require.NoError(t, err)

	assert.Equal(t, m.PartiallyChecked, tree.Find("Kernel").State())
	assert.Equal(t, []string{"DATA=big.img"}, summary.Operations)

	value, ok := f.storage.Value(DefaultStorageKey)
	require.True(t, ok)
	assert.Equal(t, "DATA=big.img", value)

	partitions, _ := f.storage.Value("partitions")
	assert.Equal(t, "/", partitions)
}

func TestWorkflow_ApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		args ApplyArgs
		want error
	}{
		{
			name: "unknown check",
			args: ApplyArgs{Check: []string{"nope"}},
			want: ErrUnknownNode,
		},
		{
			name: "unknown uncheck",
			args: ApplyArgs{Uncheck: []string{"nope"}},
			want: ErrUnknownNode,
		},
		{
			name: "immutable option",
			args: ApplyArgs{Check: []string{"core"}},
			want: ErrNotCheckable,
		},
		{
			name: "unknown input",
			args: ApplyArgs{Set: map[string]string{"nope": "x"}},
			want: ErrUnknownNode,
		},
		{
			name: "input on plain option",
			args: ApplyArgs{Set: map[string]string{"quiet": "x"}},
			want: ErrNotEditable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkflowFixture(t, nil)
			f.expectDefinitions(kernelGroups())

			tt.args.Definitions = definitionPaths(1)

			err := f.wf.Apply(context.Background(), tt.args)
			require.ErrorIs(t, err, tt.want)

			_, stored := f.storage.Value(DefaultStorageKey)
			assert.False(t, stored)
		})
	}
}

func TestWorkflow_ApplyDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")
	require.NoError(t, os.WriteFile(path, []byte("partitions: /\n"), 0o600))

	loader := adaptermocks.NewMockDefinitionLoader(t)
	loader.On("LoadAll", mock.Anything, kernelPaths).
		Return([][]m.GroupDefinition{kernelGroups()}, nil).Once()

	ui := controllermocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("Close", mock.Anything).Once()

	var diff string
	ui.On("DisplayDiff", mock.Anything, DefaultStorageKey, mock.Anything).
		Run(func(args mock.Arguments) { diff = args.String(2) }).
		Return(nil).Once()

	wf := NewWorkflow(loader, adapter.StorageOpenerFunc(adapter.OpenGlobalStorage), ui)

	err := wf.Apply(context.Background(), ApplyArgs{
		LoadArgs: LoadArgs{Definitions: kernelPaths, StoragePath: m.Path(path)},
		Check:    []string{"quiet"},
		DryRun:   true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(diff, "--- global storage\n+++ global storage (after)\n"), diff)
	assert.Contains(t, diff, "+options: quiet\n")
	assert.Contains(t, diff, " partitions: /\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "partitions: /\n", string(data), "dry run leaves the file alone")
}
