package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

func newOutputCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return cmd, &out
}

func TestSimpleUI_DisplayTree(t *testing.T) {
	cmd, out := newOutputCmd()
	ui := NewSimpleUI(cmd)
	tree := chooserTree(t)
	tree.SetChecked(tree.Find("quiet"), m.Checked)

	require.NoError(t, ui.Start(context.Background(), WithShowMode()))
	err := ui.DisplayTree(context.Background(), tree, Summary{
		Operations:  []string{"quiet"},
		StorageKey:  "options",
		Ready:       true,
		NextEnabled: true,
	})
	require.NoError(t, err)
	ui.Close(context.Background())

	text := out.String()
	assert.Contains(t, text, "NAME")
	assert.Contains(t, text, "INPUT (OPTIONAL)")
	assert.Contains(t, text, "[-]")
	assert.Contains(t, text, "[x]")
	assert.Contains(t, text, "data.img")
	assert.Contains(t, text, "mesa", "collapsed groups are listed in full")
	assert.NotContains(t, text, "Secret")
	assert.Contains(t, text, "options: quiet\n")
	assert.Contains(t, text, "ready: yes, next: enabled\n")

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "core") {
			assert.Contains(t, line, "*", "immutable rows show a plain mark")
			assert.NotContains(t, line, "[")
		}
	}
}

func TestSimpleUI_DisplayDiff(t *testing.T) {
	cmd, out := newOutputCmd()
	ui := NewSimpleUI(cmd)

	require.NoError(t, ui.DisplayDiff(context.Background(), "options", ""))
	assert.Equal(t, "no changes to \"options\"\n", out.String())

	out.Reset()
	require.NoError(t, ui.DisplayDiff(context.Background(), "options", "+options: quiet\n"))
	assert.Equal(t, "+options: quiet\n", out.String())
}

func TestSimpleUI_Choose(t *testing.T) {
	cmd, _ := newOutputCmd()

	accepted, err := NewSimpleUI(cmd).Choose(context.Background(), Session{})
	require.ErrorIs(t, err, ErrInteractiveUnavailable)
	assert.False(t, accepted)
}

func TestSimpleUI_CanceledContext(t *testing.T) {
	cmd, out := newOutputCmd()
	ui := NewSimpleUI(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, ui.Start(ctx), context.Canceled)
	require.ErrorIs(t, ui.DisplayTree(ctx, chooserTree(t), Summary{}), context.Canceled)
	require.ErrorIs(t, ui.DisplayDiff(ctx, "options", "x"), context.Canceled)
	assert.Empty(t, out.String())
}

func TestNewUI(t *testing.T) {
	cmd, _ := newOutputCmd()

	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
	assert.IsType(t, &TUI{}, NewUI(cmd, true))
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestStartConfig(t *testing.T) {
	assert.Equal(t, ModeShow, newStartConfig().mode)
	assert.Equal(t, ModeChoose, newStartConfig(WithChooseMode()).mode)
	assert.Equal(t, ModeShow, newStartConfig(WithChooseMode(), WithShowMode()).mode)

	cmd, _ := newOutputCmd()
	tui := NewTUI(cmd)
	require.NoError(t, tui.Start(context.Background(), WithChooseMode()))
	assert.Equal(t, ModeChoose, tui.mode)
}
