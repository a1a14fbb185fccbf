// Package controller renders the options tree and runs the interactive
// chooser.
package controller

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
)

// ErrInteractiveUnavailable is returned by Choose when the UI cannot run
// an interactive session.
var ErrInteractiveUnavailable = errors.New("interactive chooser needs a terminal")

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeShow StartMode = iota
	ModeChoose
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithShowMode sets the UI to print the tree once.
func WithShowMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeShow
	}
}

// WithChooseMode sets the UI to the interactive chooser.
func WithChooseMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeChoose
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	var cfg StartConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// Summary is what the step reports next to the tree.
type Summary struct {
	Operations  []string
	StorageKey  string
	Ready       bool
	NextEnabled bool
}

// Session is the live state the chooser works on.
type Session struct {
	Tree *selection.Tree

	// NextEnabled reports whether the selection may be accepted.
	NextEnabled func() bool

	// Summary returns the current summary.
	Summary func() Summary
}

// UI displays the options tree. Implementations can use different output
// methods (simple text, TUI).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayTree(ctx context.Context, tree *selection.Tree, summary Summary) error
	DisplayDiff(ctx context.Context, name, diff string) error
	// Choose runs an interactive session. It reports whether the user
	// accepted the selection.
	Choose(ctx context.Context, session Session) (bool, error)
}

// NewUI returns the TUI when output is a terminal and the simple UI
// otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
