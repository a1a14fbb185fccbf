package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayTree prints the visible nodes as a table followed by the summary.
func (s *SimpleUI) DisplayTree(ctx context.Context, tree *selection.Tree, summary Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderTreeTable(tree))
	s.printf("%s", renderSummary(summary))

	return nil
}

// DisplayDiff prints a unified diff of the storage.
func (s *SimpleUI) DisplayDiff(ctx context.Context, name, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.printf("no changes to %q\n", name)
		return nil
	}

	s.printf("%s", diff)

	return nil
}

// Choose is not available without a terminal.
func (s *SimpleUI) Choose(ctx context.Context, _ Session) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return false, ErrInteractiveUnavailable
}

func renderTreeTable(tree *selection.Tree) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{
		"",
		selection.HeaderData(selection.ColumnName),
		selection.HeaderData(selection.ColumnDescription),
		selection.HeaderData(selection.ColumnInput),
	})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, row := range visibleRows(tree) {
		table.Append([]string{
			checkMark(tree, row.node),
			strings.Repeat("  ", row.depth) + cell(tree, row.node, selection.ColumnName),
			cell(tree, row.node, selection.ColumnDescription),
			cell(tree, row.node, selection.ColumnInput),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func renderSummary(summary Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s\n", summary.StorageKey, strings.Join(summary.Operations, " "))
	fmt.Fprintf(&b, "ready: %s, next: %s\n", yesNo(summary.Ready), enabledLabel(summary.NextEnabled))

	return b.String()
}

type visibleRow struct {
	node  *selection.Node
	depth int
}

// visibleRows lists the nodes a user can see, in display order. Hidden
// nodes take their subtree with them.
func visibleRows(tree *selection.Tree) []visibleRow {
	var rows []visibleRow

	tree.Walk(func(n *selection.Node, depth int) bool {
		if n.IsHidden() {
			return false
		}

		rows = append(rows, visibleRow{node: n, depth: depth})

		return true
	})

	return rows
}

func cell(tree *selection.Tree, n *selection.Node, column selection.Column) string {
	value, ok := tree.Data(n, column, selection.RoleDisplay)
	if !ok {
		return ""
	}

	text, _ := value.(string)

	return text
}

func checkMark(tree *selection.Tree, n *selection.Node) string {
	value, ok := tree.Data(n, selection.ColumnName, selection.RoleCheckState)
	if !ok {
		// Immutable nodes show their state without a box.
		return lockedMark(n.State())
	}

	state, _ := value.(m.CheckState)

	switch state {
	case m.Checked:
		return "[x]"
	case m.PartiallyChecked:
		return "[-]"
	default:
		return "[ ]"
	}
}

func lockedMark(state m.CheckState) string {
	if state == m.Unchecked {
		return " "
	}

	return "*"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func enabledLabel(b bool) string {
	if b {
		return "enabled"
	}

	return "disabled"
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
