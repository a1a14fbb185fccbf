package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// TUI implements UI using Bubble Tea for the interactive chooser. Static
// output is printed the same way SimpleUI prints it.
type TUI struct {
	*SimpleUI

	cmd  *cobra.Command
	mode StartMode
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd), cmd: cmd}
}

// Start records the mode the UI runs in.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mode = newStartConfig(options...).mode

	return nil
}

// Choose runs the chooser until the user accepts or quits.
func (t *TUI) Choose(ctx context.Context, session Session) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.cmd.OutOrStdout()),
	}
	if t.mode == ModeChoose {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(newChooserModel(session), opts...).Run()
	if err != nil {
		return false, err
	}

	result, ok := final.(chooserModel)

	return ok && result.accepted, nil
}

type chooserMode int

const (
	modeBrowse chooserMode = iota
	modeEdit
	modeSearch
)

// reservedLines is the room taken by the title, summary and help.
const reservedLines = 7

type chooserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Edit     key.Binding
	Search   key.Binding
	Accept   key.Binding
	Quit     key.Binding
	Cancel   key.Binding
}

func defaultChooserKeys() chooserKeyMap {
	return chooserKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "collapse")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit input")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Accept:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

func (k chooserKeyMap) help() string {
	bindings := []key.Binding{k.Up, k.Down, k.Toggle, k.Expand, k.Collapse, k.Edit, k.Search, k.Accept, k.Quit}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}

	return strings.Join(parts, " • ")
}

// chooserModel is the Bubble Tea model of the options chooser.
type chooserModel struct {
	session  Session
	keys     chooserKeyMap
	expanded map[*selection.Node]bool

	rows   []visibleRow
	cursor int
	offset int
	height int
	width  int

	mode    chooserMode
	input   textinput.Model
	search  textinput.Model
	editing *selection.Node

	message  string
	accepted bool
	quitting bool
}

func newChooserModel(session Session) chooserModel {
	input := textinput.New()
	input.Prompt = "input: "
	input.Placeholder = selection.InputPlaceholder

	search := textinput.New()
	search.Prompt = "/"

	cm := chooserModel{
		session:  session,
		keys:     defaultChooserKeys(),
		expanded: map[*selection.Node]bool{},
		input:    input,
		search:   search,
	}

	tree := session.Tree
	tree.Walk(func(n *selection.Node, _ int) bool {
		if value, ok := tree.Data(n, selection.ColumnName, selection.RoleExpand); ok {
			if expand, _ := value.(bool); expand {
				cm.expanded[n] = true
			}
		}

		return true
	})

	cm.refresh()

	return cm
}

func (cm chooserModel) Init() tea.Cmd {
	return nil
}

func (cm chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cm.height = msg.Height
		cm.width = msg.Width
		cm.scroll()

		return cm, nil

	case tea.KeyMsg:
		switch cm.mode {
		case modeEdit:
			return cm.handleEditKey(msg)
		case modeSearch:
			return cm.handleSearchKey(msg)
		default:
			return cm.handleKeyPress(msg)
		}
	}

	return cm, nil
}

//nolint:cyclop // Key handling requires multiple cases for UI navigation
func (cm chooserModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cm.message = ""

	switch {
	case key.Matches(msg, cm.keys.Quit):
		cm.quitting = true
		return cm, tea.Quit

	case key.Matches(msg, cm.keys.Up):
		cm.move(-1)

	case key.Matches(msg, cm.keys.Down):
		cm.move(1)

	case key.Matches(msg, cm.keys.Toggle):
		cm.toggle()

	case key.Matches(msg, cm.keys.Expand):
		if n := cm.current(); n != nil && n.ChildCount() > 0 {
			cm.expanded[n] = true
			cm.refresh()
		}

	case key.Matches(msg, cm.keys.Collapse):
		cm.collapse()

	case key.Matches(msg, cm.keys.Edit):
		return cm.startEdit()

	case key.Matches(msg, cm.keys.Search):
		cm.mode = modeSearch
		cm.search.SetValue("")

		return cm, cm.search.Focus()

	case key.Matches(msg, cm.keys.Accept):
		if cm.session.NextEnabled != nil && !cm.session.NextEnabled() {
			cm.message = "the selection is not complete yet"
			return cm, nil
		}

		cm.accepted = true
		cm.quitting = true

		return cm, tea.Quit
	}

	return cm, nil
}

func (cm chooserModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, cm.keys.Cancel):
		cm.stopEdit()
		return cm, nil

	case key.Matches(msg, cm.keys.Accept):
		if cm.editing != nil {
			cm.session.Tree.SetData(cm.editing, selection.ColumnInput, cm.input.Value(), selection.RoleEdit)
		}

		cm.stopEdit()

		return cm, nil
	}

	var cmd tea.Cmd
	cm.input, cmd = cm.input.Update(msg)

	return cm, cmd
}

func (cm chooserModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, cm.keys.Cancel), key.Matches(msg, cm.keys.Accept):
		cm.mode = modeBrowse
		cm.search.Blur()

		return cm, nil
	}

	var cmd tea.Cmd
	cm.search, cmd = cm.search.Update(msg)
	cm.jumpTo(cm.search.Value())

	return cm, cmd
}

func (cm chooserModel) startEdit() (tea.Model, tea.Cmd) {
	n := cm.current()
	if n == nil || !cm.session.Tree.Flags(n, selection.ColumnInput).Has(selection.FlagEditable) {
		cm.message = "this entry takes no input"
		return cm, nil
	}

	value, _ := cm.session.Tree.Data(n, selection.ColumnInput, selection.RoleEdit)
	text, _ := value.(string)

	cm.mode = modeEdit
	cm.editing = n
	cm.input.SetValue(text)
	cm.input.CursorEnd()

	return cm, cm.input.Focus()
}

func (cm *chooserModel) stopEdit() {
	cm.mode = modeBrowse
	cm.editing = nil
	cm.input.Blur()
}

func (cm *chooserModel) toggle() {
	n := cm.current()
	if n == nil {
		return
	}

	tree := cm.session.Tree
	if !tree.Flags(n, selection.ColumnName).Has(selection.FlagCheckable) {
		cm.message = fmt.Sprintf("%s cannot be changed", n.Name())
		return
	}

	next := m.Checked
	if n.State() != m.Unchecked {
		next = m.Unchecked
	}

	tree.SetData(n, selection.ColumnName, next, selection.RoleCheckState)
}

func (cm *chooserModel) collapse() {
	n := cm.current()
	if n == nil {
		return
	}

	if cm.expanded[n] && n.ChildCount() > 0 {
		cm.expanded[n] = false
		cm.refresh()

		return
	}

	if parent := n.Parent(); parent != nil && !parent.IsRoot() {
		cm.selectNode(parent)
	}
}

func (cm *chooserModel) move(delta int) {
	cm.cursor += delta
	if cm.cursor < 0 {
		cm.cursor = 0
	}

	if cm.cursor >= len(cm.rows) {
		cm.cursor = len(cm.rows) - 1
	}

	cm.scroll()
}

// jumpTo moves the cursor to the best fuzzy match of query among all
// visible nodes, expanding its ancestors.
func (cm *chooserModel) jumpTo(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	var nodes []*selection.Node
	var searchStrings []string

	cm.session.Tree.Walk(func(n *selection.Node, _ int) bool {
		if n.IsHidden() {
			return false
		}

		nodes = append(nodes, n)
		searchStrings = append(searchStrings, n.Name()+" "+n.Description())

		return true
	})

	matches := fuzzy.Find(query, searchStrings)
	if len(matches) == 0 {
		return
	}

	target := nodes[matches[0].Index]
	for p := target.Parent(); p != nil && !p.IsRoot(); p = p.Parent() {
		cm.expanded[p] = true
	}

	cm.refresh()
	cm.selectNode(target)
}

func (cm *chooserModel) selectNode(target *selection.Node) {
	for i, row := range cm.rows {
		if row.node == target {
			cm.cursor = i
			cm.scroll()

			return
		}
	}
}

func (cm chooserModel) current() *selection.Node {
	if cm.cursor < 0 || cm.cursor >= len(cm.rows) {
		return nil
	}

	return cm.rows[cm.cursor].node
}

// refresh rebuilds the rows after an expand or collapse.
func (cm *chooserModel) refresh() {
	var rows []visibleRow

	cm.session.Tree.Walk(func(n *selection.Node, depth int) bool {
		if n.IsHidden() {
			return false
		}

		rows = append(rows, visibleRow{node: n, depth: depth})

		return cm.expanded[n]
	})

	cm.rows = rows
	if cm.cursor >= len(rows) {
		cm.cursor = max(len(rows)-1, 0)
	}

	cm.scroll()
}

func (cm chooserModel) listHeight() int {
	if cm.height <= reservedLines {
		return len(cm.rows)
	}

	return cm.height - reservedLines
}

func (cm *chooserModel) scroll() {
	h := cm.listHeight()
	if h <= 0 {
		cm.offset = 0
		return
	}

	if cm.cursor < cm.offset {
		cm.offset = cm.cursor
	}

	if cm.cursor >= cm.offset+h {
		cm.offset = cm.cursor - h + 1
	}
}

func (cm chooserModel) View() string {
	if cm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Boot options"))
	b.WriteString("\n")

	end := min(cm.offset+cm.listHeight(), len(cm.rows))
	for i := cm.offset; i < end; i++ {
		b.WriteString(cm.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	cm.renderFooter(&b)

	return b.String()
}

func (cm chooserModel) renderRow(i int) string {
	row := cm.rows[i]
	n := row.node
	tree := cm.session.Tree

	marker := " "
	if n.ChildCount() > 0 {
		marker = "▸"
		if cm.expanded[n] {
			marker = "▾"
		}
	}

	name := optionStyle.Render(cell(tree, n, selection.ColumnName))
	if n.IsGroup() {
		name = groupStyle.Render(cell(tree, n, selection.ColumnName))
	}

	line := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", row.depth), marker, renderCheck(tree, n), name)

	if desc := cell(tree, n, selection.ColumnDescription); desc != "" && desc != n.Name() {
		line += "  " + descriptionStyle.Render(desc)
	}

	if n.IsEditable() {
		line += "  " + inputStyle.Render("["+n.Input()+"]")
	}

	if i == cm.cursor {
		return cursorStyle.Render(line)
	}

	return line
}

func renderCheck(tree *selection.Tree, n *selection.Node) string {
	mark := checkMark(tree, n)

	if _, ok := tree.Data(n, selection.ColumnName, selection.RoleCheckState); !ok {
		return lockedStyle.Render("[" + mark + "]")
	}

	switch n.State() {
	case m.Checked:
		return checkedStyle.Render(mark)
	case m.PartiallyChecked:
		return partialStyle.Render(mark)
	default:
		return uncheckedStyle.Render(mark)
	}
}

func (cm chooserModel) renderFooter(b *strings.Builder) {
	switch cm.mode {
	case modeEdit:
		b.WriteString(cm.input.View())
		b.WriteString("\n")
	case modeSearch:
		b.WriteString(cm.search.View())
		b.WriteString("\n")
	case modeBrowse:
	}

	if cm.session.Summary != nil {
		summary := cm.session.Summary()

		status := notReadyStyle.Render("not ready")
		if summary.NextEnabled {
			status = readyStyle.Render("ready")
		}

		fmt.Fprintf(b, "%s  %s\n", status, strings.Join(summary.Operations, " "))
	}

	if cm.message != "" {
		b.WriteString(messageStyle.Render(cm.message))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(cm.keys.help()))
}
