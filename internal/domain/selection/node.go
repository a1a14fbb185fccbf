// Package selection implements the tri-state options tree: groups and
// options with bidirectional check-state propagation, radio-style distinct
// groups, hidden nodes and source-tagged subtrees.
//
// The tree is not safe for concurrent use. Callers (the chooser event loop,
// the CLI) serialize every call.
package selection

import (
	"log/slog"
	"strings"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// Kind distinguishes the root, groups and options.
type Kind int

const (
	// KindRoot is the invisible top of the tree. It is a group that is
	// always checked.
	KindRoot Kind = iota
	// KindGroup is a container that aggregates the state of its children.
	KindGroup
	// KindOption is a leaf choice.
	KindOption
)

const (
	rootName = "<root>"

	// InputPlaceholder is the input of an editable option without a default.
	InputPlaceholder = "Value..."
)

// groupFields holds what only groups (and the root) carry.
type groupFields struct {
	preScript     string
	postScript    string
	source        string
	distinct      bool
	noncheckable  bool
	expandOnStart bool
	required      bool
}

// optionFields holds what only options carry.
type optionFields struct {
	editable bool
	input    string
}

// Node is one group or option of the tree. A node owns its children; the
// parent link is a back reference only.
type Node struct {
	kind        Kind
	name        string
	optionName  string
	description string
	hidden      bool
	immutable   bool
	state       m.CheckState

	parent   *Node
	children []*Node

	group  *groupFields
	option *optionFields
}

// HiddenPredicate decides, from the surrounding installer state, whether a
// node with the given description is hidden. It is consulted once per node
// while the tree is being built.
type HiddenPredicate func(description string) bool

// NoHidden is a HiddenPredicate that never hides anything.
func NoHidden(string) bool { return false }

func newRoot() *Node {
	return &Node{
		kind:  KindRoot,
		name:  rootName,
		state: m.Checked,
		group: &groupFields{},
	}
}

// parentCheckState seeds the state of a new child: a child of an unchecked
// or distinct parent starts unchecked, otherwise it starts checked. The
// root counts as no parent: its permanent check carries no choice.
func parentCheckState(parent *Node) m.CheckState {
	if parent == nil || parent.IsRoot() {
		return m.Unchecked
	}

	if parent.IsDistinct() || parent.state == m.Unchecked {
		return m.Unchecked
	}

	return m.Checked
}

func parentImmutable(parent *Node) bool {
	return parent != nil && parent.immutable
}

func newBareOption(name string, parent *Node) *Node {
	return &Node{
		kind:        KindOption,
		name:        name,
		optionName:  name,
		description: name,
		immutable:   parentImmutable(parent),
		state:       parentCheckState(parent),
		parent:      parent,
		option:      &optionFields{},
	}
}

func newOption(def m.OptionDefinition, parent *Node, hidden HiddenPredicate) *Node {
	n := &Node{
		kind:        KindOption,
		name:        def.Name,
		optionName:  def.Name,
		description: def.Description,
		immutable:   parentImmutable(parent),
		state:       parentCheckState(parent),
		parent:      parent,
		option:      &optionFields{editable: def.Editable},
	}
	n.hidden = isHiddenException(n.description, hidden) || def.Hidden

	if def.Selected {
		n.state = m.Checked
	}

	if def.Editable {
		n.option.input = InputPlaceholder
		if def.Default != nil {
			n.option.input = *def.Default
		}
	}

	return n
}

// newGroup creates a detached group starting in seed. It is attached with
// adopt once its subtree is complete, so building it never disturbs the
// aggregate state of the half-built parent.
func newGroup(def m.GroupDefinition, seed m.CheckState, hidden HiddenPredicate) *Node {
	n := &Node{
		kind:        KindGroup,
		name:        def.Name,
		optionName:  def.Name,
		description: def.Description,
		immutable:   def.Immutable,
		state:       seed,
		group: &groupFields{
			preScript:     def.PreScript,
			postScript:    def.PostScript,
			source:        def.Source,
			distinct:      def.Distinct,
			noncheckable:  def.Noncheckable,
			expandOnStart: def.Expanded,
			required:      def.Required,
		},
	}
	n.hidden = isHiddenException(n.description, hidden) || def.Hidden

	return n
}

func isHiddenException(description string, hidden HiddenPredicate) bool {
	if hidden == nil {
		return false
	}

	return hidden(description)
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// IsRoot reports whether n is the root of its tree.
func (n *Node) IsRoot() bool { return n.kind == KindRoot }

// IsGroup reports whether n is a group. The root is a group.
func (n *Node) IsGroup() bool { return n.kind != KindOption }

// IsOption reports whether n is a single option.
func (n *Node) IsOption() bool { return n.kind == KindOption }

// Name returns the identifier of a group.
func (n *Node) Name() string { return n.name }

// OptionName returns the identifier of an option.
func (n *Node) OptionName() string { return n.optionName }

// Description returns the human readable description.
func (n *Node) Description() string { return n.description }

// State returns the current check state.
func (n *Node) State() m.CheckState { return n.state }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at row, or nil when row is out of range.
func (n *Node) Child(row int) *Node {
	if row < 0 || row >= len(n.children) {
		return nil
	}

	return n.children[row]
}

// Row returns the position of n among its siblings; the root is row 0.
func (n *Node) Row() int {
	if n.parent == nil {
		return 0
	}

	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}

	return -1
}

// IsHidden reports whether the node is hidden from the user.
func (n *Node) IsHidden() bool { return n.hidden }

// IsImmutable reports whether the user may not toggle this node. Options
// inherit it from their group.
func (n *Node) IsImmutable() bool { return n.immutable }

// IsDistinct reports whether the group is a radio selector.
func (n *Node) IsDistinct() bool { return n.group != nil && n.group.distinct }

// IsNoncheckable reports whether the group itself cannot be toggled. This
// does not affect its subgroups or options.
func (n *Node) IsNoncheckable() bool { return n.group != nil && n.group.noncheckable }

// ExpandOnStart reports whether the view should show the group expanded.
func (n *Node) ExpandOnStart() bool { return n.group != nil && n.group.expandOnStart }

// IsRequired reports whether the group must be (partially) selected before
// the step may proceed.
func (n *Node) IsRequired() bool { return n.group != nil && n.group.required }

// PreScript returns the pre-install script of a group.
func (n *Node) PreScript() string {
	if n.group == nil {
		return ""
	}

	return n.group.preScript
}

// PostScript returns the post-install script of a group.
func (n *Node) PostScript() string {
	if n.group == nil {
		return ""
	}

	return n.group.postScript
}

// Source returns the origin tag of a group.
func (n *Node) Source() string {
	if n.group == nil {
		return ""
	}

	return n.group.source
}

// IsEditable reports whether the option takes free-text input.
func (n *Node) IsEditable() bool { return n.option != nil && n.option.editable }

// Input returns the free-text input of an editable option.
func (n *Node) Input() string {
	if n.option == nil {
		return ""
	}

	return n.option.input
}

// SetInput replaces the input of an editable option. It reports whether the
// node accepted the text.
func (n *Node) SetInput(input string) bool {
	if !n.IsEditable() {
		return false
	}

	n.option.input = input

	return true
}

// Operation is the token handed to the jobs that act on the selection: the
// description followed by the input. Groups have no operation.
func (n *Node) Operation() string {
	if n.option == nil {
		return ""
	}

	return n.description + n.option.input
}

// SetSelected changes the state of n and propagates it: down into the
// subtree (or across the siblings of a distinct parent), then up through
// every ancestor's aggregate. The root ignores it.
func (n *Node) SetSelected(state m.CheckState) {
	if n.IsRoot() {
		return
	}

	n.applyLocal(state)
	n.bubble()
}

// Recompute derives the state of a group from its direct children and
// applies it as SetSelected would.
func (n *Node) Recompute() {
	n.SetSelected(n.aggregate())
}

// applyLocal records state on n and pushes it downward. Options have no
// partial state: a partial check selects them.
func (n *Node) applyLocal(state m.CheckState) {
	if n.IsOption() && state == m.PartiallyChecked {
		state = m.Checked
	}

	n.state = state

	if p := n.parent; p != nil && p.IsDistinct() && state == m.Checked {
		p.selectChildren(n.optionName)
		return
	}

	n.setChildrenSelected(state)
}

// bubble re-aggregates every ancestor of n, nearest first. Ancestors without
// children are skipped; the root ends the walk.
func (n *Node) bubble() {
	for cur := n.populatedAncestor(); cur != nil && !cur.IsRoot(); cur = cur.populatedAncestor() {
		cur.applyLocal(cur.aggregate())
	}
}

func (n *Node) populatedAncestor() *Node {
	cur := n.parent
	for cur != nil && len(cur.children) == 0 {
		cur = cur.parent
	}

	return cur
}

func (n *Node) aggregate() m.CheckState {
	checked, partial := 0, 0

	for _, c := range n.children {
		switch c.state {
		case m.Checked:
			checked++
		case m.PartiallyChecked:
			partial++
		case m.Unchecked:
		}
	}

	switch {
	case checked == 0 && partial == 0:
		return m.Unchecked
	case n.IsDistinct() || checked == len(n.children):
		return m.Checked
	default:
		return m.PartiallyChecked
	}
}

// setChildrenSelected cascades a binary state into the subtree. Children
// are never the root, so states are assigned directly.
func (n *Node) setChildrenSelected(state m.CheckState) {
	if state == m.PartiallyChecked {
		return
	}

	if n.IsDistinct() && state == m.Checked {
		if len(n.children) == 0 {
			return
		}

		// A partially checked child already is the choice of the group.
		for _, c := range n.children {
			if c.state != m.Unchecked {
				return
			}
		}

		first := n.children[0]
		first.state = m.Checked
		first.setChildrenSelected(m.Checked)

		return
	}

	for _, c := range n.children {
		c.state = state
		c.setChildrenSelected(state)
	}
}

// selectChildren checks the child named optionName (case-insensitively) of
// a distinct group and unchecks all the others.
func (n *Node) selectChildren(optionName string) {
	if !n.IsDistinct() {
		return
	}

	n.state = m.Checked

	for _, c := range n.children {
		if strings.EqualFold(c.optionName, optionName) {
			c.state = m.Checked
			c.setChildrenSelected(m.Checked)
		} else {
			c.state = m.Unchecked
			c.setChildrenSelected(m.Unchecked)
		}
	}
}

// HiddenSelected reports the selectedness the user can see. A hidden node
// that is selected defers to its nearest visible ancestor.
func (n *Node) HiddenSelected() bool {
	if !n.hidden {
		return n.state != m.Unchecked
	}

	if n.state == m.Unchecked {
		return false
	}

	for cur := n.parent; cur != nil; cur = cur.parent {
		if !cur.hidden {
			return cur.state != m.Unchecked
		}
	}

	return n.state != m.Unchecked
}

// Equal compares the descriptive fields of two nodes. Parent, children and
// the run-time state are ignored.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.IsGroup() != other.IsGroup() {
		return false
	}

	if n.IsOption() {
		return n.optionName == other.optionName
	}

	return n.name == other.name &&
		n.description == other.description &&
		n.PreScript() == other.PreScript() &&
		n.PostScript() == other.PostScript() &&
		n.immutable == other.immutable &&
		n.ExpandOnStart() == other.ExpandOnStart()
}

func (n *Node) appendChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// adopt attaches a finished subtree. A checked child of a distinct group
// takes over the selection from its earlier siblings.
func (n *Node) adopt(child *Node) {
	n.appendChild(child)

	if n.IsDistinct() && child.state == m.Checked {
		n.selectChildren(child.optionName)
	}
}

func (n *Node) removeChild(row int) bool {
	if row < 0 || row >= len(n.children) {
		slog.Warn("attempt to remove invalid child", "group", n.name, "row", row)
		return false
	}

	n.children[row].parent = nil
	n.children = append(n.children[:row], n.children[row+1:]...)

	return true
}
