package selection

import (
	"log/slog"
	"slices"
	"strings"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// ReadyFunc receives the new readiness of the tree whenever it changes.
type ReadyFunc func(ready bool)

// Tree owns the root node of an options tree.
//
// Node pointers handed out by a Tree stay valid until the next Build,
// Append or prune; callers must not keep them across those calls.
type Tree struct {
	root *Node

	onReady    ReadyFunc
	ready      bool
	readyKnown bool
}

// NewTree returns an empty tree. Nothing is loaded until Build.
func NewTree() *Tree {
	return &Tree{}
}

// Root returns the root node, or nil before the first Build.
func (t *Tree) Root() *Node { return t.root }

// SetReadyCallback registers fn to be told about readiness changes. The
// next evaluation always reports. fn must not mutate the tree.
func (t *Tree) SetReadyCallback(fn ReadyFunc) {
	t.onReady = fn
	t.readyKnown = false
}

// Build replaces the whole tree with groups. hidden is consulted while the
// nodes are created and is not kept.
func (t *Tree) Build(groups []m.GroupDefinition, hidden HiddenPredicate) {
	t.root = newRoot()
	t.materialize(groups, t.root, hidden)
	t.notify()
}

// Append adds groups to an existing tree. Top-level groups whose source tag
// appears among the incoming groups are pruned first, so loading the same
// source again replaces it instead of duplicating it.
func (t *Tree) Append(groups []m.GroupDefinition, hidden HiddenPredicate) {
	if t.root == nil {
		slog.Debug("append before build ignored", "groups", len(groups))
		return
	}

	if sources := m.Sources(groups); len(sources) > 0 {
		t.pruneSources(sources)
	}

	t.materialize(groups, t.root, hidden)
	t.notify()
}

func (t *Tree) pruneSources(sources []string) {
	var rows []int

	for i, child := range t.root.children {
		if slices.Contains(sources, child.Source()) {
			rows = append([]int{i}, rows...)
		}
	}

	for _, row := range rows {
		if t.root.removeChild(row) {
			slog.Debug("pruned group", "source", sources, "row", row)
		}
	}
}

func (t *Tree) materialize(groups []m.GroupDefinition, parent *Node, hidden HiddenPredicate) {
	for _, def := range groups {
		if def.IsZero() {
			continue
		}

		parent.adopt(buildGroup(def, parentCheckState(parent), hidden))
	}
}

func buildGroup(def m.GroupDefinition, seed m.CheckState, hidden HiddenPredicate) *Node {
	item := newGroup(def, seed, hidden)

	// An explicit "not selected" seeds the children as well.
	if def.Selected != nil && !*def.Selected {
		item.state = m.Unchecked
	}

	// Subgroups start from the group as created; selected options below
	// must not reconsider it first.
	subgroupSeed := parentCheckState(item)

	if def.Options != nil {
		attachOptions(item, def.Options, hidden)
	}

	if def.SubgroupsInvalid || def.Subgroups != nil {
		attachSubgroups(item, def, subgroupSeed, hidden)
	}

	if def.Selected != nil && *def.Selected {
		item.SetSelected(m.Checked)
	}

	return item
}

func attachOptions(item *Node, options []m.OptionDefinition, hidden HiddenPredicate) {
	for _, def := range options {
		var opt *Node

		switch {
		case def.Name == "":
			continue
		case def.Bare:
			opt = newBareOption(def.Name, item)
		default:
			opt = newOption(def, item, hidden)
		}

		item.appendChild(opt)
	}

	if item.ChildCount() == 0 {
		slog.Warn("*options* under group is empty", "group", item.name)
		return
	}

	// Selections are applied once every option exists, so a group that
	// becomes checked early does not seed its later options.
	for _, opt := range slices.Clone(item.children) {
		if opt.IsOption() && opt.state == m.Checked {
			opt.SetSelected(m.Checked)
		}
	}
}

func attachSubgroups(item *Node, def m.GroupDefinition, seed m.CheckState, hidden HiddenPredicate) {
	if def.SubgroupsInvalid {
		slog.Warn("*subgroups* under group is not a list", "group", item.name)
		return
	}

	if len(def.Subgroups) == 0 {
		slog.Warn("*subgroups* list under group is empty", "group", item.name)
		return
	}

	for _, sub := range def.Subgroups {
		if sub.IsZero() {
			continue
		}

		item.adopt(buildGroup(sub, seed, hidden))
	}

	// Children may be checked while their parent is not (yet).
	if item.ChildCount() > 0 {
		item.Recompute()
	}
}

// SetChecked toggles n as the view would and reports readiness changes.
func (t *Tree) SetChecked(n *Node, state m.CheckState) {
	n.SetSelected(state)
	t.notify()
}

// MarkGroupsSelectedByName checks every group whose name is in names.
// Options are never matched.
func (t *Tree) MarkGroupsSelectedByName(names []string) {
	if t.root == nil {
		return
	}

	markGroups(names, t.root)
	t.notify()
}

func markGroups(names []string, n *Node) {
	for _, c := range n.children {
		markGroups(names, c)
	}

	if n.IsGroup() && !n.IsRoot() && slices.Contains(names, n.name) {
		n.SetSelected(m.Checked)
	}
}

// Find returns the first node, depth-first, whose name matches name
// case-insensitively.
func (t *Tree) Find(name string) *Node {
	var found *Node

	t.Walk(func(n *Node, _ int) bool {
		if found == nil && strings.EqualFold(n.name, name) {
			found = n
		}

		return found == nil
	})

	return found
}

// Walk visits every node below the root depth-first in display order with
// its depth (top-level groups are depth 0). Returning false from fn skips
// the node's subtree.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	if t.root == nil {
		return
	}

	walk(t.root.children, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(n *Node, depth int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.children, depth+1, fn)
		}
	}
}

// SelectedOptions returns the selected options of the whole tree.
func (t *Tree) SelectedOptions() []*Node {
	if t.root == nil {
		return nil
	}

	return CollectSelectedOptions(t.root)
}

// CollectSelectedOptions returns the selected options below n, depth-first.
// Groups never appear in the result; unchecked subtrees are skipped.
func CollectSelectedOptions(n *Node) []*Node {
	var selected []*Node

	for _, c := range n.children {
		if c.state == m.Unchecked {
			continue
		}

		if c.IsOption() {
			selected = append(selected, c)
		} else {
			selected = append(selected, CollectSelectedOptions(c)...)
		}
	}

	return selected
}

// OptionNames returns the identifier of every option in the tree.
func (t *Tree) OptionNames() []string {
	if t.root == nil {
		return nil
	}

	return CollectOptionNames(t.root.children...)
}

// CollectOptionNames returns the option identifiers of nodes: an option
// contributes its own name, a group the names of all options it contains,
// whatever their state.
func CollectOptionNames(nodes ...*Node) []string {
	var names []string

	for _, n := range nodes {
		if n.IsOption() {
			names = append(names, n.optionName)
			continue
		}

		names = append(names, CollectOptionNames(n.children...)...)
	}

	return names
}

// Operations returns the operation tokens of the options the user sees as
// selected, in tree order.
func Operations(options []*Node) []string {
	ops := make([]string, 0, len(options))

	for _, o := range options {
		if o.HiddenSelected() {
			ops = append(ops, o.Operation())
		}
	}

	return ops
}

// Ready reports whether every required group is at least partially
// selected and at least one option is selected.
func (t *Tree) Ready() bool {
	if t.root == nil {
		return false
	}

	ready := true

	t.Walk(func(n *Node, _ int) bool {
		if n.IsRequired() && n.state == m.Unchecked {
			ready = false
		}

		return ready
	})

	return ready && len(t.SelectedOptions()) > 0
}

func (t *Tree) notify() {
	ready := t.Ready()
	if t.readyKnown && t.ready == ready {
		return
	}

	t.ready, t.readyKnown = ready, true

	if t.onReady != nil {
		t.onReady(ready)
	}
}
