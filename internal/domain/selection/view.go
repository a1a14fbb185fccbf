package selection

import (
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// Column identifies a displayed column of a row.
type Column int

// Columns shown for every node.
const (
	ColumnName Column = iota
	ColumnDescription
	ColumnInput

	columnCount = 3
)

// Role selects which aspect of a cell Data and SetData address.
type Role int

// Roles understood by Data and SetData.
const (
	RoleDisplay Role = iota
	RoleCheckState
	RoleEdit
	RoleExpand
)

// ItemFlags tells the view which interactions a cell allows.
type ItemFlags uint

// Item flags.
const (
	FlagNone      ItemFlags = 0
	FlagCheckable ItemFlags = 1 << 0
	FlagEditable  ItemFlags = 1 << 1
)

// Has reports whether all bits of flag are set.
func (f ItemFlags) Has(flag ItemFlags) bool { return f&flag == flag }

// ColumnCount returns the number of columns of every row.
func ColumnCount() int { return columnCount }

// HeaderData returns the column title.
func HeaderData(column Column) string {
	switch column {
	case ColumnName:
		return "Name"
	case ColumnDescription:
		return "Description"
	default:
		return "Input (Optional)"
	}
}

// RowCount returns the number of rows below parent; a nil parent means the
// root.
func (t *Tree) RowCount(parent *Node) int {
	if t.root == nil {
		return 0
	}

	if parent == nil {
		parent = t.root
	}

	return parent.ChildCount()
}

// Index returns the node at row below parent (nil means the root).
func (t *Tree) Index(row int, parent *Node) *Node {
	if t.root == nil {
		return nil
	}

	if parent == nil {
		parent = t.root
	}

	return parent.Child(row)
}

// Data returns the value of a cell for role, and false when the cell has
// no value for it.
func (t *Tree) Data(n *Node, column Column, role Role) (any, bool) {
	if t.root == nil || n == nil {
		return nil, false
	}

	switch role {
	case RoleCheckState:
		if column != ColumnName || n.IsImmutable() {
			return nil, false
		}

		return n.State(), true
	case RoleDisplay:
		return cellText(n, column)
	case RoleExpand:
		return n.ExpandOnStart(), true
	case RoleEdit:
		if !n.IsEditable() {
			return nil, false
		}

		return cellText(n, column)
	default:
		return nil, false
	}
}

func cellText(n *Node, column Column) (any, bool) {
	switch column {
	case ColumnName:
		if n.IsOption() {
			return n.OptionName(), true
		}

		return n.Name(), true
	case ColumnDescription:
		return n.Description(), true
	case ColumnInput:
		return n.Input(), true
	default:
		return nil, false
	}
}

// SetData writes a cell. A check state runs the full propagation; text is
// taken only by editable options. It reports whether anything changed.
func (t *Tree) SetData(n *Node, column Column, value any, role Role) bool {
	if t.root == nil || n == nil {
		return false
	}

	switch role {
	case RoleCheckState:
		state, ok := value.(m.CheckState)
		if !ok {
			return false
		}

		t.SetChecked(n, state)

		return true
	case RoleEdit:
		text, ok := value.(string)
		if !ok || column != ColumnInput {
			return false
		}

		return n.SetInput(text)
	default:
		return false
	}
}

// Flags returns the interactions the view must allow on a cell.
func (t *Tree) Flags(n *Node, column Column) ItemFlags {
	if t.root == nil || n == nil {
		return FlagNone
	}

	switch column {
	case ColumnName:
		if n.IsImmutable() || n.IsNoncheckable() {
			return FlagNone
		}

		return FlagCheckable
	case ColumnInput:
		if n.IsEditable() {
			return FlagEditable
		}

		return FlagNone
	default:
		return FlagNone
	}
}
