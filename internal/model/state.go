// Package model defines the data structures shared by the options chooser.
package model

// CheckState is the tri-state selection of a node in the options tree.
type CheckState int

const (
	// Unchecked means neither the node nor any descendant is selected.
	Unchecked CheckState = iota
	// PartiallyChecked means some, but not all, descendants are selected.
	// Only groups are ever partially checked.
	PartiallyChecked
	// Checked means the node is selected.
	Checked
)

func (s CheckState) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case PartiallyChecked:
		return "partial"
	case Checked:
		return "checked"
	default:
		return "unknown"
	}
}

// Selected reports whether s is anything other than Unchecked.
func (s CheckState) Selected() bool {
	return s != Unchecked
}

// Path represents a file system path.
type Path string
