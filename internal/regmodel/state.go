package regmodel

import "fmt"

// EditState is the interaction state of a register or field node.
type EditState int

const (
	// Idle nodes show their values only.
	Idle EditState = iota
	// Selected nodes are highlighted.
	Selected
	// Editing nodes have their value editor open.
	Editing
)

// String returns the state name
func (s EditState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// Active reports whether the node is selected or being edited.
func (s EditState) Active() bool {
	return s == Selected || s == Editing
}
