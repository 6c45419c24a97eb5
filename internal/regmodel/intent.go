package regmodel

import "fmt"

// NoField is the Path.Field value for intents addressed at a register.
const NoField = -1

// Path addresses a node in the tree.
type Path struct {
	Register int
	Field    int // NoField for the register itself
}

// RegisterPath addresses register i.
func RegisterPath(i int) Path {
	return Path{Register: i, Field: NoField}
}

// FieldPath addresses field j of register i.
func FieldPath(i, j int) Path {
	return Path{Register: i, Field: j}
}

// IsField reports whether the path addresses a field.
func (p Path) IsField() bool {
	return p.Field != NoField
}

// String returns a debug representation of the path
func (p Path) String() string {
	if p.IsField() {
		return fmt.Sprintf("reg[%d].field[%d]", p.Register, p.Field)
	}
	return fmt.Sprintf("reg[%d]", p.Register)
}

// PathError is returned by Dispatch for paths that do not exist.
type PathError struct {
	Path   Path
	Reason string
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %s: %s", e.Path, e.Reason)
}

// IntentKind identifies a user intent.
type IntentKind int

const (
	IntentSelect IntentKind = iota
	IntentInputChanged
	IntentSubmit
	IntentToggleExpand
	IntentSelectEnum
	IntentRead
	IntentWrite
)

// String returns the intent name
func (k IntentKind) String() string {
	switch k {
	case IntentSelect:
		return "select"
	case IntentInputChanged:
		return "input_changed"
	case IntentSubmit:
		return "submit"
	case IntentToggleExpand:
		return "toggle_expand"
	case IntentSelectEnum:
		return "select_enum"
	case IntentRead:
		return "read"
	case IntentWrite:
		return "write"
	default:
		return fmt.Sprintf("IntentKind(%d)", int(k))
	}
}

// Intent is a single user request addressed at a node.
type Intent struct {
	Kind IntentKind
	Text string // IntentInputChanged
	Enum int    // IntentSelectEnum: index into the field's enum values
}

// Select advances the addressed node's interaction state and makes it the
// only active node in the tree.
func Select() Intent { return Intent{Kind: IntentSelect} }

// InputChanged replaces the text of the addressed node's editor.
func InputChanged(text string) Intent { return Intent{Kind: IntentInputChanged, Text: text} }

// Submit commits the addressed node's editor text.
func Submit() Intent { return Intent{Kind: IntentSubmit} }

// ToggleExpand shows or hides a register's fields.
func ToggleExpand() Intent { return Intent{Kind: IntentToggleExpand} }

// SelectEnum loads the value of the field's i-th enum value into its editor.
func SelectEnum(i int) Intent { return Intent{Kind: IntentSelectEnum, Enum: i} }

// Read requests a hardware read of the addressed register.
func Read() Intent { return Intent{Kind: IntentRead} }

// Write requests a hardware write of the addressed register's write value.
func Write() Intent { return Intent{Kind: IntentWrite} }

// InputID identifies one editable input. IDs are assigned once when the tree
// is built.
type InputID int

// ActionKind identifies a side effect requested by the model.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionRequestRead
	ActionRequestWrite
	ActionRunFocus
)

// String returns the action name
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionRequestRead:
		return "request_read"
	case ActionRequestWrite:
		return "request_write"
	case ActionRunFocus:
		return "run_focus"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a side effect for the caller to execute. The model does not
// observe its completion.
type Action struct {
	Kind     ActionKind
	Register int     // ActionRequestRead, ActionRequestWrite
	Value    uint16  // ActionRequestWrite
	Input    InputID // ActionRunFocus
}

// RequestRead asks the I/O layer to read register i.
func RequestRead(i int) Action {
	return Action{Kind: ActionRequestRead, Register: i}
}

// RequestWrite asks the I/O layer to write value to register i.
func RequestWrite(i int, value uint16) Action {
	return Action{Kind: ActionRequestWrite, Register: i, Value: value}
}

// RunFocus asks the UI to move keyboard focus to an input.
func RunFocus(id InputID) Action {
	return Action{Kind: ActionRunFocus, Input: id}
}

// String returns a debug representation of the action
func (a Action) String() string {
	switch a.Kind {
	case ActionRequestRead:
		return fmt.Sprintf("request_read(reg[%d])", a.Register)
	case ActionRequestWrite:
		return fmt.Sprintf("request_write(reg[%d], 0x%04X)", a.Register, a.Value)
	case ActionRunFocus:
		return fmt.Sprintf("run_focus(%d)", a.Input)
	default:
		return a.Kind.String()
	}
}
