package regmodel

import (
	"fmt"

	"github.com/blazra/regtree/internal/valuefmt"
)

// Register is one 16-bit register and the fields derived from it.
type Register struct {
	Name        string
	Description string
	Peripheral  string
	Address     uint32
	ResetValue  uint16
	Index       int
	InputID     InputID

	expanded   bool
	valueRead  uint16
	valueWrite uint16
	inputText  string
	state      EditState
	fields     []Field
}

// ValueRead returns the value last read from hardware.
func (r *Register) ValueRead() uint16 { return r.valueRead }

// ValueWrite returns the value staged for the next write.
func (r *Register) ValueWrite() uint16 { return r.valueWrite }

// InputText returns the current editor text.
func (r *Register) InputText() string { return r.inputText }

// State returns the register's interaction state.
func (r *Register) State() EditState { return r.state }

// Expanded reports whether the register's fields are shown.
func (r *Register) Expanded() bool { return r.expanded }

// NumFields returns the number of fields.
func (r *Register) NumFields() int { return len(r.fields) }

// Field returns field j. It panics if j is out of range.
func (r *Register) Field(j int) *Field { return &r.fields[j] }

// QualifiedName returns "PERIPHERAL.NAME", or just the name when the
// register has no peripheral.
func (r *Register) QualifiedName() string {
	if r.Peripheral == "" {
		return r.Name
	}
	return r.Peripheral + "." + r.Name
}

// SetWriteValue stages value for writing and re-derives every field's write
// value from it.
func (r *Register) SetWriteValue(value uint16) {
	r.valueWrite = value
	r.inputText = valuefmt.RenderRegister(value)
	for j := range r.fields {
		r.fields[j].setWriteFromRegister(value)
	}
}

// SetReadValue records a value read from hardware and re-derives every
// field's read value from it.
func (r *Register) SetReadValue(value uint16) {
	r.valueRead = value
	for j := range r.fields {
		r.fields[j].setReadFromRegister(value)
	}
}

// SubmitFieldWrite merges value into field j's bits of the write value,
// leaving every other bit untouched, and re-derives all fields from the
// result. The field's editor closes and focus goes back to the register's
// input.
func (r *Register) SubmitFieldWrite(j int, value uint16) ([]Action, error) {
	if j < 0 || j >= len(r.fields) {
		return nil, &PathError{Path: FieldPath(r.Index, j), Reason: fmt.Sprintf("register has %d fields", len(r.fields))}
	}

	r.valueWrite = r.fields[j].ComposeIntoRegister(r.valueWrite, value)
	r.inputText = valuefmt.RenderRegister(r.valueWrite)
	for k := range r.fields {
		r.fields[k].setWriteFromRegister(r.valueWrite)
	}
	r.fields[j].reset()

	return []Action{RunFocus(r.InputID)}, nil
}

// ToggleExpand shows or hides the register's fields. Hidden fields cannot
// keep an open editor, so collapsing returns them to Idle.
func (r *Register) ToggleExpand() {
	r.expanded = !r.expanded
	if !r.expanded {
		for j := range r.fields {
			r.fields[j].reset()
		}
	}
}

// reset returns an active register to Idle and drops its unsubmitted text.
func (r *Register) reset() {
	if r.state == Idle {
		return
	}
	r.state = Idle
	r.inputText = valuefmt.RenderRegister(r.valueWrite)
}

// update applies a register-level intent.
func (r *Register) update(in Intent) []Action {
	switch in.Kind {
	case IntentSelect:
		// Registers have no click-driven editing state; a second selection
		// keeps them Selected and only re-requests focus.
		if r.state == Idle {
			r.state = Selected
		}
		return []Action{RunFocus(r.InputID)}

	case IntentInputChanged:
		if !r.state.Active() {
			return nil
		}
		r.inputText = in.Text
		r.state = Editing

	case IntentSubmit:
		if !r.state.Active() {
			return nil
		}
		value, err := valuefmt.Parse(r.inputText)
		if err != nil {
			return nil
		}
		r.SetWriteValue(value)
		r.state = Selected
		return []Action{RequestWrite(r.Index, value)}

	case IntentToggleExpand:
		r.ToggleExpand()

	case IntentRead:
		return []Action{RequestRead(r.Index)}

	case IntentWrite:
		return []Action{RequestWrite(r.Index, r.valueWrite)}
	}
	return nil
}

// updateField applies an intent addressed at field j.
func (r *Register) updateField(j int, in Intent) []Action {
	f := &r.fields[j]

	switch in.Kind {
	case IntentSelect:
		if f.advance() {
			return []Action{RunFocus(f.InputID)}
		}

	case IntentInputChanged:
		if f.state == Editing {
			f.inputText = in.Text
		}

	case IntentSelectEnum:
		if f.state == Editing {
			f.selectEnum(in.Enum)
		}

	case IntentSubmit:
		if f.state != Editing {
			return nil
		}
		value, err := valuefmt.Parse(f.inputText)
		if err != nil {
			return nil
		}
		actions, _ := r.SubmitFieldWrite(j, value)
		// The field closed its editor; the register takes over as the
		// active node so the focused input is visible.
		r.state = Selected
		return actions

	case IntentToggleExpand, IntentRead, IntentWrite:
		return r.update(in)
	}
	return nil
}
