package regmodel

import (
	"strconv"

	"github.com/blazra/regtree/internal/bitfield"
	"github.com/blazra/regtree/internal/valuefmt"
)

// Field is one bit-field of a register. Its shadow values are the masked,
// right-aligned slice of the owning register's shadow values.
type Field struct {
	Name        string
	Description string
	Geometry    bitfield.Geometry
	EnumValues  []EnumValue
	InputID     InputID

	valueRead  uint16
	valueWrite uint16
	inputText  string
	state      EditState
}

func newField(def FieldDef, id InputID, read, write uint16) Field {
	f := Field{
		Name:        def.Name,
		Description: def.Description,
		Geometry:    bitfield.Geometry{Offset: def.Offset, Width: def.Width},
		EnumValues:  append([]EnumValue(nil), def.EnumValues...),
		InputID:     id,
	}
	f.valueRead = f.DeriveFromRegister(read)
	f.valueWrite = f.DeriveFromRegister(write)
	f.inputText = f.Render(f.valueWrite)
	return f
}

// ValueRead returns the field's slice of the register's read value.
func (f *Field) ValueRead() uint16 { return f.valueRead }

// ValueWrite returns the field's slice of the register's write value.
func (f *Field) ValueWrite() uint16 { return f.valueWrite }

// InputText returns the current editor text.
func (f *Field) InputText() string { return f.inputText }

// State returns the field's interaction state.
func (f *Field) State() EditState { return f.state }

// DeriveFromRegister extracts this field's value from a register value.
func (f *Field) DeriveFromRegister(register uint16) uint16 {
	return bitfield.Extract(register, f.Geometry)
}

// ComposeIntoRegister returns register with this field's bits replaced by
// value.
func (f *Field) ComposeIntoRegister(register, value uint16) uint16 {
	return bitfield.Merge(register, value, f.Geometry)
}

// ResolveEnumName returns the name of the first enum value equal to value.
func (f *Field) ResolveEnumName(value uint16) (string, bool) {
	for _, ev := range f.EnumValues {
		if ev.Value == value {
			return ev.Name, true
		}
	}
	return "", false
}

// Render formats a value using this field's display width.
func (f *Field) Render(value uint16) string {
	return valuefmt.Render(value, f.Geometry.Width)
}

func (f *Field) setReadFromRegister(register uint16) {
	f.valueRead = f.DeriveFromRegister(register)
}

func (f *Field) setWriteFromRegister(register uint16) {
	f.valueWrite = f.DeriveFromRegister(register)
}

// advance applies a selection to the field and reports whether the editor
// was opened by it.
func (f *Field) advance() bool {
	switch f.state {
	case Idle:
		f.state = Selected
	case Selected:
		f.state = Editing
		f.inputText = f.Render(f.valueWrite)
		return true
	}
	return false
}

// reset returns an active field to Idle and drops its unsubmitted text.
func (f *Field) reset() {
	if f.state == Idle {
		return
	}
	f.state = Idle
	f.inputText = f.Render(f.valueWrite)
}

func (f *Field) selectEnum(i int) bool {
	if i < 0 || i >= len(f.EnumValues) {
		return false
	}
	f.inputText = strconv.FormatUint(uint64(f.EnumValues[i].Value), 10)
	return true
}
