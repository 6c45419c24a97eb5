package regmodel

// EnumValue names one value of a field.
type EnumValue struct {
	Name        string
	Description string
	Value       uint16
}

// FieldDef describes one bit-field of a register.
type FieldDef struct {
	Name        string
	Description string
	Offset      uint8
	Width       uint8
	EnumValues  []EnumValue
}

// RegisterDef describes one register and its fields, in display order.
type RegisterDef struct {
	Name        string
	Description string
	Peripheral  string // owning peripheral, empty if ungrouped
	Address     uint32 // absolute address used by the hardware bus
	ResetValue  uint16 // initial read and write value
	Fields      []FieldDef
}
