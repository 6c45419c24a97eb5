package regdef

// Document is a complete register map definition file.
type Document struct {
	Version     int          `yaml:"version"`
	Device      string       `yaml:"device,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Peripherals []Peripheral `yaml:"peripherals"`
}

// Peripheral groups the registers of one hardware block.
type Peripheral struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	BaseAddress uint32     `yaml:"base_address"`
	Registers   []Register `yaml:"registers"`
}

// Register is one 16-bit register definition.
type Register struct {
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description,omitempty"`
	AddressOffset uint32  `yaml:"address_offset"`
	ResetValue    uint16  `yaml:"reset_value"`
	ReadOnly      bool    `yaml:"read_only,omitempty"` // honoured by the simulator bus
	Fields        []Field `yaml:"fields,omitempty"`
}

// Field is one bit-field definition.
type Field struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	BitOffset   uint8       `yaml:"bit_offset"`
	BitWidth    uint8       `yaml:"bit_width"`
	EnumValues  []EnumValue `yaml:"enum_values,omitempty"`
}

// EnumValue names one value of a field.
type EnumValue struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Value       uint16 `yaml:"value"`
}

// NumRegisters returns the number of registers across all peripherals.
func (d *Document) NumRegisters() int {
	n := 0
	for _, p := range d.Peripherals {
		n += len(p.Registers)
	}
	return n
}
