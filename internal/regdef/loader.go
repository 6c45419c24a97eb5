package regdef

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blazra/regtree/internal/bitfield"
	"github.com/blazra/regtree/internal/regmodel"
)

// SupportedVersion is the only definition file version understood.
const SupportedVersion = 1

//go:embed demo.yaml
var demoYAML []byte

// DefinitionError reports an invalid element of a definition document.
type DefinitionError struct {
	Peripheral string
	Register   string
	Field      string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *DefinitionError) Error() string {
	loc := e.Peripheral
	if e.Register != "" {
		loc += "." + e.Register
	}
	if e.Field != "" {
		loc += "." + e.Field
	}
	if loc == "" {
		loc = "document"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", loc, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// Load reads and validates a definition file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Demo returns the embedded demo register map.
func Demo() *Document {
	doc, err := Parse(demoYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded demo definitions are invalid: %v", err))
	}
	return doc
}

// Parse decodes and validates a definition document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse definitions: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks names, the document version and every field's geometry.
func (d *Document) Validate() error {
	if d.Version != SupportedVersion {
		return &DefinitionError{Message: fmt.Sprintf("unsupported definition version: %d (expected %d)", d.Version, SupportedVersion)}
	}
	if d.NumRegisters() == 0 {
		return &DefinitionError{Message: "no registers defined"}
	}

	var errs []error
	for _, p := range d.Peripherals {
		if p.Name == "" {
			errs = append(errs, &DefinitionError{Message: "peripheral has no name"})
		}
		for _, r := range p.Registers {
			if r.Name == "" {
				errs = append(errs, &DefinitionError{Peripheral: p.Name, Message: "register has no name"})
			}
			for _, f := range r.Fields {
				if f.Name == "" {
					errs = append(errs, &DefinitionError{Peripheral: p.Name, Register: r.Name, Message: "field has no name"})
				}
				g := bitfield.Geometry{Offset: f.BitOffset, Width: f.BitWidth}
				if err := g.Validate(); err != nil {
					errs = append(errs, &DefinitionError{
						Peripheral: p.Name,
						Register:   r.Name,
						Field:      f.Name,
						Message:    "field does not fit in a 16-bit register",
						Err:        err,
					})
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Definitions flattens the document into register definitions in document
// order.
func (d *Document) Definitions() []regmodel.RegisterDef {
	defs := make([]regmodel.RegisterDef, 0, d.NumRegisters())
	for _, p := range d.Peripherals {
		for _, r := range p.Registers {
			def := regmodel.RegisterDef{
				Name:        r.Name,
				Description: r.Description,
				Peripheral:  p.Name,
				Address:     p.BaseAddress + r.AddressOffset,
				ResetValue:  r.ResetValue,
				Fields:      make([]regmodel.FieldDef, 0, len(r.Fields)),
			}
			for _, f := range r.Fields {
				fd := regmodel.FieldDef{
					Name:        f.Name,
					Description: f.Description,
					Offset:      f.BitOffset,
					Width:       f.BitWidth,
				}
				for _, ev := range f.EnumValues {
					fd.EnumValues = append(fd.EnumValues, regmodel.EnumValue{
						Name:        ev.Name,
						Description: ev.Description,
						Value:       ev.Value,
					})
				}
				def.Fields = append(def.Fields, fd)
			}
			defs = append(defs, def)
		}
	}
	return defs
}

// ReadOnlyAddresses returns the addresses of registers marked read_only.
func (d *Document) ReadOnlyAddresses() []uint32 {
	var out []uint32
	for _, p := range d.Peripherals {
		for _, r := range p.Registers {
			if r.ReadOnly {
				out = append(out, p.BaseAddress+r.AddressOffset)
			}
		}
	}
	return out
}

// ResetValues returns the reset value of every register keyed by address.
func (d *Document) ResetValues() map[uint32]uint16 {
	out := make(map[uint32]uint16, d.NumRegisters())
	for _, p := range d.Peripherals {
		for _, r := range p.Registers {
			out[p.BaseAddress+r.AddressOffset] = r.ResetValue
		}
	}
	return out
}

// BuildTree builds the editable model for the document.
func (d *Document) BuildTree() (*regmodel.Tree, error) {
	return regmodel.NewTree(d.Definitions())
}
