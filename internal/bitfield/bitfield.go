package bitfield

import "fmt"

// RegisterWidth is the width in bits of every register handled by regtree.
const RegisterWidth = 16

// Geometry locates a field inside a register.
type Geometry struct {
	Offset uint8 // bit position of the field's least significant bit
	Width  uint8 // number of bits, 1..16
}

// GeometryError reports a field definition that does not fit in a register.
type GeometryError struct {
	Offset uint8
	Width  uint8
	Reason string
}

// Error implements the error interface
func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid field geometry (offset %d, width %d): %s", e.Offset, e.Width, e.Reason)
}

// Validate checks that the geometry describes a non-empty span inside a
// 16-bit register.
func (g Geometry) Validate() error {
	switch {
	case g.Width == 0:
		return &GeometryError{Offset: g.Offset, Width: g.Width, Reason: "width must be at least 1"}
	case g.Offset >= RegisterWidth:
		return &GeometryError{Offset: g.Offset, Width: g.Width, Reason: fmt.Sprintf("offset must be below %d", RegisterWidth)}
	case int(g.Offset)+int(g.Width) > RegisterWidth:
		return &GeometryError{Offset: g.Offset, Width: g.Width, Reason: fmt.Sprintf("offset+width exceeds %d bits", RegisterWidth)}
	}
	return nil
}

// MSB returns the bit position of the field's most significant bit.
func (g Geometry) MSB() uint8 {
	return g.Offset + g.Width - 1
}

// String renders the geometry as a [msb:lsb] bit range.
func (g Geometry) String() string {
	if g.Width == 1 {
		return fmt.Sprintf("[%d]", g.Offset)
	}
	return fmt.Sprintf("[%d:%d]", g.MSB(), g.Offset)
}

// Mask returns the right-aligned mask for a field of the given width.
func Mask(width uint8) uint16 {
	if width >= RegisterWidth {
		return 0xFFFF
	}
	return uint16(1)<<width - 1
}

// SpanMask returns the mask covering the field's bits in register position.
func (g Geometry) SpanMask() uint16 {
	return Mask(g.Width) << g.Offset
}

// Extract returns the right-aligned value of the field from a register value.
func Extract(register uint16, g Geometry) uint16 {
	return (register >> g.Offset) & Mask(g.Width)
}

// Merge writes field into its span of register. The field value is masked to
// the field width first; bits outside the span are preserved.
func Merge(register, field uint16, g Geometry) uint16 {
	span := g.SpanMask()
	return (register &^ span) | ((field & Mask(g.Width)) << g.Offset)
}
