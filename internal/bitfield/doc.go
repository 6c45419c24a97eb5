// Package bitfield converts between a 16-bit register value and the value of
// a single bit-field inside it.
//
// A field is described by a Geometry: the bit offset of its least
// significant bit and its width in bits. Field values are always handled
// right-aligned and masked to the field width, never as raw register bits.
//
//	g := bitfield.Geometry{Offset: 4, Width: 4}
//	v := bitfield.Extract(0x00F0, g)        // 0xF
//	r := bitfield.Merge(0x00F0, 0x5, g)     // 0x0050
//
// Extract and Merge assume a valid geometry. Definitions must be checked with
// Geometry.Validate before they are used, which returns a *GeometryError when
// the field does not fit in a 16-bit register.
package bitfield
