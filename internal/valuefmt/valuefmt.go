// Package valuefmt parses user-entered register and field values and renders
// them back in their canonical display form.
package valuefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports text that is not a valid 16-bit value.
type ParseError struct {
	Input string
	Err   error // strconv.ErrSyntax or strconv.ErrRange
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value %q: %v", e.Input, e.Err)
}

// Unwrap returns the underlying strconv error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse converts text into a 16-bit value.
//
// Surrounding whitespace and one leading '+' are ignored. A "0x" prefix
// selects hexadecimal, "0b" selects binary, anything else is decimal.
func Parse(text string) (uint16, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "+")

	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	}

	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ParseError{Input: text, Err: err}
	}
	return uint16(v), nil
}

// Render formats a field value for display. Single-bit fields are shown in
// decimal, wider fields as zero-padded uppercase hex with one digit per
// started nibble.
func Render(value uint16, width uint8) string {
	if width <= 1 {
		return strconv.FormatUint(uint64(value), 10)
	}
	digits := (int(width) + 3) / 4
	if digits > 4 {
		digits = 4
	}
	return fmt.Sprintf("0x%0*X", digits, value)
}

// RenderRegister formats a whole register value as four hex digits.
func RenderRegister(value uint16) string {
	return fmt.Sprintf("0x%04X", value)
}

// RenderBinary formats value as a "0b" binary literal of width digits.
func RenderBinary(value uint16, width uint8) string {
	if width == 0 {
		width = 1
	}
	return fmt.Sprintf("0b%0*b", int(width), value)
}
