package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blazra/regtree/internal/discovery"
	"github.com/blazra/regtree/internal/regmodel"
	"github.com/blazra/regtree/internal/valuefmt"
)

// TreeOptions controls RenderTree
type TreeOptions struct {
	// Fields lists every register's fields under it
	Fields bool

	// Binary renders field values as binary literals
	Binary bool
}

// RenderTree renders every register of tree, grouped by peripheral.
// Staged values that differ from the last read are highlighted.
func RenderTree(tree *regmodel.Tree, opts TreeOptions) string {
	nameWidth := 0
	for i := 0; i < tree.Len(); i++ {
		reg := tree.Register(i)
		if n := len(reg.Name); n > nameWidth {
			nameWidth = n
		}
		for j := 0; j < reg.NumFields(); j++ {
			if n := len(reg.Field(j).Name) + 2; n > nameWidth {
				nameWidth = n
			}
		}
	}

	var b strings.Builder
	peripheral := "\x00"
	for i := 0; i < tree.Len(); i++ {
		reg := tree.Register(i)
		if reg.Peripheral != peripheral {
			if i > 0 {
				b.WriteString("\n")
			}
			peripheral = reg.Peripheral
			if peripheral != "" {
				b.WriteString(PeripheralStyle.Render(peripheral) + "\n")
			}
		}

		b.WriteString(renderRegisterLine(reg, nameWidth))
		b.WriteString("\n")

		if !opts.Fields {
			continue
		}
		for j := 0; j < reg.NumFields(); j++ {
			b.WriteString(renderFieldLine(reg.Field(j), nameWidth, opts.Binary))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRegisterLine(reg *regmodel.Register, nameWidth int) string {
	return fmt.Sprintf("  %s  %s  read %s  write %s",
		RegisterNameStyle.Render(pad(reg.Name, nameWidth)),
		AddressStyle.Render(fmt.Sprintf("0x%08X", reg.Address)),
		ValueStyle.Render(valuefmt.RenderRegister(reg.ValueRead())),
		styleWrite(reg.ValueWrite() != reg.ValueRead()).Render(valuefmt.RenderRegister(reg.ValueWrite())),
	)
}

func renderFieldLine(f *regmodel.Field, nameWidth int, binary bool) string {
	render := f.Render
	if binary {
		render = func(v uint16) string { return valuefmt.RenderBinary(v, f.Geometry.Width) }
	}

	line := fmt.Sprintf("    %s  %s  read %s  write %s",
		FieldNameStyle.Render(pad(f.Name, nameWidth-2)),
		AddressStyle.Render(pad(f.Geometry.String(), 10)),
		ValueStyle.Render(pad(render(f.ValueRead()), 8)),
		styleWrite(f.ValueWrite() != f.ValueRead()).Render(render(f.ValueWrite())),
	)
	if name, ok := f.ResolveEnumName(f.ValueWrite()); ok {
		line += "  " + EnumStyle.Render(name)
	}
	return line
}

// RenderEndpoints renders a discovery result list
func RenderEndpoints(endpoints []*discovery.Endpoint) string {
	if len(endpoints) == 0 {
		return HintStyle.Render("No register servers found.")
	}

	var b strings.Builder
	for _, ep := range endpoints {
		line := fmt.Sprintf("%s %s  %s",
			ValueStyle.Render(SuccessMarker),
			RegisterNameStyle.Render(ep.Instance),
			AddressStyle.Render(ep.URL()),
		)
		if device := ep.Device(); device != "" {
			line += "  " + EnumStyle.Render(device)
		}
		if n := ep.Registers(); n >= 0 {
			line += HintStyle.Render(fmt.Sprintf("  (%d registers)", n))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func styleWrite(pending bool) lipgloss.Style {
	if pending {
		return PendingValueStyle
	}
	return ValueStyle
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
