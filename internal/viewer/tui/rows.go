package tui

import (
	"fmt"
	"strings"

	"github.com/blazra/regtree/internal/regmodel"
	"github.com/blazra/regtree/internal/ui"
	"github.com/blazra/regtree/internal/valuefmt"
)

// visibleRows flattens the tree into display order. Fields follow their
// register only while it is expanded.
func visibleRows(tree *regmodel.Tree) []regmodel.Path {
	rows := make([]regmodel.Path, 0, tree.Len())
	for i := 0; i < tree.Len(); i++ {
		rows = append(rows, regmodel.RegisterPath(i))
		reg := tree.Register(i)
		if !reg.Expanded() {
			continue
		}
		for j := 0; j < reg.NumFields(); j++ {
			rows = append(rows, regmodel.FieldPath(i, j))
		}
	}
	return rows
}

func indexOf(rows []regmodel.Path, p regmodel.Path) int {
	for i, r := range rows {
		if r == p {
			return i
		}
	}
	return -1
}

// nameWidth is the widest register or field label, used to align columns.
func nameWidth(tree *regmodel.Tree) int {
	width := 8
	for i := 0; i < tree.Len(); i++ {
		reg := tree.Register(i)
		if n := len(reg.QualifiedName()); n > width {
			width = n
		}
		for j := 0; j < reg.NumFields(); j++ {
			if n := len(reg.Field(j).Name) + 2; n > width {
				width = n
			}
		}
	}
	return width
}

func stateMark(s regmodel.EditState) string {
	switch s {
	case regmodel.Selected:
		return selectedMarkStyle.Render("●")
	case regmodel.Editing:
		return editingMarkStyle.Render("✎")
	default:
		return " "
	}
}

func writeStyle(read, write uint16) string {
	if read != write {
		return ui.PendingValueStyle.Render(valuefmt.RenderRegister(write))
	}
	return ui.ValueStyle.Render(valuefmt.RenderRegister(write))
}

func renderRegisterRow(reg *regmodel.Register, width int) string {
	arrow := "▸"
	if reg.Expanded() {
		arrow = "▾"
	} else if reg.NumFields() == 0 {
		arrow = " "
	}
	return fmt.Sprintf("%s %s %s  %s  r %s  w %s",
		stateMark(reg.State()),
		arrow,
		ui.RegisterNameStyle.Render(padRight(reg.QualifiedName(), width)),
		ui.AddressStyle.Render(fmt.Sprintf("0x%08X", reg.Address)),
		ui.ValueStyle.Render(valuefmt.RenderRegister(reg.ValueRead())),
		writeStyle(reg.ValueRead(), reg.ValueWrite()),
	)
}

func renderFieldRow(f *regmodel.Field, width int) string {
	write := ui.ValueStyle
	if f.ValueRead() != f.ValueWrite() {
		write = ui.PendingValueStyle
	}
	line := fmt.Sprintf("%s     %s %s  r %s  w %s",
		stateMark(f.State()),
		ui.FieldNameStyle.Render(padRight(f.Name, width-2)),
		ui.AddressStyle.Render(padRight(f.Geometry.String(), 10)),
		ui.ValueStyle.Render(padRight(f.Render(f.ValueRead()), 6)),
		write.Render(padRight(f.Render(f.ValueWrite()), 6)),
	)
	if name, ok := f.ResolveEnumName(f.ValueWrite()); ok {
		line += " " + ui.EnumStyle.Render(name)
	}
	return line
}

// renderRows draws every visible row, highlighting the cursor row.
func renderRows(tree *regmodel.Tree, rows []regmodel.Path, cursor int) string {
	width := nameWidth(tree)
	lines := make([]string, len(rows))
	for i, p := range rows {
		reg := tree.Register(p.Register)
		var line string
		if p.IsField() {
			line = renderFieldRow(reg.Field(p.Field), width)
		} else {
			line = renderRegisterRow(reg, width)
		}
		if i == cursor {
			line = cursorStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// nodeName is the label shown next to the editor and in search results.
func nodeName(tree *regmodel.Tree, p regmodel.Path) string {
	reg := tree.Register(p.Register)
	if p.IsField() {
		return reg.QualifiedName() + "." + reg.Field(p.Field).Name
	}
	return reg.QualifiedName()
}

// inputText returns the editable text held by the node at p.
func inputText(tree *regmodel.Tree, p regmodel.Path) string {
	reg := tree.Register(p.Register)
	if p.IsField() {
		return reg.Field(p.Field).InputText()
	}
	return reg.InputText()
}

// inputID returns the editor input owned by the node at p.
func inputID(tree *regmodel.Tree, p regmodel.Path) regmodel.InputID {
	reg := tree.Register(p.Register)
	if p.IsField() {
		return reg.Field(p.Field).InputID
	}
	return reg.InputID
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
