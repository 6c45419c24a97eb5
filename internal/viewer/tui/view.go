package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"

	"github.com/blazra/regtree/internal/regmodel"
)

// View implements tea.Model
func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.activeKeys())))

	return b.String()
}

func (m TreeModel) headerView() string {
	title := m.opts.Title
	if title == "" {
		title = "regtree"
	}
	header := titleStyle.Render(title)
	if m.opts.Backend != "" {
		header += "  " + subtitleStyle.Render(m.opts.Backend)
	}
	if m.pending > 0 {
		header += fmt.Sprintf("  %s %s", m.spinner.View(), subtitleStyle.Render(fmt.Sprintf("%d pending", m.pending)))
	}
	return header
}

// footerView shows the search prompt, the bound editor or the description
// of the node under the cursor.
func (m TreeModel) footerView() string {
	if m.searching {
		line := m.search.View()
		for i, match := range m.matches {
			if i == maxShownMatches {
				line += subtitleStyle.Render(fmt.Sprintf("  +%d", len(m.matches)-i))
				break
			}
			name := match.Str
			if i == m.matchIdx {
				name = matchStyle.Render(name)
			} else {
				name = subtitleStyle.Render(name)
			}
			line += "  " + name
		}
		return line
	}

	if p, ok := m.tree.Lookup(m.bound); ok && m.bound != noInput {
		return editorLabelStyle.Render(nodeName(m.tree, p)+" = ") + m.input.View()
	}

	p, ok := m.current()
	if !ok {
		return subtitleStyle.Render("no registers defined")
	}
	return subtitleStyle.Render(describe(m.tree, p))
}

func (m TreeModel) statusView() string {
	if m.batchTotal > 0 {
		percent := float64(m.batchDone) / float64(m.batchTotal)
		return m.progress.ViewAs(percent) + statusStyle.Render(fmt.Sprintf(" %d/%d", m.batchDone, m.batchTotal))
	}
	if m.statusErr {
		return statusErrorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m TreeModel) activeKeys() help.KeyMap {
	switch {
	case m.searching:
		return m.searchKeys
	case m.editing:
		return m.editKeys
	default:
		return m.keys
	}
}

func describe(tree *regmodel.Tree, p regmodel.Path) string {
	reg := tree.Register(p.Register)
	name, desc := reg.QualifiedName(), reg.Description
	if p.IsField() {
		f := reg.Field(p.Field)
		name, desc = name+"."+f.Name, f.Description
	}
	if desc == "" {
		return name
	}
	return name + ": " + desc
}
