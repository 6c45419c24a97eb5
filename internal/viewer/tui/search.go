package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/blazra/regtree/internal/regmodel"
)

// maxShownMatches caps the matches listed next to the search prompt.
const maxShownMatches = 4

// searchCorpus lists every register and field by qualified name, including
// fields of collapsed registers.
func searchCorpus(tree *regmodel.Tree) ([]string, []regmodel.Path) {
	var names []string
	var targets []regmodel.Path
	for i := 0; i < tree.Len(); i++ {
		reg := tree.Register(i)
		names = append(names, reg.QualifiedName())
		targets = append(targets, regmodel.RegisterPath(i))
		for j := 0; j < reg.NumFields(); j++ {
			names = append(names, reg.QualifiedName()+"."+reg.Field(j).Name)
			targets = append(targets, regmodel.FieldPath(i, j))
		}
	}
	return names, targets
}

func (m *TreeModel) openSearch() tea.Cmd {
	m.names, m.targets = searchCorpus(m.tree)
	m.matches = nil
	m.matchIdx = 0
	m.searching = true
	m.search.SetValue("")
	return m.search.Focus()
}

func (m *TreeModel) closeSearch() {
	m.searching = false
	m.search.Blur()
	m.matches = nil
}

// updateSearch handles keys while the search prompt is open
func (m TreeModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.searchKeys.Cancel):
		m.closeSearch()
		return m, nil

	case key.Matches(msg, m.searchKeys.Next):
		if len(m.matches) > 0 {
			m.matchIdx = (m.matchIdx + 1) % len(m.matches)
		}
		return m, nil

	case key.Matches(msg, m.searchKeys.Jump):
		if len(m.matches) == 0 {
			m.setStatus(fmt.Sprintf("no match for %q", m.search.Value()))
			m.closeSearch()
			return m, nil
		}
		target := m.targets[m.matches[m.matchIdx].Index]
		m.closeSearch()
		cmd := m.jumpTo(target)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if query := m.search.Value(); query != "" {
		m.matches = fuzzy.Find(query, m.names)
	} else {
		m.matches = nil
	}
	m.matchIdx = 0
	return m, cmd
}

// jumpTo moves the cursor to p, expanding its register if needed.
func (m *TreeModel) jumpTo(p regmodel.Path) tea.Cmd {
	var cmd tea.Cmd
	if p.IsField() && !m.tree.Register(p.Register).Expanded() {
		cmd = m.dispatch(regmodel.RegisterPath(p.Register), regmodel.ToggleExpand())
	}
	m.rows = visibleRows(m.tree)
	if i := indexOf(m.rows, p); i >= 0 {
		m.cursor = i
	}
	m.refresh()
	m.setStatus(nodeName(m.tree, p))
	return cmd
}
