package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blazra/regtree/internal/bus"
	"github.com/blazra/regtree/internal/regmodel"
)

// Run opens the viewer full-screen and blocks until the user quits.
func Run(tree *regmodel.Tree, b bus.Bus, opts Options) error {
	program := tea.NewProgram(NewTreeModel(tree, b, opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
