package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/blazra/regtree/internal/ui"
)

// Viewer styles. Colours come from the shared ui palette.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3A3A5A")).
			Bold(true)

	selectedMarkStyle = lipgloss.NewStyle().
				Foreground(ui.SuccessColor).
				Bold(true)

	editingMarkStyle = lipgloss.NewStyle().
				Foreground(ui.WarningColor).
				Bold(true)

	editorLabelStyle = lipgloss.NewStyle().
				Foreground(ui.MutedColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(ui.ErrorColor).
				Bold(true)

	matchStyle = lipgloss.NewStyle().
			Foreground(ui.AccentColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			PaddingLeft(1)
)
