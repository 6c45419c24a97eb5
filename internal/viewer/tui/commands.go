package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blazra/regtree/internal/bus"
)

// DefaultTimeout bounds a single bus transfer started from the viewer.
const DefaultTimeout = 3 * time.Second

// Messages carrying bus results back into Update
type readCompleteMsg struct {
	register int
	value    uint16
	err      error
}

type writeCompleteMsg struct {
	register int
	value    uint16
	err      error
}

// readRegisterCmd reads one register in the background
func readRegisterCmd(b bus.Bus, timeout time.Duration, register int, address uint32) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		value, err := b.Read(ctx, address)
		return readCompleteMsg{register: register, value: value, err: err}
	}
}

// writeRegisterCmd writes one register in the background
func writeRegisterCmd(b bus.Bus, timeout time.Duration, register int, address uint32, value uint16) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := b.Write(ctx, address, value)
		return writeCompleteMsg{register: register, value: value, err: err}
	}
}
