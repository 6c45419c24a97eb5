package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/blazra/regtree/internal/bus"
	"github.com/blazra/regtree/internal/regdef"
	"github.com/blazra/regtree/internal/regmodel"
)

// Demo register indices
const (
	regMODER = 0
	regIDR   = 1
	regODR   = 2
	regCR1   = 3
)

// cmdTimeout bounds how long a command may block before the helper gives up
// on it. Cursor blink commands never return within it and are dropped.
const cmdTimeout = 50 * time.Millisecond

// TestHelper drives a TreeModel with key messages and executes the bus
// commands it returns synchronously.
type TestHelper struct {
	t     *testing.T
	model TreeModel
	bus   *bus.MemoryBus
}

// NewTestHelper creates a viewer over the demo register map backed by a
// memory bus.
func NewTestHelper(t *testing.T, opts Options) *TestHelper {
	t.Helper()

	doc := regdef.Demo()
	tree, err := doc.BuildTree()
	require.NoError(t, err)

	mb := bus.NewMemoryBus(doc.ResetValues(), bus.WithReadOnly(doc.ReadOnlyAddresses()...))
	h := &TestHelper{t: t, bus: mb, model: NewTreeModel(tree, mb, opts)}
	return h.SendWindowSize(120, 40)
}

func (h *TestHelper) update(msg tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(TreeModel)
	return cmd
}

// run executes cmd and feeds every viewer message it produces back into
// the model until no work is left.
func (h *TestHelper) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := runCmd(next).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case readAllMsg, readCompleteMsg, writeCompleteMsg:
			queue = append(queue, h.update(msg))
		}
	}
}

func runCmd(cmd tea.Cmd) tea.Msg {
	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()
	select {
	case msg := <-result:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// SendKey simulates a key press and runs the resulting commands
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	h.run(h.update(tea.KeyMsg{Type: keyType}))
	return h
}

// SendKeyRunes types s one character at a time
func (h *TestHelper) SendKeyRunes(s string) *TestHelper {
	for _, r := range s {
		h.run(h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}))
	}
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	h.update(tea.WindowSizeMsg{Width: width, Height: height})
	return h
}

// MoveTo places the cursor on path p, which must be visible.
func (h *TestHelper) MoveTo(p regmodel.Path) *TestHelper {
	h.t.Helper()
	i := indexOf(h.model.rows, p)
	require.GreaterOrEqual(h.t, i, 0, "%s is not visible", p)
	for h.model.cursor < i {
		h.SendKey(tea.KeyDown)
	}
	for h.model.cursor > i {
		h.SendKey(tea.KeyUp)
	}
	return h
}

// Tree returns the model's register tree
func (h *TestHelper) Tree() *regmodel.Tree {
	return h.model.tree
}

// BoundPath returns the node the editor is bound to
func (h *TestHelper) BoundPath() (regmodel.Path, bool) {
	if h.model.bound == noInput {
		return regmodel.Path{}, false
	}
	return h.model.tree.Lookup(h.model.bound)
}

// State returns the interaction state at p
func (h *TestHelper) State(p regmodel.Path) regmodel.EditState {
	h.t.Helper()
	s, err := h.model.tree.State(p)
	require.NoError(h.t, err)
	return s
}
