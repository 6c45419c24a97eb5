package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/blazra/regtree/internal/bus"
	"github.com/blazra/regtree/internal/logging"
	"github.com/blazra/regtree/internal/regmodel"
	"github.com/blazra/regtree/internal/valuefmt"
)

// noInput marks the editor as unbound.
const noInput regmodel.InputID = -1

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Options configures the viewer
type Options struct {
	Title          string        // Header title, usually the device name
	Backend        string        // Backend description, e.g. "sim" or a server URL
	ReadOnStart    bool          // Read every register when the viewer opens
	ReadAfterWrite bool          // Read a register back after each write
	Timeout        time.Duration // Per-transfer timeout (DefaultTimeout if zero)
}

// readAllMsg starts a read of every register
type readAllMsg struct{}

// TreeModel is the interactive register viewer
type TreeModel struct {
	tree *regmodel.Tree
	bus  bus.Bus
	opts Options

	// Visible rows and cursor
	rows   []regmodel.Path
	cursor int

	// Shared value editor, bound to at most one node
	input   textinput.Model
	bound   regmodel.InputID
	editing bool

	// Search prompt
	searching bool
	search    textinput.Model
	names     []string
	targets   []regmodel.Path
	matches   fuzzy.Matches
	matchIdx  int

	// Outstanding transfers
	pending    int
	batchTotal int
	batchDone  int
	spinner    spinner.Model
	progress   progress.Model

	status    string
	statusErr bool

	viewport viewport.Model
	width    int
	height   int

	help       help.Model
	keys       treeKeyMap
	editKeys   editKeyMap
	searchKeys searchKeyMap
	showHelp   bool
}

// NewTreeModel creates a viewer over tree, talking to b.
func NewTreeModel(tree *regmodel.Tree, b bus.Bus, opts Options) TreeModel {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 24
	input.Width = 20

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "register or field"
	search.CharLimit = 64
	search.Width = 24

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = selectedMarkStyle

	m := TreeModel{
		tree:       tree,
		bus:        b,
		opts:       opts,
		input:      input,
		bound:      noInput,
		search:     search,
		spinner:    s,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		viewport:   viewport.New(80, 20),
		width:      80,
		height:     26,
		help:       help.New(),
		keys:       newTreeKeyMap(),
		editKeys:   newEditKeyMap(),
		searchKeys: newSearchKeyMap(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m TreeModel) Init() tea.Cmd {
	if m.opts.ReadOnStart {
		return func() tea.Msg { return readAllMsg{} }
	}
	return nil
}

// Update implements tea.Model
func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case readAllMsg:
		cmd := m.readAll()
		return m, cmd

	case readCompleteMsg:
		cmd := m.handleRead(msg)
		return m, cmd

	case writeCompleteMsg:
		cmd := m.handleWrite(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case m.searching:
			return m.updateSearch(msg)
		case m.editing:
			return m.updateEditor(msg)
		default:
			return m.updateTree(msg)
		}
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	if m.editing {
		m.input, cmd = m.input.Update(msg)
	} else if m.searching {
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

// updateTree handles keys while browsing
func (m TreeModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.resize(m.width, m.height)
		return m, nil
	}
	if key.Matches(msg, m.keys.Search) {
		cmd := m.openSearch()
		return m, cmd
	}
	if key.Matches(msg, m.keys.ReadAll) {
		cmd := m.readAll()
		return m, cmd
	}

	p, ok := m.current()
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.refresh()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.refresh()

	case key.Matches(msg, m.keys.Expand):
		reg := m.tree.Register(p.Register)
		if !p.IsField() && !reg.Expanded() && reg.NumFields() > 0 {
			cmd = m.dispatch(p, regmodel.ToggleExpand())
		}

	case key.Matches(msg, m.keys.Collapse):
		if p.IsField() {
			m.cursor = indexOf(m.rows, regmodel.RegisterPath(p.Register))
			m.refresh()
		} else if m.tree.Register(p.Register).Expanded() {
			cmd = m.dispatch(p, regmodel.ToggleExpand())
		}

	case key.Matches(msg, m.keys.Select):
		cmd = m.dispatch(p, regmodel.Select())
		// A field still Editing after esc gets no RunFocus back
		if !m.editing && m.bound != noInput && inputID(m.tree, p) == m.bound {
			cmd = tea.Batch(cmd, m.focus(m.bound))
		}

	case key.Matches(msg, m.keys.Read):
		cmd = m.dispatch(p, regmodel.Read())

	case key.Matches(msg, m.keys.Write):
		cmd = m.dispatch(p, regmodel.Write())

	case key.Matches(msg, m.keys.Enum):
		cmd = m.cycleEnum(p)

	case key.Matches(msg, m.keys.Copy):
		m.copyValue(p)
	}
	return m, cmd
}

// updateEditor handles keys while the value editor has focus
func (m TreeModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, ok := m.tree.Lookup(m.bound)
	if !ok {
		m.unbind()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.editKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.editKeys.Cancel):
		m.input.Blur()
		m.editing = false
		return m, nil

	case key.Matches(msg, m.editKeys.Submit):
		if _, err := valuefmt.Parse(m.input.Value()); err != nil {
			m.setError(fmt.Sprintf("%s: %v", nodeName(m.tree, p), err))
			return m, nil
		}
		cmd := m.dispatch(p, regmodel.Submit())
		return m, cmd

	case key.Matches(msg, m.editKeys.Enum):
		cmd := m.cycleEnum(p)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		cmd = tea.Batch(cmd, m.dispatch(p, regmodel.InputChanged(value)))
	}
	return m, cmd
}

// dispatch sends an intent to the tree and executes the returned actions.
func (m *TreeModel) dispatch(p regmodel.Path, in regmodel.Intent) tea.Cmd {
	actions, err := m.tree.Dispatch(p, in)
	if err != nil {
		m.setError(err.Error())
		return nil
	}

	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	logging.LogDispatch(p.String(), in.Kind.String(), names)

	var cmds []tea.Cmd
	for _, a := range actions {
		switch a.Kind {
		case regmodel.ActionRequestRead:
			cmds = append(cmds, m.startRead(a.Register))
		case regmodel.ActionRequestWrite:
			cmds = append(cmds, m.startWrite(a.Register, a.Value))
		case regmodel.ActionRunFocus:
			cmds = append(cmds, m.focus(a.Input))
		}
	}

	m.reconcileInput()
	m.refresh()
	return tea.Batch(cmds...)
}

// focus binds the editor to the node owning id.
func (m *TreeModel) focus(id regmodel.InputID) tea.Cmd {
	p, ok := m.tree.Lookup(id)
	if !ok {
		return nil
	}
	m.bound = id
	m.editing = true
	m.input.SetValue(inputText(m.tree, p))
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *TreeModel) unbind() {
	m.bound = noInput
	m.editing = false
	m.input.Blur()
	m.input.SetValue("")
}

// reconcileInput keeps the editor in step with the node it is bound to.
// Nodes forced back to Idle lose the editor.
func (m *TreeModel) reconcileInput() {
	if m.bound == noInput {
		return
	}
	p, ok := m.tree.Lookup(m.bound)
	if !ok {
		m.unbind()
		return
	}
	if state, err := m.tree.State(p); err != nil || state == regmodel.Idle {
		m.unbind()
		return
	}
	if text := inputText(m.tree, p); m.input.Value() != text {
		m.input.SetValue(text)
		m.input.CursorEnd()
	}
}

// cycleEnum opens the editor on a field and loads its next enum value.
func (m *TreeModel) cycleEnum(p regmodel.Path) tea.Cmd {
	if !p.IsField() {
		m.setStatus("enum values are only defined on fields")
		return nil
	}
	f := m.tree.Register(p.Register).Field(p.Field)
	if len(f.EnumValues) == 0 {
		m.setStatus(fmt.Sprintf("%s has no enum values", nodeName(m.tree, p)))
		return nil
	}

	var cmds []tea.Cmd
	for i := 0; i < 2 && f.State() != regmodel.Editing; i++ {
		cmds = append(cmds, m.dispatch(p, regmodel.Select()))
	}
	if !m.editing {
		cmds = append(cmds, m.focus(f.InputID))
	}

	next := 0
	if current, err := valuefmt.Parse(f.InputText()); err == nil {
		for i, ev := range f.EnumValues {
			if ev.Value == current {
				next = (i + 1) % len(f.EnumValues)
				break
			}
		}
	}
	cmds = append(cmds, m.dispatch(p, regmodel.SelectEnum(next)))
	m.setStatus(fmt.Sprintf("%s = %s", nodeName(m.tree, p), f.EnumValues[next].Name))
	return tea.Batch(cmds...)
}

// copyValue puts the read value of the node at p on the clipboard.
func (m *TreeModel) copyValue(p regmodel.Path) {
	reg := m.tree.Register(p.Register)
	text := valuefmt.RenderRegister(reg.ValueRead())
	if p.IsField() {
		f := reg.Field(p.Field)
		text = f.Render(f.ValueRead())
	}
	if err := writeClipboard(text); err != nil {
		m.setError(fmt.Sprintf("clipboard: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("copied %s = %s", nodeName(m.tree, p), text))
}

// readAll requests a read of every register as one batch.
func (m *TreeModel) readAll() tea.Cmd {
	if m.tree.Len() == 0 {
		return nil
	}
	if m.pending == 0 {
		m.batchTotal, m.batchDone = 0, 0
	}
	m.batchTotal += m.tree.Len()

	cmds := make([]tea.Cmd, 0, m.tree.Len())
	for i := 0; i < m.tree.Len(); i++ {
		cmds = append(cmds, m.dispatch(regmodel.RegisterPath(i), regmodel.Read()))
	}
	return tea.Batch(cmds...)
}

func (m *TreeModel) startRead(register int) tea.Cmd {
	reg := m.tree.Register(register)
	return tea.Batch(
		m.begin(),
		readRegisterCmd(m.bus, m.opts.Timeout, register, reg.Address),
	)
}

func (m *TreeModel) startWrite(register int, value uint16) tea.Cmd {
	reg := m.tree.Register(register)
	return tea.Batch(
		m.begin(),
		writeRegisterCmd(m.bus, m.opts.Timeout, register, reg.Address, value),
	)
}

// begin counts a new transfer and starts the spinner on the first one.
func (m *TreeModel) begin() tea.Cmd {
	m.pending++
	if m.pending == 1 {
		return m.spinner.Tick
	}
	return nil
}

func (m *TreeModel) finish() {
	if m.pending > 0 {
		m.pending--
	}
	if m.batchTotal > 0 {
		m.batchDone++
	}
	if m.pending == 0 {
		m.batchTotal, m.batchDone = 0, 0
	}
}

func (m *TreeModel) handleRead(msg readCompleteMsg) tea.Cmd {
	m.finish()
	reg := m.tree.Register(msg.register)
	if msg.err != nil {
		m.setError(fmt.Sprintf("read %s: %s", reg.QualifiedName(), bus.ShortMessage(msg.err)))
		return nil
	}
	if err := m.tree.SetReadValue(msg.register, msg.value); err != nil {
		m.setError(err.Error())
		return nil
	}
	if m.batchTotal == 0 {
		m.setStatus(fmt.Sprintf("read %s = %s", reg.QualifiedName(), valuefmt.RenderRegister(msg.value)))
	}
	m.reconcileInput()
	m.refresh()
	return nil
}

func (m *TreeModel) handleWrite(msg writeCompleteMsg) tea.Cmd {
	m.finish()
	reg := m.tree.Register(msg.register)
	if msg.err != nil {
		m.setError(fmt.Sprintf("write %s: %s", reg.QualifiedName(), bus.ShortMessage(msg.err)))
		return nil
	}
	m.setStatus(fmt.Sprintf("wrote %s = %s", reg.QualifiedName(), valuefmt.RenderRegister(msg.value)))
	if m.opts.ReadAfterWrite {
		return m.startRead(msg.register)
	}
	return nil
}

func (m *TreeModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *TreeModel) setError(s string) {
	m.status = s
	m.statusErr = true
}

// current returns the path under the cursor.
func (m *TreeModel) current() (regmodel.Path, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return regmodel.Path{}, false
	}
	return m.rows[m.cursor], true
}

// refresh rebuilds the visible rows, keeping the cursor on the same node
// when it is still shown and on its register otherwise.
func (m *TreeModel) refresh() {
	prev, hadPrev := m.current()
	m.rows = visibleRows(m.tree)

	if hadPrev {
		if i := indexOf(m.rows, prev); i >= 0 {
			m.cursor = i
		} else {
			m.cursor = indexOf(m.rows, regmodel.RegisterPath(prev.Register))
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	m.viewport.SetContent(renderRows(m.tree, m.rows, m.cursor))
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// chromeHeight is the number of lines drawn around the viewport.
func (m *TreeModel) chromeHeight() int {
	h := 5 // header, blank, editor, status, help
	if m.showHelp {
		h += 4
	}
	return h
}

func (m *TreeModel) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = height - m.chromeHeight()
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.help.Width = width
	m.progress.Width = min(40, max(10, width-20))
	m.refresh()
}
