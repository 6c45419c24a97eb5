package regmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionIsExclusive(t *testing.T) {
	tree := newTestTree(t)

	var paths []Path
	for i := 0; i < tree.Len(); i++ {
		paths = append(paths, RegisterPath(i))
		for j := 0; j < tree.Register(i).NumFields(); j++ {
			paths = append(paths, FieldPath(i, j))
		}
	}

	// Select every node twice in an interleaved order and check the invariant
	// after each step.
	order := append(append([]Path{}, paths...), paths...)
	order = append(order, paths[3], paths[3], paths[0], paths[6], paths[6], paths[6])
	for _, p := range order {
		dispatch(t, tree, p, Select())
		active := activeNodes(tree)
		require.Len(t, active, 1, "after selecting %s", p)
		assert.Equal(t, p, active[0])

		got, ok := tree.Active()
		require.True(t, ok)
		assert.Equal(t, p, got)
	}
}

func TestFieldSelectionTransitions(t *testing.T) {
	tree := newTestTree(t)
	p := FieldPath(0, 1)
	mode := tree.Register(0).Field(1)

	actions := dispatch(t, tree, p, Select())
	assert.Empty(t, actions)
	assert.Equal(t, Selected, mode.State())

	actions = dispatch(t, tree, p, Select())
	assert.Equal(t, []Action{RunFocus(mode.InputID)}, actions)
	assert.Equal(t, Editing, mode.State())

	actions = dispatch(t, tree, p, Select())
	assert.Empty(t, actions, "selecting an editing field is a no-op")
	assert.Equal(t, Editing, mode.State())
}

func TestRegisterSelectionTransitions(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)

	actions := dispatch(t, tree, RegisterPath(0), Select())
	assert.Equal(t, []Action{RunFocus(ctrl.InputID)}, actions)
	assert.Equal(t, Selected, ctrl.State())

	dispatch(t, tree, RegisterPath(0), Select())
	assert.Equal(t, Selected, ctrl.State(), "re-selecting a register does not open an editing state")

	dispatch(t, tree, RegisterPath(0), InputChanged("0x12"))
	assert.Equal(t, Editing, ctrl.State(), "typing moves the register to editing")
	assert.Equal(t, "0x12", ctrl.InputText())

	dispatch(t, tree, RegisterPath(0), Select())
	assert.Equal(t, Editing, ctrl.State())
}

func TestSelectingDiscardsOtherEdits(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)
	status := tree.Register(1)

	dispatch(t, tree, RegisterPath(0), Select())
	dispatch(t, tree, RegisterPath(0), InputChanged("0x1234"))
	require.Equal(t, "0x1234", ctrl.InputText())

	dispatch(t, tree, FieldPath(1, 0), Select())

	assert.Equal(t, Idle, ctrl.State())
	assert.Equal(t, "0x00F0", ctrl.InputText(), "unsubmitted text is dropped")
	assert.Equal(t, uint16(0x00F0), ctrl.ValueWrite())
	assert.Equal(t, Selected, status.Field(0).State())
}

func TestSelectingFieldIdlesItsRegister(t *testing.T) {
	tree := newTestTree(t)

	dispatch(t, tree, RegisterPath(0), Select())
	dispatch(t, tree, FieldPath(0, 0), Select())

	assert.Equal(t, Idle, tree.Register(0).State())
	assert.Equal(t, Selected, tree.Register(0).Field(0).State())
}

func TestRegisterSubmit(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)

	dispatch(t, tree, RegisterPath(0), Select())
	dispatch(t, tree, RegisterPath(0), InputChanged(" 0x1234 "))
	actions := dispatch(t, tree, RegisterPath(0), Submit())

	assert.Equal(t, []Action{RequestWrite(0, 0x1234)}, actions)
	assert.Equal(t, uint16(0x1234), ctrl.ValueWrite())
	assert.Equal(t, "0x1234", ctrl.InputText())
	assert.Equal(t, Selected, ctrl.State())
	assert.Equal(t, uint16(0x3), ctrl.Field(1).ValueWrite())
	assert.Equal(t, uint16(0x12), ctrl.Field(2).ValueWrite())
}

func TestRegisterSubmitRejectsInvalidText(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)

	dispatch(t, tree, RegisterPath(0), Select())
	dispatch(t, tree, RegisterPath(0), InputChanged("0xZZ"))
	actions := dispatch(t, tree, RegisterPath(0), Submit())

	assert.Empty(t, actions)
	assert.Equal(t, uint16(0x00F0), ctrl.ValueWrite())
	assert.Equal(t, "0xZZ", ctrl.InputText(), "rejected text stays in the editor")
	assert.Equal(t, Editing, ctrl.State())
}

func TestFieldSubmit(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)
	p := FieldPath(0, 1)

	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, InputChanged("0x5"))
	actions := dispatch(t, tree, p, Submit())

	assert.Equal(t, []Action{RunFocus(ctrl.InputID)}, actions)
	assert.Equal(t, uint16(0x0050), ctrl.ValueWrite())
	assert.Equal(t, "0x0050", ctrl.InputText())
	assert.Equal(t, uint16(0x5), ctrl.Field(1).ValueWrite())
	assert.Equal(t, Idle, ctrl.Field(1).State())
	assert.Equal(t, Selected, ctrl.State(), "focus returns to the register")
	assert.Len(t, activeNodes(tree), 1)
}

func TestFieldSubmitMasksToWidth(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)
	p := FieldPath(0, 1)

	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, InputChanged("0x1A"))
	dispatch(t, tree, p, Submit())

	assert.Equal(t, uint16(0xA), ctrl.Field(1).ValueWrite())
	assert.Equal(t, uint16(0x00A0), ctrl.ValueWrite())
}

func TestFieldSubmitRejectsInvalidText(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)
	p := FieldPath(0, 1)

	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, InputChanged("0xZZ"))
	actions := dispatch(t, tree, p, Submit())

	assert.Empty(t, actions)
	assert.Equal(t, uint16(0x00F0), ctrl.ValueWrite())
	assert.Equal(t, uint16(0xF), ctrl.Field(1).ValueWrite())
	assert.Equal(t, "0xZZ", ctrl.Field(1).InputText())
	assert.Equal(t, Editing, ctrl.Field(1).State())
}

func TestInputIgnoredWhenNotEditing(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)

	assert.Empty(t, dispatch(t, tree, RegisterPath(0), InputChanged("5")))
	assert.Empty(t, dispatch(t, tree, RegisterPath(0), Submit()))
	assert.Equal(t, "0x00F0", ctrl.InputText())
	assert.Equal(t, Idle, ctrl.State())

	// A selected (not yet editing) field has no open editor.
	dispatch(t, tree, FieldPath(0, 1), Select())
	dispatch(t, tree, FieldPath(0, 1), InputChanged("3"))
	assert.Empty(t, dispatch(t, tree, FieldPath(0, 1), Submit()))
	assert.Equal(t, "0xF", ctrl.Field(1).InputText())
	assert.Equal(t, uint16(0x00F0), ctrl.ValueWrite())
}

func TestSelectEnum(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)
	p := FieldPath(0, 0)

	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, Select())
	dispatch(t, tree, p, SelectEnum(1))
	assert.Equal(t, "1", ctrl.Field(0).InputText())

	dispatch(t, tree, p, SelectEnum(9))
	assert.Equal(t, "1", ctrl.Field(0).InputText(), "out of range enum index is ignored")

	dispatch(t, tree, p, Submit())
	assert.Equal(t, uint16(0x00F1), ctrl.ValueWrite())
	name, ok := ctrl.Field(0).ResolveEnumName(ctrl.Field(0).ValueWrite())
	assert.True(t, ok)
	assert.Equal(t, "On", name)
}

func TestReadWriteIntents(t *testing.T) {
	tree := newTestTree(t)
	tree.Register(1).SetWriteValue(0xBEEF)

	assert.Equal(t, []Action{RequestRead(1)}, dispatch(t, tree, RegisterPath(1), Read()))
	assert.Equal(t, []Action{RequestWrite(1, 0xBEEF)}, dispatch(t, tree, RegisterPath(1), Write()))
	assert.Equal(t, []Action{RequestRead(1)}, dispatch(t, tree, FieldPath(1, 0), Read()),
		"field rows read their register")
	assert.Empty(t, activeNodes(tree), "read and write do not change selection")
}

func TestEditingFieldShowsCurrentValue(t *testing.T) {
	tree := newTestTree(t)
	ctrl := tree.Register(0)
	ctrl.SetWriteValue(0x0030)

	// The field text is not touched by register updates until its editor
	// opens.
	assert.Equal(t, "0xF", ctrl.Field(1).InputText())

	dispatch(t, tree, FieldPath(0, 1), Select())
	dispatch(t, tree, FieldPath(0, 1), Select())
	assert.Equal(t, "0x3", ctrl.Field(1).InputText())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "request_read(reg[2])", RequestRead(2).String())
	assert.Equal(t, "request_write(reg[0], 0x00F0)", RequestWrite(0, 0xF0).String())
	assert.Equal(t, "run_focus(4)", RunFocus(4).String())
	assert.Equal(t, "reg[1].field[3]", FieldPath(1, 3).String())
}
