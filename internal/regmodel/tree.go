package regmodel

import (
	"fmt"

	"github.com/blazra/regtree/internal/bitfield"
	"github.com/blazra/regtree/internal/valuefmt"
)

// Tree is the ordered collection of registers. It enforces that at most one
// node in the whole tree is Selected or Editing.
type Tree struct {
	registers []Register
	inputs    []Path // indexed by InputID
}

// NewTree builds a tree from register definitions. Every field geometry is
// validated first; a definition that does not fit in 16 bits aborts the
// build with an error wrapping *bitfield.GeometryError.
func NewTree(defs []RegisterDef) (*Tree, error) {
	for _, def := range defs {
		for _, fd := range def.Fields {
			g := bitfield.Geometry{Offset: fd.Offset, Width: fd.Width}
			if err := g.Validate(); err != nil {
				return nil, fmt.Errorf("register %q field %q: %w", def.Name, fd.Name, err)
			}
		}
	}

	t := &Tree{registers: make([]Register, len(defs))}
	for i, def := range defs {
		r := Register{
			Name:        def.Name,
			Description: def.Description,
			Peripheral:  def.Peripheral,
			Address:     def.Address,
			ResetValue:  def.ResetValue,
			Index:       i,
			InputID:     t.allocInput(RegisterPath(i)),
			valueRead:   def.ResetValue,
			valueWrite:  def.ResetValue,
			inputText:   valuefmt.RenderRegister(def.ResetValue),
			fields:      make([]Field, len(def.Fields)),
		}
		for j, fd := range def.Fields {
			r.fields[j] = newField(fd, t.allocInput(FieldPath(i, j)), def.ResetValue, def.ResetValue)
		}
		t.registers[i] = r
	}
	return t, nil
}

func (t *Tree) allocInput(p Path) InputID {
	t.inputs = append(t.inputs, p)
	return InputID(len(t.inputs) - 1)
}

// Len returns the number of registers.
func (t *Tree) Len() int { return len(t.registers) }

// Register returns register i. It panics if i is out of range.
func (t *Tree) Register(i int) *Register { return &t.registers[i] }

// Lookup returns the node that owns an input.
func (t *Tree) Lookup(id InputID) (Path, bool) {
	if id < 0 || int(id) >= len(t.inputs) {
		return Path{}, false
	}
	return t.inputs[id], true
}

// Active returns the path of the node that is Selected or Editing, if any.
func (t *Tree) Active() (Path, bool) {
	for i := range t.registers {
		r := &t.registers[i]
		if r.state.Active() {
			return RegisterPath(i), true
		}
		for j := range r.fields {
			if r.fields[j].state.Active() {
				return FieldPath(i, j), true
			}
		}
	}
	return Path{}, false
}

// State returns the interaction state of the node at p.
func (t *Tree) State(p Path) (EditState, error) {
	if err := t.checkPath(p); err != nil {
		return Idle, err
	}
	r := &t.registers[p.Register]
	if p.IsField() {
		return r.fields[p.Field].state, nil
	}
	return r.state, nil
}

// Dispatch applies one intent to the node at p and returns the side effects
// the caller must execute. Selection intents first force every other node in
// the tree back to Idle.
func (t *Tree) Dispatch(p Path, in Intent) ([]Action, error) {
	if err := t.checkPath(p); err != nil {
		return nil, err
	}

	if in.Kind == IntentSelect {
		t.invalidateExcept(p)
	}

	r := &t.registers[p.Register]
	if p.IsField() {
		return r.updateField(p.Field, in), nil
	}
	return r.update(in), nil
}

// SetReadValue records a completed hardware read of register i.
func (t *Tree) SetReadValue(i int, value uint16) error {
	if i < 0 || i >= len(t.registers) {
		return &PathError{Path: RegisterPath(i), Reason: fmt.Sprintf("tree has %d registers", len(t.registers))}
	}
	t.registers[i].SetReadValue(value)
	return nil
}

// invalidateExcept returns every node except the one at keep to Idle.
func (t *Tree) invalidateExcept(keep Path) {
	for i := range t.registers {
		r := &t.registers[i]
		if keep != RegisterPath(i) {
			r.reset()
		}
		for j := range r.fields {
			if keep != FieldPath(i, j) {
				r.fields[j].reset()
			}
		}
	}
}

func (t *Tree) checkPath(p Path) error {
	if p.Register < 0 || p.Register >= len(t.registers) {
		return &PathError{Path: p, Reason: fmt.Sprintf("tree has %d registers", len(t.registers))}
	}
	if p.IsField() {
		n := len(t.registers[p.Register].fields)
		if p.Field < 0 || p.Field >= n {
			return &PathError{Path: p, Reason: fmt.Sprintf("register has %d fields", n)}
		}
	}
	return nil
}
