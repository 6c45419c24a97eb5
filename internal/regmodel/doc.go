// Package regmodel holds the editable value model behind the register viewer.
//
// A Tree owns an ordered list of Registers; each Register owns an ordered list
// of Fields. Every node keeps two shadow values: the value last read from
// hardware and the value staged for the next write. Field shadows are always
// the right-aligned, masked slice of the owning register's shadow, so the two
// granularities can never disagree:
//
//   - changing a register's write value re-derives every field's write value
//   - submitting a field value merges it into the register's write value and
//     then re-derives every field from the result
//   - read values only change through Tree.SetReadValue, which the hardware
//     I/O layer calls when a read completes
//
// # Interaction state
//
// Each node has an EditState (Idle, Selected, Editing). Across the whole tree
// at most one node is non-Idle. Selecting a node first forces every other
// node back to Idle, discarding any unsubmitted text, and only then applies
// the selection to the addressed node.
//
// # Intents and actions
//
// All user input enters through Tree.Dispatch as an Intent addressed by a
// Path. Dispatch never performs I/O. Instead it returns Actions (focus an
// input, read a register, write a register) that the caller executes:
//
//	actions, err := tree.Dispatch(regmodel.FieldPath(0, 2), regmodel.Select())
//	for _, a := range actions {
//	    switch a.Kind {
//	    case regmodel.ActionRunFocus:
//	        // focus a.Input
//	    case regmodel.ActionRequestWrite:
//	        // write a.Value to register a.Register
//	    }
//	}
//
// The tree is not safe for concurrent use; it is meant to be owned by a
// single event loop.
package regmodel
