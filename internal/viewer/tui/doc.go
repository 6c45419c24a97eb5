// Package tui implements the interactive register viewer.
//
// The viewer is a single Bubble Tea model, TreeModel, wrapped around a
// regmodel.Tree and a bus.Bus. It follows the Elm architecture: key presses
// are translated into regmodel intents, Tree.Dispatch applies them and
// returns actions, and the model turns those actions into tea.Cmd values.
// The register model itself never touches the terminal or the bus.
//
// # Action mapping
//
//   - ActionRequestRead runs bus.Read in a command and feeds the result back
//     through Tree.SetReadValue.
//   - ActionRequestWrite runs bus.Write, optionally followed by a read-back.
//   - ActionRunFocus binds the single shared text input to the node that owns
//     the InputID and focuses it.
//
// Bus failures are reported on the status line. They never end the program.
//
// # Framework Components
//
//   - bubbles/textinput: the value editor shared by every node
//   - bubbles/viewport: scrolling over the visible rows
//   - bubbles/spinner: shown while transfers are outstanding
//   - bubbles/progress: batch progress for "read all"
//   - bubbles/help: context-aware key help
//   - sahilm/fuzzy: "/" search over register and field names
//   - atotto/clipboard: copying values
//
// # Usage Example
//
//	tree, _ := doc.BuildTree()
//	err := tui.Run(tree, bus.NewMemoryBus(doc.ResetValues()), tui.Options{
//	    Title:       "DEMO16",
//	    ReadOnStart: true,
//	})
package tui
