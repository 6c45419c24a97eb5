// Package ui renders run-once terminal output for the regtree commands.
//
// Unlike the interactive viewer in internal/viewer/tui, these components
// print once and exit. `regtree dump` prints a register tree with its read
// and staged values; `regtree scan` prints the register servers found over
// mDNS.
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader(doc.Device, "regtree dump", ui.Param{Key: "Backend", Value: "sim"})
//	p.Println(ui.RenderTree(tree, ui.TreeOptions{Fields: true}))
//
// The colour palette and lipgloss styles here are shared with the viewer.
//
// # Logging Integration
//
// Logging is silent unless REGTREE_LOG_LEVEL is set, so zap output does not
// interleave with the rendered tables.
package ui
