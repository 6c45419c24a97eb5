// Package logging provides structured logging for the regtree tools.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent by default; it is enabled by passing a level to Initialize or by
// setting REGTREE_LOG_LEVEL.
//
// # Log Levels
//
//   - Debug: every dispatched intent and every bus transfer
//   - Info: connections, server lifecycle, definition loading
//   - Warn: failed bus transfers, dropped connections
//   - Error: startup failures
//
// # Output
//
// The interactive viewer draws on the terminal, so its logs should go to a
// file:
//
//	if err := logging.InitializeWithOutput("debug", "/tmp/regtree.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The simulator server logs to stderr in console format.
//
// # Specialized Logging
//
//	logging.LogDispatch(path.String(), intent.Kind.String(), actionNames)
//	logging.LogBusTransfer("write", 0x4814, 0x1234, err)
//	logging.LogConnection(remoteAddr, "websocket_upgraded")
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned. The underlying zap logger handles synchronization.
package logging
