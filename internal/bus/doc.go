// Package bus moves 16-bit register values between the editor and hardware.
//
// A Bus reads and writes registers by absolute address. Two implementations
// are provided:
//
//   - MemoryBus keeps register values in memory, seeded from reset values.
//     It backs the offline simulator and the regtree-sim server.
//   - RemoteBus speaks the JSON protocol in package protocol over a
//     WebSocket connection to a regtree-sim (or compatible) server.
//
// # Errors
//
// Every failure is reported as a *BusError carrying an ErrorType and a
// Retryable flag. RemoteBus retries retryable failures with exponential
// backoff before giving up.
//
//	value, err := b.Read(ctx, 0x4814)
//	if bus.IsRetryable(err) {
//	    // transport trouble, the device may come back
//	}
//
// # Concurrency
//
// Both implementations are safe for concurrent use. RemoteBus keeps a single
// request in flight at a time.
package bus
