// Package server exposes a register target to remote editors over WebSocket.
//
// The regtree-sim binary uses it to serve a simulated register file. Clients
// connect to ws://<host>:<port>/ws and exchange the JSON messages defined in
// package protocol, one response per request.
//
// # Usage Example
//
//	mem := bus.NewMemoryBus(doc.ResetValues(), bus.WithReadOnly(doc.ReadOnlyAddresses()...))
//	srv, err := server.New(&server.Config{
//	    Port:      7420,
//	    Device:    doc.Device,
//	    Advertise: true,
//	}, mem)
//	if err != nil {
//	    return err
//	}
//
//	// Start blocks until SIGINT/SIGTERM
//	return srv.Start()
//
// # Discovery
//
// With Advertise set, the server registers "_regtree._tcp" over mDNS with
// TXT records naming the device and register count (see package discovery).
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM the server withdraws its mDNS record, stops accepting
// connections, sends a close frame to every connected client and waits for
// their handlers to return.
//
// # Thread Safety
//
// Each connection runs in its own goroutine. The target must be safe for
// concurrent use; bus.MemoryBus is.
package server
