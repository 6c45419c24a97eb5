// Package protocol defines the messages exchanged between regtree and a
// remote register server.
//
// Messages are JSON objects carried in WebSocket text frames. The client
// sends one Request at a time and waits for the Response with the same ID:
//
//	→ {"id":7,"op":"write","address":18452,"value":4660}
//	← {"id":7,"op":"write","address":18452,"value":4660}
//
//	→ {"id":8,"op":"read","address":18456}
//	← {"id":8,"op":"read","address":18456,"error":"unknown register address 0x4818","code":"unknown_address"}
//
// # Operations
//
//   - read: returns the current value of the register at Address
//   - write: stores Value in the register at Address and echoes it back
//   - info: returns the number of registers served in Count
//
// Failed requests carry a human readable Error and a machine readable Code
// (see the Code constants) so clients can classify the failure.
//
// Handle implements the server side of the exchange against any Target.
package protocol
