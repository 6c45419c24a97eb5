package protocol

import (
	"fmt"
	"sync/atomic"
)

// Op is a request operation.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
	OpInfo  Op = "info"
)

// Code classifies a failed request.
type Code string

const (
	CodeUnknownAddress Code = "unknown_address"
	CodeReadOnly       Code = "read_only"
	CodeBadRequest     Code = "bad_request"
	CodeInternal       Code = "internal"
)

// Request is sent by the client.
type Request struct {
	ID      uint32 `json:"id"`
	Op      Op     `json:"op"`
	Address uint32 `json:"address,omitempty"`
	Value   uint16 `json:"value,omitempty"`
}

// Response answers the Request with the same ID.
type Response struct {
	ID      uint32 `json:"id"`
	Op      Op     `json:"op"`
	Address uint32 `json:"address,omitempty"`
	Value   uint16 `json:"value,omitempty"`
	Count   int    `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    Code   `json:"code,omitempty"`
}

// Failed reports whether the response carries an error.
func (r *Response) Failed() bool {
	return r.Error != ""
}

// Validate checks that a request is well formed.
func (r *Request) Validate() error {
	if r.ID == 0 {
		return fmt.Errorf("request id must be non-zero")
	}
	switch r.Op {
	case OpRead, OpWrite, OpInfo:
		return nil
	case "":
		return fmt.Errorf("request %d has no op", r.ID)
	default:
		return fmt.Errorf("request %d has unknown op %q", r.ID, r.Op)
	}
}

// String returns a debug representation of the request
func (r *Request) String() string {
	switch r.Op {
	case OpWrite:
		return fmt.Sprintf("Request{id=%d, write 0x%04X to 0x%X}", r.ID, r.Value, r.Address)
	case OpRead:
		return fmt.Sprintf("Request{id=%d, read 0x%X}", r.ID, r.Address)
	default:
		return fmt.Sprintf("Request{id=%d, %s}", r.ID, r.Op)
	}
}

var requestIDCounter uint32

// GenerateRequestID returns a process-unique request ID. Zero is never
// returned. Safe for concurrent use.
func GenerateRequestID() uint32 {
	for {
		id := atomic.AddUint32(&requestIDCounter, 1)
		if id != 0 {
			return id
		}
	}
}

// NewReadRequest builds a read request with a fresh ID.
func NewReadRequest(address uint32) *Request {
	return &Request{ID: GenerateRequestID(), Op: OpRead, Address: address}
}

// NewWriteRequest builds a write request with a fresh ID.
func NewWriteRequest(address uint32, value uint16) *Request {
	return &Request{ID: GenerateRequestID(), Op: OpWrite, Address: address, Value: value}
}

// NewInfoRequest builds an info request with a fresh ID.
func NewInfoRequest() *Request {
	return &Request{ID: GenerateRequestID(), Op: OpInfo}
}

// ErrorResponse builds a failed response to req.
func ErrorResponse(req *Request, code Code, err error) *Response {
	return &Response{
		ID:      req.ID,
		Op:      req.Op,
		Address: req.Address,
		Error:   err.Error(),
		Code:    code,
	}
}
