package bus

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/blazra/regtree/internal/protocol"
)

// ErrorType represents the category of a bus failure
type ErrorType int

const (
	// ErrTypeTransport indicates the connection to the device failed
	ErrTypeTransport ErrorType = iota
	// ErrTypeTimeout indicates the device did not answer in time
	ErrTypeTimeout
	// ErrTypeRemote indicates the device reported an internal failure
	ErrTypeRemote
	// ErrTypeUnknownAddress indicates no register lives at the address
	ErrTypeUnknownAddress
	// ErrTypeReadOnly indicates a write to a read-only register
	ErrTypeReadOnly
	// ErrTypeClosed indicates the bus was used after Close
	ErrTypeClosed
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeRemote:
		return "Remote Error"
	case ErrTypeUnknownAddress:
		return "Unknown Address"
	case ErrTypeReadOnly:
		return "Read Only"
	case ErrTypeClosed:
		return "Bus Closed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// BusError describes a failed register transfer
type BusError struct {
	Type      ErrorType
	Address   uint32
	Message   string
	Err       error
	Retryable bool
}

// Error implements the error interface
func (e *BusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at 0x%08X: %s (caused by: %v)", e.Type, e.Address, e.Message, e.Err)
	}
	return fmt.Sprintf("%s at 0x%08X: %s", e.Type, e.Address, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *BusError) Unwrap() error {
	return e.Err
}

// ProtocolCode maps the error onto the wire error code.
func (e *BusError) ProtocolCode() protocol.Code {
	switch e.Type {
	case ErrTypeUnknownAddress:
		return protocol.CodeUnknownAddress
	case ErrTypeReadOnly:
		return protocol.CodeReadOnly
	default:
		return protocol.CodeInternal
	}
}

// NewUnknownAddressError reports an access to an unmapped address
func NewUnknownAddressError(address uint32) *BusError {
	return &BusError{
		Type:    ErrTypeUnknownAddress,
		Address: address,
		Message: "no register at address",
	}
}

// NewReadOnlyError reports a write to a read-only register
func NewReadOnlyError(address uint32) *BusError {
	return &BusError{
		Type:    ErrTypeReadOnly,
		Address: address,
		Message: "register is read-only",
	}
}

// NewClosedError reports use of a closed bus
func NewClosedError(address uint32) *BusError {
	return &BusError{
		Type:    ErrTypeClosed,
		Address: address,
		Message: "bus is closed",
	}
}

// ClassifyTransportError turns a connection-level failure into a BusError
func ClassifyTransportError(err error, address uint32) *BusError {
	if err == nil {
		return nil
	}

	var busErr *BusError
	if errors.As(err, &busErr) {
		return busErr
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &BusError{
			Type:      ErrTypeTimeout,
			Address:   address,
			Message:   "device did not respond",
			Err:       err,
			Retryable: true,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &BusError{
			Type:      ErrTypeTransport,
			Address:   address,
			Message:   "connection refused",
			Err:       err,
			Retryable: true,
		}
	}

	return &BusError{
		Type:      ErrTypeTransport,
		Address:   address,
		Message:   "transport failure",
		Err:       err,
		Retryable: true,
	}
}

// remoteError converts a failed protocol response into a BusError.
func remoteError(resp *protocol.Response) *BusError {
	e := &BusError{
		Address: resp.Address,
		Message: resp.Error,
	}
	switch resp.Code {
	case protocol.CodeUnknownAddress:
		e.Type = ErrTypeUnknownAddress
	case protocol.CodeReadOnly:
		e.Type = ErrTypeReadOnly
	default:
		e.Type = ErrTypeRemote
	}
	return e
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var busErr *BusError
	if errors.As(err, &busErr) {
		return busErr.Retryable
	}
	return false
}

// IsType reports whether err is a BusError of the given type
func IsType(err error, t ErrorType) bool {
	var busErr *BusError
	if errors.As(err, &busErr) {
		return busErr.Type == t
	}
	return false
}

// ShortMessage returns a concise, user-facing description of err
func ShortMessage(err error) string {
	var busErr *BusError
	if !errors.As(err, &busErr) {
		return err.Error()
	}

	switch busErr.Type {
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeTransport:
		return "Connection to device lost"
	case ErrTypeUnknownAddress:
		return fmt.Sprintf("No register at 0x%08X", busErr.Address)
	case ErrTypeReadOnly:
		return fmt.Sprintf("Register at 0x%08X is read-only", busErr.Address)
	case ErrTypeClosed:
		return "Bus is closed"
	default:
		return busErr.Message
	}
}
