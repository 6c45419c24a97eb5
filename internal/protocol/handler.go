package protocol

import (
	"context"
	"errors"
)

// Target is the register store a server exposes.
type Target interface {
	Read(ctx context.Context, address uint32) (uint16, error)
	Write(ctx context.Context, address uint32, value uint16) error
	Len() int
}

// CodedError lets a Target attach a Code to its errors.
type CodedError interface {
	error
	ProtocolCode() Code
}

// Handle executes req against target and builds the response.
func Handle(ctx context.Context, target Target, req *Request) *Response {
	if err := req.Validate(); err != nil {
		return ErrorResponse(req, CodeBadRequest, err)
	}

	switch req.Op {
	case OpRead:
		value, err := target.Read(ctx, req.Address)
		if err != nil {
			return ErrorResponse(req, codeOf(err), err)
		}
		return &Response{ID: req.ID, Op: req.Op, Address: req.Address, Value: value}

	case OpWrite:
		if err := target.Write(ctx, req.Address, req.Value); err != nil {
			return ErrorResponse(req, codeOf(err), err)
		}
		return &Response{ID: req.ID, Op: req.Op, Address: req.Address, Value: req.Value}

	default:
		return &Response{ID: req.ID, Op: req.Op, Count: target.Len()}
	}
}

func codeOf(err error) Code {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.ProtocolCode()
	}
	return CodeInternal
}
