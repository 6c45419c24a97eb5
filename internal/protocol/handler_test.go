package protocol

import (
	"context"
	"errors"
	"testing"
)

type roError struct{}

func (roError) Error() string      { return "read only" }
func (roError) ProtocolCode() Code { return CodeReadOnly }

type fakeTarget struct {
	values map[uint32]uint16
}

func (f *fakeTarget) Read(_ context.Context, address uint32) (uint16, error) {
	v, ok := f.values[address]
	if !ok {
		return 0, errors.New("no such register")
	}
	return v, nil
}

func (f *fakeTarget) Write(_ context.Context, address uint32, value uint16) error {
	if address == 0x20 {
		return roError{}
	}
	f.values[address] = value
	return nil
}

func (f *fakeTarget) Len() int { return len(f.values) }

func TestHandle(t *testing.T) {
	target := &fakeTarget{values: map[uint32]uint16{0x10: 0xABCD, 0x20: 0}}
	ctx := context.Background()

	tests := []struct {
		name      string
		req       *Request
		wantValue uint16
		wantCount int
		wantCode  Code
	}{
		{name: "read", req: &Request{ID: 1, Op: OpRead, Address: 0x10}, wantValue: 0xABCD},
		{name: "write", req: &Request{ID: 2, Op: OpWrite, Address: 0x10, Value: 0x1}, wantValue: 0x1},
		{name: "info", req: &Request{ID: 3, Op: OpInfo}, wantCount: 2},
		{name: "coded error", req: &Request{ID: 4, Op: OpWrite, Address: 0x20, Value: 1}, wantCode: CodeReadOnly},
		{name: "plain error", req: &Request{ID: 5, Op: OpRead, Address: 0x30}, wantCode: CodeInternal},
		{name: "bad request", req: &Request{ID: 6, Op: "bogus"}, wantCode: CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Handle(ctx, target, tt.req)
			if resp.ID != tt.req.ID {
				t.Errorf("ID = %d, want %d", resp.ID, tt.req.ID)
			}
			if tt.wantCode != "" {
				if !resp.Failed() || resp.Code != tt.wantCode {
					t.Errorf("Code = %q (error %q), want %q", resp.Code, resp.Error, tt.wantCode)
				}
				return
			}
			if resp.Failed() {
				t.Fatalf("unexpected error %q", resp.Error)
			}
			if resp.Value != tt.wantValue {
				t.Errorf("Value = 0x%04X, want 0x%04X", resp.Value, tt.wantValue)
			}
			if resp.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", resp.Count, tt.wantCount)
			}
		})
	}
}
