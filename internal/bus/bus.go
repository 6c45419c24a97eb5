package bus

import "context"

// Bus reads and writes 16-bit registers by absolute address.
type Bus interface {
	Read(ctx context.Context, address uint32) (uint16, error)
	Write(ctx context.Context, address uint32, value uint16) error
	Close() error
}
