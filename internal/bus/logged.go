package bus

import (
	"context"

	"github.com/blazra/regtree/internal/logging"
)

type loggedBus struct {
	Bus
}

// WithLogging wraps b so every transfer is recorded with
// logging.LogBusTransfer.
func WithLogging(b Bus) Bus {
	return loggedBus{Bus: b}
}

func (l loggedBus) Read(ctx context.Context, address uint32) (uint16, error) {
	v, err := l.Bus.Read(ctx, address)
	logging.LogBusTransfer("read", address, v, err)
	return v, err
}

func (l loggedBus) Write(ctx context.Context, address uint32, value uint16) error {
	err := l.Bus.Write(ctx, address, value)
	logging.LogBusTransfer("write", address, value, err)
	return err
}
