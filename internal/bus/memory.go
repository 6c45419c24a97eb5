package bus

import (
	"context"
	"sort"
	"sync"
)

// ReadHook can alter the value returned by a read. It receives the stored
// value and returns the value to report (and store).
type ReadHook func(address uint32, value uint16) uint16

// MemoryOption configures a MemoryBus.
type MemoryOption func(*MemoryBus)

// WithReadOnly marks addresses as read-only.
func WithReadOnly(addresses ...uint32) MemoryOption {
	return func(b *MemoryBus) {
		for _, a := range addresses {
			b.readOnly[a] = true
		}
	}
}

// WithReadHook installs a hook run on every read.
func WithReadHook(hook ReadHook) MemoryOption {
	return func(b *MemoryBus) {
		b.onRead = hook
	}
}

// MemoryBus is an in-memory register file.
type MemoryBus struct {
	mu       sync.Mutex
	values   map[uint32]uint16
	readOnly map[uint32]bool
	onRead   ReadHook
	closed   bool
}

// NewMemoryBus creates a bus holding one register per key of resetValues.
func NewMemoryBus(resetValues map[uint32]uint16, opts ...MemoryOption) *MemoryBus {
	b := &MemoryBus{
		values:   make(map[uint32]uint16, len(resetValues)),
		readOnly: make(map[uint32]bool),
	}
	for addr, v := range resetValues {
		b.values[addr] = v
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Read returns the value at address.
func (b *MemoryBus) Read(ctx context.Context, address uint32) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, ClassifyTransportError(err, address)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, NewClosedError(address)
	}
	v, ok := b.values[address]
	if !ok {
		return 0, NewUnknownAddressError(address)
	}
	if b.onRead != nil {
		v = b.onRead(address, v)
		b.values[address] = v
	}
	return v, nil
}

// Write stores value at address.
func (b *MemoryBus) Write(ctx context.Context, address uint32, value uint16) error {
	if err := ctx.Err(); err != nil {
		return ClassifyTransportError(err, address)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return NewClosedError(address)
	}
	if _, ok := b.values[address]; !ok {
		return NewUnknownAddressError(address)
	}
	if b.readOnly[address] {
		return NewReadOnlyError(address)
	}
	b.values[address] = value
	return nil
}

// Poke sets a register regardless of its read-only flag. The simulator uses
// it to model hardware-driven registers.
func (b *MemoryBus) Poke(address uint32, value uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.values[address]; !ok {
		return NewUnknownAddressError(address)
	}
	b.values[address] = value
	return nil
}

// Len returns the number of registers.
func (b *MemoryBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

// Addresses returns all register addresses in ascending order.
func (b *MemoryBus) Addresses() []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]uint32, 0, len(b.values))
	for a := range b.values {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close makes every later access fail.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
