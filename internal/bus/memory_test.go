package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazra/regtree/internal/protocol"
)

var _ protocol.Target = (*MemoryBus)(nil)

func newTestMemory(opts ...MemoryOption) *MemoryBus {
	return NewMemoryBus(map[uint32]uint16{
		0x4800: 0xA800,
		0x4810: 0x0000,
		0x4814: 0x00FF,
	}, opts...)
}

func TestMemoryBusReadWrite(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory()

	v, err := b.Read(ctx, 0x4800)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xA800), v)

	require.NoError(t, b.Write(ctx, 0x4814, 0x1234))
	v, err = b.Read(ctx, 0x4814)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []uint32{0x4800, 0x4810, 0x4814}, b.Addresses())
}

func TestMemoryBusUnknownAddress(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory()

	_, err := b.Read(ctx, 0x9999)
	require.Error(t, err)
	assert.True(t, IsType(err, ErrTypeUnknownAddress))

	err = b.Write(ctx, 0x9999, 1)
	assert.True(t, IsType(err, ErrTypeUnknownAddress))
	assert.False(t, IsRetryable(err))
}

func TestMemoryBusReadOnly(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory(WithReadOnly(0x4810))

	err := b.Write(ctx, 0x4810, 0xFFFF)
	require.Error(t, err)
	assert.True(t, IsType(err, ErrTypeReadOnly))

	require.NoError(t, b.Poke(0x4810, 0x0003))
	v, err := b.Read(ctx, 0x4810)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0003), v)
}

func TestMemoryBusReadHook(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory(WithReadHook(func(address uint32, value uint16) uint16 {
		if address == 0x4810 {
			return value + 1
		}
		return value
	}))

	for want := uint16(1); want <= 3; want++ {
		v, err := b.Read(ctx, 0x4810)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestMemoryBusClosed(t *testing.T) {
	b := newTestMemory()
	require.NoError(t, b.Close())

	_, err := b.Read(context.Background(), 0x4800)
	assert.True(t, IsType(err, ErrTypeClosed))
}

func TestMemoryBusCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestMemory().Read(ctx, 0x4800)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryBusErrorsCarryProtocolCodes(t *testing.T) {
	ctx := context.Background()
	b := newTestMemory(WithReadOnly(0x4810))

	resp := protocol.Handle(ctx, b, &protocol.Request{ID: 1, Op: protocol.OpWrite, Address: 0x4810, Value: 1})
	assert.Equal(t, protocol.CodeReadOnly, resp.Code)

	resp = protocol.Handle(ctx, b, &protocol.Request{ID: 2, Op: protocol.OpRead, Address: 0x1})
	assert.Equal(t, protocol.CodeUnknownAddress, resp.Code)
}
