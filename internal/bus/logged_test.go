package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/blazra/regtree/internal/logging"
)

func TestWithLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(zap.NewNop())

	b := WithLogging(NewMemoryBus(map[uint32]uint16{0x10: 0x1}, WithReadOnly(0x10)))
	ctx := context.Background()

	v, err := b.Read(ctx, 0x10)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1), v)
	assert.Error(t, b.Write(ctx, 0x10, 0x2))
	require.NoError(t, b.Close())

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
