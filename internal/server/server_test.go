package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazra/regtree/internal/bus"
	"github.com/blazra/regtree/internal/protocol"
)

func newTestServer(t *testing.T) (*Server, *bus.MemoryBus) {
	t.Helper()
	mem := bus.NewMemoryBus(map[uint32]uint16{
		0x4800: 0xA800,
		0x4810: 0x0001,
	}, bus.WithReadOnly(0x4810))

	srv, err := New(&Config{Host: "127.0.0.1", Port: 0, Device: "test"}, mem)
	require.NoError(t, err)
	return srv, mem
}

func TestNewRejectsBadConfig(t *testing.T) {
	mem := bus.NewMemoryBus(nil)

	_, err := New(&Config{Port: 70000}, mem)
	assert.Error(t, err)

	_, err = New(&Config{Port: 7420}, nil)
	assert.Error(t, err)
}

func TestServerAnswersRemoteBus(t *testing.T) {
	srv, mem := newTestServer(t)
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	ctx := context.Background()
	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	client, err := bus.DialRemote(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	v, err := client.Read(ctx, 0x4800)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xA800), v)

	require.NoError(t, client.Write(ctx, 0x4800, 0x0050))
	stored, err := mem.Read(ctx, 0x4800)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0050), stored)

	err = client.Write(ctx, 0x4810, 0)
	assert.True(t, bus.IsType(err, bus.ErrTypeReadOnly))

	n, err := client.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestServerRejectsMalformedMessages(t *testing.T) {
	srv, _ := newTestServer(t)
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var resp protocol.Response
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, protocol.CodeBadRequest, resp.Code)

	require.NoError(t, conn.WriteJSON(&protocol.Request{ID: 7, Op: "erase"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, uint32(7), resp.ID)
	assert.Equal(t, protocol.CodeBadRequest, resp.Code)
}

func TestServerListenServeShutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Listen())
	require.NotNil(t, srv.Addr())

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Serve() }()

	ctx := context.Background()
	client, err := bus.DialRemote(ctx, "ws://"+srv.Addr().String()+"/ws")
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Read(ctx, 0x4800)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return srv.GetActiveConnections() == 1 },
		time.Second, 10*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(shutdownCtx))
	require.NoError(t, <-errChan)
	assert.Equal(t, 0, srv.GetActiveConnections())
}

func TestInstanceName(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.True(t, strings.HasPrefix(srv.instanceName(), "regtree-sim on "))

	srv.config.Instance = "bench"
	assert.Equal(t, "bench", srv.instanceName())
}
