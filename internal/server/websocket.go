package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/blazra/regtree/internal/logging"
	"github.com/blazra/regtree/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// handleWebSocket upgrades the request and answers protocol requests until
// the peer goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	remoteAddr := r.RemoteAddr

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err),
		)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	s.track(remoteAddr, conn)
	logging.LogConnection(remoteAddr, "websocket_upgraded")
	logging.Debug("Client identified",
		zap.String("remote_addr", remoteAddr),
		zap.String("user_agent", r.UserAgent()),
	)

	stop := make(chan struct{})
	defer func() {
		close(stop)
		_ = conn.Close()
		s.untrack(remoteAddr)
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go pingLoop(conn, stop)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed or error reading message",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		resp := s.answer(r, data)
		logging.Debug("Request handled",
			zap.String("remote_addr", remoteAddr),
			zap.Uint32("id", resp.ID),
			zap.String("op", string(resp.Op)),
			zap.String("code", string(resp.Code)),
		)

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			logging.Warn("Failed to write response",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
	}
}

// answer decodes one message and runs it against the target.
func (s *Server) answer(r *http.Request, data []byte) *protocol.Response {
	var req protocol.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return protocol.ErrorResponse(&req, protocol.CodeBadRequest, err)
	}

	resp := protocol.Handle(r.Context(), s.target, &req)
	switch req.Op {
	case protocol.OpRead, protocol.OpWrite:
		var err error
		if resp.Failed() {
			err = errors.New(resp.Error)
		}
		logging.LogBusTransfer(string(req.Op), req.Address, resp.Value, err)
	}
	return resp
}

// pingLoop keeps idle connections alive until stop is closed.
func pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}
