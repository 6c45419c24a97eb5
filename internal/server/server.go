package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/blazra/regtree/internal/discovery"
	"github.com/blazra/regtree/internal/logging"
	"github.com/blazra/regtree/internal/protocol"
)

// Config holds the server configuration
type Config struct {
	Host string
	Port int

	// Device is the device name advertised over mDNS
	Device string

	// Instance is the mDNS instance name (default: "regtree-sim on <hostname>")
	Instance string

	// Advertise enables mDNS advertisement
	Advertise bool
}

// Server exposes a register target over WebSocket
type Server struct {
	config      *Config
	target      protocol.Target
	upgrader    websocket.Upgrader
	httpServer  *http.Server
	listener    net.Listener
	mdns        *zeroconf.Server
	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
}

// New creates a new Server instance
func New(config *Config, target protocol.Target) (*Server, error) {
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}
	if target == nil {
		return nil, errors.New("server needs a register target")
	}

	s := &Server{
		config:      config,
		target:      target,
		activeConns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Tools, not browsers, connect to the simulator
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler serving the WebSocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(discovery.DefaultPath, s.handleWebSocket)
	return mux
}

// Listen opens the TCP listener. Port 0 picks a free port.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	logging.Info("Server listening for connections",
		zap.String("addr", listener.Addr().String()),
		zap.Int("registers", s.target.Len()),
	)
	return nil
}

// Addr returns the listener address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve handles connections until Shutdown. Listen must be called first.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens, advertises and serves until a shutdown signal or error
func (s *Server) Start() error {
	logging.Info("Starting register server",
		zap.String("host", s.config.Host),
		zap.Int("port", s.config.Port),
		zap.String("device", s.config.Device),
	)

	if err := s.Listen(); err != nil {
		return err
	}

	if s.config.Advertise {
		if err := s.advertise(); err != nil {
			// Serving still works without mDNS; clients can use --remote
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if s.mdns != nil {
		s.mdns.Shutdown()
		s.mdns = nil
	}

	// Hijacked WebSocket connections are not tracked by http.Server
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()

	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) track(addr string, conn *websocket.Conn) {
	s.mu.Lock()
	s.activeConns[addr] = conn
	s.mu.Unlock()
}

func (s *Server) untrack(addr string) {
	s.mu.Lock()
	delete(s.activeConns, addr)
	s.mu.Unlock()
}
