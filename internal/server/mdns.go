package server

import (
	"fmt"
	"net"
	"os"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/blazra/regtree/internal/discovery"
	"github.com/blazra/regtree/internal/logging"
	"github.com/blazra/regtree/internal/version"
)

// advertise registers the server under discovery.ServiceType.
func (s *Server) advertise() error {
	tcpAddr, ok := s.Addr().(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("cannot advertise non-TCP listener %v", s.Addr())
	}

	instance := s.instanceName()
	txt := discovery.TXTRecords(s.config.Device, s.target.Len(), version.Version)

	mdns, err := zeroconf.Register(instance, discovery.ServiceType, discovery.ServiceDomain, tcpAddr.Port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	s.mdns = mdns

	logging.Info("Advertising register server",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", tcpAddr.Port),
		zap.Strings("txt", txt),
	)
	return nil
}

func (s *Server) instanceName() string {
	if s.config.Instance != "" {
		return s.config.Instance
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return "regtree-sim on " + host
}
