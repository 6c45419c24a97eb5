package discovery

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/blazra/regtree/internal/logging"
)

const (
	// ServiceType is the mDNS service type register servers advertise
	ServiceType = "_regtree._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 3 * time.Second

	// DefaultPort is the default WebSocket port of a register server
	DefaultPort = 7420

	// DefaultPath is the WebSocket endpoint path
	DefaultPath = "/ws"
)

// TXT record keys
const (
	TXTDevice    = "device"
	TXTRegisters = "registers"
	TXTPath      = "path"
	TXTVersion   = "version"
)

// TXTRecords builds the TXT records a register server advertises
func TXTRecords(device string, registers int, version string) []string {
	txt := []string{
		TXTDevice + "=" + device,
		TXTRegisters + "=" + strconv.Itoa(registers),
		TXTPath + "=" + DefaultPath,
	}
	if version != "" {
		txt = append(txt, TXTVersion+"="+version)
	}
	return txt
}

// Scanner handles mDNS discovery of register servers
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all register servers that answer within the timeout.
// Results are sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	var mu sync.Mutex
	found := make(map[string]*Endpoint)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			if ep := parseServiceEntry(entry); ep != nil {
				logging.Debug("Discovered register server",
					zap.String("instance", ep.Instance),
					zap.String("url", ep.URL()),
				)
				mu.Lock()
				found[ep.Instance] = ep
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once browsing stops
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	endpoints := make([]*Endpoint, 0, len(found))
	for _, ep := range found {
		endpoints = append(endpoints, ep)
	}
	mu.Unlock()
	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Instance < endpoints[j].Instance
	})
	return endpoints, nil
}

// WaitFor returns the first endpoint whose instance or device name contains
// name. An empty name matches any endpoint.
func (s *Scanner) WaitFor(ctx context.Context, name string) (*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	match := make(chan *Endpoint, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			ep := parseServiceEntry(entry)
			if ep != nil && ep.matches(name) {
				select {
				case match <- ep:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case ep := <-match:
		return ep, nil
	case <-ctx.Done():
		select {
		case ep := <-match:
			return ep, nil
		default:
		}
		if name == "" {
			return nil, fmt.Errorf("no register server found within %s", s.Timeout)
		}
		return nil, fmt.Errorf("register server %q not found within %s", name, s.Timeout)
	}
}

func (e *Endpoint) matches(name string) bool {
	if name == "" {
		return true
	}
	name = strings.ToLower(name)
	return strings.Contains(strings.ToLower(e.Instance), name) ||
		strings.Contains(strings.ToLower(e.Device()), name)
}

// parseServiceEntry converts a zeroconf service entry to an Endpoint.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Endpoint {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	instance := entry.Instance
	if instance == "" {
		instance = entry.HostName
	}

	return &Endpoint{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Endpoint, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
