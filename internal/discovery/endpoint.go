package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Endpoint is a register server found on the local network
type Endpoint struct {
	// Instance is the mDNS service instance name (e.g., "regtree-sim on lab-pi")
	Instance string

	// Hostname is the mDNS hostname (e.g., "lab-pi.local.")
	Hostname string

	// IP is the server address, IPv4 preferred
	IP string

	// Port is the WebSocket port (default 7420)
	Port int

	// Metadata contains the TXT record data: device, registers, path, version
	Metadata map[string]string

	// DiscoveredAt is when the endpoint was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the endpoint
func (e *Endpoint) String() string {
	if device := e.Device(); device != "" {
		return fmt.Sprintf("%s [%s] at %s:%d", e.Instance, device, e.IP, e.Port)
	}
	return fmt.Sprintf("%s at %s:%d", e.Instance, e.IP, e.Port)
}

// URL returns the WebSocket URL of the register server
func (e *Endpoint) URL() string {
	path := e.GetMetadata(TXTPath)
	if path == "" {
		path = DefaultPath
	}
	return fmt.Sprintf("ws://%s/%s", net.JoinHostPort(e.IP, strconv.Itoa(e.Port)), strings.TrimLeft(path, "/"))
}

// Device returns the advertised device name, if any
func (e *Endpoint) Device() string {
	return e.GetMetadata(TXTDevice)
}

// Registers returns the advertised register count, or -1 when unknown
func (e *Endpoint) Registers() int {
	n, err := strconv.Atoi(e.GetMetadata(TXTRegisters))
	if err != nil {
		return -1
	}
	return n
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (e *Endpoint) GetMetadata(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}
