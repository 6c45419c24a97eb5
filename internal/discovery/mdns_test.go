package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
		wantURL      string
	}{
		{
			name: "simulator with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "regtree-sim on lab"},
				HostName:      "lab.local.",
				Port:          7420,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"device=STM32-demo", "registers=7", "path=/ws"},
			},
			wantInstance: "regtree-sim on lab",
			wantIP:       "192.168.1.20",
			wantPort:     7420,
			wantURL:      "ws://192.168.1.20:7420/ws",
		},
		{
			name: "no port falls back to default",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "bench"},
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantInstance: "bench",
			wantIP:       "10.0.0.5",
			wantPort:     DefaultPort,
			wantURL:      "ws://10.0.0.5:7420/ws",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				Port:          9000,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
				Text:          []string{"path=/regs"},
			},
			wantInstance: "v6",
			wantIP:       "fe80::1",
			wantPort:     9000,
			wantURL:      "ws://[fe80::1]:9000/regs",
		},
		{
			name: "instance falls back to hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "pi.local.",
				Port:     7420,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.9")},
			},
			wantInstance: "pi.local.",
			wantIP:       "10.0.0.9",
			wantPort:     7420,
			wantURL:      "ws://10.0.0.9:7420/ws",
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				Port:          7420,
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := parseServiceEntry(tt.entry)
			if tt.wantNil {
				if ep != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", ep)
				}
				return
			}
			if ep == nil {
				t.Fatal("parseServiceEntry() = nil, want endpoint")
			}
			if ep.Instance != tt.wantInstance {
				t.Errorf("Instance = %q, want %q", ep.Instance, tt.wantInstance)
			}
			if ep.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", ep.IP, tt.wantIP)
			}
			if ep.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", ep.Port, tt.wantPort)
			}
			if got := ep.URL(); got != tt.wantURL {
				t.Errorf("URL() = %q, want %q", got, tt.wantURL)
			}
			if ep.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestTXTRecordsRoundTrip(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "sim"},
		Port:          7420,
		AddrIPv4:      []net.IP{net.ParseIP("127.0.0.1")},
		Text:          TXTRecords("STM32-demo", 7, "v1.0.0"),
	}

	ep := parseServiceEntry(entry)
	if ep == nil {
		t.Fatal("parseServiceEntry() = nil")
	}
	if ep.Device() != "STM32-demo" {
		t.Errorf("Device() = %q, want STM32-demo", ep.Device())
	}
	if ep.Registers() != 7 {
		t.Errorf("Registers() = %d, want 7", ep.Registers())
	}
	if ep.GetMetadata(TXTVersion) != "v1.0.0" {
		t.Errorf("version = %q, want v1.0.0", ep.GetMetadata(TXTVersion))
	}
	if got := ep.String(); got != "sim [STM32-demo] at 127.0.0.1:7420" {
		t.Errorf("String() = %q", got)
	}
}

func TestEndpointMatches(t *testing.T) {
	ep := &Endpoint{
		Instance: "regtree-sim on lab",
		Metadata: map[string]string{TXTDevice: "STM32-demo"},
	}

	tests := []struct {
		name string
		want bool
	}{
		{"", true},
		{"lab", true},
		{"stm32", true},
		{"bench", false},
	}
	for _, tt := range tests {
		if got := ep.matches(tt.name); got != tt.want {
			t.Errorf("matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if (&Endpoint{}).Registers() != -1 {
		t.Error("Registers() without metadata should be -1")
	}
}
