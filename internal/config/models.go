package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// MaxRecentFiles bounds the recent definition file list
const MaxRecentFiles = 8

// Backend selects where register values come from
type Backend string

const (
	// BackendSim uses an in-process MemoryBus seeded with reset values
	BackendSim Backend = "sim"
	// BackendRemote uses a RemoteBus connected to a regtree-sim server
	BackendRemote Backend = "remote"
)

// Settings represents the entire user configuration file.
// Register edits are never stored here.
type Settings struct {
	Version     int             `yaml:"version"`
	Definitions string          `yaml:"definitions,omitempty"` // Default definition file (empty = built-in demo)
	Backend     Backend         `yaml:"backend"`
	RemoteURL   string          `yaml:"remote_url,omitempty"` // e.g. ws://lab-pi.local:7420/ws
	Logging     *LogPrefs       `yaml:"logging,omitempty"`
	Viewer      *ViewerPrefs    `yaml:"viewer,omitempty"`
	Discovery   *DiscoveryPrefs `yaml:"discovery,omitempty"`
	RecentFiles []string        `yaml:"recent_files,omitempty"` // Most recent first
}

// LogPrefs controls logging when no flag overrides it.
type LogPrefs struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error (empty = silent)
	File  string `yaml:"file,omitempty"`  // Log file path (empty = stderr)
}

// ViewerPrefs controls the interactive viewer.
type ViewerPrefs struct {
	ReadOnStart    bool `yaml:"read_on_start"`    // Read every register when the viewer opens
	ReadAfterWrite bool `yaml:"read_after_write"` // Read a register back after writing it
}

// DiscoveryPrefs controls mDNS discovery.
type DiscoveryPrefs struct {
	Timeout int `yaml:"timeout"` // Seconds
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	s := &Settings{Version: CurrentVersion}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Backend == "" {
		s.Backend = BackendSim
	}
	if s.Logging == nil {
		s.Logging = &LogPrefs{}
	}
	if s.Viewer == nil {
		s.Viewer = &ViewerPrefs{
			ReadOnStart:    true,
			ReadAfterWrite: true,
		}
	}
	if s.Discovery == nil {
		s.Discovery = &DiscoveryPrefs{Timeout: 3}
	}
}

// Validate checks field values that YAML decoding cannot.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	switch s.Backend {
	case BackendSim, BackendRemote:
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", s.Backend, BackendSim, BackendRemote)
	}
	if s.Backend == BackendRemote && s.RemoteURL == "" {
		return fmt.Errorf("backend %q needs remote_url", BackendRemote)
	}
	if s.Discovery.Timeout < 0 {
		return fmt.Errorf("discovery timeout must not be negative")
	}
	return nil
}

// DiscoverTimeout returns the discovery timeout as a duration.
func (s *Settings) DiscoverTimeout() time.Duration {
	if s.Discovery == nil || s.Discovery.Timeout <= 0 {
		return 3 * time.Second
	}
	return time.Duration(s.Discovery.Timeout) * time.Second
}

// AddRecentFile moves path to the front of the recent file list.
func (s *Settings) AddRecentFile(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	recent := []string{path}
	for _, p := range s.RecentFiles {
		if p != path && len(recent) < MaxRecentFiles {
			recent = append(recent, p)
		}
	}
	s.RecentFiles = recent
}
