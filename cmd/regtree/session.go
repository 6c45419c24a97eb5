package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/blazra/regtree/internal/bus"
	"github.com/blazra/regtree/internal/config"
	"github.com/blazra/regtree/internal/discovery"
	"github.com/blazra/regtree/internal/logging"
	"github.com/blazra/regtree/internal/regdef"
	"github.com/blazra/regtree/internal/regmodel"
)

// runOptions is the effective configuration after flags override settings
type runOptions struct {
	Definitions     string
	Backend         config.Backend
	RemoteURL       string
	Discover        bool
	Instance        string
	DiscoverTimeout time.Duration
}

// flagValues holds the global flags that affect a session
type flagValues struct {
	Defs     string
	Remote   string
	Discover bool
	Instance string
}

func currentFlags() flagValues {
	return flagValues{Defs: defsPath, Remote: remote, Discover: discover, Instance: instance}
}

// resolveOptions merges flags over settings. An explicit --remote wins over
// --discover. A remote backend with no URL falls back to discovery.
func resolveOptions(s *config.Settings, f flagValues) runOptions {
	opts := runOptions{
		Definitions:     s.Definitions,
		Backend:         s.Backend,
		RemoteURL:       s.RemoteURL,
		Instance:        f.Instance,
		DiscoverTimeout: s.DiscoverTimeout(),
	}
	if f.Defs != "" {
		opts.Definitions = f.Defs
	}

	switch {
	case f.Remote != "":
		opts.Backend = config.BackendRemote
		opts.RemoteURL = f.Remote
	case f.Discover:
		opts.Backend = config.BackendRemote
		opts.RemoteURL = ""
		opts.Discover = true
	}

	if opts.Backend == config.BackendRemote && opts.RemoteURL == "" {
		opts.Discover = true
	}
	return opts
}

// session is an open definition file plus the bus serving it
type session struct {
	doc     *regdef.Document
	tree    *regmodel.Tree
	bus     bus.Bus
	backend string // "sim" or the server URL
}

func loadDocument(path string) (*regdef.Document, error) {
	if path == "" {
		return regdef.Demo(), nil
	}
	return regdef.Load(path)
}

// openSession loads definitions, builds the tree and connects the bus
func openSession(ctx context.Context, opts runOptions) (*session, error) {
	doc, err := loadDocument(opts.Definitions)
	if err != nil {
		return nil, err
	}

	tree, err := doc.BuildTree()
	if err != nil {
		return nil, fmt.Errorf("failed to build register tree: %w", err)
	}

	s := &session{doc: doc, tree: tree}

	switch opts.Backend {
	case config.BackendRemote:
		url := opts.RemoteURL
		if opts.Discover {
			scanner := discovery.NewScanner()
			scanner.Timeout = opts.DiscoverTimeout
			ep, err := scanner.WaitFor(ctx, opts.Instance)
			if err != nil {
				return nil, fmt.Errorf("discovery failed: %w", err)
			}
			logging.Info("Discovered register server", zap.String("endpoint", ep.String()))
			url = ep.URL()
		}

		rb, err := bus.DialRemote(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
		}
		if n, err := rb.Info(ctx); err != nil {
			_ = rb.Close()
			return nil, fmt.Errorf("server at %s did not answer: %w", url, err)
		} else if n != doc.NumRegisters() {
			logging.Warn("Server register count differs from definitions",
				zap.Int("server", n),
				zap.Int("definitions", doc.NumRegisters()),
			)
		}
		s.bus = bus.WithLogging(rb)
		s.backend = url

	default:
		s.bus = bus.WithLogging(bus.NewMemoryBus(doc.ResetValues(), bus.WithReadOnly(doc.ReadOnlyAddresses()...)))
		s.backend = string(config.BackendSim)
	}

	return s, nil
}

// readAll reads every register once and stages the read value. It returns
// the first error after trying every register.
func (s *session) readAll(ctx context.Context) error {
	var firstErr error
	for i := 0; i < s.tree.Len(); i++ {
		reg := s.tree.Register(i)
		v, err := s.bus.Read(ctx, reg.Address)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("read %s: %w", reg.QualifiedName(), err)
			}
			continue
		}
		reg.SetReadValue(v)
		reg.SetWriteValue(v)
	}
	return firstErr
}

func (s *session) Close() error {
	return s.bus.Close()
}

// rememberDefinitions records path in the recent file list
func rememberDefinitions(path string) {
	if path == "" {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	settings.AddRecentFile(path)
	if err := settings.Save(); err != nil {
		logging.Warn("Failed to save settings", zap.Error(err))
	}
}
