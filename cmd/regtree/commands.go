package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blazra/regtree/internal/bus"
	"github.com/blazra/regtree/internal/discovery"
	"github.com/blazra/regtree/internal/ui"
	"github.com/blazra/regtree/internal/viewer/tui"
)

// Command flags
var (
	dumpFields  bool
	dumpBinary  bool
	dumpNoRead  bool
	scanTimeout int
)

func init() {
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(scanCmd)

	dumpCmd.Flags().BoolVar(&dumpFields, "fields", false, "List bit-fields under each register")
	dumpCmd.Flags().BoolVar(&dumpBinary, "binary", false, "Show field values in binary")
	dumpCmd.Flags().BoolVar(&dumpNoRead, "no-read", false, "Show reset values without reading the bus")

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from settings)")
}

// runView opens the interactive viewer
func runView(cmd *cobra.Command, args []string) error {
	opts := resolveOptions(settings, currentFlags())

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	rememberDefinitions(opts.Definitions)

	return tui.Run(s.tree, s.bus, tui.Options{
		Title:          s.doc.Device,
		Backend:        s.backend,
		ReadOnStart:    settings.Viewer.ReadOnStart,
		ReadAfterWrite: settings.Viewer.ReadAfterWrite,
	})
}

// dumpCmd prints the register tree once
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every register once",
	Long: `Read every register through the selected bus and print the tree.

Use --fields to list bit-fields with their decoded enum names. When the
bus cannot be reached, use --no-read to print reset values.`,
	Example: `  # Registers of the built-in demo map
  regtree dump

  # Fields in binary, read from a remote simulator
  regtree dump --fields --binary --remote ws://localhost:7420/ws`,
	RunE: runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	opts := resolveOptions(settings, currentFlags())

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	printer := ui.NewPrinter(nil)
	if !dumpNoRead {
		if err := s.readAll(ctx); err != nil {
			printer.PrintError("Read failed", err, readHints(err))
			return err
		}
	}

	header := ui.NewHeader(s.doc.Device, "regtree dump",
		ui.Param{Key: "Backend", Value: s.backend},
		ui.Param{Key: "Registers", Value: strconv.Itoa(s.tree.Len())},
	).SetWidth(printer.Width())

	return ui.RenderOnce(header.Render() + "\n" + ui.RenderTree(s.tree, ui.TreeOptions{
		Fields: dumpFields,
		Binary: dumpBinary,
	}))
}

// readHints suggests fixes for a failed dump read
func readHints(err error) []string {
	switch {
	case bus.IsType(err, bus.ErrTypeTimeout), bus.IsType(err, bus.ErrTypeTransport):
		return []string{
			"Check that regtree-sim is running and reachable",
			"Try 'regtree scan' to find servers on the network",
			"Use --no-read to print reset values",
		}
	case bus.IsType(err, bus.ErrTypeUnknownAddress):
		return []string{
			"The server was started with different definitions",
			"Start regtree-sim with the same --defs file",
		}
	default:
		return nil
	}
}

// scanCmd lists register servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find regtree-sim servers with mDNS",
	Long: `Browse for regtree-sim servers advertising ` + discovery.ServiceType + `.

Each server is listed with its WebSocket URL, which can be passed to --remote.`,
	Example: `  # Scan with the default timeout
  regtree scan

  # Longer scan for busy networks
  regtree scan --timeout 10`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := settings.DiscoverTimeout()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	printer := ui.NewPrinter(nil)
	printer.PrintHeader("Register servers", "regtree scan",
		ui.Param{Key: "Service", Value: discovery.ServiceType},
		ui.Param{Key: "Timeout", Value: timeout.String()},
	)

	endpoints, err := discovery.Scan(ctx, timeout)
	if err != nil && ctx.Err() != context.Canceled {
		return fmt.Errorf("scan failed: %w", err)
	}

	printer.Println(ui.RenderEndpoints(endpoints))
	return nil
}
