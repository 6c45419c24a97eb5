// Regtree-sim serves a simulated register file over WebSocket.
//
// It loads the same definition files as regtree, seeds every register with
// its reset value, rejects writes to read-only registers and advertises
// itself with mDNS so 'regtree --discover' can find it.
//
// Usage:
//
//	regtree-sim [flags]
//
// See 'regtree-sim --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blazra/regtree/internal/bus"
	"github.com/blazra/regtree/internal/discovery"
	"github.com/blazra/regtree/internal/logging"
	"github.com/blazra/regtree/internal/regdef"
	"github.com/blazra/regtree/internal/server"
	"github.com/blazra/regtree/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Server flags
var (
	defsPath string
	host     string
	port     int
	noMDNS   bool
	instance string
	live     bool
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "regtree-sim",
	Short: "Simulated register server",
	Long: `Serve a simulated 16-bit register file to regtree clients.

Registers start at their reset values. Writes to read-only registers are
rejected. With --live, read-only registers count up on every read so the
viewer has changing inputs to show.`,
	Example: `  # Serve the built-in demo map on the default port
  regtree-sim

  # Serve your own definitions without mDNS
  regtree-sim --defs board.yaml --port 9000 --no-mdns

  # Verbose logging of every transfer
  regtree-sim --log-level debug`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&defsPath, "defs", "", "Register definition file (default: built-in demo)")
	rootCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	rootCmd.Flags().IntVar(&port, "port", discovery.DefaultPort, "Listen port")
	rootCmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Do not advertise with mDNS")
	rootCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default: regtree-sim on <hostname>)")
	rootCmd.Flags().BoolVar(&live, "live", false, "Read-only registers count up on every read")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(versionCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeWithOutput(logLevel, logFile); err != nil {
		return err
	}

	doc := regdef.Demo()
	if defsPath != "" {
		var err error
		if doc, err = regdef.Load(defsPath); err != nil {
			return err
		}
	}

	readOnly := doc.ReadOnlyAddresses()
	opts := []bus.MemoryOption{bus.WithReadOnly(readOnly...)}
	if live {
		opts = append(opts, bus.WithReadHook(countUp(readOnly)))
	}
	target := bus.NewMemoryBus(doc.ResetValues(), opts...)

	logging.Info("Loaded register file",
		zap.String("device", doc.Device),
		zap.Int("registers", target.Len()),
		zap.Int("read_only", len(readOnly)),
	)

	srv, err := server.New(&server.Config{
		Host:      host,
		Port:      port,
		Device:    doc.Device,
		Instance:  instance,
		Advertise: !noMDNS,
	}, target)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// countUp returns a read hook that increments the given registers on
// every read.
func countUp(addresses []uint32) bus.ReadHook {
	counting := make(map[uint32]bool, len(addresses))
	for _, a := range addresses {
		counting[a] = true
	}
	return func(address uint32, value uint16) uint16 {
		if counting[address] {
			return value + 1
		}
		return value
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Detailed())
	},
}
