// Regtree is a terminal viewer and editor for 16-bit hardware register maps.
//
// It loads register definitions from a YAML file (or uses the built-in demo
// map), shows them as an expandable tree of registers and bit-fields, and
// reads and writes them through a bus: an in-process simulator by default,
// or a regtree-sim server over WebSocket.
//
// Usage:
//
//	regtree [command] [flags]
//
// Running without a command opens the interactive viewer.
// See 'regtree --help' for available commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blazra/regtree/internal/config"
	"github.com/blazra/regtree/internal/logging"
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

// Global flags
var (
	defsPath string
	remote   string
	discover bool
	instance string
	logLevel string
	logFile  string
)

// settings is loaded before any command runs
var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "regtree",
	Short: "Register map viewer and editor",
	Long: `A terminal viewer and editor for 16-bit hardware register maps.

Registers are shown as a tree grouped by peripheral. Expanding a register
shows its bit-fields. Values can be typed in hex (0x..), binary (0b..) or
decimal, staged per field and written back through the selected bus.

If no command is specified, the interactive viewer opens.`,
	Example: `  # Browse the built-in demo map against the in-process simulator
  regtree

  # Open your own definitions
  regtree --defs board.yaml

  # Talk to a simulator on another machine
  regtree --remote ws://lab-pi.local:7420/ws

  # Find a simulator with mDNS
  regtree --discover --instance lab-pi`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runView,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&defsPath, "defs", "", "Register definition file (default: settings, then built-in demo)")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "Use the regtree-sim server at this WebSocket URL")
	rootCmd.PersistentFlags().BoolVar(&discover, "discover", false, "Find a regtree-sim server with mDNS")
	rootCmd.PersistentFlags().StringVar(&instance, "instance", "", "With --discover, pick the server whose name contains this")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; default silent)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file (viewer default: regtree.log in the config directory)")

	rootCmd.AddCommand(versionCmd)
}

// setup loads settings and initializes logging for every command
func setup(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		s = config.NewSettings()
	}
	settings = s

	level, file := logLevel, logFile
	if level == "" {
		level = settings.Logging.Level
	}
	if file == "" {
		file = settings.Logging.File
	}
	// The root command is the full-screen viewer
	file, err = logOutput(level, file, !cmd.HasParent())
	if err != nil {
		return err
	}
	return logging.InitializeWithOutput(level, file)
}

// defaultLogFile is created in the config directory when the viewer logs
// without an explicit file.
const defaultLogFile = "regtree.log"

// logOutput picks where logs go. The viewer draws on the terminal, so it
// never logs to stderr.
func logOutput(level, file string, viewer bool) (string, error) {
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		return file, nil
	}
	if file == "" {
		file = os.Getenv(logging.LogFileEnvVar)
	}
	if file != "" || !viewer {
		return file, nil
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("--log-level needs --log-file here: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return filepath.Join(dir, defaultLogFile), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Detailed())
	},
}
