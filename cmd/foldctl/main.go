// Package main implements the foldctl CLI for inspecting and maintaining
// the fold sets that editor hosts persist per document.
package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PythonNut/vimish-fold/internal/config"
	"github.com/PythonNut/vimish-fold/internal/logging"
	"github.com/PythonNut/vimish-fold/pkg/foldpath"
	"github.com/PythonNut/vimish-fold/pkg/state"
)

var (
	// configPath overrides the default config file location
	configPath string
	// stateDir overrides the configured state directory
	stateDir string
	// verbose enables the configured logger for store operations
	verbose bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "foldctl",
	Short: "Inspect and maintain persisted fold sets",
	Long: `foldctl is a command-line interface for the vimish-fold state directory.
It lists, shows, garbage-collects, previews, and watches the fold sets that
editor hosts persist per document.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/vimish-fold/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "state directory override")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable store logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(gcCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Commands stay quiet unless --verbose.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return logging.NewLogger(&cfg.Logging)
}

// newStore opens the fold set store on the configured state directory.
func newStore(cfg *config.Config, logger *zap.Logger) (*state.FileStore, error) {
	return state.NewFileStore(foldpath.Codec{
		Dir:    cfg.StateDir,
		Escape: foldpath.DefaultEscape,
	}, logger)
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
