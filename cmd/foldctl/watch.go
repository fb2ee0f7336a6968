package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PythonNut/vimish-fold/internal/logging"
	"github.com/PythonNut/vimish-fold/internal/monitor"
	"github.com/PythonNut/vimish-fold/internal/watch"
)

var (
	watchPlain    bool
	watchInterval time.Duration
)

func init() {
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "Print one line per change instead of the dashboard")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "Dashboard refresh interval")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the state directory for fold set changes",
	Long: `Watch the state directory and show a live dashboard of persisted
fold sets. With --plain, print one line per change instead; that mode suits
scripts, logs, and terminals without TTY support.

Examples:
  # Live dashboard
  foldctl watch

  # Plain line output
  foldctl watch --plain`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The dashboard owns stdout, so the store and watcher log only in
	// plain mode, and then only with --verbose.
	logger := zap.NewNop()
	if watchPlain {
		if logger, err = newLogger(cfg); err != nil {
			return err
		}
	}
	defer logging.Sync(logger)

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(store.Codec(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watching %s: %w", store.Dir(), err)
	}
	defer watcher.Stop()

	if watchPlain {
		return monitor.RunPlain(ctx, store, watcher.Events(), os.Stdout)
	}

	p := tea.NewProgram(monitor.NewModel(store, watcher.Events(), watchInterval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
