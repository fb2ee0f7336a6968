package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PythonNut/vimish-fold/internal/logging"
	"github.com/PythonNut/vimish-fold/internal/monitor"
	"github.com/PythonNut/vimish-fold/pkg/foldpath"
	"github.com/PythonNut/vimish-fold/pkg/state"
)

var (
	showRaw  bool
	showJSON bool
)

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Dump the raw state file")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output results as JSON")
}

var showCmd = &cobra.Command{
	Use:   "show <document>",
	Short: "Show the persisted fold set for a document",
	Long: `Show the persisted fold spans for one document.

Examples:
  # Show fold spans
  foldctl show ~/notes/plan.txt

  # Dump the raw state file
  foldctl show --raw ~/notes/plan.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	docPath, err := foldpath.Canonicalize(args[0])
	if err != nil {
		return fmt.Errorf("failed to canonicalize %s: %w", args[0], err)
	}

	if showRaw {
		data, err := os.ReadFile(store.Path(docPath))
		if os.IsNotExist(err) {
			fmt.Printf("No fold set for %s\n", docPath)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read state file: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	set, err := store.Read(docPath)
	if errors.Is(err, state.ErrNotFound) {
		fmt.Printf("No fold set for %s\n", docPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read fold set: %w", err)
	}

	if showJSON {
		return outputJSON(set)
	}

	fmt.Printf("%s: %s\n", docPath, monitor.FormatFolds(len(set)))
	for _, span := range set {
		fmt.Printf("  [%d, %d)\n", span.Start, span.End)
	}
	return nil
}
