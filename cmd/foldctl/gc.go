package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PythonNut/vimish-fold/internal/exclude"
	"github.com/PythonNut/vimish-fold/internal/logging"
	"github.com/PythonNut/vimish-fold/pkg/state"
)

var gcDryRun bool

func init() {
	gcCmd.Flags().BoolVar(&gcDryRun, "dry-run", false, "Show what would be removed without removing it")
}

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Remove stale fold sets",
	Long: `Remove persisted fold sets whose document no longer exists or is on
the exclusion list, along with sets that are empty or can no longer be
parsed.

Examples:
  # Show what would be removed
  foldctl gc --dry-run

  # Remove stale sets
  foldctl gc`,
	RunE: runGC,
}

func runGC(cmd *cobra.Command, args []string) error {
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

	excluded, err := exclude.Load(cfg.Exclude.File)
	if err != nil {
		return fmt.Errorf("failed to load exclusion list: %w", err)
	}

	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list fold sets: %w", err)
	}

	removed := 0
	for _, e := range entries {
		set, readErr := store.Read(e.DocPath)

		_, statErr := os.Stat(e.DocPath)
		docExists := statErr == nil || !os.IsNotExist(statErr)

		reason := gcReason(docExists, excluded.Excluded(e.DocPath), set, readErr)
		if reason == "" {
			continue
		}

		if gcDryRun {
			fmt.Printf("would remove %s (%s)\n", e.DocPath, reason)
			removed++
			continue
		}

		if err := store.Remove(e.DocPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to remove %s: %v\n", e.DocPath, err)
			continue
		}
		fmt.Printf("removed %s (%s)\n", e.DocPath, reason)
		removed++
	}

	if removed == 0 {
		fmt.Println("Nothing to remove")
	}
	return nil
}

// gcReason decides whether a fold set is stale. Empty string means keep.
// Excluded documents save as zero folds, so their leftover sets collect
// too. Stat errors other than not-exist count as existing so permission
// problems never cause collection.
func gcReason(docExists, isExcluded bool, set state.Set, readErr error) string {
	switch {
	case readErr != nil:
		return "malformed"
	case len(set) == 0:
		return "empty"
	case !docExists:
		return "document missing"
	case isExcluded:
		return "excluded"
	}
	return ""
}
