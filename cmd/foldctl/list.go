package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/PythonNut/vimish-fold/internal/logging"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output results as JSON")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted fold sets",
	Long: `List every persisted fold set in the state directory.

Examples:
  # List fold sets
  foldctl list

  # Use a different state directory
  foldctl list --state-dir /tmp/folds

  # Output as JSON
  foldctl list --json`,
	RunE: runList,
}

// listEntry is one persisted fold set as reported by list.
type listEntry struct {
	DocPath string    `json:"doc_path"`
	Folds   int       `json:"folds"`
	Stale   bool      `json:"stale,omitempty"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

func runList(cmd *cobra.Command, args []string) error {
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

	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list fold sets: %w", err)
	}

	rows := make([]listEntry, 0, len(entries))
	for _, e := range entries {
		row := listEntry{DocPath: e.DocPath, Size: e.Size, ModTime: e.ModTime}
		if set, err := store.Read(e.DocPath); err != nil {
			row.Stale = true
		} else {
			row.Folds = len(set)
		}
		rows = append(rows, row)
	}

	if listJSON {
		return outputJSON(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No fold sets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tFOLDS\tSIZE\tMODIFIED")
	for _, row := range rows {
		folds := strconv.Itoa(row.Folds)
		if row.Stale {
			folds = "?"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			row.DocPath, folds, row.Size, row.ModTime.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
