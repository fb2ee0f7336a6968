package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PythonNut/vimish-fold/internal/logging"
	"github.com/PythonNut/vimish-fold/pkg/fold"
	"github.com/PythonNut/vimish-fold/pkg/foldpath"
	"github.com/PythonNut/vimish-fold/pkg/state"
	"github.com/PythonNut/vimish-fold/pkg/textbuf"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a file with its persisted folds collapsed",
	Long: `Render a file the way an editor host would show it after restoring
its persisted folds: each folded span collapses to one placeholder line.
Spans that no longer fit the file are skipped with a note on stderr.

Examples:
  # Preview a file with its folds collapsed
  foldctl preview ~/notes/plan.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
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

	content, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", docPath, err)
	}

	set, err := store.Read(docPath)
	if err != nil && !errors.Is(err, state.ErrNotFound) {
		return fmt.Errorf("failed to read fold set: %w", err)
	}

	buf := textbuf.NewMemoryBuffer(docPath, string(content))
	eng, err := fold.NewEngine(buf, &cfg.Fold, fold.WithLogger(fold.NewLogger(logger)))
	if err != nil {
		return err
	}

	for _, span := range set {
		if _, err := eng.Fold(cmd.Context(), span.Start, span.End); err != nil {
			fmt.Fprintf(os.Stderr, "skipping fold [%d, %d): %v\n", span.Start, span.End, err)
		}
	}

	fmt.Print(renderFolded(buf.Text(), eng.Regions(), &cfg.Fold))
	return nil
}

// renderFolded collapses each folded region to a single placeholder line.
// Regions must be sorted and non-overlapping, which the engine guarantees.
func renderFolded(text string, regions []fold.Region, cfg *fold.Config) string {
	var b strings.Builder
	pos := 0
	for _, r := range regions {
		b.WriteString(text[pos:r.Start])
		b.WriteString(foldLine(text, r, cfg))
		pos = r.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

// foldLine renders the one-line stand-in for a folded region.
func foldLine(text string, r fold.Region, cfg *fold.Config) string {
	lines := strings.Count(text[r.Start:r.End], "\n") + 1
	label := fmt.Sprintf("%d lines", lines)
	if lines == 1 {
		label = "1 line"
	}

	header := r.Header
	if cfg.HeaderWidth > 0 {
		if runes := []rune(header); len(runes) > cfg.HeaderWidth {
			header = string(runes[:cfg.HeaderWidth])
		}
	}

	return fmt.Sprintf("+-- %s: %s", label, header)
}
