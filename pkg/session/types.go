package session

import (
	"github.com/PythonNut/vimish-fold/pkg/fold"
	"github.com/PythonNut/vimish-fold/pkg/textbuf"
)

// Session is one open document: its buffer, the fold engine operating on
// it, and the canonical path its fold set persists under.
type Session struct {
	// ID uniquely identifies the session for logging and hooks.
	ID string

	// DocPath is the canonical absolute document path. Empty for
	// pathless buffers, which are never persisted.
	DocPath string

	// Buffer is the open document's text buffer.
	Buffer textbuf.Buffer

	// Engine holds the document's active fold regions.
	Engine *fold.Engine
}

// SweepResult reports the outcome of a bulk save or restore across all
// open sessions.
type SweepResult struct {
	// Total is the number of sessions visited.
	Total int

	// Applied is the number of sessions saved (or, for a restore sweep,
	// the number with at least one fold restored).
	Applied int

	// Failed lists document paths whose save failed. Always empty for
	// restore sweeps: a document that restores nothing has not failed.
	Failed []string
}

// Excluder reports whether a document's folds must not be persisted.
// Excluded documents are treated as having no folds to save.
type Excluder interface {
	Excluded(docPath string) bool
}
