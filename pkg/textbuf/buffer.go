// Package textbuf defines the contract a host editor's text buffer must
// provide to the folding engine, plus an in-memory implementation used by
// tests, tooling, and example hosts.
//
// Offsets are byte offsets into UTF-8 text. Ranges follow Go slice
// conventions: half-open [start, end) with 0 <= start <= end <= Len().
package textbuf

import "context"

// Buffer is the view of one open document the folding engine operates on.
// Hosts adapt their native buffer type to this interface.
type Buffer interface {
	// Path returns the document's path, or "" for an unsaved buffer.
	Path() string

	// Len returns the document length in bytes.
	Len() int

	// Slice returns the text in [start, end).
	Slice(start, end int) (string, error)

	// LineStart returns the offset of the first byte of the line
	// containing off. The newline terminating a line belongs to that line.
	LineStart(off int) int

	// LineEnd returns the offset of the newline terminating the line
	// containing off, or Len() when the final line is unterminated.
	LineEnd(off int) int

	// SetEditable marks [start, end) read-only (editable=false) or
	// editable again (editable=true).
	SetEditable(editable bool, start, end int)

	// Point returns the cursor offset.
	Point() int

	// SetPoint moves the cursor to off, clamped to [0, Len()].
	SetPoint(off int)
}

// DecorationID identifies one applied decoration within a buffer.
type DecorationID int64

// Decoration asks the host to render [Start, End) collapsed to Header.
// Indication names the gutter placement of the fold marker; it is a
// display hint the host may ignore.
type Decoration struct {
	Start      int
	End        int
	Header     string
	Indication string

	// Activate runs when the user triggers the decoration (mouse click,
	// keypress on the placeholder line). Hosts must invoke it outside any
	// internal buffer lock.
	Activate func(ctx context.Context) error
}

// Placed is a registered decoration together with its identity.
type Placed struct {
	ID DecorationID
	Decoration
}

// Decorator is the decoration registry a host exposes alongside Buffer.
// The folding engine registers one decoration per fold, removes it on
// unfold, and scans At to detect spans already claimed by a decoration.
type Decorator interface {
	// Apply registers a decoration and returns its id.
	Apply(d Decoration) (DecorationID, error)

	// Remove deletes a previously applied decoration.
	Remove(id DecorationID) error

	// At returns all decorations intersecting [start, end).
	At(start, end int) []Placed
}
