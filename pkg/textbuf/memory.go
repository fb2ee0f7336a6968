package textbuf

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryBuffer is a complete in-memory Buffer and Decorator. It backs the
// package tests, the fold-state preview tooling, and the example host. The
// text is fixed at construction; read-only ranges and decorations are
// tracked so the folding side-effect contract stays observable.
type MemoryBuffer struct {
	mu       sync.RWMutex
	path     string
	text     string
	point    int
	readonly []span
	decs     map[DecorationID]Decoration
	nextID   DecorationID
}

type span struct {
	start, end int
}

// NewMemoryBuffer creates a buffer over text. path may be "" for an
// unsaved buffer.
func NewMemoryBuffer(path, text string) *MemoryBuffer {
	return &MemoryBuffer{
		path: path,
		text: text,
		decs: make(map[DecorationID]Decoration),
	}
}

// Path returns the document path, or "" when unsaved.
func (b *MemoryBuffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Len returns the text length in bytes.
func (b *MemoryBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// Text returns the full buffer contents.
func (b *MemoryBuffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Slice returns the text in [start, end).
func (b *MemoryBuffer) Slice(start, end int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if start < 0 || end < start || end > len(b.text) {
		return "", fmt.Errorf("slice [%d, %d) of %d bytes: %w", start, end, len(b.text), ErrRange)
	}
	return b.text[start:end], nil
}

// LineStart returns the offset of the first byte of the line containing off.
func (b *MemoryBuffer) LineStart(off int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	off = clamp(off, 0, len(b.text))
	return strings.LastIndexByte(b.text[:off], '\n') + 1
}

// LineEnd returns the offset of the newline terminating the line containing
// off, or the text length when the final line is unterminated.
func (b *MemoryBuffer) LineEnd(off int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	off = clamp(off, 0, len(b.text))
	i := strings.IndexByte(b.text[off:], '\n')
	if i < 0 {
		return len(b.text)
	}
	return off + i
}

// SetEditable marks [start, end) read-only or editable again. Making a
// range editable releases every read-only span intersecting it.
func (b *MemoryBuffer) SetEditable(editable bool, start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start = clamp(start, 0, len(b.text))
	end = clamp(end, 0, len(b.text))
	if start >= end {
		return
	}

	if !editable {
		b.readonly = append(b.readonly, span{start, end})
		return
	}
	kept := b.readonly[:0]
	for _, ro := range b.readonly {
		if ro.start < end && start < ro.end {
			continue
		}
		kept = append(kept, ro)
	}
	b.readonly = kept
}

// Editable reports whether no position in [start, end) is read-only.
func (b *MemoryBuffer) Editable(start, end int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ro := range b.readonly {
		if ro.start < end && start < ro.end {
			return false
		}
	}
	return true
}

// Point returns the cursor offset.
func (b *MemoryBuffer) Point() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.point
}

// SetPoint moves the cursor, clamped to the text bounds.
func (b *MemoryBuffer) SetPoint(off int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.point = clamp(off, 0, len(b.text))
}

// Apply registers a decoration.
func (b *MemoryBuffer) Apply(d Decoration) (DecorationID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d.Start < 0 || d.End <= d.Start || d.End > len(b.text) {
		return 0, fmt.Errorf("decoration [%d, %d) of %d bytes: %w", d.Start, d.End, len(b.text), ErrRange)
	}
	b.nextID++
	b.decs[b.nextID] = d
	return b.nextID, nil
}

// Remove deletes a previously applied decoration.
func (b *MemoryBuffer) Remove(id DecorationID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.decs[id]; !ok {
		return fmt.Errorf("decoration %d: %w", id, ErrNoDecoration)
	}
	delete(b.decs, id)
	return nil
}

// At returns all decorations intersecting [start, end).
func (b *MemoryBuffer) At(start, end int) []Placed {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Placed
	for id, d := range b.decs {
		if d.Start < end && start < d.End {
			out = append(out, Placed{ID: id, Decoration: d})
		}
	}
	return out
}

// Activate simulates the user triggering every decoration containing pos.
// Callbacks run outside the buffer lock; the first error is returned after
// all callbacks have run.
func (b *MemoryBuffer) Activate(ctx context.Context, pos int) error {
	b.mu.RLock()
	var cbs []func(ctx context.Context) error
	for _, d := range b.decs {
		if d.Start <= pos && pos < d.End && d.Activate != nil {
			cbs = append(cbs, d.Activate)
		}
	}
	b.mu.RUnlock()

	var first error
	for _, cb := range cbs {
		if err := cb(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
