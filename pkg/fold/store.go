package fold

import (
	"fmt"
	"sort"
	"sync"

	"github.com/PythonNut/vimish-fold/pkg/textbuf"
)

// Store holds the active fold regions for one open document, ordered by
// start offset. It enforces the no-overlap invariant and drives the
// read-only side effects on the buffer: inserting a region locks
// [Start-1, End), the folded text plus the newline preceding it, and
// removing the region unlocks the same range.
//
// Store is safe for concurrent use, though the intended model is the host
// editor's serialized event loop.
type Store struct {
	mu      sync.RWMutex
	buf     textbuf.Buffer
	regions []Region
}

// NewStore creates an empty store over buf.
func NewStore(buf textbuf.Buffer) *Store {
	return &Store{buf: buf}
}

// Normalize reorders a raw selection so start <= end and snaps both ends
// to line boundaries: start moves back to the beginning of its line and
// end moves forward to the end of its line. A non-empty selection whose
// end fell exactly on a line's first column swallowed the previous line's
// trailing newline; its end is pulled back by one instead, so the
// following line is not folded by accident.
func (s *Store) Normalize(rawStart, rawEnd int) (int, int) {
	if rawStart > rawEnd {
		rawStart, rawEnd = rawEnd, rawStart
	}
	start := s.buf.LineStart(rawStart)
	if s.buf.LineStart(rawEnd) == rawEnd && rawEnd > start {
		return start, rawEnd - 1
	}
	return start, s.buf.LineEnd(rawEnd)
}

// HasOverlap reports whether any region intersects [start, end).
func (s *Store) HasOverlap(start, end int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlaps(start, end)
}

func (s *Store) overlaps(start, end int) bool {
	for _, r := range s.regions {
		if r.Start < end && start < r.End {
			return true
		}
	}
	return false
}

// Insert adds a region, marking its text read-only. It fails with
// ErrOverlap if the span intersects an existing region, ErrEmptyRange if
// the span is empty, and ErrOutOfBounds if it extends past the document.
func (s *Store) Insert(r Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Start >= r.End {
		return fmt.Errorf("region [%d, %d): %w", r.Start, r.End, ErrEmptyRange)
	}
	if r.Start < 0 || r.End > s.buf.Len() {
		return fmt.Errorf("region [%d, %d) in %d bytes: %w", r.Start, r.End, s.buf.Len(), ErrOutOfBounds)
	}
	if s.overlaps(r.Start, r.End) {
		return fmt.Errorf("region [%d, %d): %w", r.Start, r.End, ErrOverlap)
	}

	i := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].Start > r.Start
	})
	s.regions = append(s.regions, Region{})
	copy(s.regions[i+1:], s.regions[i:])
	s.regions[i] = r

	s.buf.SetEditable(false, lockStart(r.Start), r.End)
	return nil
}

// RemoveAt removes every region whose span contains pos and restores the
// editability of each. At most one region normally matches, since regions
// cannot overlap. The removed regions are returned in store order.
func (s *Store) RemoveAt(pos int) []Region {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []Region
	kept := s.regions[:0]
	for _, r := range s.regions {
		if r.Span().Contains(pos) {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	s.regions = kept

	for _, r := range removed {
		s.buf.SetEditable(true, lockStart(r.Start), r.End)
	}
	return removed
}

// RemoveAll removes every region, restoring editability for each, and
// returns them in store order.
func (s *Store) RemoveAll() []Region {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.regions
	s.regions = nil
	for _, r := range removed {
		s.buf.SetEditable(true, lockStart(r.Start), r.End)
	}
	return removed
}

// Regions returns a copy of the active regions in store order.
func (s *Store) Regions() []Region {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Region, len(s.regions))
	copy(out, s.regions)
	return out
}

// RegionAt returns the region whose span contains pos.
func (s *Store) RegionAt(pos int) (Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.regions {
		if r.Span().Contains(pos) {
			return r, true
		}
	}
	return Region{}, false
}

// Next returns the first region starting after pos.
func (s *Store) Next(pos int) (Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.regions {
		if r.Start > pos {
			return r, true
		}
	}
	return Region{}, false
}

// Prev returns the last region starting before pos.
func (s *Store) Prev(pos int) (Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.regions) - 1; i >= 0; i-- {
		if s.regions[i].Start < pos {
			return s.regions[i], true
		}
	}
	return Region{}, false
}

// Len returns the number of active regions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regions)
}

// lockStart extends a region's start to cover the preceding newline.
func lockStart(start int) int {
	if start > 0 {
		return start - 1
	}
	return 0
}
