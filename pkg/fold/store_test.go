package fold

import (
	"errors"
	"testing"

	"github.com/PythonNut/vimish-fold/pkg/textbuf"
)

// fiveLines has line starts at 0, 6, 12, 18, 24 and newlines at 5, 11,
// 17, 23. The final line is unterminated; total length is 29.
const fiveLines = "line1\nline2\nline3\nline4\nline5"

func newTestStore(text string) (*Store, *textbuf.MemoryBuffer) {
	buf := textbuf.NewMemoryBuffer("/tmp/doc.txt", text)
	return NewStore(buf), buf
}

func TestStore_Normalize(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	tests := []struct {
		name      string
		rawStart  int
		rawEnd    int
		wantStart int
		wantEnd   int
	}{
		{"mid-line to mid-line", 2, 14, 0, 17},
		{"already line aligned", 6, 23, 6, 23},
		{"reversed order", 14, 2, 0, 17},
		{"end swallowed trailing newline", 6, 12, 6, 11},
		{"empty selection mid-line folds the line", 8, 8, 6, 11},
		{"empty selection at line start folds the line", 6, 6, 6, 11},
		{"document start", 0, 0, 0, 5},
		{"unterminated final line", 25, 27, 24, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := store.Normalize(tt.rawStart, tt.rawEnd)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Normalize(%d, %d) = (%d, %d), want (%d, %d)",
					tt.rawStart, tt.rawEnd, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestStore_NormalizeOrderIndependent(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	pairs := [][2]int{{0, 5}, {2, 14}, {6, 12}, {8, 20}, {0, 29}, {17, 24}}
	for _, p := range pairs {
		s1, e1 := store.Normalize(p[0], p[1])
		s2, e2 := store.Normalize(p[1], p[0])
		if s1 != s2 || e1 != e2 {
			t.Errorf("Normalize(%d, %d) = (%d, %d) but Normalize(%d, %d) = (%d, %d)",
				p[0], p[1], s1, e1, p[1], p[0], s2, e2)
		}
	}
}

func TestStore_NormalizeLineSnap(t *testing.T) {
	store, buf := newTestStore(fiveLines)

	pairs := [][2]int{{0, 0}, {2, 14}, {6, 12}, {8, 8}, {3, 28}, {24, 29}}
	for _, p := range pairs {
		s, e := store.Normalize(p[0], p[1])
		if s != buf.LineStart(s) {
			t.Errorf("Normalize(%d, %d): start %d is not at a line start", p[0], p[1], s)
		}
		if e != buf.Len() {
			ch, err := buf.Slice(e, e+1)
			if err != nil {
				t.Fatalf("Slice(%d, %d) error = %v", e, e+1, err)
			}
			if ch != "\n" {
				t.Errorf("Normalize(%d, %d): byte at end %d is %q, want newline or document end", p[0], p[1], e, ch)
			}
		}
	}
}

func TestStore_NormalizeEmptyLine(t *testing.T) {
	store, _ := newTestStore("a\n\nb")

	// The blank line starts at offset 2; an empty selection there stays
	// empty after normalization.
	start, end := store.Normalize(2, 2)
	if start != 2 || end != 2 {
		t.Errorf("Normalize(2, 2) = (%d, %d), want (2, 2)", start, end)
	}
}

func TestStore_InsertAndOverlap(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	if err := store.Insert(Region{Start: 6, End: 17, Header: "line2"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if !store.HasOverlap(12, 23) {
		t.Error("HasOverlap(12, 23) = false, want true")
	}
	if store.HasOverlap(0, 5) {
		t.Error("HasOverlap(0, 5) = true, want false")
	}
	if store.HasOverlap(17, 23) {
		t.Error("HasOverlap(17, 23) = true, ranges only touch at the newline")
	}

	err := store.Insert(Region{Start: 12, End: 23, Header: "line3"})
	if !errors.Is(err, ErrOverlap) {
		t.Errorf("Insert() error = %v, want ErrOverlap", err)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d regions after rejected insert, want 1", store.Len())
	}
}

func TestStore_InsertRejectsBadRegions(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	if err := store.Insert(Region{Start: 6, End: 6}); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("Insert() error = %v, want ErrEmptyRange", err)
	}
	if err := store.Insert(Region{Start: 6, End: 999}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Insert() error = %v, want ErrOutOfBounds", err)
	}
	if err := store.Insert(Region{Start: -2, End: 5}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Insert() error = %v, want ErrOutOfBounds", err)
	}
}

func TestStore_InsertKeepsStartOrder(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	for _, r := range []Region{
		{Start: 18, End: 23},
		{Start: 0, End: 5},
		{Start: 6, End: 11},
	} {
		if err := store.Insert(r); err != nil {
			t.Fatalf("Insert(%+v) error = %v", r, err)
		}
	}

	regions := store.Regions()
	wantStarts := []int{0, 6, 18}
	if len(regions) != len(wantStarts) {
		t.Fatalf("Regions() returned %d regions, want %d", len(regions), len(wantStarts))
	}
	for i, want := range wantStarts {
		if regions[i].Start != want {
			t.Errorf("Regions()[%d].Start = %d, want %d", i, regions[i].Start, want)
		}
	}
}

func TestStore_EditableContract(t *testing.T) {
	store, buf := newTestStore(fiveLines)

	if err := store.Insert(Region{Start: 6, End: 11}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// The lock extends one byte back to cover the preceding newline.
	if buf.Editable(5, 11) {
		t.Error("folded text is editable after Insert")
	}
	if !buf.Editable(0, 5) {
		t.Error("text before the fold is read-only")
	}
	if !buf.Editable(11, buf.Len()) {
		t.Error("text after the fold is read-only")
	}

	removed := store.RemoveAt(8)
	if len(removed) != 1 {
		t.Fatalf("RemoveAt(8) removed %d regions, want 1", len(removed))
	}
	if !buf.Editable(0, buf.Len()) {
		t.Error("buffer is not fully editable after removal")
	}
}

func TestStore_EditableContractAtDocumentStart(t *testing.T) {
	store, buf := newTestStore(fiveLines)

	if err := store.Insert(Region{Start: 0, End: 5}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if buf.Editable(0, 5) {
		t.Error("first-line fold did not lock its text")
	}

	store.RemoveAll()
	if !buf.Editable(0, buf.Len()) {
		t.Error("buffer is not fully editable after RemoveAll")
	}
}

func TestStore_RemoveAt(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	_ = store.Insert(Region{Start: 6, End: 11})
	_ = store.Insert(Region{Start: 18, End: 23})

	// Half-open containment: End itself is outside the region.
	if removed := store.RemoveAt(11); len(removed) != 0 {
		t.Errorf("RemoveAt(11) removed %d regions, want 0", len(removed))
	}
	if removed := store.RemoveAt(5); len(removed) != 0 {
		t.Errorf("RemoveAt(5) removed %d regions, want 0", len(removed))
	}

	removed := store.RemoveAt(6)
	if len(removed) != 1 || removed[0].Start != 6 {
		t.Fatalf("RemoveAt(6) = %+v, want the region starting at 6", removed)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d regions, want 1", store.Len())
	}
}

func TestStore_RemoveAll(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	_ = store.Insert(Region{Start: 18, End: 23})
	_ = store.Insert(Region{Start: 0, End: 5})

	removed := store.RemoveAll()
	if len(removed) != 2 {
		t.Fatalf("RemoveAll() removed %d regions, want 2", len(removed))
	}
	if removed[0].Start != 0 || removed[1].Start != 18 {
		t.Errorf("RemoveAll() order = [%d, %d], want store order [0, 18]", removed[0].Start, removed[1].Start)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d regions after RemoveAll, want 0", store.Len())
	}

	if removed := store.RemoveAll(); len(removed) != 0 {
		t.Errorf("second RemoveAll() removed %d regions, want 0", len(removed))
	}
}

func TestStore_NoOverlapInvariant(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	_ = store.Insert(Region{Start: 0, End: 5})
	_ = store.Insert(Region{Start: 6, End: 11})
	_ = store.Insert(Region{Start: 12, End: 17}) // will be removed
	_ = store.Insert(Region{Start: 18, End: 23})
	store.RemoveAt(14)
	_ = store.Insert(Region{Start: 12, End: 23}) // overlaps, rejected
	_ = store.Insert(Region{Start: 12, End: 17})

	regions := store.Regions()
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if regions[i].Span().Intersects(regions[j].Start, regions[j].End) {
				t.Errorf("regions %+v and %+v intersect", regions[i], regions[j])
			}
		}
	}
}

func TestStore_Navigation(t *testing.T) {
	store, _ := newTestStore(fiveLines)

	_ = store.Insert(Region{Start: 6, End: 11})
	_ = store.Insert(Region{Start: 18, End: 23})

	if r, ok := store.RegionAt(8); !ok || r.Start != 6 {
		t.Errorf("RegionAt(8) = (%+v, %v), want region starting at 6", r, ok)
	}
	if _, ok := store.RegionAt(12); ok {
		t.Error("RegionAt(12) found a region in an unfolded span")
	}

	if r, ok := store.Next(6); !ok || r.Start != 18 {
		t.Errorf("Next(6) = (%+v, %v), want region starting at 18", r, ok)
	}
	if _, ok := store.Next(18); ok {
		t.Error("Next(18) found a region past the last fold")
	}

	if r, ok := store.Prev(18); !ok || r.Start != 6 {
		t.Errorf("Prev(18) = (%+v, %v), want region starting at 6", r, ok)
	}
	if _, ok := store.Prev(6); ok {
		t.Error("Prev(6) found a region before the first fold")
	}
}
