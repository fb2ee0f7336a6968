package fold

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/PythonNut/vimish-fold/pkg/textbuf"
)

// Engine is the fold operation surface for one open document. It owns the
// region store and the recently-unfolded history, derives headers,
// registers one decoration per fold, and moves the cursor to a fold's
// start on success.
type Engine struct {
	mu      sync.Mutex
	buf     textbuf.Buffer
	dec     textbuf.Decorator
	store   *Store
	cfg     *Config
	logger  *Logger
	metrics *Metrics

	// recentlyUnfolded holds the spans destroyed by the most recent
	// unfold, most recent first. Refold consumes it.
	recentlyUnfolded []Span

	// decorations maps a region's start offset to its decoration id.
	// Start offsets are unique because regions cannot overlap.
	decorations map[int]textbuf.DecorationID
}

// Option configures an Engine.
type Option func(*Engine)

// WithDecorator sets the host decoration registry. Without one the engine
// skips decoration bookkeeping.
func WithDecorator(d textbuf.Decorator) Option {
	return func(e *Engine) {
		e.dec = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics sets custom metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine over buf. A nil cfg uses DefaultConfig.
func NewEngine(buf textbuf.Buffer, cfg *Config, opts ...Option) (*Engine, error) {
	if buf == nil {
		return nil, ErrNoBuffer
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Initialize with defaults
	metrics, _ := NewMetrics(nil)
	logger := NewLogger(nil)

	e := &Engine{
		buf:         buf,
		store:       NewStore(buf),
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics,
		decorations: make(map[int]textbuf.DecorationID),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Fold collapses the whole lines covered by the raw selection
// [rawStart, rawEnd] into one region. The selection is normalized to line
// boundaries first; folding fails with ErrEmptyRange when nothing remains
// after normalization, ErrOverlap when the span touches an existing fold
// or decoration, and ErrOutOfBounds when the raw offsets fall outside the
// document. On success the cursor moves to the region's start.
func (e *Engine) Fold(ctx context.Context, rawStart, rawEnd int) (*Region, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := StartSpan(ctx, "fold.create", e.buf.Path())
	defer span.End()

	region, err := e.fold(ctx, rawStart, rawEnd)
	if err != nil {
		RecordError(ctx, err)
		SetSpanStatus(ctx, codes.Error, "fold rejected")
		return nil, err
	}

	SetSpanStatus(ctx, codes.Ok, "fold created")
	return region, nil
}

// fold is the core create operation. The engine mutex must be held.
func (e *Engine) fold(ctx context.Context, rawStart, rawEnd int) (*Region, error) {
	docLen := e.buf.Len()
	if rawStart < 0 || rawStart > docLen || rawEnd < 0 || rawEnd > docLen {
		return nil, fmt.Errorf("range [%d, %d] in %d bytes: %w", rawStart, rawEnd, docLen, ErrOutOfBounds)
	}

	start, end := e.store.Normalize(rawStart, rawEnd)
	if start == end {
		return nil, fmt.Errorf("range [%d, %d]: %w", rawStart, rawEnd, ErrEmptyRange)
	}

	// Restored folds on a freshly opened document may exist only as
	// decorations, so the store check alone is not enough.
	if e.store.HasOverlap(start, end) || e.decorated(start, end) {
		return nil, fmt.Errorf("range [%d, %d): %w", start, end, ErrOverlap)
	}

	region := Region{Start: start, End: end, Header: e.headerFor(start, end)}
	if err := e.store.Insert(region); err != nil {
		return nil, err
	}

	if e.dec != nil {
		id, err := e.dec.Apply(textbuf.Decoration{
			Start:      start,
			End:        end,
			Header:     e.displayHeader(region.Header),
			Indication: e.cfg.Indication,
			Activate: func(ctx context.Context) error {
				_, err := e.UnfoldAt(ctx, start)
				return err
			},
		})
		if err != nil {
			e.store.RemoveAt(start)
			return nil, fmt.Errorf("apply decoration: %w", err)
		}
		e.decorations[start] = id
	}

	e.buf.SetPoint(start)

	e.metrics.RecordFoldCreated(ctx, e.regionLines(region))
	e.logger.FoldCreated(ctx, e.buf.Path(), region.Start, region.End, region.Header)
	return &region, nil
}

// UnfoldAt removes every region whose span contains pos, restoring the
// text's editability, and replaces the recently-unfolded list with the
// removed spans. Removing nothing is informational, not an error.
func (e *Engine) UnfoldAt(ctx context.Context, pos int) (*UnfoldResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := StartSpan(ctx, "fold.unfold", e.buf.Path())
	defer span.End()

	removed := e.store.RemoveAt(pos)
	if len(removed) == 0 {
		e.logger.NothingToUnfold(ctx, e.buf.Path(), pos)
		SetSpanStatus(ctx, codes.Ok, "nothing to unfold")
		return &UnfoldResult{}, nil
	}

	e.finishUnfold(ctx, removed)
	SetSpanStatus(ctx, codes.Ok, "unfolded")
	return &UnfoldResult{Spans: regionSpans(removed)}, nil
}

// UnfoldAll removes every region in the document. Removing nothing is
// informational, not an error.
func (e *Engine) UnfoldAll(ctx context.Context) (*UnfoldResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := StartSpan(ctx, "fold.unfold_all", e.buf.Path())
	defer span.End()

	removed := e.store.RemoveAll()
	if len(removed) == 0 {
		e.logger.NothingToUnfold(ctx, e.buf.Path(), -1)
		SetSpanStatus(ctx, codes.Ok, "nothing to unfold")
		return &UnfoldResult{}, nil
	}

	e.finishUnfold(ctx, removed)
	SetSpanStatus(ctx, codes.Ok, "unfolded all")
	return &UnfoldResult{Spans: regionSpans(removed)}, nil
}

// finishUnfold drops decorations, records history, and reports the batch.
// The engine mutex must be held and removed must be non-empty.
func (e *Engine) finishUnfold(ctx context.Context, removed []Region) {
	e.dropDecorations(ctx, removed)

	// Most recent first: store order reversed.
	spans := make([]Span, len(removed))
	for i, r := range removed {
		spans[len(removed)-1-i] = r.Span()
	}
	e.recentlyUnfolded = spans

	e.metrics.RecordUnfolded(ctx, len(removed))
	e.logger.Unfolded(ctx, e.buf.Path(), regionSpans(removed))
}

// Refold replays the recently-unfolded spans through the create operation
// in list order and clears the list. Spans that can no longer be folded
// are skipped, not fatal. An empty list is informational, not an error.
func (e *Engine) Refold(ctx context.Context) (*RefoldResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := StartSpan(ctx, "fold.refold", e.buf.Path())
	defer span.End()

	if len(e.recentlyUnfolded) == 0 {
		e.logger.NothingToRefold(ctx, e.buf.Path())
		SetSpanStatus(ctx, codes.Ok, "nothing to refold")
		return &RefoldResult{}, nil
	}

	pairs := e.recentlyUnfolded
	e.recentlyUnfolded = nil

	res := &RefoldResult{}
	for _, sp := range pairs {
		if _, err := e.fold(ctx, sp.Start, sp.End); err != nil {
			e.logger.Error(ctx, "refold skipped span", err,
				zap.Int("start", sp.Start), zap.Int("end", sp.End))
			res.Skipped = append(res.Skipped, sp)
			continue
		}
		res.Restored = append(res.Restored, sp)
	}

	e.metrics.RecordRefold(ctx, len(res.Restored), len(res.Skipped))
	e.logger.Refolded(ctx, e.buf.Path(), len(res.Restored), len(res.Skipped))
	SetSpanStatus(ctx, codes.Ok, "refolded")
	return res, nil
}

// RecentlyUnfolded returns a copy of the spans the next Refold would
// restore, most recent first.
func (e *Engine) RecentlyUnfolded() []Span {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Span, len(e.recentlyUnfolded))
	copy(out, e.recentlyUnfolded)
	return out
}

// ClearRecentlyUnfolded empties the refold history. Restoring persisted
// folds ends with this so a stray Refold cannot replay them.
func (e *Engine) ClearRecentlyUnfolded() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recentlyUnfolded = nil
}

// Regions returns the active regions in store order.
func (e *Engine) Regions() []Region {
	return e.store.Regions()
}

// RegionAt returns the region whose span contains pos.
func (e *Engine) RegionAt(pos int) (Region, bool) {
	return e.store.RegionAt(pos)
}

// Next returns the first region starting after pos.
func (e *Engine) Next(pos int) (Region, bool) {
	return e.store.Next(pos)
}

// Prev returns the last region starting before pos.
func (e *Engine) Prev(pos int) (Region, bool) {
	return e.store.Prev(pos)
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return *e.cfg
}

// decorated reports whether the host has any decoration in [start, end).
func (e *Engine) decorated(start, end int) bool {
	return e.dec != nil && len(e.dec.At(start, end)) > 0
}

// dropDecorations removes the decorations of unfolded regions.
func (e *Engine) dropDecorations(ctx context.Context, removed []Region) {
	if e.dec == nil {
		return
	}
	for _, r := range removed {
		id, ok := e.decorations[r.Start]
		if !ok {
			continue
		}
		if err := e.dec.Remove(id); err != nil {
			e.logger.Error(ctx, "remove decoration", err, zap.Int("start", r.Start))
		}
		delete(e.decorations, r.Start)
	}
}

// headerFor returns the first non-blank line inside the span, or the
// configured placeholder when every line is blank.
func (e *Engine) headerFor(start, end int) string {
	text, err := e.buf.Slice(start, end)
	if err != nil {
		return e.cfg.Placeholder
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return e.cfg.Placeholder
}

// displayHeader truncates a header to the configured width for display.
func (e *Engine) displayHeader(header string) string {
	if e.cfg.HeaderWidth <= 0 {
		return header
	}
	runes := []rune(header)
	if len(runes) <= e.cfg.HeaderWidth {
		return header
	}
	return string(runes[:e.cfg.HeaderWidth])
}

// regionLines counts the lines covered by a region.
func (e *Engine) regionLines(r Region) int {
	text, err := e.buf.Slice(r.Start, r.End)
	if err != nil {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

func regionSpans(regions []Region) []Span {
	out := make([]Span, len(regions))
	for i, r := range regions {
		out[i] = r.Span()
	}
	return out
}
