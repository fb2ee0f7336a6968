// Package fold implements whole-line text folding for one open document.
//
// A fold collapses a contiguous span of whole lines into a single
// placeholder line (its "header") until the user expands it again. The
// package owns the fold-region bookkeeping; rendering, selection UI, and
// keybindings stay with the host editor, which participates through the
// textbuf.Buffer and textbuf.Decorator interfaces.
//
// # Core Concepts
//
// Region: one folded span, described by byte offsets [Start, End) aligned
// to line boundaries plus a header cached at creation time. Regions never
// overlap; creating a fold over a span any existing fold touches fails
// with ErrOverlap rather than producing nested state.
//
// Store: the set of active regions for one document, ordered by start
// offset. Inserting a region marks the folded text read-only through the
// buffer; removing it restores editability. The store also answers the
// navigation queries (RegionAt, Next, Prev).
//
// Engine: the operation surface (Fold, UnfoldAt, UnfoldAll, Refold). The
// engine normalizes raw selections to whole lines, derives headers,
// registers a decoration per fold, and keeps the recently-unfolded list
// that Refold consumes. "Nothing to unfold" and "nothing to refold" are
// informational results, not errors.
//
// # Offset conventions
//
// Offsets are byte offsets; spans are half-open [Start, End). For every
// region the byte at End is a newline or End equals the document length,
// and Start sits at the first byte of a line.
//
// # Usage
//
//	buf := textbuf.NewMemoryBuffer("/home/u/notes.txt", text)
//	engine, err := fold.NewEngine(buf, nil, fold.WithDecorator(buf))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	region, err := engine.Fold(ctx, selStart, selEnd)
//	if err != nil {
//	    // ErrEmptyRange, ErrOverlap, ErrOutOfBounds
//	}
//	fmt.Println(region.Header)
//
//	res, _ := engine.UnfoldAll(ctx)
//	if len(res.Spans) == 0 {
//	    fmt.Println("nothing to unfold")
//	}
//	engine.Refold(ctx) // restores what UnfoldAll removed
//
// # Concurrency
//
// Operations are synchronous and run to completion; the engine and store
// are safe for concurrent use but the intended model is the host editor's
// serialized event loop. Nothing here starts background work.
//
// # Observability
//
// The engine logs through a nil-safe Logger wrapping *zap.Logger and
// records OpenTelemetry metrics and spans via Metrics. Hosts that want
// neither pass nothing; both default to no-ops.
package fold
