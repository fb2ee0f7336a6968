package fold

import "fmt"

// Span is a half-open byte range [Start, End) within one document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return s.Start <= pos && pos < s.End
}

// Intersects reports whether two spans share at least one position.
func (s Span) Intersects(start, end int) bool {
	return s.Start < end && start < s.End
}

// Region is one folded span of whole lines. Start sits at the first byte
// of a line; the byte at End is a newline or End equals the document
// length. Header is the display text cached at creation; it is not
// re-derived when the document changes.
type Region struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Header string `json:"header"`
}

// Span returns the region's offsets.
func (r Region) Span() Span {
	return Span{Start: r.Start, End: r.End}
}

// Indication placements for the fold marker a host renders.
const (
	IndicationLeftFringe  = "left-fringe"
	IndicationRightFringe = "right-fringe"
	IndicationNone        = "none"
)

// DefaultPlaceholder is the header used when a folded span has no
// non-blank line.
const DefaultPlaceholder = "<blank fold>"

// Config holds fold display settings.
type Config struct {
	// Placeholder is the header for folds containing only blank lines.
	Placeholder string `json:"placeholder" koanf:"placeholder"`
	// HeaderWidth truncates decoration headers to this many characters.
	// Zero means no truncation.
	HeaderWidth int `json:"header_width" koanf:"header_width"`
	// Indication is where the host should place the fold marker: one of
	// left-fringe, right-fringe, none.
	Indication string `json:"indication" koanf:"indication"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Placeholder: DefaultPlaceholder,
		HeaderWidth: 80,
		Indication:  IndicationLeftFringe,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.HeaderWidth < 0 {
		return fmt.Errorf("header_width %d is negative: %w", c.HeaderWidth, ErrConfig)
	}
	switch c.Indication {
	case IndicationLeftFringe, IndicationRightFringe, IndicationNone:
	default:
		return fmt.Errorf("indication %q is not one of left-fringe, right-fringe, none: %w", c.Indication, ErrConfig)
	}
	return nil
}

// UnfoldResult reports the spans removed by an unfold operation, in the
// order they were removed. Zero spans means there was nothing to unfold.
type UnfoldResult struct {
	Spans []Span `json:"spans"`
}

// RefoldResult reports the outcome of replaying the recently-unfolded
// list. Zero spans in both fields means there was nothing to refold.
type RefoldResult struct {
	Restored []Span `json:"restored"`
	Skipped  []Span `json:"skipped,omitempty"`
}
