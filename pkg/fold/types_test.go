package fold

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *DefaultConfig(), false},
		{"right fringe", Config{Indication: IndicationRightFringe}, false},
		{"no indication", Config{Indication: IndicationNone}, false},
		{"zero header width means no truncation", Config{HeaderWidth: 0, Indication: IndicationNone}, false},
		{"unknown indication", Config{Indication: "top"}, true},
		{"empty indication", Config{}, true},
		{"negative header width", Config{HeaderWidth: -1, Indication: IndicationNone}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrConfig) {
					t.Errorf("Validate() error = %v, want ErrConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestSpan_Contains(t *testing.T) {
	s := Span{Start: 10, End: 20}

	tests := []struct {
		pos  int
		want bool
	}{
		{9, false},
		{10, true},
		{15, true},
		{19, true},
		{20, false}, // half-open: End is outside
	}

	for _, tt := range tests {
		if got := s.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestSpan_Intersects(t *testing.T) {
	s := Span{Start: 10, End: 20}

	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{"before", 0, 10, false},
		{"after", 20, 30, false},
		{"inside", 12, 18, true},
		{"covering", 0, 30, true},
		{"left edge", 5, 11, true},
		{"right edge", 19, 25, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Intersects(tt.start, tt.end); got != tt.want {
				t.Errorf("Intersects(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
