package state

import (
	"errors"
	"reflect"
	"testing"
)

func TestSet_Marshal(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		want string
	}{
		{
			name: "two spans",
			set:  Set{{Start: 120, End: 340}, {Start: 512, End: 600}},
			want: ";; -*- coding: utf-8 -*-\n((120 340) (512 600))\n",
		},
		{
			name: "single span",
			set:  Set{{Start: 0, End: 5}},
			want: ";; -*- coding: utf-8 -*-\n((0 5))\n",
		},
		{
			name: "empty set",
			set:  Set{},
			want: ";; -*- coding: utf-8 -*-\n()\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.set.Marshal()); got != tt.want {
				t.Errorf("Marshal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSet_MarshalDeterministic(t *testing.T) {
	set := Set{{Start: 6, End: 23}, {Start: 40, End: 77}}
	first := set.Marshal()
	second := set.Marshal()
	if string(first) != string(second) {
		t.Errorf("Marshal() not deterministic: %q vs %q", first, second)
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Set
	}{
		{
			name:  "canonical record",
			input: ";; -*- coding: utf-8 -*-\n((120 340) (512 600))\n",
			want:  Set{{Start: 120, End: 340}, {Start: 512, End: 600}},
		},
		{
			name:  "no comment line",
			input: "((1 2))",
			want:  Set{{Start: 1, End: 2}},
		},
		{
			name:  "several comment lines",
			input: "; written by hand\n;; -*- coding: utf-8 -*-\n((7 9))\n",
			want:  Set{{Start: 7, End: 9}},
		},
		{
			name:  "empty list",
			input: ";; -*- coding: utf-8 -*-\n()\n",
			want:  Set{},
		},
		{
			name:  "spans split across lines",
			input: "((1 2)\n (3 4)\n\t(5 6))",
			want:  Set{{Start: 1, End: 2}, {Start: 3, End: 4}, {Start: 5, End: 6}},
		},
		{
			name:  "extra interior whitespace",
			input: "(  ( 10   20 )   ( 30 40 )  )",
			want:  Set{{Start: 10, End: 20}, {Start: 30, End: 40}},
		},
		{
			name:  "negative offsets parse",
			input: "((-1 5))",
			want:  Set{{Start: -1, End: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.input))
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "only comments", input: ";; -*- coding: utf-8 -*-\n"},
		{name: "unterminated list", input: "((1 2)"},
		{name: "unterminated pair", input: "((1 2"},
		{name: "missing end offset", input: "((1))"},
		{name: "non-numeric offset", input: "((a b))"},
		{name: "bare pair", input: "(1 2)"},
		{name: "trailing garbage", input: "((1 2)) extra"},
		{name: "extra close paren", input: "((1 2)))"},
		{name: "no list at all", input: "1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Unmarshal(%q) error = %v, want ErrMalformed", tt.input, err)
			}
		})
	}
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	sets := []Set{
		{},
		{{Start: 0, End: 5}},
		{{Start: 120, End: 340}, {Start: 512, End: 600}},
		{{Start: 6, End: 23}, {Start: 40, End: 77}, {Start: 100, End: 9999}},
	}

	for _, set := range sets {
		got, err := Unmarshal(set.Marshal())
		if err != nil {
			t.Fatalf("Unmarshal(Marshal(%v)) error = %v", set, err)
		}
		if !reflect.DeepEqual(got, set) {
			t.Errorf("round trip = %v, want %v", got, set)
		}
	}
}
