// Package state persists fold sets. A fold set is the ordered list of
// (start, end) spans a document had folded when it was last saved, written
// as a small self-describing text record in a per-user state directory.
package state

import (
	"bytes"
	"fmt"
	"strconv"
)

// Span is one persisted (start, end) pair.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Set is the ordered spans of one document's persisted fold set.
type Set []Span

// encodingComment is the first line of every persisted fold set. It
// declares the text encoding the record was written with; readers skip it.
const encodingComment = ";; -*- coding: utf-8 -*-"

// Marshal renders the set as its on-disk record:
//
//	;; -*- coding: utf-8 -*-
//	((120 340) (512 600))
//
// The encoding is deterministic: equal sets produce equal bytes.
func (s Set) Marshal() []byte {
	var b bytes.Buffer
	b.WriteString(encodingComment)
	b.WriteByte('\n')
	b.WriteByte('(')
	for i, sp := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "(%d %d)", sp.Start, sp.End)
	}
	b.WriteString(")\n")
	return b.Bytes()
}

// Unmarshal parses an on-disk record. Any number of leading comment lines
// (lines starting with ';') are tolerated and skipped. Structural problems
// are reported as ErrMalformed with position detail.
func Unmarshal(data []byte) (Set, error) {
	p := &parser{input: stripComments(data)}
	return p.parse()
}

// stripComments drops leading whitespace and ';' comment lines.
func stripComments(data []byte) []byte {
	for {
		data = bytes.TrimLeft(data, " \t\r\n")
		if len(data) == 0 || data[0] != ';' {
			return data
		}
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return nil
		}
		data = data[idx+1:]
	}
}

type parser struct {
	input []byte
	pos   int
}

func (p *parser) parse() (Set, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}

	set := Set{}
	for {
		p.skipSpace()
		if p.done() {
			return nil, p.errorf("unterminated span list")
		}
		if p.input[p.pos] == ')' {
			p.pos++
			break
		}

		sp, err := p.parsePair()
		if err != nil {
			return nil, err
		}
		set = append(set, sp)
	}

	p.skipSpace()
	if !p.done() {
		return nil, p.errorf("trailing data after span list")
	}
	return set, nil
}

func (p *parser) parsePair() (Span, error) {
	if err := p.expect('('); err != nil {
		return Span{}, err
	}
	start, err := p.parseInt()
	if err != nil {
		return Span{}, err
	}
	end, err := p.parseInt()
	if err != nil {
		return Span{}, err
	}
	if err := p.expect(')'); err != nil {
		return Span{}, err
	}
	return Span{Start: start, End: end}, nil
}

func (p *parser) parseInt() (int, error) {
	p.skipSpace()
	first := p.pos
	if !p.done() && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
		p.pos++
	}
	for !p.done() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == first {
		return 0, p.errorf("expected an integer")
	}
	n, err := strconv.Atoi(string(p.input[first:p.pos]))
	if err != nil {
		return 0, p.errorf("bad integer %q", p.input[first:p.pos])
	}
	return n, nil
}

func (p *parser) expect(b byte) error {
	p.skipSpace()
	if p.done() || p.input[p.pos] != b {
		return p.errorf("expected %q", b)
	}
	p.pos++
	return nil
}

func (p *parser) skipSpace() {
	for !p.done() {
		switch p.input[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) done() bool {
	return p.pos >= len(p.input)
}

func (p *parser) errorf(format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	return fmt.Errorf("offset %d: %s: %w", p.pos, detail, ErrMalformed)
}
