// Package foldpath maps document paths to the persistence files that hold
// their fold sets. The mapping is a pure character substitution applied
// identically on save and load; canonicalization happens once, at document
// open, never inside the codec.
package foldpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultEscape replaces path separators in encoded file names.
const DefaultEscape = '!'

// Codec errors.
var (
	ErrInvalidCodec = errors.New("invalid path codec")
	ErrBadName      = errors.New("not an encoded document path")
)

// Codec turns a document path into the name of its persistence file by
// replacing every path separator with the escape character, and back.
//
// Known limitation: a document path that itself contains the escape
// character decodes to a different path than it encoded from. The mapping
// is injective only over paths free of the escape character.
type Codec struct {
	// Dir is the persistence directory encoded files live under.
	Dir string
	// Escape replaces every path separator. Zero means DefaultEscape.
	Escape rune
}

// Validate checks the codec settings.
func (c Codec) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("persistence directory is required: %w", ErrInvalidCodec)
	}
	if c.escape() == os.PathSeparator {
		return fmt.Errorf("escape character %q equals the path separator: %w", c.escape(), ErrInvalidCodec)
	}
	return nil
}

// Encode returns the persistence-file path for a document path.
func (c Codec) Encode(docPath string) string {
	name := strings.ReplaceAll(docPath, string(os.PathSeparator), string(c.escape()))
	return filepath.Join(c.Dir, name)
}

// Decode is the exact inverse of Encode. It accepts either a full
// persistence-file path or a bare file name.
func (c Codec) Decode(stateFile string) (string, error) {
	name := filepath.Base(stateFile)
	if name == "." || name == string(os.PathSeparator) || name == "" {
		return "", fmt.Errorf("%q: %w", stateFile, ErrBadName)
	}
	return strings.ReplaceAll(name, string(c.escape()), string(os.PathSeparator)), nil
}

func (c Codec) escape() rune {
	if c.Escape == 0 {
		return DefaultEscape
	}
	return c.Escape
}

// Canonicalize resolves path to the absolute, symlink-free form used as a
// document's persistence identity. A path that does not exist yet resolves
// to its absolute form.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("canonicalize %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return resolved, nil
}
