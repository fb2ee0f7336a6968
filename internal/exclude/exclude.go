// Package exclude keeps scratch and sensitive document paths out of the
// fold state directory. Documents matching the exclusion list are treated
// as having no folds to persist.
package exclude

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidTOML indicates an exclusion list that does not parse.
	ErrInvalidTOML = errors.New("invalid TOML in exclusion list")

	// ErrInvalidRegex indicates an exclusion pattern that does not compile.
	ErrInvalidRegex = errors.New("invalid regex in exclusion list")
)

// List matches document paths that must not be persisted.
type List struct {
	patterns []*regexp.Regexp
}

// Load reads a TOML exclusion list of path regex patterns:
//
//	paths = [
//	  '^/tmp/',
//	  '\.secret$',
//	]
//
// An empty path or a missing file yields an empty list. Invalid TOML or
// an invalid pattern is an error (fail-fast at load, not at match time).
func Load(path string) (*List, error) {
	if path == "" {
		return &List{}, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &List{}, nil
		}
		return nil, fmt.Errorf("stat exclusion list %s: %w", path, err)
	}

	var config struct {
		Paths []string `toml:"paths"`
	}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}

	patterns := make([]*regexp.Regexp, 0, len(config.Paths))
	for _, pattern := range config.Paths {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern '%s' in %s: %v",
				ErrInvalidRegex, pattern, path, err)
		}
		patterns = append(patterns, re)
	}

	return &List{patterns: patterns}, nil
}

// Excluded reports whether a document path matches any pattern.
func (l *List) Excluded(docPath string) bool {
	if l == nil {
		return false
	}
	for _, re := range l.patterns {
		if re.MatchString(docPath) {
			return true
		}
	}
	return false
}

// Len returns the number of loaded patterns.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.patterns)
}
