// Package logging builds the process-wide zap logger for vimish-fold
// binaries from koanf-tagged configuration.
//
// Library packages do not depend on this package: they accept a plain
// *zap.Logger and fall back to a no-op logger when given nil. This
// package is the binary-facing constructor, plus an observing TestLogger
// for log assertions in tests.
package logging
