// Package rlog defines the logging sink the core delegates to: no
// exceptions cross the core/host boundary, logging is delegated to a
// sink injected by the host. It also provides a default stdlib-backed
// implementation using a bracketed-severity-tag convention ("[INFO] ...",
// "[ERROR] ...").
package rlog

import (
	"log"
	"os"
)

// Logger is the sink every package in this module reports diagnostics to.
// Programming-error-severity messages go to Warnf/Errorf; informational
// messages that aren't errors go to Infof.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Std wraps the standard library's *log.Logger, tagging each line with a
// bracketed severity by hand.
type Std struct {
	l *log.Logger
}

// NewStd creates a Std logger writing to os.Stderr with the standard flags.
func NewStd() *Std {
	return &Std{l: log.New(os.Stderr, "", log.LstdFlags)}
}

// NewStdWithLogger wraps an already-configured *log.Logger.
func NewStdWithLogger(l *log.Logger) *Std {
	return &Std{l: l}
}

func (s *Std) Infof(format string, args ...any) {
	s.l.Printf("[INFO] "+format, args...)
}

func (s *Std) Warnf(format string, args ...any) {
	s.l.Printf("[WARN] "+format, args...)
}

func (s *Std) Errorf(format string, args ...any) {
	s.l.Printf("[ERROR] "+format, args...)
}

// Nop discards everything. Useful for tests that don't want log noise.
type Nop struct{}

func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}
func (Nop) Errorf(string, ...any) {}
