package store

import (
	"context"
	"fmt"
	"io"
	"log"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Logger receives lifecycle messages from a store
type Logger interface {
	Print(ctx context.Context, v ...any)
	Printf(ctx context.Context, format string, v ...any)
}

// stdlogger writes through a standard library logger. Write errors are
// discarded.
type stdlogger struct {
	*log.Logger
}

// discard drops every message
type discard struct{}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewLogger returns a Logger writing timestamped lines to w
func NewLogger(w io.Writer) Logger {
	return &stdlogger{log.New(w, "settings: ", log.LstdFlags)}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (l *stdlogger) Print(_ context.Context, v ...any) {
	_ = l.Logger.Output(2, fmt.Sprint(v...))
}

func (l *stdlogger) Printf(_ context.Context, format string, v ...any) {
	_ = l.Logger.Output(2, fmt.Sprintf(format, v...))
}

func (discard) Print(context.Context, ...any)          {}
func (discard) Printf(context.Context, string, ...any) {}
