// Package loggingutil provides the kv-style Logger used across meilikit,
// backed by zerolog, and carries it through context.Context.
package loggingutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"meilikit/src/pkg/contextutil"
)

// Logger is the interface that defines the common logging operations.
// Every method takes alternating key/value pairs after the message.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// Fatal logs and then terminates the program.
	Fatal(msg string, keysAndValues ...interface{})

	// With returns a child logger that adds the given pairs to every entry.
	With(keysAndValues ...interface{}) Logger
}

// Format selects the zerolog output encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures New.
type Options struct {
	Level  string
	Format Format
	Writer io.Writer
	// NoColor disables ANSI colours in console output.
	NoColor bool
}

// New builds a zerolog-backed Logger from opts.
// An unknown level falls back to info; a nil writer means os.Stderr.
func New(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	if opts.Format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: w, NoColor: opts.NoColor}
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return NewZerologAdapter(zl)
}

// ParseLevel parses a level name such as "debug" or "WARN".
// The empty string parses as info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewZerologAdapter(zerolog.Nop())
}

// nopLogger is returned by Get when the context carries no logger, which keeps
// library code silent unless the caller opts in.
var nopLogger = Nop()

// Set stores a logger in the given context and returns a new context with the logger.
func Set(ctx context.Context, logger Logger) context.Context {
	return contextutil.SetTyped(ctx, logger)
}

// Get retrieves the logger from the context.
// If no logger is found in the context, a no-op logger is returned.
func Get(ctx context.Context) Logger {
	if ctx == nil {
		return nopLogger
	}
	logger, ok := contextutil.TryRetrieveTyped[Logger](ctx)
	if !ok || logger == nil {
		return nopLogger
	}
	return logger
}

// WithFields returns ctx with its logger extended by the given pairs.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	return Set(ctx, Get(ctx).With(keysAndValues...))
}
