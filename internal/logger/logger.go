package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger is a thin veneer over zerolog that speaks the apply engine's
// vocabulary: entries can be scoped to a configuration unit and carry
// alternating key/value fields. A nil *Logger is valid and discards
// everything.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("unknown log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}
	if opts.HumanReadable {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	base := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{base: base}, nil
}

// WithUnit returns a derived logger scoped to one configuration unit.
func (l *Logger) WithUnit(identifier, unitType string) *Logger {
	if l == nil {
		return nil
	}
	derived := l.base.With().Str("unit", identifier).Str("type", unitType).Logger()
	return &Logger{base: derived}
}

// WithFields returns a derived logger that always writes the supplied
// fields. Keys are attached in sorted order so output is deterministic.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	builder := l.base.With()
	for _, key := range keys {
		builder = builder.Interface(key, fields[key])
	}
	return &Logger{base: builder.Logger()}
}

// Debug writes a debug-level entry if enabled.
func (l *Logger) Debug(msg string, fields ...any) {
	if l == nil {
		return
	}
	emit(l.base.Debug(), nil, msg, fields)
}

// Info writes an informational entry.
func (l *Logger) Info(msg string, fields ...any) {
	if l == nil {
		return
	}
	emit(l.base.Info(), nil, msg, fields)
}

// Warn writes a warning entry.
func (l *Logger) Warn(msg string, fields ...any) {
	if l == nil {
		return
	}
	emit(l.base.Warn(), nil, msg, fields)
}

// Error writes an error entry including the supplied cause.
func (l *Logger) Error(err error, msg string, fields ...any) {
	if l == nil {
		return
	}
	emit(l.base.Error(), err, msg, fields)
}

// emit attaches the cause and the alternating key/value fields, then writes
// the entry. A trailing key without a value is dropped; non-string keys are
// stringified rather than panicking.
func emit(event *zerolog.Event, err error, msg string, fields []any) {
	if err != nil {
		event = event.Err(err)
	}

	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		event = event.Interface(key, fields[i+1])
	}

	event.Msg(msg)
}
