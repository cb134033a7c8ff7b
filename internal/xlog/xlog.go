// Package xlog is the shared structured-logging helper for tengraph. None of
// the retrieval pack's dependencies cover embeddable-library logging (the
// teacher is a dependency-free library and never logs; go-highway and sentra
// both log only from their own command-line front ends), so this wraps the
// standard library's log.Logger rather than reaching for an unrelated
// dependency — see DESIGN.md for the justification.
package xlog

import (
	"fmt"
	"log"
	"os"
)

// Logger is a minimal structured logger: a message plus key/value fields,
// rendered as "msg key=value key=value".
type Logger struct {
	std    *log.Logger
	fields []Field
}

// Field is one structured key/value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// New returns a Logger writing to stderr with the given static fields
// (e.g. component name) attached to every line.
func New(fields ...Field) *Logger {
	return &Logger{std: log.New(os.Stderr, "", log.LstdFlags), fields: fields}
}

// With returns a child Logger with additional static fields appended.
func (l *Logger) With(fields ...Field) *Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	return &Logger{std: l.std, fields: merged}
}

// Info logs msg with the logger's static fields and any extra ones.
func (l *Logger) Info(msg string, extra ...Field) {
	l.log("INFO", msg, extra)
}

// Warn logs msg at warning level.
func (l *Logger) Warn(msg string, extra ...Field) {
	l.log("WARN", msg, extra)
}

// Error logs msg at error level.
func (l *Logger) Error(msg string, extra ...Field) {
	l.log("ERROR", msg, extra)
}

func (l *Logger) log(level, msg string, extra []Field) {
	line := fmt.Sprintf("[%s] %s", level, msg)
	for _, f := range l.fields {
		line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	for _, f := range extra {
		line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	l.std.Output(2, line) //nolint:errcheck
}
