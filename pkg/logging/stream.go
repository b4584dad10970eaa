package logging

import (
	"context"
	"io"
	"os"
	"sync"
)

// StreamLoggerConfig holds configuration for stream logging
type StreamLoggerConfig struct {
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// Template is the text line layout (empty = DefaultTemplate)
	Template string
}

// StreamLogger writes log lines to an io.Writer, stderr by default
type StreamLogger struct {
	mu     *sync.Mutex
	w      io.Writer
	level  Level
	enc    encoder
	fields Fields
}

// NewStreamLogger creates a logger writing to w (nil = os.Stderr)
func NewStreamLogger(w io.Writer, config StreamLoggerConfig) *StreamLogger {
	if w == nil {
		w = os.Stderr
	}
	return &StreamLogger{
		mu:    &sync.Mutex{},
		w:     w,
		level: config.Level,
		enc:   newEncoder(config.Format, config.Template),
	}
}

// Debug logs a debug message
func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields sharing the same writer
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{
		mu:     l.mu,
		w:      l.w,
		level:  l.level,
		enc:    l.enc,
		fields: mergeFields(l.fields, fields),
	}
}

// Close does nothing; the stream belongs to the caller
func (l *StreamLogger) Close() error {
	return nil
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.level {
		return
	}

	line, encErr := l.enc.encode(level, msg, err, mergeFields(l.fields, fields))
	if encErr != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(line)
}
