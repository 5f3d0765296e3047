// ABOUTME: Logger implementation backed by logrus with JSON output
// ABOUTME: Optionally writes to a size-rotated file through lumberjack

package logrus

import (
	"io"
	"os"

	sirupsen "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger
type Options struct {
	// Level is debug, info, warn or error; unknown values mean info
	Level string

	// File enables rotated file output when set
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger implements interfaces.Logger
type Logger struct {
	entry  *sirupsen.Logger
	closer io.Closer
}

// New creates a logger writing JSON lines to stderr or to opts.File
func New(opts Options) *Logger {
	var out io.Writer = os.Stderr
	var closer io.Closer
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		out, closer = rotator, rotator
	}
	return NewWithWriter(out, opts.Level, closer)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, level string, closer io.Closer) *Logger {
	l := sirupsen.New()
	l.SetOutput(w)
	l.SetFormatter(&sirupsen.JSONFormatter{})

	lvl, err := sirupsen.ParseLevel(level)
	if err != nil || lvl > sirupsen.DebugLevel {
		lvl = sirupsen.InfoLevel
	}
	l.SetLevel(lvl)

	return &Logger{entry: l, closer: closer}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(sirupsen.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(sirupsen.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(sirupsen.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(sirupsen.Fields(fields)).Error(msg)
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
