package debug

import (
	"io"
	"log"
	"os"
)

// Logger writes diagnostics to a log file when debug mode is on and
// discards them otherwise. A nil *Logger is valid and silent.
type Logger struct {
	enabled bool
	out     *log.Logger
	file    *os.File
}

func NewLogger(enabled bool, path string) *Logger {
	if !enabled {
		return &Logger{out: log.New(io.Discard, "", 0)}
	}
	if path == "" {
		path = "debug.log"
	}

	l := &Logger{enabled: true, out: log.New(os.Stderr, "", log.LstdFlags)}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		l.file = logFile
		l.out.SetOutput(logFile)
	}
	l.out.Printf("=== DEBUG MODE ENABLED ===")
	return l
}

// NewWriterLogger logs to w unconditionally. Used by tests.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{enabled: true, out: log.New(w, "", 0)}
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d != nil && d.enabled {
		d.out.Printf(format, args...)
	}
}

func (d *Logger) Println(args ...interface{}) {
	if d != nil && d.enabled {
		d.out.Println(args...)
	}
}

func (d *Logger) IsEnabled() bool {
	return d != nil && d.enabled
}

func (d *Logger) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	return d.file.Close()
}
