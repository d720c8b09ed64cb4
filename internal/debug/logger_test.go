package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLoggerDiscards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	l := NewLogger(false, path)
	l.Printf("hidden %d", 1)
	if l.IsEnabled() {
		t.Error("logger should be disabled")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled logger created a file")
	}
}

func TestEnabledLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	l := NewLogger(true, path)
	l.Printf("turn %d", 3)
	l.Println("done")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"DEBUG MODE ENABLED", "turn 3", "done"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Printf("ignored")
	l.Println("ignored")
	if l.IsEnabled() || l.Close() != nil {
		t.Error("nil logger should be a silent no-op")
	}
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf).Printf("hello %s", "there")
	if buf.String() != "hello there\n" {
		t.Errorf("got %q", buf.String())
	}
}
