package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/backmassage/clipstack/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Color = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Log.Color = config.ColorNever
	cfg.Log.File = filepath.Join(dir, "logs", "clipstack.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.With("SM2").Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.Log.File)
	if !bytes.Contains(b, []byte("[INFO] [SM2] to file")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestWith_NestedScopes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)

	l.With("dexycb_07").With("normalize").Warn("input missing")

	if !strings.Contains(buf.String(), "[WARN] [dexycb_07/normalize] input missing") {
		t.Errorf("got %q", buf.String())
	}
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer
	NewWriterLogger(&quiet, false).Debug("hidden")
	NewWriterLogger(&loud, true).Debug("shown")

	if quiet.Len() != 0 {
		t.Errorf("non-verbose logger wrote %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "[DEBUG] shown") {
		t.Errorf("verbose logger wrote %q", loud.String())
	}
}

func TestConcurrentChildrenDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(child *Logger) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				child.Info("line %d", i)
			}
		}(l.With(name))
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 200 {
		t.Fatalf("got %d lines, want 200", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "[INFO] [") {
			t.Fatalf("malformed line %q", line)
		}
	}
}
