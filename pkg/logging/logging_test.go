package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apex/log"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(log.InfoLevel, false, &buf)
	l.Debug("hidden")
	l.WithField("key", "pokemon/list").Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, "key=pokemon/list") {
		t.Fatalf("expected logfmt field, got %s", out)
	}

	buf.Reset()
	NewLogger(log.ErrorLevel, true, &buf).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatal("debug flag should force debug level")
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("warn") != log.WarnLevel {
		t.Fatal("expected warn")
	}
	if ParseLevel("nonsense") != log.InfoLevel {
		t.Fatal("expected info fallback")
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if !strings.HasSuffix(f.Name(), FileName) {
		t.Fatalf("unexpected file %s", f.Name())
	}
}
