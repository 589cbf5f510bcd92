package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	logger := New("test module")

	// Default level is Notice; debug output is suppressed.
	logger.Debugf("hidden %d", 1)
	logger.Noticef("visible %d", 2)
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "visible 2") {
		t.Fatalf("expected notice output only; got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("shown %d", 3)
	if out := buf.String(); !strings.Contains(out, "shown 3") {
		t.Fatalf("expected debug output after SetLevel(Debug); got %q", out)
	}

	buf.Reset()
	SetLevel(Error)
	logger.Notice("quiet")
	logger.Error("loud")
	if out := buf.String(); strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Fatalf("expected error output only; got %q", out)
	}
}

func TestModuleNameInOutput(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	New("scene reader").Notice("parsed")
	if out := buf.String(); !strings.Contains(out, "scene reader:") {
		t.Fatalf("expected module name in output; got %q", out)
	}
}
