package output

import (
	"bytes"
	"os"
	"testing"
)

func TestProgressWritesAndClears(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, 0, true)

	p.Start("linear pow")
	if got, want := buf.String(), "\r\033[KRunning linear pow…"; got != want {
		t.Fatalf("after Start() = %q, want %q", got, want)
	}

	buf.Reset()
	p.Done()
	if got := buf.String(); got != "\r\033[K" {
		t.Errorf("after Done() = %q", got)
	}

	buf.Reset()
	p.Done()
	if buf.Len() != 0 {
		t.Errorf("second Done() wrote %q", buf.String())
	}
}

func TestProgressTruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, 11, true)
	p.Start("square-and-multiply pow")
	if got, want := buf.String(), "\r\033[KRunning sq"; got != want {
		t.Errorf("Start() = %q, want %q", got, want)
	}
}

func TestProgressDisabled(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, 80, false)
	p.Start("x")
	p.Done()
	if buf.Len() != 0 {
		t.Errorf("disabled progress wrote %q", buf.String())
	}
}

func TestNewProgressOnNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "progress")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	defer f.Close()

	p := NewProgress(f)
	p.Start("x")
	p.Done()
	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("wrote %d bytes to a regular file", info.Size())
	}
	if NewProgress(nil).enabled {
		t.Error("NewProgress(nil) enabled")
	}
}
