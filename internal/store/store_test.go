package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planloop/planloop/internal/plan"
)

func TestReadMissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "PLAN.md"))
	text, err := s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestWriteThenRead(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "PLAN.md"))
	want := "<PLAN>\n- [todo][1] A\n</PLAN>\n"
	if err := s.Write(want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip: got %q, want %q", got, want)
	}
}

func TestWriteCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "PLAN.md")
	s := New(path)
	if err := s.Write("<PLAN>\n</PLAN>\n"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("plan file missing: %v", err)
	}
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "PLAN.md"))
	if err := s.Write("<PLAN>\n- [todo][1] old\n</PLAN>\n"); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := s.Write("<PLAN>\n- [todo][1] new\n</PLAN>\n"); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(got, "new") {
		t.Errorf("expected new content, got %q", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("stale temp file: %s", e.Name())
		}
	}
}

func TestReadErrorIsIOFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory at the plan path is unreadable as a file.
	s := New(dir)
	_, err := s.Read()
	if err == nil {
		t.Fatal("expected error reading a directory")
	}
	if !errors.Is(err, plan.ErrIOFailure) {
		t.Errorf("expected IOFailure, got %v", err)
	}
}
