package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveBytesWritesUnderRoot(t *testing.T) {
	root := t.TempDir()
	c := New(root, time.Millisecond)

	if err := c.SaveBytes("summary.json", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("SaveBytes returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "summary.json"))
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("content = %q", data)
	}
}

func TestSaveBytesOverwrites(t *testing.T) {
	root := t.TempDir()
	c := New(root, time.Millisecond)

	if err := c.SaveBytes("a.json", []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := c.SaveBytes("a.json", []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(root, "a.json"))
	if string(data) != "two" {
		t.Errorf("content = %q, want %q", data, "two")
	}
}

func TestSaveBytesReportsMissingDirectory(t *testing.T) {
	c := New(t.TempDir(), time.Millisecond)
	if err := c.SaveBytes(filepath.Join("nope", "a.json"), []byte("x")); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
