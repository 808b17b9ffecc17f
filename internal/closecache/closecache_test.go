package closecache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPutAndGet(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, "2025-03-03")

	if _, ok := c.Get("600519"); ok {
		t.Fatal("Expected miss on empty cache")
	}

	if err := c.Put("600519", 1520.5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	v, ok := c.Get("600519")
	if !ok || v != 1520.5 {
		t.Errorf("Expected 1520.5, got %f (ok=%v)", v, ok)
	}
}

func TestSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	c := New(dir, "2025-03-03")
	if err := c.Put("AAPL", 221.1); err != nil {
		t.Fatal(err)
	}

	// Fresh instance for the same date reads the file back.
	c2 := New(dir, "2025-03-03")
	v, ok := c2.Get("AAPL")
	if !ok || v != 221.1 {
		t.Errorf("Expected 221.1 after reload, got %f (ok=%v)", v, ok)
	}

	// A different date starts empty.
	c3 := New(dir, "2025-03-04")
	if _, ok := c3.Get("AAPL"); ok {
		t.Error("Expected miss for a different date")
	}
}

func TestIgnoresCorruptFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "2025-03-03.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir, "2025-03-03")
	if _, ok := c.Get("AAPL"); ok {
		t.Error("Expected corrupt file to behave as empty")
	}
	if err := c.Put("AAPL", 10); err != nil {
		t.Errorf("Expected put to recover, got %v", err)
	}
}

func TestNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, "2025-03-03")
	if err := c.Put("AAPL", 10); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("Expected no temp file, found %s", e.Name())
		}
	}
}
