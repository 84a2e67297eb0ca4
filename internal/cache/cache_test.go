package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHash(t *testing.T) {
	// xxhash64 of the empty input
	if got := Hash(nil); got != "ef46db3751d8e999" {
		t.Errorf("Hash(nil) = %s, want ef46db3751d8e999", got)
	}

	path := filepath.Join(t.TempDir(), "wmsetus.obj")
	data := []byte("worldmap")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if want := Hash(data); got != want {
		t.Errorf("HashFile() = %s, want %s", got, want)
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("HashFile() on a missing file should fail")
	}
}

func TestEntryLifecycle(t *testing.T) {
	c := New(t.TempDir())
	hash := Hash([]byte("worldmap"))

	if c.IsComplete(hash) {
		t.Fatal("new entry should not be complete")
	}

	if err := c.MarkComplete(hash); err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}
	if !c.IsComplete(hash) {
		t.Error("entry should be complete after MarkComplete")
	}
	if filepath.Dir(c.GetEntryDir(hash)) != c.GetCacheDir() {
		t.Errorf("entry dir %s is not under %s", c.GetEntryDir(hash), c.GetCacheDir())
	}

	if err := c.Invalidate(hash); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if c.FileExists(c.GetEntryDir(hash)) {
		t.Error("entry dir should be removed")
	}
}
