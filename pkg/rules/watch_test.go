package rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcherNoOverrideDir(t *testing.T) {
	w, err := NewWatcher(NewLoader(""), 0)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if w != nil {
		t.Error("expected nil watcher without an override directory")
	}
	// Stop on a nil watcher must be safe.
	w.Stop()
}

func TestWatcherInvalidatesOnOverrideChange(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	w, err := NewWatcher(loader, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if w == nil {
		t.Fatal("expected a watcher for a configured override directory")
	}
	defer w.Stop()

	before := loader.Load(FrameworkReact, CategorySecurity)

	p := filepath.Join(dir, "react.json")
	if err := os.WriteFile(p, []byte(`{"disable": []}`), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	// The debounce fires shortly after the write; poll until the cache has
	// been dropped and Load returns a fresh set.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if loader.Load(FrameworkReact, CategorySecurity) != before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("watcher never invalidated the loader cache")
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	w, err := NewWatcher(loader, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	before := loader.Load(FrameworkReact, CategorySecurity)

	// Editors write a file several times in quick succession; each write
	// resets the debounce and the invalidation still lands exactly as a
	// trailing edge.
	p := filepath.Join(dir, "react.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(p, []byte(`{"enable": []}`), 0o644); err != nil {
			t.Fatalf("write override: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if loader.Load(FrameworkReact, CategorySecurity) != before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("watcher never invalidated the loader cache after a write burst")
}
