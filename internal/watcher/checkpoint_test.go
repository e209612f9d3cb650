package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckpointChanged(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "week.csv")
	if err := os.WriteFile(input, []byte("Date,Tips\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ckpt, err := NewCheckpoint(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}

	if !ckpt.Changed(input) {
		t.Error("expected first sighting to count as changed")
	}
	if ckpt.Changed(input) {
		t.Error("expected unchanged file to be skipped")
	}

	// Modify the file; bump mtime explicitly in case the filesystem's
	// resolution is coarse.
	if err := os.WriteFile(input, []byte("Date,Tips,Hours\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(input, later, later); err != nil {
		t.Fatal(err)
	}

	if !ckpt.Changed(input) {
		t.Error("expected modified file to count as changed")
	}
}

func TestCheckpointMissingFileCountsAsChanged(t *testing.T) {
	dir := t.TempDir()
	ckpt, err := NewCheckpoint(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}

	if !ckpt.Changed(filepath.Join(dir, "gone.csv")) {
		t.Error("expected missing file to count as changed")
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "week.csv")
	if err := os.WriteFile(input, []byte("Date,Tips\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	statePath := filepath.Join(dir, "state.json")

	ckpt, err := NewCheckpoint(statePath)
	if err != nil {
		t.Fatal(err)
	}
	ckpt.Changed(input)
	if err := ckpt.Save(); err != nil {
		t.Fatal(err)
	}

	// A reloaded checkpoint remembers the fingerprint.
	reloaded, err := NewCheckpoint(statePath)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Changed(input) {
		t.Error("expected reloaded checkpoint to recognize unchanged file")
	}
}
