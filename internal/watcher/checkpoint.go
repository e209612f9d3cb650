package watcher

import (
	"encoding/json"
	"os"
	"sync"
)

// fingerprint identifies one observed state of an input file.
type fingerprint struct {
	Size    int64 `json:"size"`
	ModTime int64 `json:"mod_time"` // unix nanos
}

// checkpointData is the on-disk JSON structure.
type checkpointData struct {
	Files map[string]fingerprint `json:"files"`
}

// Checkpoint remembers the last-seen size and mtime of each input file so
// watch mode can skip recomputing when an event fires but nothing actually
// changed. It stores file fingerprints only, never results.
type Checkpoint struct {
	mu   sync.RWMutex
	path string
	data checkpointData
}

// NewCheckpoint creates or loads a checkpoint file at the given path.
func NewCheckpoint(path string) (*Checkpoint, error) {
	c := &Checkpoint{
		path: path,
		data: checkpointData{Files: make(map[string]fingerprint)},
	}

	// Load an existing checkpoint if present.
	raw, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(raw, &c.data)
	}
	if c.data.Files == nil {
		c.data.Files = make(map[string]fingerprint)
	}

	return c, nil
}

// Changed reports whether the file differs from its recorded fingerprint
// and records the new one. An unreadable file counts as changed.
func (c *Checkpoint) Changed(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		c.mu.Lock()
		delete(c.data.Files, path)
		c.mu.Unlock()
		return true
	}

	fp := fingerprint{Size: info.Size(), ModTime: info.ModTime().UnixNano()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.data.Files[path]; ok && prev == fp {
		return false
	}
	c.data.Files[path] = fp
	return true
}

// Save writes the checkpoint to disk atomically.
func (c *Checkpoint) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}

	// Temp file then rename, so a crash never leaves half a checkpoint.
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
