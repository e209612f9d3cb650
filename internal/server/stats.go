package server

import (
	"sync"
	"time"

	"github.com/darkron008/tipsplit/internal/pipeline"
)

// Snapshot is a point-in-time view of the server's counters.
type Snapshot struct {
	Uptime      string `json:"uptime"`
	Runs        int64  `json:"runs"`
	Tables      int64  `json:"tables"`
	Shares      int64  `json:"shares"`
	Errors      int64  `json:"errors"`
	DroppedRuns int64  `json:"dropped_runs"`
}

// Stats accumulates run counters across the server's lifetime.
type Stats struct {
	mu        sync.RWMutex
	startTime time.Time
	runs      int64
	tables    int64
	shares    int64
	errors    int64
	dropped   func() int64 // live value from the hub
}

// NewStats creates counters; droppedFn provides the hub's live drop count.
func NewStats(droppedFn func() int64) *Stats {
	return &Stats{
		startTime: time.Now(),
		dropped:   droppedFn,
	}
}

// Record adds one completed run to the counters.
func (s *Stats) Record(res pipeline.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs++
	s.tables += int64(len(res.Tables))
	s.shares += int64(len(res.Result.Shares))
	s.errors += int64(len(res.Errors))
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Uptime:      time.Since(s.startTime).Truncate(time.Second).String(),
		Runs:        s.runs,
		Tables:      s.tables,
		Shares:      s.shares,
		Errors:      s.errors,
		DroppedRuns: s.dropped(),
	}
}
