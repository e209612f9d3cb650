package hub

import (
	"log"
	"sync"

	"github.com/darkron008/tipsplit/internal/pipeline"
)

const subscriberBuffer = 16

// Hub fans out completed pipeline runs to all subscribers: websocket
// clients, watch-mode renderers, anything that wants fresh results.
type Hub struct {
	mu          sync.RWMutex
	subscribers []chan pipeline.RunResult
	dropped     int64
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{}
}

// Subscribe returns a buffered channel that will receive every published
// run until Close.
func (h *Hub) Subscribe() <-chan pipeline.RunResult {
	ch := make(chan pipeline.RunResult, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Publish sends a run to all subscribers. A subscriber whose buffer is
// full misses this run rather than blocking the publisher.
func (h *Hub) Publish(res pipeline.RunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- res:
		default:
			h.dropped++
			log.Printf("hub: dropped run %s for slow subscriber (total dropped: %d)", res.ID, h.dropped)
		}
	}
}

// Dropped returns how many runs were dropped for slow subscribers.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Close closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
