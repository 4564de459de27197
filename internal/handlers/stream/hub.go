// Package stream pushes run snapshots to websocket viewers
package stream

import (
	"sync"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run"
)

// subscriberBuffer is how many snapshots a slow viewer may fall behind
// before frames are dropped for it
const subscriberBuffer = 64

var _ run.TickListener = (*Hub)(nil)

// Hub fans snapshots out to the viewers of each run. Sends never block the
// simulation: a viewer with a full buffer misses frames.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan *simulation.Snapshot]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan *simulation.Snapshot]struct{})}
}

// Subscribe registers a viewer for a run. The channel is closed after the
// run's final snapshot or by the returned cancel func.
func (h *Hub) Subscribe(runID string) (<-chan *simulation.Snapshot, func()) {
	ch := make(chan *simulation.Snapshot, subscriberBuffer)

	h.mu.Lock()
	if h.subs[runID] == nil {
		h.subs[runID] = make(map[chan *simulation.Snapshot]struct{})
	}
	h.subs[runID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.drop(runID, ch) })
	}
}

func (h *Hub) drop(runID string, ch chan *simulation.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[runID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(h.subs, runID)
	}
}

// OnSnapshot delivers a snapshot to the run's viewers. A snapshot of an
// ended run closes every viewer channel after delivery.
func (h *Hub) OnSnapshot(snap *simulation.Snapshot) {
	if snap == nil {
		return
	}
	final := snap.Status != simulation.StatusActive.String()

	if final {
		h.mu.Lock()
		defer h.mu.Unlock()
	} else {
		h.mu.RLock()
		defer h.mu.RUnlock()
	}

	for ch := range h.subs[snap.RunID] {
		select {
		case ch <- snap:
		default:
		}
		if final {
			close(ch)
		}
	}
	if final {
		delete(h.subs, snap.RunID)
	}
}

// Viewers returns the number of viewers watching a run
func (h *Hub) Viewers(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[runID])
}
