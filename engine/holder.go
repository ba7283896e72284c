package engine

import (
	"sync"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/style"

	log "github.com/sirupsen/logrus"
)

// StateHolder caches the last inputs and snapshot of CalculateState. Updates
// that leave the inputs unchanged return the cached snapshot; anything else
// recomputes in full. Safe for concurrent use.
type StateHolder struct {
	mu             sync.RWMutex
	lines          []lyrics.Line
	timeMs         int64
	cfg            style.Config
	state          UiState
	recomputations int
}

// NewStateHolder computes an initial snapshot at time 0.
func NewStateHolder(lines []lyrics.Line, cfg style.Config) *StateHolder {
	h := &StateHolder{lines: lines, cfg: cfg}
	h.recompute()
	return h
}

// SetLines replaces the line set and recomputes at the current time.
func (h *StateHolder) SetLines(lines []lyrics.Line) UiState {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = lines
	h.recompute()
	return h.state
}

// UpdateTime moves to a new time. A repeated time is a no-op.
func (h *StateHolder) UpdateTime(timeMs int64) UiState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if timeMs == h.timeMs && h.state.IsInitialized {
		return h.state
	}
	h.timeMs = timeMs
	h.recompute()
	return h.state
}

// UpdateConfig swaps in a new configuration and recomputes.
func (h *StateHolder) UpdateConfig(cfg style.Config) UiState {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg
	h.recompute()
	return h.state
}

// State returns the last snapshot.
func (h *StateHolder) State() UiState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *StateHolder) Config() style.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

func (h *StateHolder) Lines() []lyrics.Line {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lines
}

// Recomputations counts how many snapshots have been calculated.
func (h *StateHolder) Recomputations() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.recomputations
}

// recompute must be called with mu held.
func (h *StateHolder) recompute() {
	h.state = CalculateState(h.lines, h.timeMs, h.cfg)
	h.recomputations++
	log.Debugf("%s Recomputed state at %dms (current line: %d)", logcolors.LogEngine, h.timeMs, h.state.CurrentLineIndex)
}
