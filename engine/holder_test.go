package engine

import (
	"sync"
	"testing"

	"karaoke-lyrics-go/style"
)

func TestStateHolder_SkipsUnchangedTime(t *testing.T) {
	h := NewStateHolder(testLines(), style.Default())
	if h.Recomputations() != 1 {
		t.Fatalf("Expected 1 initial computation, got %d", h.Recomputations())
	}

	h.UpdateTime(0)
	if h.Recomputations() != 1 {
		t.Errorf("Same time should not recompute, got %d computations", h.Recomputations())
	}

	state := h.UpdateTime(2000)
	if h.Recomputations() != 2 {
		t.Errorf("New time should recompute, got %d computations", h.Recomputations())
	}
	if state.CurrentLineIndex != 0 {
		t.Errorf("CurrentLineIndex = %d, want 0", state.CurrentLineIndex)
	}

	h.UpdateTime(2000)
	if h.Recomputations() != 2 {
		t.Errorf("Repeated time should not recompute, got %d", h.Recomputations())
	}
}

func TestStateHolder_ConfigAndLinesRecompute(t *testing.T) {
	h := NewStateHolder(testLines(), style.Default())
	h.UpdateTime(2000)

	cfg := style.Default()
	cfg.Animation.EnableLineAnimation = false
	state := h.UpdateConfig(cfg)
	if state.LineStates[0].Scale != 1.0 {
		t.Errorf("Config change should apply immediately, scale = %v", state.LineStates[0].Scale)
	}

	state = h.SetLines(testLines()[2:])
	if state.CurrentLineIndex != NoCurrentLine {
		t.Errorf("New lines should recompute at the held time, got %d", state.CurrentLineIndex)
	}
	if len(state.LineStates) != len(testLines())-2 {
		t.Errorf("Expected %d line states, got %d", len(testLines())-2, len(state.LineStates))
	}
	if h.Recomputations() != 4 {
		t.Errorf("Expected 4 computations, got %d", h.Recomputations())
	}
}

func TestStateHolder_Concurrent(t *testing.T) {
	h := NewStateHolder(testLines(), style.Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(offset int64) {
			defer wg.Done()
			for ms := int64(0); ms < 16000; ms += 500 {
				h.UpdateTime(ms + offset)
				_ = h.State()
			}
		}(int64(i))
	}
	wg.Wait()

	if !h.State().IsInitialized {
		t.Error("State should be initialized")
	}
}
