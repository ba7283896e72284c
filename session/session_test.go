package session

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"karaoke-lyrics-go/engine"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/parser"
	"karaoke-lyrics-go/style"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testDocument() lyrics.Document {
	return lyrics.Document{
		Lines: []lyrics.Line{
			lyrics.LineFromText("first", 0, 1000),
			lyrics.LineFromText("second", 1000, 2000),
			lyrics.LineFromText("third", 2000, 3000),
		},
		Metadata: lyrics.Metadata{Title: "Test"},
	}
}

func newTestManager(ttl time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewManager(ttl)
	m.now = clock.Now
	return m, clock
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(time.Minute)
	s := m.Create(testDocument(), parser.FormatLRC, style.Default())

	if s.ID == "" {
		t.Fatal("Expected a session ID")
	}
	if s.Metadata.Title != "Test" {
		t.Errorf("Expected title 'Test', got %q", s.Metadata.Title)
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Len())
	}

	got, ok := m.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("Expected to get back the created session")
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Expected missing session lookup to fail")
	}

	other := m.Create(testDocument(), parser.FormatLRC, style.Default())
	if other.ID == s.ID {
		t.Error("Expected distinct session IDs")
	}
}

func TestManagerDelete(t *testing.T) {
	m, _ := newTestManager(time.Minute)
	s := m.Create(testDocument(), parser.FormatLRC, style.Default())

	if !m.Delete(s.ID) {
		t.Error("Expected Delete to report an existing session")
	}
	if m.Delete(s.ID) {
		t.Error("Expected second Delete to report nothing removed")
	}
	if m.Len() != 0 {
		t.Errorf("Expected 0 sessions, got %d", m.Len())
	}
}

func TestManagerSweep(t *testing.T) {
	m, clock := newTestManager(time.Minute)
	active := m.Create(testDocument(), parser.FormatLRC, style.Default())
	idle := m.Create(testDocument(), parser.FormatLRC, style.Default())

	clock.Advance(45 * time.Second)
	m.Get(active.ID)
	clock.Advance(30 * time.Second)

	if removed := m.Sweep(); removed != 1 {
		t.Fatalf("Expected 1 session removed, got %d", removed)
	}
	if _, ok := m.Get(active.ID); !ok {
		t.Error("Expected the touched session to survive")
	}
	if _, ok := m.Get(idle.ID); ok {
		t.Error("Expected the idle session to expire")
	}
}

func TestNewManagerDefaultTTL(t *testing.T) {
	m := NewManager(0)
	if m.ttl != DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultTTL, m.ttl)
	}
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	m := NewManager(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSessionTick(t *testing.T) {
	m, clock := newTestManager(time.Minute)
	cfg := style.Default()
	stride := cfg.Layout.LineHeight + cfg.Layout.LineSpacing
	s := m.Create(testDocument(), parser.FormatLRC, cfg)

	snap := s.Tick(1500)
	if snap.State.CurrentLineIndex != 1 {
		t.Fatalf("Expected current line 1, got %d", snap.State.CurrentLineIndex)
	}
	if snap.ScrollOffset != stride {
		t.Errorf("Expected first tick to snap scroll to %v, got %v", stride, snap.ScrollOffset)
	}

	snap = s.Tick(2500)
	if snap.ScrollTarget != 2*stride {
		t.Errorf("Expected scroll target %v, got %v", 2*stride, snap.ScrollTarget)
	}
	if snap.ScrollOffset != stride {
		t.Errorf("Expected no scroll movement without elapsed time, got %v", snap.ScrollOffset)
	}

	clock.Advance(5 * time.Second)
	snap = s.Tick(2600)
	if math.Abs(snap.ScrollOffset-2*stride) > 1 {
		t.Errorf("Expected scroll to settle near %v, got %v", 2*stride, snap.ScrollOffset)
	}
	if s.Ticks() != 3 {
		t.Errorf("Expected 3 ticks, got %d", s.Ticks())
	}
}

func TestSessionTickBetweenLinesHoldsScroll(t *testing.T) {
	doc := lyrics.Document{Lines: []lyrics.Line{
		lyrics.LineFromText("a", 0, 1000),
		lyrics.LineFromText("b", 5000, 6000),
	}}
	m, _ := newTestManager(time.Minute)
	s := m.Create(doc, parser.FormatLRC, style.Default())

	s.Tick(500)
	snap := s.Tick(3000)
	if snap.State.CurrentLineIndex != engine.NoCurrentLine {
		t.Fatalf("Expected no current line, got %d", snap.State.CurrentLineIndex)
	}
	if snap.ScrollTarget != 0 {
		t.Errorf("Expected scroll target to stay on line 0, got %v", snap.ScrollTarget)
	}
}

func TestSessionUpdateConfig(t *testing.T) {
	m, _ := newTestManager(time.Minute)
	s := m.Create(testDocument(), parser.FormatLRC, style.Default())
	s.Tick(1500)

	cfg := style.Default()
	cfg.Layout.LineHeight = 100
	cfg.Layout.LineSpacing = 0
	state := s.UpdateConfig(cfg)

	if state.CurrentLineIndex != 1 {
		t.Errorf("Expected current line 1 after config change, got %d", state.CurrentLineIndex)
	}
	if s.Config().Layout.LineHeight != 100 {
		t.Errorf("Expected new config to be stored")
	}

	snap := s.Tick(1500)
	if snap.ScrollOffset != 100 {
		t.Errorf("Expected scroll offset 100 with new geometry, got %v", snap.ScrollOffset)
	}
}
