package session

import (
	"sync"
	"time"

	"karaoke-lyrics-go/engine"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/parser"
	"karaoke-lyrics-go/style"
)

// Session is one playback of a parsed document. The host pushes playback
// times through Tick and reads back the computed UI state.
type Session struct {
	ID        string
	Format    parser.Format
	Metadata  lyrics.Metadata
	Warnings  []string
	CreatedAt time.Time

	holder *engine.StateHolder
	now    func() time.Time

	mu       sync.Mutex
	scroll   *engine.ScrollAnimator
	lastTick time.Time
	lastSeen time.Time
	ticks    int64
}

// Snapshot is what a tick hands back to the host.
type Snapshot struct {
	State        engine.UiState `json:"state"`
	ScrollOffset float64        `json:"scrollOffset"`
	ScrollTarget float64        `json:"scrollTarget"`
}

func newSession(id string, doc lyrics.Document, format parser.Format, cfg style.Config, now func() time.Time) *Session {
	created := now()
	return &Session{
		ID:        id,
		Format:    format,
		Metadata:  doc.Metadata,
		Warnings:  doc.Warnings,
		CreatedAt: created,
		holder:    engine.NewStateHolder(doc.Lines, cfg),
		now:       now,
		scroll:    engine.NewScrollAnimator(cfg),
		lastSeen:  created,
	}
}

// Tick moves the session to timeMs. The scroll spring advances by the wall
// time elapsed since the previous tick; the first tick snaps straight to the
// current line.
func (s *Session) Tick(timeMs int64) Snapshot {
	state := s.holder.UpdateTime(timeMs)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.scroll.SetTargetLine(state.CurrentLineIndex)
	if s.lastTick.IsZero() {
		s.scroll.Jump()
	} else {
		s.scroll.Advance(now.Sub(s.lastTick))
	}
	s.lastTick = now
	s.lastSeen = now
	s.ticks++

	return Snapshot{
		State:        state,
		ScrollOffset: s.scroll.Offset(),
		ScrollTarget: s.scroll.Target(),
	}
}

// State returns the last computed snapshot without moving time.
func (s *Session) State() engine.UiState {
	return s.holder.State()
}

func (s *Session) Lines() []lyrics.Line {
	return s.holder.Lines()
}

func (s *Session) Config() style.Config {
	return s.holder.Config()
}

// UpdateConfig swaps the render configuration. Line geometry may change, so
// the scroll is rebuilt and parked on the current line.
func (s *Session) UpdateConfig(cfg style.Config) engine.UiState {
	state := s.holder.UpdateConfig(cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = engine.NewScrollAnimator(cfg)
	s.scroll.SetTargetLine(state.CurrentLineIndex)
	s.scroll.Jump()
	s.lastSeen = s.now()
	return state
}

// Ticks counts calls to Tick.
func (s *Session) Ticks() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
