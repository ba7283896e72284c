package session

import (
	"context"
	"sync"
	"time"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/parser"
	"karaoke-lyrics-go/style"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 30 * time.Minute

// Manager owns the live sessions keyed by ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a manager whose sessions expire after ttl of
// inactivity. A ttl of zero or less uses DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session for doc and returns it.
func (m *Manager) Create(doc lyrics.Document, format parser.Format, cfg style.Config) *Session {
	s := newSession(uuid.NewString(), doc, format, cfg, m.now)

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	log.Infof("%s Created with %d lines (%s), %d active", logcolors.Session(s.ID), len(doc.Lines), format, count)
	return s
}

// Get looks up a session and refreshes its expiry.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch()
	return s, true
}

// Delete removes a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	log.Infof("%s Deleted", logcolors.Session(id))
	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Infof("%s Expired %d idle sessions, %d remain", logcolors.LogSession, removed, len(m.sessions))
	}
	return removed
}

// Run sweeps on every interval until ctx is cancelled. A non-positive
// interval sweeps once a minute.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
