package cache

import (
	"context"
	"sync/atomic"

	"karaoke-lyrics-go/circuitbreaker"
	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// Layered reads from a shared tier guarded by a circuit breaker, then from
// the local tier. Writes go to both; a shared-tier failure never fails the
// call. Either tier may be nil.
type Layered struct {
	shared  Store
	local   Store
	breaker *circuitbreaker.CircuitBreaker

	sharedHits atomic.Int64
	localHits  atomic.Int64
	misses     atomic.Int64
}

// NewLayered combines the tiers. breaker may be nil only when shared is nil.
func NewLayered(shared, local Store, breaker *circuitbreaker.CircuitBreaker) *Layered {
	return &Layered{shared: shared, local: local, breaker: breaker}
}

func (l *Layered) Name() string { return "layered" }

// Get tries the shared tier first. A local hit is copied up so other
// instances see it.
func (l *Layered) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := l.getShared(ctx, key); ok {
		l.sharedHits.Add(1)
		return v, true, nil
	}

	if l.local != nil {
		v, ok, err := l.local.Get(ctx, key)
		if err != nil {
			return "", false, err
		}
		if ok {
			l.localHits.Add(1)
			l.setShared(ctx, key, v)
			return v, true, nil
		}
	}

	l.misses.Add(1)
	return "", false, nil
}

func (l *Layered) Set(ctx context.Context, key, value string) error {
	l.setShared(ctx, key, value)
	if l.local != nil {
		return l.local.Set(ctx, key, value)
	}
	return nil
}

func (l *Layered) Delete(ctx context.Context, key string) error {
	if l.shared != nil {
		_ = l.breaker.Execute(func() error { return l.shared.Delete(ctx, key) })
	}
	if l.local != nil {
		return l.local.Delete(ctx, key)
	}
	return nil
}

func (l *Layered) getShared(ctx context.Context, key string) (string, bool) {
	if l.shared == nil {
		return "", false
	}
	var (
		value string
		found bool
	)
	err := l.breaker.Execute(func() error {
		v, ok, err := l.shared.Get(ctx, key)
		value, found = v, ok
		return err
	})
	if err != nil {
		log.Debugf("%s Shared read of %s skipped: %v", logcolors.LogCache, key, err)
		return "", false
	}
	return value, found
}

func (l *Layered) setShared(ctx context.Context, key, value string) {
	if l.shared == nil {
		return
	}
	err := l.breaker.Execute(func() error { return l.shared.Set(ctx, key, value) })
	if err != nil {
		log.Debugf("%s Shared write of %s skipped: %v", logcolors.LogCache, key, err)
	}
}

// HitStats counts where reads were served from.
type HitStats struct {
	SharedHits int64 `json:"sharedHits"`
	LocalHits  int64 `json:"localHits"`
	Misses     int64 `json:"misses"`
}

func (l *Layered) HitStats() HitStats {
	return HitStats{
		SharedHits: l.sharedHits.Load(),
		LocalHits:  l.localHits.Load(),
		Misses:     l.misses.Load(),
	}
}
