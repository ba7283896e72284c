package stats

import (
	"math"
	"sync/atomic"
	"time"
)

// Stats holds server counters. All fields are safe for concurrent use.
type Stats struct {
	StartTime time.Time

	TotalRequests atomic.Int64

	// Parsing
	ParseRequests    atomic.Int64
	ParseFailures    atomic.Int64
	ParseWarnings    atomic.Int64
	ParsedTTML       atomic.Int64
	ParsedLRC        atomic.Int64
	ParsedEnhanced   atomic.Int64
	ParsedLinesTotal atomic.Int64

	// Sessions
	SessionsCreated   atomic.Int64
	Ticks             atomic.Int64
	PreviewsRendered  atomic.Int64
	StreamsOpen       atomic.Int64
	StreamsTotal      atomic.Int64
	StreamMessagesOut atomic.Int64

	// Document cache
	CacheHits   atomic.Int64
	CacheMisses atomic.Int64

	RateLimitExceeded atomic.Int64

	Status2xx atomic.Int64
	Status4xx atomic.Int64
	Status5xx atomic.Int64

	// Response times in microseconds
	totalResponseTime atomic.Int64
	responseCount     atomic.Int64
	minResponseTime   atomic.Int64
	maxResponseTime   atomic.Int64
}

var global = New()

// New returns a zeroed Stats starting now.
func New() *Stats {
	s := &Stats{StartTime: time.Now()}
	s.minResponseTime.Store(math.MaxInt64)
	return s
}

// Get returns the process-wide instance.
func Get() *Stats {
	return global
}

// RecordParse counts a parse outcome. format is the detected format name,
// empty for failures.
func (s *Stats) RecordParse(format string, lines, warnings int, failed bool) {
	s.ParseRequests.Add(1)
	if failed {
		s.ParseFailures.Add(1)
		return
	}
	switch format {
	case "ttml":
		s.ParsedTTML.Add(1)
	case "lrc":
		s.ParsedLRC.Add(1)
	case "enhanced_lrc":
		s.ParsedEnhanced.Add(1)
	}
	s.ParsedLinesTotal.Add(int64(lines))
	s.ParseWarnings.Add(int64(warnings))
}

func (s *Stats) RecordCache(hit bool) {
	if hit {
		s.CacheHits.Add(1)
	} else {
		s.CacheMisses.Add(1)
	}
}

// StreamOpened and StreamClosed track live websocket streams.
func (s *Stats) StreamOpened() {
	s.StreamsOpen.Add(1)
	s.StreamsTotal.Add(1)
}

func (s *Stats) StreamClosed() {
	s.StreamsOpen.Add(-1)
}

// RecordResponse counts a finished request by status class and duration.
func (s *Stats) RecordResponse(code int, duration time.Duration) {
	s.TotalRequests.Add(1)
	switch {
	case code >= 500:
		s.Status5xx.Add(1)
	case code >= 400:
		s.Status4xx.Add(1)
		if code == 429 {
			s.RateLimitExceeded.Add(1)
		}
	case code >= 200:
		s.Status2xx.Add(1)
	}

	us := duration.Microseconds()
	s.totalResponseTime.Add(us)
	s.responseCount.Add(1)
	for {
		cur := s.minResponseTime.Load()
		if us >= cur || s.minResponseTime.CompareAndSwap(cur, us) {
			break
		}
	}
	for {
		cur := s.maxResponseTime.Load()
		if us <= cur || s.maxResponseTime.CompareAndSwap(cur, us) {
			break
		}
	}
}

func (s *Stats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// CacheHitRate is hits over lookups as a percentage.
func (s *Stats) CacheHitRate() float64 {
	hits, misses := s.CacheHits.Load(), s.CacheMisses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses) * 100
}

func (s *Stats) AvgResponseTime() time.Duration {
	n := s.responseCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(s.totalResponseTime.Load()/n) * time.Microsecond
}

func (s *Stats) MinResponseTime() time.Duration {
	v := s.minResponseTime.Load()
	if v == math.MaxInt64 {
		return 0
	}
	return time.Duration(v) * time.Microsecond
}

func (s *Stats) MaxResponseTime() time.Duration {
	return time.Duration(s.maxResponseTime.Load()) * time.Microsecond
}

// Snapshot renders the counters for the stats endpoint.
func (s *Stats) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"uptime":         s.Uptime().Round(time.Second).String(),
		"total_requests": s.TotalRequests.Load(),
		"parse": map[string]int64{
			"requests":     s.ParseRequests.Load(),
			"failures":     s.ParseFailures.Load(),
			"warnings":     s.ParseWarnings.Load(),
			"ttml":         s.ParsedTTML.Load(),
			"lrc":          s.ParsedLRC.Load(),
			"enhanced_lrc": s.ParsedEnhanced.Load(),
			"lines":        s.ParsedLinesTotal.Load(),
		},
		"sessions": map[string]int64{
			"created":          s.SessionsCreated.Load(),
			"ticks":            s.Ticks.Load(),
			"previews":         s.PreviewsRendered.Load(),
			"streams_open":     s.StreamsOpen.Load(),
			"streams_total":    s.StreamsTotal.Load(),
			"stream_snapshots": s.StreamMessagesOut.Load(),
		},
		"cache": map[string]interface{}{
			"hits":     s.CacheHits.Load(),
			"misses":   s.CacheMisses.Load(),
			"hit_rate": s.CacheHitRate(),
		},
		"responses": map[string]interface{}{
			"2xx":                 s.Status2xx.Load(),
			"4xx":                 s.Status4xx.Load(),
			"5xx":                 s.Status5xx.Load(),
			"rate_limit_exceeded": s.RateLimitExceeded.Load(),
			"avg":                 s.AvgResponseTime().String(),
			"min":                 s.MinResponseTime().String(),
			"max":                 s.MaxResponseTime().String(),
		},
	}
}
