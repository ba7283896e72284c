package stats

import (
	"sync"
	"testing"
	"time"
)

func TestRecordParse(t *testing.T) {
	s := New()
	s.RecordParse("ttml", 10, 0, false)
	s.RecordParse("lrc", 5, 2, false)
	s.RecordParse("enhanced_lrc", 3, 1, false)
	s.RecordParse("", 0, 0, true)

	tests := []struct {
		name     string
		got      int64
		expected int64
	}{
		{"requests", s.ParseRequests.Load(), 4},
		{"failures", s.ParseFailures.Load(), 1},
		{"ttml", s.ParsedTTML.Load(), 1},
		{"lrc", s.ParsedLRC.Load(), 1},
		{"enhanced", s.ParsedEnhanced.Load(), 1},
		{"lines", s.ParsedLinesTotal.Load(), 18},
		{"warnings", s.ParseWarnings.Load(), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, tt.got)
			}
		})
	}
}

func TestCacheHitRate(t *testing.T) {
	s := New()
	if s.CacheHitRate() != 0 {
		t.Errorf("Expected 0 with no lookups, got %v", s.CacheHitRate())
	}
	s.RecordCache(true)
	s.RecordCache(true)
	s.RecordCache(true)
	s.RecordCache(false)
	if s.CacheHitRate() != 75 {
		t.Errorf("Expected 75%%, got %v", s.CacheHitRate())
	}
}

func TestRecordResponse(t *testing.T) {
	s := New()
	if s.MinResponseTime() != 0 || s.AvgResponseTime() != 0 {
		t.Error("Expected zero timings before any response")
	}

	s.RecordResponse(200, 10*time.Millisecond)
	s.RecordResponse(404, 30*time.Millisecond)
	s.RecordResponse(429, 20*time.Millisecond)
	s.RecordResponse(500, 40*time.Millisecond)

	if s.Status2xx.Load() != 1 || s.Status4xx.Load() != 2 || s.Status5xx.Load() != 1 {
		t.Errorf("Unexpected status counts: %d/%d/%d", s.Status2xx.Load(), s.Status4xx.Load(), s.Status5xx.Load())
	}
	if s.RateLimitExceeded.Load() != 1 {
		t.Errorf("Expected 1 rate-limited response, got %d", s.RateLimitExceeded.Load())
	}
	if s.MinResponseTime() != 10*time.Millisecond {
		t.Errorf("Expected min 10ms, got %v", s.MinResponseTime())
	}
	if s.MaxResponseTime() != 40*time.Millisecond {
		t.Errorf("Expected max 40ms, got %v", s.MaxResponseTime())
	}
	if s.AvgResponseTime() != 25*time.Millisecond {
		t.Errorf("Expected avg 25ms, got %v", s.AvgResponseTime())
	}
	if s.TotalRequests.Load() != 4 {
		t.Errorf("Expected 4 requests, got %d", s.TotalRequests.Load())
	}
}

func TestStreams(t *testing.T) {
	s := New()
	s.StreamOpened()
	s.StreamOpened()
	s.StreamClosed()
	if s.StreamsOpen.Load() != 1 || s.StreamsTotal.Load() != 2 {
		t.Errorf("Expected 1 open of 2 total, got %d of %d", s.StreamsOpen.Load(), s.StreamsTotal.Load())
	}
}

func TestConcurrentRecording(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.RecordResponse(200, time.Duration(i*j)*time.Microsecond)
				s.RecordCache(j%2 == 0)
			}
		}(i)
	}
	wg.Wait()

	if s.TotalRequests.Load() != 1000 {
		t.Errorf("Expected 1000 requests, got %d", s.TotalRequests.Load())
	}
	if s.MinResponseTime() != 0 {
		t.Errorf("Expected min 0, got %v", s.MinResponseTime())
	}
	if s.MaxResponseTime() != time.Duration(19*49)*time.Microsecond {
		t.Errorf("Expected max %v, got %v", time.Duration(19*49)*time.Microsecond, s.MaxResponseTime())
	}
}

func TestSnapshotKeys(t *testing.T) {
	snap := New().Snapshot()
	for _, key := range []string{"uptime", "total_requests", "parse", "sessions", "cache", "responses"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("Expected key %q in snapshot", key)
		}
	}
}
