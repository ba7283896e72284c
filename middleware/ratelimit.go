package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Tier names a rate-limit bucket. Each client gets one limiter per tier.
type Tier string

const (
	TierParse Tier = "parse" // parsing and session creation
	TierTick  Tier = "tick"  // state, character and preview reads
)

// TierLimit is the refill rate and burst for one tier.
type TierLimit struct {
	Rate  rate.Limit
	Burst int
}

type visitor struct {
	limiters map[Tier]*rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps independent token buckets per client IP and tier.
type IPRateLimiter struct {
	mu       sync.Mutex
	tiers    map[Tier]TierLimit
	visitors map[string]*visitor
}

func NewIPRateLimiter(tiers map[Tier]TierLimit) *IPRateLimiter {
	return &IPRateLimiter{
		tiers:    tiers,
		visitors: make(map[string]*visitor),
	}
}

// Limiter returns the bucket for ip and tier, creating it on first use.
// Unknown tiers are unlimited.
func (i *IPRateLimiter) Limiter(ip string, tier Tier) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.visitors[ip]
	if !ok {
		v = &visitor{limiters: make(map[Tier]*rate.Limiter, len(i.tiers))}
		i.visitors[ip] = v
	}
	v.lastSeen = time.Now()

	l, ok := v.limiters[tier]
	if !ok {
		limit, known := i.tiers[tier]
		if !known {
			limit = TierLimit{Rate: rate.Inf}
		}
		l = rate.NewLimiter(limit.Rate, limit.Burst)
		v.limiters[tier] = l
	}
	return l
}

// Burst is the configured burst of a tier, 0 when unknown.
func (i *IPRateLimiter) Burst(tier Tier) int {
	return i.tiers[tier].Burst
}

// Forget drops clients not seen for maxIdle and returns how many went.
func (i *IPRateLimiter) Forget(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	i.mu.Lock()
	defer i.mu.Unlock()
	removed := 0
	for ip, v := range i.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(i.visitors, ip)
			removed++
		}
	}
	return removed
}

func (i *IPRateLimiter) Clients() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.visitors)
}

// RateLimit rejects requests over the tier's budget with 429 and reports
// the remaining budget in X-RateLimit-* headers.
func RateLimit(limiter *IPRateLimiter, tier Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			l := limiter.Limiter(ip, tier)
			allowed := l.Allow()

			w.Header().Set("X-RateLimit-Tier", string(tier))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Burst(tier)))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, math.Floor(l.Tokens())))))

			if !allowed {
				log.Warnf("%s %s exceeded the %s tier on %s", logcolors.LogRateLimit, ip, tier, r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop, then the remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
