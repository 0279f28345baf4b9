package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxKeys bounds the per-client map; idle full buckets are pruned beyond it.
const maxKeys = 10_000

// Limiter keeps one token bucket per key.
type Limiter struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	limit rate.Limit
	burst int
	now   func() time.Time
}

// New returns a limiter allowing bursts of burst requests and rps sustained per key.
func New(burst int, rps float64) *Limiter {
	return &Limiter{
		m:     make(map[string]*rate.Limiter),
		limit: rate.Limit(rps),
		burst: burst,
		now:   time.Now,
	}
}

// Allow reports whether one request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	lim, ok := l.m[key]
	if !ok {
		if len(l.m) >= maxKeys {
			l.prune(now)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.m[key] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(now, 1)
}

// prune drops buckets that have refilled; they are indistinguishable from new ones.
func (l *Limiter) prune(now time.Time) {
	for k, lim := range l.m {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.m, k)
		}
	}
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
