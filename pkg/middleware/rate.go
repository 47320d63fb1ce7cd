// Package middleware provides HTTP middleware for the catalog API.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	appctx "github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// bucket tracks a fixed-window request count for one IP.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// allow counts one request and reports whether it fits the window, along
// with when the window resets.
func (b *bucket) allow(now time.Time, max int, window time.Duration) (bool, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max, b.resetAt
}

func (b *bucket) expired(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.After(b.resetAt)
}

// Limiter caps requests per client IP within a window.
type Limiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	sweeper sync.Once
	stop    <-chan struct{}
}

// NewLimiter returns a limiter allowing max requests per window per IP.
func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		now:     time.Now,
		buckets: map[string]*bucket{},
	}
}

func (l *Limiter) bucket(ip string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[ip]; ok {
		return b
	}
	b := &bucket{resetAt: now.Add(l.window)}
	l.buckets[ip] = b
	return b
}

// Sweep evicts buckets whose window has expired.
func (l *Limiter) Sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, b := range l.buckets {
		if b.expired(now) {
			delete(l.buckets, ip)
		}
	}
}

// Run sweeps expired buckets every window until stop is closed.
func (l *Limiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Middleware rejects requests over the limit with 429. Retry-After holds the
// whole seconds left until the client's window resets.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.stop != nil {
			l.sweeper.Do(func() { go l.Run(l.stop) })
		}

		now := l.now()
		ok, resetAt := l.bucket(appctx.ClientIP(r), now).allow(now, l.max, l.window)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter(now, resetAt)))
			response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfter(now, resetAt time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// RateLimit returns a middleware that limits each IP to max requests per
// window. A max of zero or less disables limiting. Expired buckets are swept
// from the first request until stop is closed.
//
//	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute, stop))
func RateLimit(max int, window time.Duration, stop <-chan struct{}) func(http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := NewLimiter(max, window)
	l.stop = stop
	return l.Middleware
}
