package worker

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultBurst = 5

// Limiter throttles remote fetches per host. Sources that are not http(s)
// URLs are never throttled.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a per-host limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = defaultBurst
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until source may be fetched.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	host, ok := remoteHost(source)
	if !ok {
		return nil
	}
	return l.forHost(host).Wait(ctx)
}

// RespectCrawlDelay slows the host of source down to one request per delay
// when that is stricter than the default rate. Repeating the call with the
// same delay keeps the host's current bucket.
func (l *Limiter) RespectCrawlDelay(source string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	host, ok := remoteHost(source)
	if !ok {
		return
	}
	limit := rate.Every(delay)
	if limit >= l.defaultRate {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.limiters[host]; ok && existing.Limit() == limit {
		return
	}
	l.limiters[host] = rate.NewLimiter(limit, 1)
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[host]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[host] = limiter
	return limiter
}

// remoteHost returns the lowercased host of an http(s) source.
func remoteHost(source string) (string, bool) {
	if !IsRemote(source) {
		return "", false
	}
	parsed, err := url.Parse(source)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Host), true
}

// IsRemote reports whether source names an http or https document.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
