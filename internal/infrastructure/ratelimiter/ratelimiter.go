package ratelimiter

import (
	"net/http"
	"sync"
	"time"
)

const defaultSourceKey = "X-RateLimit-Key"

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
	Close() error
}

// bucket is one source's token bucket. Tokens refill continuously at the
// configured rate up to maxBurst.
type bucket struct {
	tokens   float64
	lastFill time.Time
	lastSeen time.Time
}

type RateLimiter struct {
	ratePerSecond float64
	maxBurst      int
	ttl           time.Duration
	sourceHeader  string

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	CacheTTL         time.Duration
	SourceHeaderKey  string
}

func New(options Options) Limiter {
	if options.MaxRatePerSecond <= 0 {
		options.MaxRatePerSecond = 10
	}
	if options.MaxBurst <= 0 {
		options.MaxBurst = options.MaxRatePerSecond // Reasonable default
	}
	if options.CacheTTL <= 0 {
		options.CacheTTL = 5 * time.Minute
	}
	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	rl := &RateLimiter{
		ratePerSecond: float64(options.MaxRatePerSecond),
		maxBurst:      options.MaxBurst,
		ttl:           options.CacheTTL,
		sourceHeader:  options.SourceHeaderKey,
		buckets:       make(map[string]*bucket),
		stop:          make(chan struct{}),
	}

	go rl.sweepIdle()

	return rl
}

// Allow takes one token from the source's bucket, reporting whether one was
// available.
func (rl *RateLimiter) Allow(sourceKey string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b := rl.refill(sourceKey)
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Remaining reports the whole tokens currently available for the source.
func (rl *RateLimiter) Remaining(sourceKey string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return int(rl.refill(sourceKey).tokens)
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

// GetSourceKey identifies the caller, preferring the configured header over
// the remote address.
func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeader); key != "" {
		return key
	}

	// Fall back to IP address
	return r.RemoteAddr
}

func (rl *RateLimiter) Close() error {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
	return nil
}

// refill credits tokens for the time since the last fill. Callers hold rl.mu.
func (rl *RateLimiter) refill(sourceKey string) *bucket {
	now := time.Now()

	b, ok := rl.buckets[sourceKey]
	if !ok {
		b = &bucket{tokens: float64(rl.maxBurst), lastFill: now}
		rl.buckets[sourceKey] = b
	}

	elapsed := now.Sub(b.lastFill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * rl.ratePerSecond
		if b.tokens > float64(rl.maxBurst) {
			b.tokens = float64(rl.maxBurst)
		}
		b.lastFill = now
	}
	b.lastSeen = now

	return b
}

// sweepIdle drops buckets that have not been touched within the TTL; an idle
// source that returns starts with a full bucket anyway.
func (rl *RateLimiter) sweepIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.ttl)

			rl.mu.Lock()
			for key, b := range rl.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}
