package ratelimit

import (
	"sync"
	"time"
)

// Config tunes the per-client budget. Rate is the steady-state requests
// per second a UI client may sustain; Burst is how far a refresh spree
// can run ahead of it before the facade pushes back.
type Config struct {
	Rate       float64
	Burst      int
	TTL        time.Duration // idle buckets older than this are evicted (0 keeps them forever)
	MaxBuckets int           // cap on distinct clients tracked (0 is unlimited)
}

// TokenBucketLimiter keeps one token bucket per client key.
type TokenBucketLimiter struct {
	cfg     Config
	clock   Clock
	mu      sync.RWMutex
	buckets map[string]*bucket
	swept   time.Time
}

type bucket struct {
	mu       sync.Mutex
	tokens   float64
	refilled time.Time
	touched  time.Time
}

// NewTokenBucketLimiter creates a limiter with explicit config and an
// injected clock.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// NewTokenBucketPerWindow expresses the budget as "limit requests per
// window", which reads closer to how a polling interval is configured.
func NewTokenBucketPerWindow(clock Clock, limit int, window, ttl time.Duration, maxBuckets int) *TokenBucketLimiter {
	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}
	return NewTokenBucketLimiter(clock, Config{
		Rate:       float64(limit) / window.Seconds(),
		Burst:      limit,
		TTL:        ttl,
		MaxBuckets: maxBuckets,
	})
}

// Allow reports whether key may make another request right now.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.clock.Now()
	l.sweepIdle(now)

	b := l.lookup(key, now)
	if b == nil {
		// the client table is full; new keys are refused outright
		return false
	}
	return b.take(now, l.cfg.Rate, float64(l.cfg.Burst))
}

func (l *TokenBucketLimiter) lookup(key string, now time.Time) *bucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if b = l.buckets[key]; b != nil {
		return b
	}
	if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
		return nil
	}

	b = &bucket{tokens: float64(l.cfg.Burst), refilled: now, touched: now}
	l.buckets[key] = b
	return b
}

// take refills the bucket for the elapsed time, then spends one token.
func (b *bucket) take(now time.Time, rate, burst float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.refilled); dt > 0 {
		b.tokens = min(burst, b.tokens+dt.Seconds()*rate)
		b.refilled = now
	}
	b.touched = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweepIdle drops buckets idle past the TTL. Sweeps run at most once per
// interval so the hot path never rescans the table back to back.
func (l *TokenBucketLimiter) sweepIdle(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}

	interval := time.Minute
	if half := l.cfg.TTL / 2; half > interval {
		interval = half
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.swept.IsZero() && now.Sub(l.swept) < interval {
		return
	}
	l.swept = now

	for key, b := range l.buckets {
		b.mu.Lock()
		idle := now.Sub(b.touched)
		b.mu.Unlock()

		if idle > l.cfg.TTL {
			delete(l.buckets, key)
		}
	}
}
