package ratelimit

import "time"

// Limiter answers whether a client may make another request. Keys are
// client IPs on the local facade.
type Limiter interface {
	Allow(key string) bool
}

// Clock abstracts time so limiter behavior can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
