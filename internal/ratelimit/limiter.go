// Package ratelimit guards the batch endpoint with a per-client
// sliding-window request limit, independent of the internal tier pools.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of an admission check. RetryAfter is only
// meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// entry holds one client's request timestamps under its own lock, so
// contention on one key never serializes the others. dead marks an
// entry the sweep removed from the map after a caller already held a
// pointer to it; such callers must re-fetch.
type entry struct {
	mu         sync.Mutex
	timestamps []time.Time
	dead       bool
}

// Limiter is a sliding-window admission controller keyed by client
// identity. Construct once per process and pass it to the HTTP layer.
type Limiter struct {
	window time.Duration
	max    int
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewLimiter(window time.Duration, maxRequests int) *Limiter {
	return NewLimiterWithClock(window, maxRequests, time.Now)
}

// NewLimiterWithClock injects the clock (for tests).
func NewLimiterWithClock(window time.Duration, maxRequests int, now func() time.Time) *Limiter {
	if window <= 0 {
		window = time.Hour
	}
	if maxRequests <= 0 {
		maxRequests = 20
	}
	return &Limiter{
		window:  window,
		max:     maxRequests,
		now:     now,
		entries: make(map[string]*entry),
	}
}

// Check records a request attempt for key and reports whether it is
// admitted. Denials carry how long until the oldest in-window request
// expires.
func (l *Limiter) Check(key string) Decision {
	e := l.entry(key)
	e.mu.Lock()
	for e.dead {
		e.mu.Unlock()
		e = l.entry(key)
		e.mu.Lock()
	}
	defer e.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	e.prune(cutoff)

	if len(e.timestamps) < l.max {
		e.timestamps = append(e.timestamps, now)
		return Decision{Allowed: true}
	}

	return Decision{
		Allowed:    false,
		RetryAfter: e.timestamps[0].Add(l.window).Sub(now),
	}
}

// Sweep removes out-of-window timestamps and drops empty entries. It
// runs one pass; StartSweeping runs it periodically.
func (l *Limiter) Sweep() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	l.mu.Unlock()

	// Re-check each key under short critical sections so request
	// handling is never blocked behind a full sweep.
	for _, k := range keys {
		l.mu.Lock()
		e, ok := l.entries[k]
		if !ok {
			l.mu.Unlock()
			continue
		}
		e.mu.Lock()
		e.prune(cutoff)
		if len(e.timestamps) == 0 {
			e.dead = true
			delete(l.entries, k)
		}
		e.mu.Unlock()
		l.mu.Unlock()
	}
}

// StartSweeping runs Sweep on every tick until ctx is done.
func (l *Limiter) StartSweeping(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}

// Len returns the number of tracked client keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Limiter) entry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	return e
}

func (e *entry) prune(cutoff time.Time) {
	writeIdx := 0
	for _, ts := range e.timestamps {
		if ts.After(cutoff) {
			e.timestamps[writeIdx] = ts
			writeIdx++
		}
	}
	e.timestamps = e.timestamps[:writeIdx]
}
