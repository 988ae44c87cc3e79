package pipeline

import (
	"context"
	"sync"
	"time"
)

// Pool is a counting admission gate for oracle calls with strict FIFO
// grant order. Acquire suspends the caller until a slot frees; Release
// hands the slot to the longest-waiting acquirer. A configured
// cool-down keeps the slot held for a fixed period after release,
// spreading out bursts on the expensive tier.
type Pool struct {
	mu       sync.Mutex
	capacity int
	inUse    int
	cooldown time.Duration
	waiters  []chan struct{}
}

func NewPool(capacity int, cooldown time.Duration) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{capacity: capacity, cooldown: cooldown}
}

// Acquire blocks until a slot is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	p.mu.Lock()
	if p.inUse < p.capacity {
		p.inUse++
		p.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		p.mu.Lock()
		for i, w := range p.waiters {
			if w == ch {
				p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
				p.mu.Unlock()
				return ctx.Err()
			}
		}
		p.mu.Unlock()
		// The grant raced the cancellation; pass the slot on.
		p.handOff()
		return ctx.Err()
	}
}

// Release frees the caller's slot. With a cool-down configured, the
// slot stays held for that period first; callers must release exactly
// once per acquisition, success or failure.
func (p *Pool) Release() {
	if p.cooldown > 0 {
		time.AfterFunc(p.cooldown, p.handOff)
		return
	}
	p.handOff()
}

func (p *Pool) handOff() {
	p.mu.Lock()
	if len(p.waiters) > 0 {
		ch := p.waiters[0]
		p.waiters = p.waiters[1:]
		p.mu.Unlock()
		close(ch)
		return
	}
	if p.inUse > 0 {
		p.inUse--
	}
	p.mu.Unlock()
}
