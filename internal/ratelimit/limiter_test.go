package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is an adjustable clock for window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiter_SlidingWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiterWithClock(1000*time.Millisecond, 2, clock.Now)

	for i := 0; i < 2; i++ {
		if d := l.Check("client-a"); !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	d := l.Check("client-a")
	if d.Allowed {
		t.Fatal("third request within the window should be denied")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > 1000*time.Millisecond {
		t.Errorf("expected retry-after within (0, 1s], got %v", d.RetryAfter)
	}

	clock.Advance(1001 * time.Millisecond)
	if d := l.Check("client-a"); !d.Allowed {
		t.Error("request after the window elapsed should be allowed")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiterWithClock(time.Hour, 1, clock.Now)

	if d := l.Check("client-a"); !d.Allowed {
		t.Fatal("first request for client-a should be allowed")
	}
	if d := l.Check("client-a"); d.Allowed {
		t.Fatal("second request for client-a should be denied")
	}
	if d := l.Check("client-b"); !d.Allowed {
		t.Error("client-b must not be affected by client-a's window")
	}
}

func TestLimiter_RetryAfterShrinksAsWindowSlides(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiterWithClock(1000*time.Millisecond, 1, clock.Now)

	l.Check("client-a")
	first := l.Check("client-a")
	clock.Advance(400 * time.Millisecond)
	second := l.Check("client-a")

	if first.Allowed || second.Allowed {
		t.Fatal("both follow-up requests should be denied")
	}
	if second.RetryAfter >= first.RetryAfter {
		t.Errorf("retry-after should shrink over time: %v then %v", first.RetryAfter, second.RetryAfter)
	}
}

func TestLimiter_SweepDropsEmptyEntries(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiterWithClock(time.Second, 5, clock.Now)

	for i := 0; i < 10; i++ {
		l.Check(fmt.Sprintf("client-%d", i))
	}
	if got := l.Len(); got != 10 {
		t.Fatalf("expected 10 tracked keys, got %d", got)
	}

	clock.Advance(2 * time.Second)
	l.Sweep()

	if got := l.Len(); got != 0 {
		t.Errorf("expected stale entries to be dropped, %d remain", got)
	}

	// A swept client is admitted again with a fresh window.
	if d := l.Check("client-0"); !d.Allowed {
		t.Error("request after sweep should be allowed")
	}
}

func TestLimiter_SweepKeepsInWindowEntries(t *testing.T) {
	clock := newFakeClock()
	l := NewLimiterWithClock(time.Hour, 2, clock.Now)

	l.Check("client-a")
	l.Check("client-a")
	l.Sweep()

	if got := l.Len(); got != 1 {
		t.Fatalf("expected in-window entry to survive the sweep, got %d keys", got)
	}
	if d := l.Check("client-a"); d.Allowed {
		t.Error("sweep must not reset an in-window count")
	}
}

func TestLimiter_ConcurrentChecks(t *testing.T) {
	l := NewLimiter(time.Hour, 50)

	var wg sync.WaitGroup
	allowed := make([]int, 4)
	for g := 0; g < 4; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 25; n++ {
				if d := l.Check("shared"); d.Allowed {
					allowed[g]++
				}
				l.Check(fmt.Sprintf("own-%d", g))
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, n := range allowed {
		total += n
	}
	if total != 50 {
		t.Errorf("expected exactly 50 admissions for the shared key, got %d", total)
	}
}
