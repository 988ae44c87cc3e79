package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPool_OverCapacityAcquisitionBlocks(t *testing.T) {
	const capacity = 2
	p := NewPool(capacity, 0)

	for n := 0; n < capacity; n++ {
		if err := p.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire within capacity: %v", err)
		}
	}

	acquired := make(chan struct{})
	go func() {
		if err := p.Acquire(context.Background()); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("acquisition beyond capacity resolved before any release")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("acquisition did not resolve after a release")
	}
}

func TestPool_FIFOGrantOrder(t *testing.T) {
	p := NewPool(1, 0)
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("initial acquire: %v", err)
	}

	const waiters = 5
	grants := make(chan int, waiters)
	var started sync.WaitGroup

	for i := 0; i < waiters; i++ {
		i := i
		started.Add(1)
		go func() {
			// Stagger enqueue so the queue order is deterministic.
			time.Sleep(time.Duration(i*20) * time.Millisecond)
			started.Done()
			if err := p.Acquire(context.Background()); err != nil {
				return
			}
			grants <- i
			p.Release()
		}()
	}

	started.Wait()
	time.Sleep(150 * time.Millisecond) // let all waiters enqueue
	p.Release()

	for want := 0; want < waiters; want++ {
		select {
		case got := <-grants:
			if got != want {
				t.Fatalf("expected grant order %d, got %d", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("waiter %d never granted", want)
		}
	}
}

func TestPool_CooldownDelaysHandOff(t *testing.T) {
	cooldown := 100 * time.Millisecond
	p := NewPool(1, cooldown)

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	start := time.Now()
	p.Release()

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if elapsed := time.Since(start); elapsed < cooldown {
		t.Errorf("slot handed off after %v, before the %v cool-down", elapsed, cooldown)
	}
	p.Release()
}

func TestPool_AcquireHonorsContextCancel(t *testing.T) {
	p := NewPool(1, 0)
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Acquire(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected context error from cancelled acquire")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled acquire never returned")
	}

	// The cancelled waiter must not have consumed the slot.
	p.Release()
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire after cancelled waiter: %v", err)
	}
}

func TestPool_ConcurrentLoadNeverExceedsCapacity(t *testing.T) {
	const capacity = 3
	p := NewPool(capacity, 0)

	var mu sync.Mutex
	inFlight, peak := 0, 0

	var wg sync.WaitGroup
	for n := 0; n < 30; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Acquire(context.Background()); err != nil {
				return
			}
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			p.Release()
		}()
	}
	wg.Wait()

	if peak > capacity {
		t.Errorf("observed %d concurrent holders, capacity is %d", peak, capacity)
	}
}
