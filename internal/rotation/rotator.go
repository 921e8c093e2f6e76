// Package rotation advances a tab index on a fixed interval, wrapping at the tab count.
package rotation

import (
	"context"
	"sync"
	"time"
)

// Rotator cycles through n tabs. It is safe for concurrent use.
type Rotator struct {
	mu       sync.RWMutex
	n        int
	index    int
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a stopped rotator over n tabs.
func New(n int, interval time.Duration) *Rotator {
	return &Rotator{n: n, interval: interval}
}

// Current returns the active tab index.
func (r *Rotator) Current() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index
}

// Next advances to (index + 1) % n and returns the new index.
func (r *Rotator) Next() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.n > 0 {
		r.index = (r.index + 1) % r.n
	}
	return r.index
}

// Start runs the timer in the background until ctx ends or Stop is called.
// Calling Start on a running rotator is a no-op.
func (r *Rotator) Start(ctx context.Context) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		r.Run(ctx)
	}()
}

// Run advances the index every interval and returns when ctx is cancelled.
func (r *Rotator) Run(ctx context.Context) {
	if r.n <= 1 || r.interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Next()
		}
	}
}

// Stop cancels the timer and waits for the background loop to exit.
func (r *Rotator) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
