package rotation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextWrapsAround(t *testing.T) {
	r := New(3, time.Second)
	var seen []int
	for i := 0; i < 7; i++ {
		seen = append(seen, r.Next())
	}
	assert.Equal(t, []int{1, 2, 0, 1, 2, 0, 1}, seen)
}

func TestZeroTabsNeverAdvance(t *testing.T) {
	r := New(0, time.Millisecond)
	assert.Equal(t, 0, r.Next())
	assert.Equal(t, 0, r.Current())
}

func TestStartAdvancesOnIntervalAndStops(t *testing.T) {
	r := New(3, 5*time.Millisecond)
	r.Start(context.Background())

	assert.Eventually(t, func() bool { return r.Current() != 0 }, time.Second, time.Millisecond)

	r.Stop()
	frozen := r.Current()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, r.Current(), "no advance after teardown")

	r.Stop() // idempotent
}

func TestStartStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(2, 5*time.Millisecond)
	r.Start(ctx)
	r.Start(ctx) // second start is ignored

	assert.Eventually(t, func() bool { return r.Current() == 1 }, time.Second, time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rotator did not stop after context cancel")
	}
}
