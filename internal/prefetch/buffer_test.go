package prefetch

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

type counterSource struct {
	n int64
}

func (c *counterSource) Generate() ([]byte, error) {
	n := atomic.AddInt64(&c.n, 1)
	return []byte(fmt.Sprintf("item-%d", n)), nil
}

func TestBuffer_OneshotFillsToCapacityThenStops(t *testing.T) {
	src := &counterSource{}
	b := New(src, 4, Oneshot)
	defer b.Stop()

	waitUntil(t, func() bool { return b.Len() == 4 })

	for i := 0; i < 4; i++ {
		if _, ok := b.Pop(); !ok {
			t.Fatalf("expected 4 buffered items, ran out at %d", i)
		}
	}
	if _, ok := b.Pop(); ok {
		t.Fatal("expected Pop to report no more output once a Oneshot buffer is drained")
	}
}

func TestBuffer_RefillKeepsProducingAfterDrain(t *testing.T) {
	src := &counterSource{}
	b := New(src, 2, Refill)
	defer b.Stop()

	seen := 0
	deadline := time.After(2 * time.Second)
	for seen < 20 {
		select {
		case <-deadline:
			t.Fatalf("only drained %d items before timing out", seen)
		default:
		}
		if _, ok := b.Pop(); ok {
			seen++
		}
	}
}

func TestBuffer_StopIsIdempotentAndJoinsWorker(t *testing.T) {
	b := New(&counterSource{}, 4, Refill)
	b.Stop()
	b.Stop() // must not panic or deadlock
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}
