package term

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int32
	var last int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			atomic.AddInt32(&fired, 1)
			atomic.StoreInt32(&last, n)
		})
	}

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&fired), "a burst fires exactly once")
	assert.Equal(t, int32(5), atomic.LoadInt32(&last), "the last callback of the burst wins")
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int32
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired), "nothing fires after Stop")

	// Triggers after Stop are ignored.
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestDebouncerSequentialFires(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var fired int32
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&fired), "separated triggers fire separately")
}
