package catalog

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_OnlyTrailingCallFires(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired atomic.Int32
	var last atomic.Value

	for _, term := range []string{"f", "fi", "fib", "fiber"} {
		term := term
		d.Trigger(func() {
			fired.Add(1)
			last.Store(term)
		})
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond) // no extra firings afterwards
	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, "fiber", last.Load())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestDebouncer_SequentialTriggersBothFire(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)

	d.Trigger(func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 2 }, time.Second, time.Millisecond)
}
