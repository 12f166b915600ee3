package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArrival_NeverWhilePathPending(t *testing.T) {
	loco := &fakeLoco{stopping: 0.5, forcePending: true, useForceDist: true, forceDist: 0}
	var a arrival
	for i := 0; i < 100; i++ {
		assert.False(t, a.update(loco, 0.5, DefaultSettleDelay, frame), "tick %d", i)
	}
}

func TestArrival_NeverWithoutPath(t *testing.T) {
	loco := &fakeLoco{stopping: 0.5}
	var a arrival
	for i := 0; i < 20; i++ {
		assert.False(t, a.update(loco, 0.5, DefaultSettleDelay, frame))
	}
}

func TestArrival_SettleDelay(t *testing.T) {
	loco := &fakeLoco{stopping: 0.2, hasPath: true, useForceDist: true, forceDist: 0.4}
	var a arrival

	// first tick inside tolerance starts the settle window
	assert.False(t, a.update(loco, 0.5, 200*time.Millisecond, frame))
	for i := 0; i < 3; i++ {
		assert.False(t, a.update(loco, 0.5, 200*time.Millisecond, frame))
	}
	assert.True(t, a.update(loco, 0.5, 200*time.Millisecond, frame))
}

func TestArrival_SettleRestartsWhenConditionBreaks(t *testing.T) {
	loco := &fakeLoco{stopping: 0.2, hasPath: true, useForceDist: true, forceDist: 0.3}
	var a arrival
	settle := 200 * time.Millisecond

	a.update(loco, 0.5, settle, frame)
	a.update(loco, 0.5, settle, frame)
	a.update(loco, 0.5, settle, frame)

	// path recomputation: remaining distance is stale, must not count
	loco.forcePending = true
	assert.False(t, a.update(loco, 0.5, settle, frame))
	loco.forcePending = false

	for i := 0; i < 4; i++ {
		assert.False(t, a.update(loco, 0.5, settle, frame), "tick %d", i)
	}
	assert.True(t, a.update(loco, 0.5, settle, frame))
}

func TestArrival_UsesLargerOfStoppingAndTolerance(t *testing.T) {
	tests := []struct {
		name      string
		stopping  float64
		tolerance float64
		dist      float64
		want      bool
	}{
		{"inside tolerance", 0.1, 0.5, 0.45, true},
		{"inside stopping distance", 1.0, 0.5, 0.9, true},
		{"outside both", 0.3, 0.5, 0.6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loco := &fakeLoco{stopping: tt.stopping, hasPath: true, useForceDist: true, forceDist: tt.dist}
			assert.Equal(t, tt.want, withinArrival(loco, tt.tolerance))
		})
	}
}
