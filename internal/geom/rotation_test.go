package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookRotation_FacesDirection(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl64.Vec3
		yaw  float64
	}{
		{"forward", mgl64.Vec3{0, 0, 1}, 0},
		{"right", mgl64.Vec3{1, 0, 0}, 90},
		{"left", mgl64.Vec3{-3, 0, 0}, -90},
		{"back", mgl64.Vec3{0, 0, -2}, 180},
		{"ignores height", mgl64.Vec3{1, 5, 1}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Yaw(LookRotation(Flatten(tt.dir)))
			if tt.yaw == 180 {
				assert.InDelta(t, 180, absf(got), 1e-6)
				return
			}
			assert.InDelta(t, tt.yaw, got, 1e-6)
		})
	}
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, 0, Angle(YawRotation(30), YawRotation(30)), 1e-6)
	assert.InDelta(t, 90, Angle(YawRotation(0), YawRotation(90)), 1e-6)
	assert.InDelta(t, 20, Angle(YawRotation(170), YawRotation(-170)), 1e-6)
}

func TestRotateTowards_StepsByMaxDegrees(t *testing.T) {
	from := YawRotation(0)
	to := YawRotation(90)

	step := RotateTowards(from, to, 30)
	assert.InDelta(t, 30, Yaw(step), 1e-6)

	step = RotateTowards(step, to, 30)
	assert.InDelta(t, 60, Yaw(step), 1e-6)

	step = RotateTowards(step, to, 45)
	assert.InDelta(t, 0, Angle(step, to), 1e-6)
}

func TestRotateTowards_TakesShortestArc(t *testing.T) {
	from := YawRotation(170)
	to := YawRotation(-170)

	step := RotateTowards(from, to, 5)
	// 170 -> 175, not back through zero.
	assert.InDelta(t, 175, Yaw(step), 1e-6)
}

func TestRotateTowards_Converges(t *testing.T) {
	cur := YawRotation(-120)
	target := LookRotation(mgl64.Vec3{1, 0, 1})
	steps := 0
	for Angle(cur, target) > 1 {
		cur = RotateTowards(cur, target, 180*0.05)
		steps++
		require.Less(t, steps, 100)
	}
	assert.Equal(t, 19, steps)
}

func TestRotateTowards_ZeroSpeedHolds(t *testing.T) {
	from := YawRotation(10)
	assert.Equal(t, from, RotateTowards(from, YawRotation(50), 0))
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
