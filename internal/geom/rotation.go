// Package geom holds the ground-plane rotation helpers shared by the
// sequencer and the animation sync. Facing is a yaw about +Y; forward is +Z.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// LookRotation returns the yaw rotation whose forward axis points along dir
// projected onto the ground plane.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(math.Atan2(dir[0], dir[2]), Up)
}

// YawRotation builds a rotation from a yaw in degrees.
func YawRotation(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Up)
}

// Yaw returns the heading of q in degrees, in (-180, 180].
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(Forward)
	return mgl64.RadToDeg(math.Atan2(f[0], f[2]))
}

// Angle is the smallest angle in degrees between two rotations.
func Angle(a, b mgl64.Quat) float64 {
	d := math.Abs(a.Dot(b))
	if d >= 1 {
		return 0
	}
	return mgl64.RadToDeg(2 * math.Acos(d))
}

// RotateTowards rotates from toward to by at most maxDeg degrees along the
// shorter arc. A non-positive maxDeg leaves from unchanged.
func RotateTowards(from, to mgl64.Quat, maxDeg float64) mgl64.Quat {
	angle := Angle(from, to)
	if angle == 0 {
		return to
	}
	if maxDeg <= 0 {
		return from
	}
	t := maxDeg / angle
	if t >= 1 {
		return to
	}
	// q and -q are the same orientation; slerp must start on the near one.
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, t).Normalize()
}
