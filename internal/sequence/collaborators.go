package sequence

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Locomotion is the path-following mover behind an NPC.
type Locomotion interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetDestination(p mgl64.Vec3)
	HasPath() bool
	PathPending() bool
	RemainingDistance() float64
	StoppingDistance() float64
	// Stop halts movement and drops the current path.
	Stop()
	// Resume lets the agent move along the next path it is given.
	Resume()
	IsStopped() bool
}

// Orientation reads and writes the NPC's facing.
type Orientation interface {
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
}

// AnimationSink receives boolean animator parameters.
type AnimationSink interface {
	SetBool(name string, v bool)
}

// ClipLengths is optionally implemented by an AnimationSink that knows the
// length of its animation clips.
type ClipLengths interface {
	ClipLength(name string) (time.Duration, bool)
}

// Viewer is whoever the NPC turns to talk to.
type Viewer interface {
	Position() mgl64.Vec3
}

// Listener observes phase transitions.
type Listener interface {
	PhaseChanged(h Handle, from, to Phase)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(h Handle, from, to Phase)

func (f ListenerFunc) PhaseChanged(h Handle, from, to Phase) { f(h, from, to) }

// FixedViewer is a Viewer standing still at a point.
type FixedViewer mgl64.Vec3

func (v FixedViewer) Position() mgl64.Vec3 { return mgl64.Vec3(v) }
