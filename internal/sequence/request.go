package sequence

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Waypoint is a spatial target: where to stand and which way to face.
type Waypoint struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Handle identifies one run of the sequence. The zero Handle means no run.
type Handle uint64

const (
	DefaultTurnSpeed        = 180.0 // degrees per second
	DefaultArrivalTolerance = 0.5
	DefaultSettleDelay      = 200 * time.Millisecond
	DefaultTurnSettle       = 100 * time.Millisecond
	DefaultAngleEpsilon     = 1.0 // degrees
	DefaultFaceViewerSpeed  = 120.0

	// fallbackClipLength is used when the animator has no clip by the requested name.
	fallbackClipLength = 500 * time.Millisecond

	// minTurnDistSq: targets closer than this are walked to without turning first.
	minTurnDistSq = 0.01
)

// Request holds the parameters of a single run.
type Request struct {
	Destination *Waypoint

	PreWalkDelay  time.Duration
	TalkDuration  time.Duration
	PostTalkPause time.Duration

	TurnSpeed        float64 // degrees per second; also used to face the viewer
	ArrivalTolerance float64
	SettleDelay      time.Duration
	TurnSettle       time.Duration
	AngleEpsilon     float64

	// FaceViewerWithin makes the NPC turn toward the viewer during the final
	// stretch of the approach, at FaceViewerSpeed degrees per second. Zero
	// disables it.
	FaceViewerWithin float64
	FaceViewerSpeed  float64

	// Turn animation flags follow the requested direction, not the geometry.
	OutboundTurn string
	ReturnTurn   string
	OutboundClip string
	ReturnClip   string
}

func (r Request) withDefaults() Request {
	if r.TurnSpeed <= 0 {
		r.TurnSpeed = DefaultTurnSpeed
	}
	if r.ArrivalTolerance <= 0 {
		r.ArrivalTolerance = DefaultArrivalTolerance
	}
	if r.SettleDelay <= 0 {
		r.SettleDelay = DefaultSettleDelay
	}
	if r.TurnSettle <= 0 {
		r.TurnSettle = DefaultTurnSettle
	}
	if r.AngleEpsilon <= 0 {
		r.AngleEpsilon = DefaultAngleEpsilon
	}
	if r.FaceViewerSpeed <= 0 {
		r.FaceViewerSpeed = DefaultFaceViewerSpeed
	}
	if r.OutboundTurn == "" {
		r.OutboundTurn = FlagTurningRight
	}
	if r.ReturnTurn == "" {
		r.ReturnTurn = FlagTurningLeft
	}
	if r.OutboundClip == "" {
		r.OutboundClip = "TurnRight"
	}
	if r.ReturnClip == "" {
		r.ReturnClip = "TurnLeft"
	}
	return r
}
