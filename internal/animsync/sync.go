// Package animsync keeps an NPC's animator and body facing in step with its
// locomotion agent.
package animsync

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vrscene/npcseq/internal/geom"
)

const walkingFlag = "isWalking"

// Settings tune the sync.
type Settings struct {
	MoveThreshold    float64 // speed below which the NPC is idle
	TurnSpeed        float64 // deg/s toward velocity
	ArrivalThreshold float64 // distance at which the agent is halted
}

func DefaultSettings() Settings {
	return Settings{MoveThreshold: 0.1, TurnSpeed: 120, ArrivalThreshold: 0.5}
}

// Mover is the part of the agent the sync reads and halts.
type Mover interface {
	Velocity() mgl64.Vec3
	HasPath() bool
	RemainingDistance() float64
	StoppingDistance() float64
	IsStopped() bool
	Halt()
}

type Facing interface {
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
}

type Flags interface {
	SetBool(name string, v bool)
}

// Update runs one sync step.
func Update(m Mover, f Facing, anim Flags, s Settings, dt time.Duration) {
	vel := geom.Flatten(m.Velocity())
	speed := vel.Len()

	near := closeToDestination(m, s.ArrivalThreshold)
	if near {
		m.Halt()
	}
	if anim != nil {
		anim.SetBool(walkingFlag, speed > s.MoveThreshold && !near)
	}

	if near || m.IsStopped() || speed <= s.MoveThreshold || dt <= 0 {
		return
	}
	target := geom.LookRotation(vel)
	f.SetRotation(geom.RotateTowards(f.Rotation(), target, s.TurnSpeed*dt.Seconds()))
}

func closeToDestination(m Mover, threshold float64) bool {
	if !m.HasPath() {
		return false
	}
	d := m.RemainingDistance()
	return d > 0 && d <= math.Max(m.StoppingDistance(), threshold)
}
