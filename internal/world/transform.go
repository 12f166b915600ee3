package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vrscene/npcseq/internal/geom"
)

// Transform holds an NPC's facing.
type Transform struct {
	rotation mgl64.Quat
}

func NewTransform(yawDeg float64) *Transform {
	return &Transform{rotation: geom.YawRotation(yawDeg)}
}

func (t *Transform) Rotation() mgl64.Quat     { return t.rotation }
func (t *Transform) SetRotation(q mgl64.Quat) { t.rotation = q.Normalize() }

// Yaw returns the heading in degrees.
func (t *Transform) Yaw() float64 { return geom.Yaw(t.rotation) }
