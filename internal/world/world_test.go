package world

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 100 * time.Millisecond

func TestAgent_PathLatency(t *testing.T) {
	a := NewAgent(mgl64.Vec3{}, 1, 0.5, 2)
	a.Resume()
	a.SetDestination(mgl64.Vec3{0, 0, 4})

	assert.True(t, a.PathPending())
	assert.False(t, a.HasPath())
	assert.Zero(t, a.RemainingDistance(), "stale while pending")

	a.Advance(frame)
	assert.True(t, a.PathPending())
	a.Advance(frame)
	assert.False(t, a.PathPending())
	assert.True(t, a.HasPath())
	assert.InDelta(t, 4, a.RemainingDistance(), 1e-9)
	assert.Equal(t, mgl64.Vec3{}, a.Position(), "no movement while the path was pending")
}

func TestAgent_MovesAndClampsAtDestination(t *testing.T) {
	a := NewAgent(mgl64.Vec3{1, 0, 0}, 2, 0.5, 0)
	a.Resume()
	a.SetDestination(mgl64.Vec3{1, 0, 1})

	a.Advance(frame)
	assert.InDelta(t, 0.2, a.Position()[2], 1e-9)
	assert.InDelta(t, 2, a.Velocity().Len(), 1e-9)

	for i := 0; i < 10; i++ {
		a.Advance(frame)
	}
	assert.Equal(t, mgl64.Vec3{1, 0, 1}, a.Position())
	assert.Zero(t, a.RemainingDistance())
	assert.True(t, a.HasPath())
	assert.Zero(t, a.Velocity().Len())
}

func TestAgent_StopAndHalt(t *testing.T) {
	a := NewAgent(mgl64.Vec3{}, 1, 0.5, 0)
	a.Resume()
	a.SetDestination(mgl64.Vec3{0, 0, 10})
	a.Advance(frame)

	a.Halt()
	assert.True(t, a.HasPath(), "halt keeps the path")
	before := a.Position()
	a.Advance(frame)
	assert.Equal(t, before, a.Position())

	a.Stop()
	assert.False(t, a.HasPath())
	assert.True(t, a.IsStopped())
}

func TestAgent_StartsStopped(t *testing.T) {
	a := NewAgent(mgl64.Vec3{}, 1, 0.5, 0)
	a.SetDestination(mgl64.Vec3{0, 0, 1})
	a.Advance(frame)
	assert.Equal(t, mgl64.Vec3{}, a.Position())
}

func TestTransform_Yaw(t *testing.T) {
	tr := NewTransform(90)
	assert.InDelta(t, 90, tr.Yaw(), 1e-9)
}

func TestAnimator(t *testing.T) {
	a := NewAnimator(map[string]time.Duration{"TurnLeft": 800 * time.Millisecond})
	a.SetBool("isWalking", true)
	a.SetBool("isTalking", true)
	a.SetBool("isTalking", false)

	assert.Equal(t, []string{"isWalking"}, a.Active())
	d, ok := a.ClipLength("TurnLeft")
	assert.True(t, ok)
	assert.Equal(t, 800*time.Millisecond, d)
	_, ok = a.ClipLength("TurnRight")
	assert.False(t, ok)
}

func TestState_SpawnLookupDespawn(t *testing.T) {
	s := NewState()
	id, err := s.Spawn("waiter", NewAgent(mgl64.Vec3{}, 1, 0.5, 0), NewTransform(0), NewAnimator(nil))
	require.NoError(t, err)
	_, err = s.Spawn("chef", NewAgent(mgl64.Vec3{}, 1, 0.5, 0), NewTransform(0), NewAnimator(nil))
	require.NoError(t, err)

	_, err = s.Spawn("waiter", NewAgent(mgl64.Vec3{}, 1, 0.5, 0), NewTransform(0), NewAnimator(nil))
	assert.ErrorIs(t, err, ErrDuplicateNPC)

	n, ok := s.Lookup("waiter")
	require.True(t, ok)
	assert.Equal(t, id, n.ID)
	assert.NotNil(t, n.Agent)
	assert.Nil(t, n.Sequencer)

	var order []string
	s.Each(func(n NPC) { order = append(order, n.Name) })
	assert.Equal(t, []string{"waiter", "chef"}, order)
	assert.Equal(t, []string{"chef", "waiter"}, s.NameList())

	require.NoError(t, s.Despawn("waiter"))
	assert.ErrorIs(t, s.Despawn("ghost"), ErrUnknownNPC)
	_, ok = s.Lookup("waiter")
	assert.True(t, ok, "removed only at flush")

	s.ECS.FlushDestroyQueue()
	_, ok = s.Lookup("waiter")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Count())
}
