package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Agent is a straight-line mover standing in for a navmesh agent. A new
// destination keeps the path pending for PathLatency ticks, during which
// HasPath is false and RemainingDistance is 0, like an engine agent whose
// path is still being computed.
// Accessed only from the game loop goroutine.
type Agent struct {
	Speed       float64 // units per second
	Stopping    float64 // stopping distance
	PathLatency int     // ticks

	position mgl64.Vec3
	velocity mgl64.Vec3
	dest     mgl64.Vec3
	hasPath  bool
	pending  int
	stopped  bool
}

func NewAgent(pos mgl64.Vec3, speed, stopping float64, latency int) *Agent {
	return &Agent{
		Speed:       speed,
		Stopping:    stopping,
		PathLatency: latency,
		position:    pos,
		stopped:     true,
	}
}

func (a *Agent) Position() mgl64.Vec3      { return a.position }
func (a *Agent) Velocity() mgl64.Vec3      { return a.velocity }
func (a *Agent) HasPath() bool             { return a.hasPath }
func (a *Agent) PathPending() bool         { return a.pending > 0 }
func (a *Agent) StoppingDistance() float64 { return a.Stopping }
func (a *Agent) IsStopped() bool           { return a.stopped }

func (a *Agent) SetDestination(p mgl64.Vec3) {
	a.dest = p
	a.pending = a.PathLatency
	a.hasPath = a.pending == 0
}

func (a *Agent) RemainingDistance() float64 {
	if !a.hasPath {
		return 0
	}
	return a.dest.Sub(a.position).Len()
}

// Stop halts the agent and drops its path.
func (a *Agent) Stop() {
	a.Halt()
	a.hasPath = false
	a.pending = 0
}

// Halt stops movement but keeps the path.
func (a *Agent) Halt() {
	a.stopped = true
	a.velocity = mgl64.Vec3{}
}

func (a *Agent) Resume() { a.stopped = false }

// Advance moves the agent for one tick.
func (a *Agent) Advance(dt time.Duration) {
	a.velocity = mgl64.Vec3{}
	if a.pending > 0 {
		a.pending--
		if a.pending == 0 {
			a.hasPath = true
		}
		return
	}
	if !a.hasPath || a.stopped || dt <= 0 {
		return
	}
	to := a.dest.Sub(a.position)
	dist := to.Len()
	if dist == 0 {
		return
	}
	step := a.Speed * dt.Seconds()
	if step >= dist {
		a.position = a.dest
		a.velocity = to.Mul(1 / dt.Seconds())
		return
	}
	move := to.Mul(step / dist)
	a.position = a.position.Add(move)
	a.velocity = move.Mul(1 / dt.Seconds())
}
