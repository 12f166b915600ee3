// Package sequence drives an NPC through the walk/talk sequence: wait, turn
// toward the destination, walk there, face the viewer, talk, pause, turn
// back and walk to where the NPC started.
//
// A Controller is driven by Tick from the game loop and is not safe for
// concurrent use. Start and Cancel are expected to be called from the same
// goroutine, between ticks.
package sequence

import (
	"time"

	"go.uber.org/zap"
)

// Deps are the collaborators of a Controller. Animation, Viewer and Listener
// may be nil.
type Deps struct {
	Locomotion  Locomotion
	Orientation Orientation
	Animation   AnimationSink
	Viewer      Viewer
	Listener    Listener
}

type stage int

const (
	stageDelay stage = iota
	stageTurn
)

// run is the state of one in-flight sequence.
type run struct {
	handle  Handle
	req     Request
	stage   stage
	waited  time.Duration
	turn    turn
	arrival arrival
}

// Controller runs at most one sequence at a time for one NPC.
type Controller struct {
	loco     Locomotion
	orient   Orientation
	anim     AnimationSink
	viewer   Viewer
	listener Listener
	log      *zap.Logger

	phase  Phase
	run    *run
	origin *Waypoint
	lastID Handle
}

func NewController(deps Deps, log *zap.Logger) *Controller {
	return &Controller{
		loco:     deps.Locomotion,
		orient:   deps.Orientation,
		anim:     deps.Animation,
		viewer:   deps.Viewer,
		listener: deps.Listener,
		log:      log,
	}
}

// CurrentPhase returns the phase of the active run, or PhaseIdle.
func (c *Controller) CurrentPhase() Phase { return c.phase }

// Active returns the handle of the in-flight run, or zero.
func (c *Controller) Active() Handle {
	if c.run == nil {
		return 0
	}
	return c.run.handle
}

// Origin returns the waypoint recorded on the first Start.
func (c *Controller) Origin() (Waypoint, bool) {
	if c.origin == nil {
		return Waypoint{}, false
	}
	return *c.origin, true
}

// Start begins a new run. Any run in flight is cancelled first and the NPC
// is put back into a clean state (agent stopped, every flag cleared) before
// the new run's first phase. A request without a destination is logged and
// ignored, and the zero Handle is returned.
func (c *Controller) Start(req Request) Handle {
	if req.Destination == nil {
		c.log.Warn("sequence start ignored: no destination")
		return 0
	}

	if c.run != nil {
		c.log.Debug("restarting sequence",
			zap.Uint64("handle", uint64(c.run.handle)),
			zap.Stringer("phase", c.phase),
		)
		c.setPhase(PhaseIdle)
		c.run = nil
	}
	c.reset()

	if c.origin == nil {
		c.origin = &Waypoint{
			Position: c.loco.Position(),
			Rotation: c.orient.Rotation(),
		}
	}

	c.lastID++
	c.run = &run{handle: c.lastID, req: req.withDefaults()}
	c.setPhase(PhaseApproaching)
	return c.run.handle
}

// Cancel halts the run identified by h and returns to Idle. Cancelling a
// finished or unknown run is a no-op.
func (c *Controller) Cancel(h Handle) {
	if c.run == nil || h == 0 || c.run.handle != h {
		return
	}
	c.log.Debug("sequence cancelled",
		zap.Uint64("handle", uint64(h)),
		zap.Stringer("phase", c.phase),
	)
	c.reset()
	c.setPhase(PhaseIdle)
	c.run = nil
}

// maxChain bounds how many phases a single tick may pass through.
const maxChain = int(PhaseComplete) + 1

// Tick advances the active run by dt. A phase whose condition is already met
// hands over to the next one within the same tick; Complete is held until
// the following tick, which releases the run.
func (c *Controller) Tick(dt time.Duration) {
	if c.run == nil {
		if c.phase != PhaseIdle {
			c.log.Debug("stale phase without a run", zap.Stringer("phase", c.phase))
			c.phase = PhaseIdle
		}
		return
	}
	switch c.phase {
	case PhaseIdle:
		c.log.Debug("stale run while idle", zap.Uint64("handle", uint64(c.run.handle)))
		c.run = nil
		return
	case PhaseComplete:
		c.setPhase(PhaseIdle)
		c.run = nil
		return
	}

	for i := 0; i < maxChain; i++ {
		from := c.phase
		c.update(dt)
		if c.run == nil || c.phase == from || c.phase == PhaseComplete {
			return
		}
		dt = 0
	}
}

// update runs the current phase for dt and moves to the next phase when its
// exit condition holds.
func (c *Controller) update(dt time.Duration) {
	r := c.run
	switch c.phase {
	case PhaseApproaching:
		if r.stage == stageDelay {
			r.waited += dt
			if r.waited < r.req.PreWalkDelay {
				return
			}
			r.stage = stageTurn
			if !c.beginTurn(r.req.Destination.Position, r.req.OutboundTurn, r.req.OutboundClip) {
				c.walk()
				c.setPhase(PhaseAwaitingArrival)
				return
			}
			dt = 0
		}
		if c.updateTurn(dt) {
			c.walk()
			c.setPhase(PhaseAwaitingArrival)
		}

	case PhaseAwaitingArrival:
		c.faceViewerOnApproach(dt)
		if r.arrival.update(c.loco, r.req.ArrivalTolerance, r.req.SettleDelay, dt) {
			c.setPhase(PhaseTurning)
		}

	case PhaseTurning:
		if c.faceViewer(dt, r.req.TurnSpeed) {
			c.setFlag(FlagTalking, true)
			c.setPhase(PhaseTalking)
		}

	case PhaseTalking:
		r.waited += dt
		if r.waited >= r.req.TalkDuration {
			c.setFlag(FlagTalking, false)
			c.setPhase(PhasePausing)
		}

	case PhasePausing:
		r.waited += dt
		if r.waited >= r.req.PostTalkPause {
			c.setPhase(PhaseReturning)
			if !c.beginTurn(c.origin.Position, r.req.ReturnTurn, r.req.ReturnClip) {
				c.walk()
				c.setPhase(PhaseAwaitingReturnArrival)
			}
		}

	case PhaseReturning:
		if c.updateTurn(dt) {
			c.walk()
			c.setPhase(PhaseAwaitingReturnArrival)
		}

	case PhaseAwaitingReturnArrival:
		if r.arrival.update(c.loco, r.req.ArrivalTolerance, r.req.SettleDelay, dt) {
			c.clearFlags()
			c.log.Info("sequence complete", zap.Uint64("handle", uint64(r.handle)))
			c.setPhase(PhaseComplete)
		}
	}
}

// faceViewerOnApproach turns toward the viewer over the last stretch of the
// approach, once the agent is within FaceViewerWithin but not yet stopping.
// A halted agent is left alone.
func (c *Controller) faceViewerOnApproach(dt time.Duration) {
	within := c.run.req.FaceViewerWithin
	if within <= 0 || c.viewer == nil || dt <= 0 || !c.loco.HasPath() || c.loco.IsStopped() {
		return
	}
	d := c.loco.RemainingDistance()
	if d <= within && d > c.loco.StoppingDistance() {
		c.faceViewer(dt, c.run.req.FaceViewerSpeed)
	}
}

func (c *Controller) setPhase(to Phase) {
	from := c.phase
	c.phase = to
	if c.run != nil {
		c.run.waited = 0
		c.run.arrival.reset()
	}
	if from == to || c.listener == nil {
		return
	}
	var h Handle
	if c.run != nil {
		h = c.run.handle
	}
	c.listener.PhaseChanged(h, from, to)
}

// reset stops the agent and clears every animation flag.
func (c *Controller) reset() {
	c.loco.Stop()
	c.clearFlags()
}

func (c *Controller) clearFlags() {
	for _, f := range AllFlags {
		c.setFlag(f, false)
	}
}

func (c *Controller) setFlag(name string, v bool) {
	if c.anim == nil {
		return
	}
	c.anim.SetBool(name, v)
}
