package sequence

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/vrscene/npcseq/internal/geom"
)

// turn rotates the NPC in place toward a walk target, holding the requested
// turn flag for at least the length of the turn clip.
type turn struct {
	dest     mgl64.Vec3
	target   mgl64.Quat
	flag     string
	minTime  time.Duration
	elapsed  time.Duration
	rotating bool // false once converged (or when no rotation was needed)
	settle   time.Duration
}

// beginTurn stops the agent and prepares to face dest. It reports false when
// dest is too close to need a turn at all.
func (c *Controller) beginTurn(dest mgl64.Vec3, flag, clip string) bool {
	c.loco.Stop()

	r := c.run
	r.turn = turn{dest: dest}
	dir := geom.Flatten(dest.Sub(c.loco.Position()))
	if dir.LenSqr() <= minTurnDistSq {
		return false
	}
	r.turn.target = geom.LookRotation(dir)
	r.turn.flag = flag
	r.turn.minTime = c.clipLength(clip)
	r.turn.rotating = true
	c.setFlag(flag, true)
	return true
}

// updateTurn advances the in-place turn and the short settle that follows it.
// It reports true once the agent should start walking.
func (c *Controller) updateTurn(dt time.Duration) bool {
	r := c.run
	t := &r.turn
	if t.rotating {
		if dt > 0 {
			cur := c.orient.Rotation()
			c.orient.SetRotation(geom.RotateTowards(cur, t.target, r.req.TurnSpeed*dt.Seconds()))
			t.elapsed += dt
		}
		if t.elapsed < t.minTime || geom.Angle(c.orient.Rotation(), t.target) > r.req.AngleEpsilon {
			return false
		}
		c.orient.SetRotation(t.target)
		c.setFlag(t.flag, false)
		t.rotating = false
		return false
	}
	t.settle += dt
	return t.settle >= r.req.TurnSettle
}

// walk releases the agent toward the turn's destination.
func (c *Controller) walk() {
	c.loco.Resume()
	c.loco.SetDestination(c.run.turn.dest)
}

// faceViewer rotates toward the viewer at speed deg/s. It reports true when
// facing it (or when there is nothing to face).
func (c *Controller) faceViewer(dt time.Duration, speed float64) bool {
	if c.viewer == nil {
		return true
	}
	dir := geom.Flatten(c.viewer.Position().Sub(c.loco.Position()))
	if dir.LenSqr() <= minTurnDistSq {
		return true
	}
	target := geom.LookRotation(dir)
	cur := c.orient.Rotation()
	if dt > 0 {
		cur = geom.RotateTowards(cur, target, speed*dt.Seconds())
		c.orient.SetRotation(cur)
	}
	if geom.Angle(cur, target) > c.run.req.AngleEpsilon {
		return false
	}
	c.orient.SetRotation(target)
	return true
}

func (c *Controller) clipLength(name string) time.Duration {
	if c.anim == nil {
		return 0
	}
	clips, ok := c.anim.(ClipLengths)
	if !ok {
		return 0
	}
	if d, ok := clips.ClipLength(name); ok {
		return d
	}
	c.log.Warn("turn clip not found, using default length",
		zap.String("clip", name),
		zap.Duration("length", fallbackClipLength),
	)
	return fallbackClipLength
}
