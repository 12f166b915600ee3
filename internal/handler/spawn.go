package handler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vrscene/npcseq/internal/config"
	"github.com/vrscene/npcseq/internal/core/ecs"
	"github.com/vrscene/npcseq/internal/core/event"
	"github.com/vrscene/npcseq/internal/data"
	"github.com/vrscene/npcseq/internal/geom"
	"github.com/vrscene/npcseq/internal/sequence"
	"github.com/vrscene/npcseq/internal/world"
)

// SpawnScene creates an entity with a sequence controller for every NPC in
// the scene. Returns how many were spawned.
func SpawnScene(scene *data.Scene, deps *Deps) (int, error) {
	var viewer sequence.Viewer
	if p, ok := scene.ViewerPosition(); ok {
		viewer = sequence.FixedViewer(p)
	}

	for i := range scene.NPCs {
		def := &scene.NPCs[i]
		agent := world.NewAgent(def.Spawn(), def.Speed, def.StoppingDistance, def.PathLatency)
		tr := world.NewTransform(def.Yaw)
		anim := world.NewAnimator(def.Clips)

		id, err := deps.World.Spawn(def.Name, agent, tr, anim)
		if err != nil {
			return i, fmt.Errorf("spawn scene: %w", err)
		}

		base, err := BaseRequest(deps.Config.Sequence, def)
		if err != nil {
			deps.Log.Warn("npc will not walk", zap.String("npc", def.Name), zap.Error(err))
		}

		ctrl := sequence.NewController(sequence.Deps{
			Locomotion:  agent,
			Orientation: tr,
			Animation:   anim,
			Viewer:      viewer,
			Listener:    &phaseRelay{deps: deps, id: id, name: def.Name},
		}, deps.Log.With(zap.String("npc", def.Name)))
		deps.World.AttachSequencer(id, &world.Sequencer{Controller: ctrl, Base: base})
	}
	return len(scene.NPCs), nil
}

// BaseRequest builds an NPC's request from the configured defaults and its
// scene overrides. An NPC without a destination gets a request with a nil
// Destination and ErrNoDestination.
func BaseRequest(cfg config.SequenceConfig, def *data.NPCDef) (sequence.Request, error) {
	req := sequence.Request{
		PreWalkDelay:     cfg.PreWalkDelay,
		TalkDuration:     cfg.TalkDuration,
		PostTalkPause:    cfg.PostTalkPause,
		TurnSpeed:        cfg.TurnSpeed,
		ArrivalTolerance: cfg.ArrivalTolerance,
		SettleDelay:      cfg.SettleDelay,
		TurnSettle:       cfg.TurnSettle,
		AngleEpsilon:     cfg.AngleEpsilon,
		FaceViewerWithin: cfg.FaceViewerWithin,
		FaceViewerSpeed:  cfg.FaceViewerSpeed,
	}

	o := def.Sequence
	if o.PreWalkDelay != nil {
		req.PreWalkDelay = *o.PreWalkDelay
	}
	if o.TalkDuration != nil {
		req.TalkDuration = *o.TalkDuration
	}
	if o.PostTalkPause != nil {
		req.PostTalkPause = *o.PostTalkPause
	}
	if o.TurnSpeed != nil {
		req.TurnSpeed = *o.TurnSpeed
	}
	if o.FaceViewerWithin != nil {
		req.FaceViewerWithin = *o.FaceViewerWithin
	}
	req.OutboundTurn = turnFlag(o.OutboundTurn)
	req.ReturnTurn = turnFlag(o.ReturnTurn)
	req.OutboundClip = o.OutboundClip
	req.ReturnClip = o.ReturnClip

	pos, yaw, err := def.Target()
	if err != nil {
		return req, err
	}
	req.Destination = &sequence.Waypoint{Position: pos, Rotation: geom.YawRotation(yaw)}
	return req, nil
}

// turnFlag maps a scene turn direction to its animation flag; "" keeps the
// controller default.
func turnFlag(dir string) string {
	switch dir {
	case "left":
		return sequence.FlagTurningLeft
	case "right":
		return sequence.FlagTurningRight
	}
	return ""
}

// phaseRelay publishes a controller's transitions on the event bus.
type phaseRelay struct {
	deps *Deps
	id   ecs.EntityID
	name string
}

func (p *phaseRelay) PhaseChanged(h sequence.Handle, from, to sequence.Phase) {
	now := p.deps.now()
	event.Emit(p.deps.Bus, event.PhaseChanged{
		Entity: p.id,
		NPC:    p.name,
		Handle: h,
		From:   from,
		To:     to,
		At:     now,
	})

	var outcome string
	switch {
	case to == sequence.PhaseComplete:
		outcome = event.OutcomeComplete
	case to == sequence.PhaseIdle && from != sequence.PhaseComplete:
		outcome = event.OutcomeCancelled
	default:
		return
	}
	started := now
	if seq, ok := p.deps.World.Sequencers.Get(p.id); ok {
		started = seq.StartedAt
	}
	event.Emit(p.deps.Bus, event.RunFinished{
		NPC:        p.name,
		Handle:     h,
		Outcome:    outcome,
		LastPhase:  from,
		StartedAt:  started,
		FinishedAt: now,
	})
}
