package handler

import (
	"github.com/vrscene/npcseq/internal/scripting"
	"github.com/vrscene/npcseq/internal/sequence"
	"github.com/vrscene/npcseq/internal/world"
	"go.uber.org/zap"
)

// StartSequence starts (or restarts) the NPC's sequence from its base
// request, retimed by the script hook. Returns the zero Handle when the
// controller refused the request.
func StartSequence(n world.NPC, deps *Deps) sequence.Handle {
	seq := n.Sequencer
	if seq == nil {
		return 0
	}
	req := seq.Base
	if deps.Scripting != nil && req.Destination != nil {
		t := deps.Scripting.SequenceOverrides(scripting.SequenceContext{
			NPC:    n.Name,
			Starts: seq.Starts + 1,
			Timing: scripting.Timing{
				PreWalkDelay:  req.PreWalkDelay,
				TalkDuration:  req.TalkDuration,
				PostTalkPause: req.PostTalkPause,
			},
		})
		req.PreWalkDelay = t.PreWalkDelay
		req.TalkDuration = t.TalkDuration
		req.PostTalkPause = t.PostTalkPause
	}

	h := seq.Controller.Start(req)
	if h == 0 {
		return 0
	}
	seq.Starts++
	seq.StartedAt = deps.now()
	deps.Log.Info("sequence started",
		zap.String("npc", n.Name),
		zap.Uint64("handle", uint64(h)),
		zap.Duration("talk", req.TalkDuration),
	)
	return h
}

// CancelSequence stops the NPC's run, if any. Reports whether a run was
// cancelled.
func CancelSequence(n world.NPC) bool {
	if n.Sequencer == nil {
		return false
	}
	h := n.Sequencer.Controller.Active()
	if h == 0 {
		return false
	}
	n.Sequencer.Controller.Cancel(h)
	return true
}

// RestartAll restarts every NPC's sequence and returns how many started.
func RestartAll(deps *Deps) int {
	started := 0
	deps.World.Each(func(n world.NPC) {
		if StartSequence(n, deps) != 0 {
			started++
		}
	})
	return started
}
