package system

import (
	"time"

	"github.com/vrscene/npcseq/internal/core/ecs"
	coresys "github.com/vrscene/npcseq/internal/core/system"
	"github.com/vrscene/npcseq/internal/world"
)

// SequenceSystem ticks every NPC's sequence controller. Phase 2 (Update),
// registered ahead of LocomotionSystem.
type SequenceSystem struct {
	world *world.State
}

func NewSequenceSystem(ws *world.State) *SequenceSystem {
	return &SequenceSystem{world: ws}
}

func (s *SequenceSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SequenceSystem) Update(dt time.Duration) {
	s.world.Sequencers.Each(func(_ ecs.EntityID, seq *world.Sequencer) {
		seq.Controller.Tick(dt)
	})
}
