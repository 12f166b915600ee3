package system

import (
	"time"

	"github.com/vrscene/npcseq/internal/core/ecs"
	coresys "github.com/vrscene/npcseq/internal/core/system"
	"github.com/vrscene/npcseq/internal/world"
)

// LocomotionSystem moves every agent along its path. Phase 2 (Update).
type LocomotionSystem struct {
	world *world.State
}

func NewLocomotionSystem(ws *world.State) *LocomotionSystem {
	return &LocomotionSystem{world: ws}
}

func (s *LocomotionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LocomotionSystem) Update(dt time.Duration) {
	s.world.Agents.Each(func(_ ecs.EntityID, a *world.Agent) {
		a.Advance(dt)
	})
}
