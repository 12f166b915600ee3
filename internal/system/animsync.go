package system

import (
	"time"

	"github.com/vrscene/npcseq/internal/animsync"
	"github.com/vrscene/npcseq/internal/core/ecs"
	coresys "github.com/vrscene/npcseq/internal/core/system"
	"github.com/vrscene/npcseq/internal/world"
)

// AnimSyncSystem keeps walk animation and body facing in step with the
// agents. Phase 3 (PostUpdate).
type AnimSyncSystem struct {
	world    *world.State
	settings animsync.Settings
}

func NewAnimSyncSystem(ws *world.State, settings animsync.Settings) *AnimSyncSystem {
	return &AnimSyncSystem{world: ws, settings: settings}
}

func (s *AnimSyncSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *AnimSyncSystem) Update(dt time.Duration) {
	ecs.Each2(s.world.Agents, s.world.Transforms, func(id ecs.EntityID, a *world.Agent, tr *world.Transform) {
		var flags animsync.Flags
		if anim, ok := s.world.Animators.Get(id); ok {
			flags = anim
		}
		animsync.Update(a, tr, flags, s.settings, dt)
	})
}
