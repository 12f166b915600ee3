package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/vrscene/npcseq/internal/core/system"
	"github.com/vrscene/npcseq/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	world *world.State
	log   *zap.Logger
}

func NewCleanupSystem(ws *world.State, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: ws, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if s.world.ECS.PendingDestruction() == 0 {
		return
	}
	for _, id := range s.world.ECS.FlushDestroyQueue() {
		s.log.Info("npc despawned", zap.Uint64("entity", uint64(id)))
	}
}
