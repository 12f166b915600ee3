package system

import (
	"go.uber.org/zap"

	"github.com/vrscene/npcseq/internal/core/event"
	"github.com/vrscene/npcseq/internal/scripting"
)

// PhaseHook is the script callback run for every phase change.
type PhaseHook interface {
	OnPhase(npc, from, to string) string
}

var _ PhaseHook = (*scripting.Engine)(nil)

// SubscribeDialogue logs phase changes and whatever line the script hook
// returns for them.
func SubscribeDialogue(bus *event.Bus, hook PhaseHook, log *zap.Logger) {
	event.Subscribe(bus, func(e event.PhaseChanged) {
		log.Debug("phase",
			zap.String("npc", e.NPC),
			zap.Uint64("handle", uint64(e.Handle)),
			zap.Stringer("from", e.From),
			zap.Stringer("to", e.To),
		)
		if hook == nil {
			return
		}
		if line := hook.OnPhase(e.NPC, e.From.String(), e.To.String()); line != "" {
			log.Info("npc says", zap.String("npc", e.NPC), zap.String("line", line))
		}
	})
}
