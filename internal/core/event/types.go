package event

import (
	"time"

	"github.com/vrscene/npcseq/internal/core/ecs"
	"github.com/vrscene/npcseq/internal/sequence"
)

// PhaseChanged is emitted for every sequence phase transition.
type PhaseChanged struct {
	Entity ecs.EntityID
	NPC    string
	Handle sequence.Handle
	From   sequence.Phase
	To     sequence.Phase
	At     time.Time
}

// Run outcomes.
const (
	OutcomeComplete  = "complete"
	OutcomeCancelled = "cancelled"
)

// RunFinished is emitted when a run completes or is cancelled (including
// being replaced by a restart).
type RunFinished struct {
	NPC        string
	Handle     sequence.Handle
	Outcome    string
	LastPhase  sequence.Phase
	StartedAt  time.Time
	FinishedAt time.Time
}
