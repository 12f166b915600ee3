package sequence

import "fmt"

// Phase is the step of the walk/talk sequence an NPC is currently in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseApproaching
	PhaseAwaitingArrival
	PhaseTurning
	PhaseTalking
	PhasePausing
	PhaseReturning
	PhaseAwaitingReturnArrival
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseApproaching:
		return "Approaching"
	case PhaseAwaitingArrival:
		return "AwaitingArrival"
	case PhaseTurning:
		return "Turning"
	case PhaseTalking:
		return "Talking"
	case PhasePausing:
		return "Pausing"
	case PhaseReturning:
		return "Returning"
	case PhaseAwaitingReturnArrival:
		return "AwaitingReturnArrival"
	case PhaseComplete:
		return "Complete"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// Animator parameter names driven by the sequencer and the animation sync.
const (
	FlagWalking      = "isWalking"
	FlagTurningLeft  = "isTurningLeft"
	FlagTurningRight = "isTurningRight"
	FlagTalking      = "isTalking"
)

// AllFlags lists every flag cleared on reset.
var AllFlags = []string{FlagWalking, FlagTurningRight, FlagTurningLeft, FlagTalking}
