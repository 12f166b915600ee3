package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: console + keyboard commands
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: sequencers, then locomotion
	PhasePostUpdate              // 3: animator sync
	PhaseOutput                  // 4: flush console replies
	PhasePersist                 // 5: run journal
	PhaseCleanup                 // 6: despawn queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "Input"
	case PhasePreUpdate:
		return "PreUpdate"
	case PhaseUpdate:
		return "Update"
	case PhasePostUpdate:
		return "PostUpdate"
	case PhaseOutput:
		return "Output"
	case PhasePersist:
		return "Persist"
	case PhaseCleanup:
		return "Cleanup"
	default:
		return "Unknown"
	}
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
