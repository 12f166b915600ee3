package world

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vrscene/npcseq/internal/core/ecs"
	"github.com/vrscene/npcseq/internal/sequence"
)

var (
	ErrDuplicateNPC = errors.New("duplicate npc name")
	ErrUnknownNPC   = errors.New("unknown npc")
)

// Identity names an NPC entity.
type Identity struct {
	Name string
}

// Sequencer attaches a walk/talk controller and its base request to an NPC.
type Sequencer struct {
	Controller *sequence.Controller
	Base       sequence.Request
	StartedAt  time.Time // start of the current run
	Starts     int       // accepted Start calls so far
}

// NPC is a read view over one entity's components.
type NPC struct {
	ID        ecs.EntityID
	Name      string
	Agent     *Agent
	Transform *Transform
	Animator  *Animator
	Sequencer *Sequencer
}

// State tracks every NPC in the scene.
// Single-goroutine access only (game loop).
type State struct {
	ECS        *ecs.World
	Names      *ecs.Store[Identity]
	Agents     *ecs.Store[Agent]
	Transforms *ecs.Store[Transform]
	Animators  *ecs.Store[Animator]
	Sequencers *ecs.Store[Sequencer]

	byName nameIndex
}

// nameIndex maps NPC names to entities and forgets destroyed ones.
type nameIndex map[string]ecs.EntityID

func (n nameIndex) Remove(id ecs.EntityID) {
	for name, e := range n {
		if e == id {
			delete(n, name)
		}
	}
}

func NewState() *State {
	s := &State{
		ECS:        ecs.NewWorld(),
		Names:      ecs.NewStore[Identity](),
		Agents:     ecs.NewStore[Agent](),
		Transforms: ecs.NewStore[Transform](),
		Animators:  ecs.NewStore[Animator](),
		Sequencers: ecs.NewStore[Sequencer](),
		byName:     make(nameIndex),
	}
	s.ECS.Register(s.Names, s.Agents, s.Transforms, s.Animators, s.Sequencers, s.byName)
	return s
}

// Spawn creates an NPC entity with its movement, facing and animator.
func (s *State) Spawn(name string, agent *Agent, tr *Transform, anim *Animator) (ecs.EntityID, error) {
	if _, ok := s.byName[name]; ok {
		return 0, fmt.Errorf("spawn %q: %w", name, ErrDuplicateNPC)
	}
	id := s.ECS.CreateEntity()
	s.Names.Set(id, &Identity{Name: name})
	s.Agents.Set(id, agent)
	s.Transforms.Set(id, tr)
	s.Animators.Set(id, anim)
	s.byName[name] = id
	return id, nil
}

// AttachSequencer gives an NPC its controller.
func (s *State) AttachSequencer(id ecs.EntityID, seq *Sequencer) {
	s.Sequencers.Set(id, seq)
}

// Despawn queues the named NPC for removal at the end of the tick.
func (s *State) Despawn(name string) error {
	id, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("despawn %q: %w", name, ErrUnknownNPC)
	}
	s.ECS.MarkForDestruction(id)
	return nil
}

// Lookup returns the NPC with the given name.
func (s *State) Lookup(name string) (NPC, bool) {
	id, ok := s.byName[name]
	if !ok {
		return NPC{}, false
	}
	return s.Get(id)
}

// Get assembles the view of one entity.
func (s *State) Get(id ecs.EntityID) (NPC, bool) {
	ident, ok := s.Names.Get(id)
	if !ok {
		return NPC{}, false
	}
	n := NPC{ID: id, Name: ident.Name}
	n.Agent, _ = s.Agents.Get(id)
	n.Transform, _ = s.Transforms.Get(id)
	n.Animator, _ = s.Animators.Get(id)
	n.Sequencer, _ = s.Sequencers.Get(id)
	return n, true
}

// Each visits every NPC in spawn order.
func (s *State) Each(fn func(NPC)) {
	for _, id := range s.Names.IDs() {
		if n, ok := s.Get(id); ok {
			fn(n)
		}
	}
}

// NameList returns all NPC names, sorted.
func (s *State) NameList() []string {
	out := make([]string, 0, len(s.byName))
	for name := range s.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *State) Count() int { return s.Names.Len() }
