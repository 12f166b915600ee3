package data

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoDestination is returned for an NPC whose scene entry has no
	// destination. Such an NPC is still spawned; its sequence never starts.
	ErrNoDestination = errors.New("npc has no destination")
	ErrInvalidScene  = errors.New("invalid scene")
)

// Vec is a position written as a [x, y, z] list.
type Vec []float64

func (v Vec) Vec3() (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: vector needs 3 components, got %d", ErrInvalidScene, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

// WaypointDef is a position plus a heading in degrees.
type WaypointDef struct {
	Position Vec     `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`
}

// SequenceOverrides are per-NPC changes to the configured sequence
// defaults. Nil fields keep the default.
type SequenceOverrides struct {
	PreWalkDelay     *time.Duration `yaml:"pre_walk_delay"`
	TalkDuration     *time.Duration `yaml:"talk_duration"`
	PostTalkPause    *time.Duration `yaml:"post_talk_pause"`
	TurnSpeed        *float64       `yaml:"turn_speed"`
	FaceViewerWithin *float64       `yaml:"face_viewer_within"`
	OutboundTurn     string         `yaml:"outbound_turn"` // "left" or "right"
	ReturnTurn       string         `yaml:"return_turn"`
	OutboundClip     string         `yaml:"outbound_clip"`
	ReturnClip       string         `yaml:"return_clip"`
}

// NPCDef is one NPC of the scene.
type NPCDef struct {
	Name             string                   `yaml:"name"`
	Position         Vec                      `yaml:"position"`
	Yaw              float64                  `yaml:"yaw"`
	Destination      *WaypointDef             `yaml:"destination"`
	Speed            float64                  `yaml:"speed"`
	StoppingDistance float64                  `yaml:"stopping_distance"`
	PathLatency      int                      `yaml:"path_latency"` // ticks
	Clips            map[string]time.Duration `yaml:"clips"`
	Sequence         SequenceOverrides        `yaml:"sequence"`
}

// Spawn returns the NPC's starting position.
func (n *NPCDef) Spawn() mgl64.Vec3 {
	p, _ := n.Position.Vec3()
	return p
}

// Target returns the destination position and yaw.
func (n *NPCDef) Target() (mgl64.Vec3, float64, error) {
	if n.Destination == nil {
		return mgl64.Vec3{}, 0, fmt.Errorf("npc %q: %w", n.Name, ErrNoDestination)
	}
	p, err := n.Destination.Position.Vec3()
	if err != nil {
		return mgl64.Vec3{}, 0, fmt.Errorf("npc %q destination: %w", n.Name, err)
	}
	return p, n.Destination.Yaw, nil
}

// Scene is the content of a scene file.
type Scene struct {
	Viewer Vec      `yaml:"viewer"` // omit for no viewer
	NPCs   []NPCDef `yaml:"npcs"`
}

// ViewerPosition returns the viewer location, if the scene has one.
func (s *Scene) ViewerPosition() (mgl64.Vec3, bool) {
	if len(s.Viewer) == 0 {
		return mgl64.Vec3{}, false
	}
	p, _ := s.Viewer.Vec3()
	return p, true
}

// LoadScene reads and validates a scene file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if len(s.Viewer) > 0 {
		if _, err := s.Viewer.Vec3(); err != nil {
			return fmt.Errorf("viewer: %w", err)
		}
	}
	seen := make(map[string]bool, len(s.NPCs))
	for i := range s.NPCs {
		n := &s.NPCs[i]
		if n.Name == "" {
			return fmt.Errorf("%w: npc #%d has no name", ErrInvalidScene, i)
		}
		if seen[n.Name] {
			return fmt.Errorf("%w: duplicate npc %q", ErrInvalidScene, n.Name)
		}
		seen[n.Name] = true
		if _, err := n.Position.Vec3(); err != nil {
			return fmt.Errorf("npc %q position: %w", n.Name, err)
		}
		if _, _, err := n.Target(); err != nil && !errors.Is(err, ErrNoDestination) {
			return err
		}
		if n.Speed <= 0 {
			return fmt.Errorf("%w: npc %q speed must be positive", ErrInvalidScene, n.Name)
		}
		if n.PathLatency < 0 || n.StoppingDistance < 0 {
			return fmt.Errorf("%w: npc %q has negative path latency or stopping distance", ErrInvalidScene, n.Name)
		}
		for _, dir := range []string{n.Sequence.OutboundTurn, n.Sequence.ReturnTurn} {
			if dir != "" && dir != "left" && dir != "right" {
				return fmt.Errorf("%w: npc %q turn %q: want left or right", ErrInvalidScene, n.Name, dir)
			}
		}
	}
	return nil
}
