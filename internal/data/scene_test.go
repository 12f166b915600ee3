package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScene = `
viewer: [0, 1.6, -3]
npcs:
  - name: waiter
    position: [2, 0, 4]
    yaw: 180
    destination:
      position: [0, 0, 1]
      yaw: 180
    speed: 1.2
    stopping_distance: 0.3
    path_latency: 2
    clips:
      TurnRight: 1.2s
      TurnLeft: 900ms
    sequence:
      talk_duration: 6s
      return_turn: right
  - name: bystander
    position: [5, 0, 5]
    speed: 1
`

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScene(t *testing.T) {
	s, err := LoadScene(writeScene(t, sampleScene))
	require.NoError(t, err)
	require.Len(t, s.NPCs, 2)

	v, ok := s.ViewerPosition()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 1.6, -3}, v)

	w := s.NPCs[0]
	assert.Equal(t, mgl64.Vec3{2, 0, 4}, w.Spawn())
	pos, yaw, err := w.Target()
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, pos)
	assert.Equal(t, 180.0, yaw)
	assert.Equal(t, 900*time.Millisecond, w.Clips["TurnLeft"])
	require.NotNil(t, w.Sequence.TalkDuration)
	assert.Equal(t, 6*time.Second, *w.Sequence.TalkDuration)
	assert.Nil(t, w.Sequence.PostTalkPause)
	assert.Equal(t, "right", w.Sequence.ReturnTurn)

	_, _, err = s.NPCs[1].Target()
	assert.ErrorIs(t, err, ErrNoDestination)
}

func TestLoadScene_NoViewer(t *testing.T) {
	s, err := LoadScene(writeScene(t, "npcs:\n  - name: a\n    position: [0, 0, 0]\n    speed: 1\n"))
	require.NoError(t, err)
	_, ok := s.ViewerPosition()
	assert.False(t, ok)
}

func TestLoadScene_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short vector", "npcs:\n  - name: a\n    position: [0, 0]\n    speed: 1\n"},
		{"no name", "npcs:\n  - position: [0, 0, 0]\n    speed: 1\n"},
		{"duplicate", "npcs:\n  - {name: a, position: [0, 0, 0], speed: 1}\n  - {name: a, position: [1, 0, 0], speed: 1}\n"},
		{"zero speed", "npcs:\n  - name: a\n    position: [0, 0, 0]\n"},
		{"bad destination", "npcs:\n  - name: a\n    position: [0, 0, 0]\n    speed: 1\n    destination: {position: [1]}\n"},
		{"bad turn", "npcs:\n  - name: a\n    position: [0, 0, 0]\n    speed: 1\n    sequence: {outbound_turn: up}\n"},
		{"bad viewer", "viewer: [1, 2]\nnpcs: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScene(writeScene(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestLoadScene_Missing(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
