package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsFillMissing(t *testing.T) {
	cfg, err := Parse([]byte(`
[sequence]
talk_duration = "5s"

[logging]
format = "json"
`), "inline")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Sequence.TalkDuration)
	assert.Equal(t, 3*time.Second, cfg.Sequence.PreWalkDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 2.0, cfg.Sequence.FaceViewerWithin)
	assert.Equal(t, 120.0, cfg.Sequence.FaceViewerSpeed)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Database.DSN)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"zero tick", "[simulation]\ntick_rate = \"0s\"", "tick_rate"},
		{"negative pause", "[sequence]\npost_talk_pause = \"-1s\"", "post_talk_pause"},
		{"turn speed", "[sequence]\nturn_speed = 0.0", "turn_speed"},
		{"flush", "[database]\ndsn = \"postgres://x\"\nflush_interval = 0", "flush_interval"},
		{"format", "[logging]\nformat = \"xml\"", "logging.format"},
		{"syntax", "[sequence", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml), "inline")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "npcseq.toml")
	require.NoError(t, os.WriteFile(path, []byte("[console]\nenabled = false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Console.Enabled)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestPath_Env(t *testing.T) {
	t.Setenv(EnvPath, "/etc/npcseq.toml")
	assert.Equal(t, "/etc/npcseq.toml", Path())

	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())
}
