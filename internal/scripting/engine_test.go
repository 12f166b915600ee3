package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const hooks = `
function sequence_overrides(ctx)
  if ctx.npc == "waiter" then
    return { talk_duration = ctx.talk_duration / 2, post_talk_pause = 0.25 }
  end
  if ctx.npc == "broken" then
    error("boom")
  end
  return nil
end

function on_phase(npc, from, to)
  if to == "Talking" then
    return npc .. ": welcome"
  end
end
`

func newEngine(t *testing.T, src string, log *zap.Logger) *Engine {
	t.Helper()
	dir := t.TempDir()
	if src != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "sequence.lua"), []byte(src), 0o644))
	}
	// ignored: not a script
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("x = ("), 0o644))
	e, err := NewEngine(dir, log)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

var base = Timing{PreWalkDelay: 3 * time.Second, TalkDuration: 8 * time.Second, PostTalkPause: 2 * time.Second}

func TestSequenceOverrides(t *testing.T) {
	e := newEngine(t, hooks, zap.NewNop())

	got := e.SequenceOverrides(SequenceContext{NPC: "waiter", Starts: 1, Timing: base})
	assert.Equal(t, 3*time.Second, got.PreWalkDelay)
	assert.Equal(t, 4*time.Second, got.TalkDuration)
	assert.Equal(t, 250*time.Millisecond, got.PostTalkPause)

	assert.Equal(t, base, e.SequenceOverrides(SequenceContext{NPC: "chef", Timing: base}))
}

func TestSequenceOverrides_ErrorKeepsTiming(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	e := newEngine(t, hooks, zap.New(core))

	assert.Equal(t, base, e.SequenceOverrides(SequenceContext{NPC: "broken", Timing: base}))
	assert.Equal(t, 1, logs.FilterMessage("lua sequence_overrides error").Len())
}

func TestOnPhase(t *testing.T) {
	e := newEngine(t, hooks, zap.NewNop())
	assert.Equal(t, "waiter: welcome", e.OnPhase("waiter", "Turning", "Talking"))
	assert.Empty(t, e.OnPhase("waiter", "Talking", "Pausing"))
}

func TestNoScripts(t *testing.T) {
	e := newEngine(t, "", zap.NewNop())
	assert.Equal(t, base, e.SequenceOverrides(SequenceContext{NPC: "waiter", Timing: base}))
	assert.Empty(t, e.OnPhase("waiter", "Idle", "Approaching"))
}

func TestMissingDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "none"), zap.NewNop())
	require.NoError(t, err)
	e.Close()
}

func TestBadScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644))
	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}
