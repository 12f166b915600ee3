package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the scene's sequence hooks.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir. A
// missing directory yields an engine with no hooks.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Timing is the part of a sequence request scripts may retune.
type Timing struct {
	PreWalkDelay  time.Duration
	TalkDuration  time.Duration
	PostTalkPause time.Duration
}

// SequenceContext is passed to sequence_overrides.
type SequenceContext struct {
	NPC    string
	Starts int // how many times this NPC has started, including this one
	Timing Timing
}

// SequenceOverrides calls Lua sequence_overrides(ctx). The returned table may
// set pre_walk_delay, talk_duration and post_talk_pause in seconds; missing
// keys, a missing function or a script error keep ctx.Timing.
func (e *Engine) SequenceOverrides(ctx SequenceContext) Timing {
	out := ctx.Timing
	fn := e.vm.GetGlobal("sequence_overrides")
	if fn == lua.LNil {
		return out
	}

	t := e.vm.NewTable()
	t.RawSetString("npc", lua.LString(ctx.NPC))
	t.RawSetString("starts", lua.LNumber(ctx.Starts))
	t.RawSetString("pre_walk_delay", seconds(ctx.Timing.PreWalkDelay))
	t.RawSetString("talk_duration", seconds(ctx.Timing.TalkDuration))
	t.RawSetString("post_talk_pause", seconds(ctx.Timing.PostTalkPause))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua sequence_overrides error", zap.Error(err), zap.String("npc", ctx.NPC))
		return out
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return out
	}
	lDuration(rt, "pre_walk_delay", &out.PreWalkDelay)
	lDuration(rt, "talk_duration", &out.TalkDuration)
	lDuration(rt, "post_talk_pause", &out.PostTalkPause)
	return out
}

// OnPhase calls Lua on_phase(npc, from, to) and returns the line it produced,
// or "" when there is nothing to say.
func (e *Engine) OnPhase(npc, from, to string) string {
	fn := e.vm.GetGlobal("on_phase")
	if fn == lua.LNil {
		return ""
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(npc), lua.LString(from), lua.LString(to)); err != nil {
		e.log.Error("lua on_phase error", zap.Error(err), zap.String("npc", npc))
		return ""
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if s, ok := result.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func seconds(d time.Duration) lua.LNumber { return lua.LNumber(d.Seconds()) }

// lDuration reads a non-negative number of seconds from a table key.
func lDuration(t *lua.LTable, key string, dst *time.Duration) {
	n, ok := t.RawGetString(key).(lua.LNumber)
	if !ok || n < 0 {
		return
	}
	*dst = time.Duration(float64(n) * float64(time.Second))
}

func (e *Engine) Close() {
	e.vm.Close()
}
