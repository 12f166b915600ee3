package handler

import (
	"time"

	"go.uber.org/zap"

	"github.com/vrscene/npcseq/internal/config"
	"github.com/vrscene/npcseq/internal/core/event"
	"github.com/vrscene/npcseq/internal/net/command"
	"github.com/vrscene/npcseq/internal/scripting"
	"github.com/vrscene/npcseq/internal/world"
)

// Deps holds shared dependencies injected into all console handlers and the
// scene setup.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.State
	Bus       *event.Bus
	Scripting *scripting.Engine // nil: no script hooks
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// RegisterAll registers every console command.
func RegisterAll(reg *command.Registry, deps *Deps) {
	reg.Register("restart", "restart [npc|all]  start the sequence again", func(r command.Replier, args []string) {
		HandleRestart(r, args, deps)
	})
	reg.Register("r", "r  restart every NPC", func(r command.Replier, _ []string) {
		HandleRestart(r, nil, deps)
	})
	reg.Register("cancel", "cancel [npc|all]  stop and return to idle", func(r command.Replier, args []string) {
		HandleCancel(r, args, deps)
	})
	reg.Register("status", "status [npc]  show phase and position", func(r command.Replier, args []string) {
		HandleStatus(r, args, deps)
	})
	reg.Register("despawn", "despawn <npc>  remove an NPC from the scene", func(r command.Replier, args []string) {
		HandleDespawn(r, args, deps)
	})
	reg.RegisterOpen("login", "login <password>  unlock the console", func(r command.Replier, args []string) {
		HandleLogin(r, args, deps)
	})
	reg.RegisterOpen("help", "help  list commands", func(r command.Replier, _ []string) {
		for _, line := range reg.Usage() {
			r.Send(line)
		}
	})
}

// LogReplier routes replies to the log, used for keyboard input.
type LogReplier struct {
	Log *zap.Logger
}

func (l LogReplier) Send(line string) {
	l.Log.Info(line)
}
