package handler

import (
	"fmt"
	"strings"

	"github.com/vrscene/npcseq/internal/net/command"
	"github.com/vrscene/npcseq/internal/world"
)

// targets resolves "all", no argument, or an NPC name.
func targets(r command.Replier, args []string, deps *Deps) ([]world.NPC, bool) {
	if len(args) == 0 || strings.EqualFold(args[0], "all") {
		var out []world.NPC
		deps.World.Each(func(n world.NPC) { out = append(out, n) })
		return out, true
	}
	n, ok := deps.World.Lookup(args[0])
	if !ok {
		r.Send(fmt.Sprintf("unknown npc %q", args[0]))
		return nil, false
	}
	return []world.NPC{n}, true
}

func HandleRestart(r command.Replier, args []string, deps *Deps) {
	npcs, ok := targets(r, args, deps)
	if !ok {
		return
	}
	for _, n := range npcs {
		if h := StartSequence(n, deps); h != 0 {
			r.Send(fmt.Sprintf("%s: started run %d", n.Name, h))
		} else {
			r.Send(fmt.Sprintf("%s: not started (no destination)", n.Name))
		}
	}
}

func HandleCancel(r command.Replier, args []string, deps *Deps) {
	npcs, ok := targets(r, args, deps)
	if !ok {
		return
	}
	for _, n := range npcs {
		if CancelSequence(n) {
			r.Send(fmt.Sprintf("%s: cancelled", n.Name))
		} else {
			r.Send(fmt.Sprintf("%s: idle", n.Name))
		}
	}
}

func HandleStatus(r command.Replier, args []string, deps *Deps) {
	npcs, ok := targets(r, args, deps)
	if !ok {
		return
	}
	if len(npcs) == 0 {
		r.Send("no npcs")
		return
	}
	for _, n := range npcs {
		r.Send(StatusLine(n))
	}
}

// StatusLine renders one NPC for the console.
func StatusLine(n world.NPC) string {
	var b strings.Builder
	b.WriteString(n.Name)
	if n.Sequencer != nil {
		c := n.Sequencer.Controller
		fmt.Fprintf(&b, "  phase=%s run=%d", c.CurrentPhase(), c.Active())
	}
	if n.Agent != nil {
		p := n.Agent.Position()
		fmt.Fprintf(&b, "  pos=(%.2f, %.2f, %.2f)", p[0], p[1], p[2])
	}
	if n.Transform != nil {
		fmt.Fprintf(&b, "  yaw=%.1f", n.Transform.Yaw())
	}
	if n.Animator != nil {
		if flags := n.Animator.Active(); len(flags) > 0 {
			fmt.Fprintf(&b, "  flags=%s", strings.Join(flags, ","))
		}
	}
	return b.String()
}

func HandleDespawn(r command.Replier, args []string, deps *Deps) {
	if len(args) != 1 {
		r.Send("usage: despawn <npc>")
		return
	}
	n, ok := deps.World.Lookup(args[0])
	if !ok {
		r.Send(fmt.Sprintf("unknown npc %q", args[0]))
		return
	}
	CancelSequence(n)
	if err := deps.World.Despawn(n.Name); err != nil {
		r.Send(err.Error())
		return
	}
	r.Send(fmt.Sprintf("%s: despawning", n.Name))
}
