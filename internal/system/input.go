package system

import (
	"errors"
	"time"

	"go.uber.org/zap"

	coresys "github.com/vrscene/npcseq/internal/core/system"
	"github.com/vrscene/npcseq/internal/net"
	"github.com/vrscene/npcseq/internal/net/command"
)

// InputSystem drains console command queues and keyboard lines and
// dispatches them through the command registry. Phase 0 (Input).
type InputSystem struct {
	server     *net.Server // nil when the console is disabled
	store      *net.SessionStore
	registry   *command.Registry
	keys       <-chan string // nil without keyboard input
	keyReplier command.Replier
	maxPerTick int
	login      bool // new sessions must log in
	log        *zap.Logger
}

func NewInputSystem(
	server *net.Server,
	store *net.SessionStore,
	registry *command.Registry,
	keys <-chan string,
	keyReplier command.Replier,
	maxPerTick int,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		server:     server,
		store:      store,
		registry:   registry,
		keys:       keys,
		keyReplier: keyReplier,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

// RequireLogin makes every console session log in before other commands.
func (s *InputSystem) RequireLogin() { s.login = true }

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	if s.server != nil {
		s.acceptSessions()
	}

	s.store.ForEach(func(sess *net.Session) {
		s.drain(sess, sess)
		if sess.IsClosed() {
			s.log.Info("console disconnected", zap.Uint64("session", sess.ID))
			s.store.Remove(sess.ID)
			if s.server != nil {
				s.server.NotifyDead(sess.ID)
			}
		}
	})

	if s.keys != nil {
		for i := 0; i < s.maxPerTick; i++ {
			select {
			case line, ok := <-s.keys:
				if !ok {
					s.keys = nil
					return
				}
				s.dispatch(s.keyReplier, line, 0)
			default:
				return
			}
		}
	}
}

func (s *InputSystem) acceptSessions() {
	for {
		select {
		case sess := <-s.server.NewSessions():
			s.store.Add(sess)
			if s.login {
				sess.RequireLogin()
				sess.Send("npcseq console, login required")
			} else {
				sess.Send("npcseq console, type help")
			}
		case id := <-s.server.DeadSessions():
			s.store.Remove(id)
		default:
			return
		}
	}
}

// drain dispatches up to maxPerTick queued lines from one session.
func (s *InputSystem) drain(sess *net.Session, r command.Replier) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case line := <-sess.InQueue:
			s.dispatch(r, line, sess.ID)
		default:
			return
		}
	}
}

func (s *InputSystem) dispatch(r command.Replier, line string, session uint64) {
	err := s.registry.Dispatch(r, line)
	switch {
	case err == nil, errors.Is(err, command.ErrEmpty):
	case errors.Is(err, command.ErrUnknownCommand):
		r.Send(err.Error() + ", type help")
	case errors.Is(err, command.ErrNotAuthorized):
		r.Send(err.Error())
	default:
		s.log.Debug("command dispatch error", zap.Uint64("session", session), zap.Error(err))
		r.Send("error: " + err.Error())
	}
}
