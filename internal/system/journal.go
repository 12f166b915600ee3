package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vrscene/npcseq/internal/core/event"
	coresys "github.com/vrscene/npcseq/internal/core/system"
	"github.com/vrscene/npcseq/internal/persist"
)

// RunWriter stores finished runs.
type RunWriter interface {
	WriteBatch(ctx context.Context, records []persist.RunRecord) error
}

// maxBufferedRuns caps the journal buffer while the database is unreachable.
const maxBufferedRuns = 1024

// JournalSystem records finished sequence runs and writes them out every
// interval ticks. Phase 5 (Persist).
type JournalSystem struct {
	writer    RunWriter
	buf       []persist.RunRecord
	interval  int
	tickCount int
	timeout   time.Duration
	log       *zap.Logger
}

func NewJournalSystem(bus *event.Bus, writer RunWriter, intervalTicks int, log *zap.Logger) *JournalSystem {
	s := &JournalSystem{
		writer:   writer,
		interval: intervalTicks,
		timeout:  3 * time.Second,
		log:      log,
	}
	event.Subscribe(bus, s.record)
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.Flush(ctx)
}

// Pending returns how many runs are waiting to be written.
func (s *JournalSystem) Pending() int { return len(s.buf) }

// Flush writes every buffered run. On failure the runs stay buffered for the
// next attempt. Also called once at shutdown.
func (s *JournalSystem) Flush(ctx context.Context) {
	if len(s.buf) == 0 {
		return
	}
	if err := s.writer.WriteBatch(ctx, s.buf); err != nil {
		s.log.Error("journal write failed", zap.Int("runs", len(s.buf)), zap.Error(err))
		return
	}
	s.log.Debug("journal written", zap.Int("runs", len(s.buf)))
	s.buf = s.buf[:0]
}

func (s *JournalSystem) record(e event.RunFinished) {
	if len(s.buf) >= maxBufferedRuns {
		s.log.Warn("journal buffer full, dropping oldest run", zap.String("npc", s.buf[0].NPC))
		s.buf = append(s.buf[:0], s.buf[1:]...)
	}
	s.buf = append(s.buf, persist.RunRecord{
		NPC:        e.NPC,
		Handle:     uint64(e.Handle),
		Outcome:    e.Outcome,
		LastPhase:  e.LastPhase.String(),
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
	})
}
