package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// RunRecord is one finished sequence run.
type RunRecord struct {
	NPC        string
	Handle     uint64
	Outcome    string // "complete" or "cancelled"
	LastPhase  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is how long the run lasted.
func (r RunRecord) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

const insertRun = `INSERT INTO sequence_runs (npc, handle, outcome, last_phase, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// OutcomeCount is the number of runs per NPC and outcome.
type OutcomeCount struct {
	NPC     string
	Outcome string
	Runs    int64
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// WriteBatch inserts records in a single transaction; either all of them are
// stored or none are.
func (r *JournalRepo) WriteBatch(ctx context.Context, records []RunRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(insertRun, rec.NPC, int64(rec.Handle), rec.Outcome, rec.LastPhase, rec.StartedAt, rec.FinishedAt)
	}
	br := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("journal insert: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("journal batch: %w", err)
	}
	return tx.Commit(ctx)
}

// Counts summarises the journal, used to report history at boot.
func (r *JournalRepo) Counts(ctx context.Context) ([]OutcomeCount, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT npc, outcome, COUNT(*) FROM sequence_runs GROUP BY npc, outcome ORDER BY npc, outcome`)
	if err != nil {
		return nil, fmt.Errorf("journal counts: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutcomeCount, error) {
		var c OutcomeCount
		err := row.Scan(&c.NPC, &c.Outcome, &c.Runs)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("journal counts: %w", err)
	}
	return out, nil
}
