package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/record"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

const checkpointSlot = 1

// CheckpointRepository keeps the live match snapshot in a single-row table.
type CheckpointRepository struct {
	db *sqlx.DB
}

func NewCheckpointRepository(db *sqlx.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

func (r *CheckpointRepository) Save(ctx context.Context, cp match.Checkpoint) error {
	payload, err := record.EncodeCheckpoint(cp)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("match_checkpoints").
		Columns("slot", "match_public_id", "payload", "saved_at").
		Values(checkpointSlot, cp.MatchID, string(payload), cp.SavedAt).
		Suffix(`ON CONFLICT (slot)
DO UPDATE SET
    match_public_id = EXCLUDED.match_public_id,
    payload = EXCLUDED.payload,
    saved_at = EXCLUDED.saved_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert checkpoint query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert checkpoint match=%s: %w", cp.MatchID, err)
	}
	return nil
}

func (r *CheckpointRepository) Get(ctx context.Context) (match.Checkpoint, bool, error) {
	query, args, err := qb.Select("*").From("match_checkpoints").
		Where(qb.Eq("slot", checkpointSlot)).
		ToSQL()
	if err != nil {
		return match.Checkpoint{}, false, fmt.Errorf("build select checkpoint query: %w", err)
	}

	var row checkpointTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Checkpoint{}, false, nil
		}
		return match.Checkpoint{}, false, fmt.Errorf("get checkpoint: %w", err)
	}

	cp, err := record.DecodeCheckpoint(row.Payload)
	if err != nil {
		return match.Checkpoint{}, false, fmt.Errorf("match=%s: %w", row.MatchID, err)
	}
	return cp, true, nil
}

func (r *CheckpointRepository) Clear(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("match_checkpoints").ToSQL()
	if err != nil {
		return fmt.Errorf("build clear checkpoint query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}
