package match

import (
	"context"
	"errors"
)

var (
	ErrMatchExists   = errors.New("match already recorded")
	ErrMatchNotFound = errors.New("match not found")
)

// HistoryRepository is the append-only store of finalized matches.
type HistoryRepository interface {
	List(ctx context.Context) ([]FinalizedMatch, error)
	GetByID(ctx context.Context, matchID string) (FinalizedMatch, bool, error)
	Append(ctx context.Context, item FinalizedMatch) error
	MarkStatsApplied(ctx context.Context, matchID string) error
	ListPendingStats(ctx context.Context) ([]FinalizedMatch, error)
	Clear(ctx context.Context) error
}

// CheckpointRepository keeps at most one in-progress match snapshot.
type CheckpointRepository interface {
	Save(ctx context.Context, cp Checkpoint) error
	Get(ctx context.Context) (Checkpoint, bool, error)
	Clear(ctx context.Context) error
}
