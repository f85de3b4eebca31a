package team

import "context"

// Repository is the roster store. ApplyPlayerStats performs one additive
// read-modify-write per call and reports false when the delta's MatchID was
// already applied to that player.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Upsert(ctx context.Context, item Team) error
	Delete(ctx context.Context, teamID string) error
	ApplyPlayerStats(ctx context.Context, teamID, playerID string, delta StatsDelta) (bool, error)
	Reset(ctx context.Context, seed []Team) error
}
