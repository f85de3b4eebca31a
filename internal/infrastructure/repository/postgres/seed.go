package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

// BootstrapSeed writes the seed rosters when no team has ever been stored.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seed []team.Team) error {
	query, args, err := qb.Select("COUNT(1)").From("teams").ToSQL()
	if err != nil {
		return fmt.Errorf("build count teams query: %w", err)
	}

	var count int
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range seed {
		if err := upsertTeam(ctx, tx, item); err != nil {
			return fmt.Errorf("seed team %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
