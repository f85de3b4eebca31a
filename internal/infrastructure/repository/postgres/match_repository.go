package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/record"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

// MatchHistoryRepository stores finalized matches with their event list as
// JSONB and the final lineups as text arrays.
type MatchHistoryRepository struct {
	db *sqlx.DB
}

func NewMatchHistoryRepository(db *sqlx.DB) *MatchHistoryRepository {
	return &MatchHistoryRepository{db: db}
}

func (r *MatchHistoryRepository) List(ctx context.Context) ([]match.FinalizedMatch, error) {
	return r.selectMatches(ctx)
}

func (r *MatchHistoryRepository) ListPendingStats(ctx context.Context) ([]match.FinalizedMatch, error) {
	return r.selectMatches(ctx, qb.Eq("stats_applied", false))
}

func (r *MatchHistoryRepository) selectMatches(ctx context.Context, conditions ...qb.Condition) ([]match.FinalizedMatch, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("played_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.FinalizedMatch, 0, len(rows))
	for _, row := range rows {
		item, err := toFinalizedMatch(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchHistoryRepository) GetByID(ctx context.Context, matchID string) (match.FinalizedMatch, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.FinalizedMatch{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.FinalizedMatch{}, false, nil
		}
		return match.FinalizedMatch{}, false, fmt.Errorf("get match by id: %w", err)
	}

	item, err := toFinalizedMatch(row)
	if err != nil {
		return match.FinalizedMatch{}, false, err
	}
	return item, true, nil
}

func (r *MatchHistoryRepository) Append(ctx context.Context, item match.FinalizedMatch) error {
	events, err := record.EncodeEvents(item.Events)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("matches", matchInsertModel{
		PublicID:      item.ID,
		PlayedAt:      item.PlayedAt,
		HomeTeamID:    item.Home.ID,
		HomeTeamName:  item.Home.Name,
		HomeTeamColor: item.Home.Color,
		AwayTeamID:    item.Away.ID,
		AwayTeamName:  item.Away.Name,
		AwayTeamColor: item.Away.Color,
		HomeScore:     item.HomeScore,
		AwayScore:     item.AwayScore,
		Events:        string(events),
		HomeLineup:    pq.StringArray(item.HomeLineup),
		AwayLineup:    pq.StringArray(item.AwayLineup),
		StatsApplied:  item.StatsApplied,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return crerr.Wrapf(match.ErrMatchExists, "insert match=%s", item.ID)
		}
		return fmt.Errorf("insert match=%s: %w", item.ID, err)
	}
	return nil
}

func (r *MatchHistoryRepository) MarkStatsApplied(ctx context.Context, matchID string) error {
	query, args, err := qb.Update("matches").
		Set("stats_applied", true).
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark stats applied query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark stats applied match=%s: %w", matchID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected mark stats applied: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: match=%s", match.ErrMatchNotFound, matchID)
	}
	return nil
}

func (r *MatchHistoryRepository) Clear(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("matches").ToSQL()
	if err != nil {
		return fmt.Errorf("build clear matches query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	return nil
}

func toFinalizedMatch(row matchTableModel) (match.FinalizedMatch, error) {
	events, err := record.DecodeEvents(row.Events)
	if err != nil {
		return match.FinalizedMatch{}, fmt.Errorf("match=%s: %w", row.PublicID, err)
	}
	return match.FinalizedMatch{
		ID:           row.PublicID,
		PlayedAt:     row.PlayedAt,
		Home:         team.TeamSnapshot{ID: row.HomeTeamID, Name: row.HomeTeamName, Color: row.HomeTeamColor},
		Away:         team.TeamSnapshot{ID: row.AwayTeamID, Name: row.AwayTeamName, Color: row.AwayTeamColor},
		HomeScore:    row.HomeScore,
		AwayScore:    row.AwayScore,
		Events:       events,
		HomeLineup:   []string(row.HomeLineup),
		AwayLineup:   []string(row.AwayLineup),
		StatsApplied: row.StatsApplied,
	}, nil
}
