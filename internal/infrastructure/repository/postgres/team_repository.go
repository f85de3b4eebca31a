package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	qb "github.com/riskibarqy/match-tracker/internal/platform/querybuilder"
)

const playerUpsertSuffix = `ON CONFLICT (public_id)
DO UPDATE SET
    team_public_id = EXCLUDED.team_public_id,
    sort_order = EXCLUDED.sort_order,
    name = EXCLUDED.name,
    jersey_number = EXCLUDED.jersey_number,
    position = EXCLUDED.position,
    updated_at = NOW()`

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	if len(rows) == 0 {
		return []team.Team{}, nil
	}

	teamIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		teamIDs = append(teamIDs, row.PublicID)
	}
	playersByTeam, err := r.selectPlayers(ctx, qb.In("team_public_id", teamIDs))
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTeam(row, playersByTeam[row.PublicID]))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	playersByTeam, err := r.selectPlayers(ctx, qb.Eq("team_public_id", teamID))
	if err != nil {
		return team.Team{}, false, err
	}
	return toTeam(row, playersByTeam[teamID]), true, nil
}

func (r *TeamRepository) selectPlayers(ctx context.Context, cond qb.Condition) (map[string][]team.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(cond).
		OrderBy("team_public_id", "sort_order", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make(map[string][]team.Player)
	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], toPlayer(row))
	}
	return out, nil
}

// Upsert writes the team row and its roster in one transaction. Career stats
// of existing players are left to ApplyPlayerStats; only new players are
// inserted with the stats they carry.
func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertTeam(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert team tx: %w", err)
	}
	return nil
}

func upsertTeam(ctx context.Context, tx *sqlx.Tx, item team.Team) error {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		PublicID:  item.ID,
		Name:      item.Name,
		Color:     item.Color,
		BadgeURL:  item.BadgeURL,
		Protected: item.Protected,
	}, `ON CONFLICT (public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    color = EXCLUDED.color,
    badge_url = EXCLUDED.badge_url,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team=%s: %w", item.ID, err)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("players").
		Where(
			qb.Eq("team_public_id", item.ID),
			qb.Expr("NOT (public_id = ANY(?))", pq.StringArray(item.PlayerIDs())),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete removed players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete removed players team=%s: %w", item.ID, err)
	}

	for idx, p := range item.Players {
		playerQuery, playerArgs, err := qb.InsertModel("players", playerInsertModel{
			PublicID:      p.ID,
			TeamID:        item.ID,
			SortOrder:     idx,
			Name:          p.Name,
			JerseyNumber:  p.JerseyNumber,
			Position:      string(p.Position),
			Goals:         p.Stats.Goals,
			Assists:       p.Stats.Assists,
			YellowCards:   p.Stats.YellowCards,
			RedCards:      p.Stats.RedCards,
			Fouls:         p.Stats.Fouls,
			Corners:       p.Stats.Corners,
			ThrowIns:      p.Stats.ThrowIns,
			MatchesPlayed: p.Stats.MatchesPlayed,
		}, playerUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, playerQuery, playerArgs...); err != nil {
			return fmt.Errorf("upsert player=%s team=%s: %w", p.ID, item.ID, err)
		}
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	query, args, err := qb.Select("protected").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build select team protected query: %w", err)
	}

	var protected bool
	if err := r.db.GetContext(ctx, &protected, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: team=%s", team.ErrTeamNotFound, teamID)
		}
		return fmt.Errorf("get team protected flag: %w", err)
	}
	if protected {
		return fmt.Errorf("%w: team=%s", team.ErrProtectedTeam, teamID)
	}

	deleteQuery, deleteArgs, err := qb.Update("teams").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", teamID),
			qb.Eq("protected", false),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete team query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, deleteQuery, deleteArgs...)
	if err != nil {
		return fmt.Errorf("soft delete team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected soft delete team: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: team=%s", team.ErrTeamNotFound, teamID)
	}
	return nil
}

// ApplyPlayerStats records the (match, player) application key and adds the
// delta in a single transaction. A key that already exists means the match
// was applied before and nothing changes.
func (r *TeamRepository) ApplyPlayerStats(ctx context.Context, teamID, playerID string, delta team.StatsDelta) (bool, error) {
	if err := delta.Validate(); err != nil {
		return false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx apply player stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if delta.MatchID != "" {
		keyQuery, keyArgs, err := qb.InsertInto("player_stats_applications").
			Columns("match_public_id", "player_public_id").
			Values(delta.MatchID, playerID).
			Suffix("ON CONFLICT DO NOTHING").
			ToSQL()
		if err != nil {
			return false, fmt.Errorf("build insert stats application query: %w", err)
		}
		result, err := tx.ExecContext(ctx, keyQuery, keyArgs...)
		if err != nil {
			return false, fmt.Errorf("insert stats application match=%s player=%s: %w", delta.MatchID, playerID, err)
		}
		inserted, err := result.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("rows affected insert stats application: %w", err)
		}
		if inserted == 0 {
			return false, nil
		}
	}

	query, args, err := qb.Update("players").
		SetExpr("goals", "goals + ?", delta.Goals).
		SetExpr("assists", "assists + ?", delta.Assists).
		SetExpr("yellow_cards", "yellow_cards + ?", delta.YellowCards).
		SetExpr("red_cards", "red_cards + ?", delta.RedCards).
		SetExpr("fouls", "fouls + ?", delta.Fouls).
		SetExpr("corners", "corners + ?", delta.Corners).
		SetExpr("throw_ins", "throw_ins + ?", delta.ThrowIns).
		SetExpr("matches_played", "matches_played + ?", delta.MatchesPlayed).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", playerID),
			qb.Eq("team_public_id", teamID),
			qb.Expr("EXISTS (SELECT 1 FROM teams t WHERE t.public_id = players.team_public_id AND t.deleted_at IS NULL)"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build apply player stats query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("apply player stats team=%s player=%s: %w", teamID, playerID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected apply player stats: %w", err)
	}
	if affected == 0 {
		return false, r.missingPlayerError(ctx, tx, teamID, playerID)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit apply player stats tx: %w", err)
	}
	return true, nil
}

func (r *TeamRepository) missingPlayerError(ctx context.Context, tx *sqlx.Tx, teamID, playerID string) error {
	query, args, err := qb.Select("COUNT(1)").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build count team query: %w", err)
	}

	var count int
	if err := tx.GetContext(ctx, &count, query, args...); err != nil {
		return fmt.Errorf("count team: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: team=%s", team.ErrTeamNotFound, teamID)
	}
	return fmt.Errorf("%w: team=%s player=%s", team.ErrPlayerNotFound, teamID, playerID)
}

// Reset drops every roster, stats application key and soft-deleted team,
// then writes seed.
func (r *TeamRepository) Reset(ctx context.Context, seed []team.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx reset teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"player_stats_applications", "players", "teams"} {
		query, args, err := qb.DeleteFrom(table).ToSQL()
		if err != nil {
			return fmt.Errorf("build clear %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, item := range seed {
		if err := upsertTeam(ctx, tx, item); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset teams tx: %w", err)
	}
	return nil
}

func toTeam(row teamTableModel, players []team.Player) team.Team {
	if players == nil {
		players = []team.Player{}
	}
	return team.Team{
		ID:        row.PublicID,
		Name:      row.Name,
		Color:     row.Color,
		BadgeURL:  row.BadgeURL,
		Players:   players,
		Protected: row.Protected,
	}
}

func toPlayer(row playerTableModel) team.Player {
	position, err := team.ParsePosition(row.Position)
	if err != nil {
		position = team.Position(row.Position)
	}
	return team.Player{
		ID:           row.PublicID,
		Name:         row.Name,
		JerseyNumber: row.JerseyNumber,
		Position:     position,
		Stats: team.CareerStats{
			Goals:         row.Goals,
			Assists:       row.Assists,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
			Fouls:         row.Fouls,
			Corners:       row.Corners,
			ThrowIns:      row.ThrowIns,
			MatchesPlayed: row.MatchesPlayed,
		},
	}
}
