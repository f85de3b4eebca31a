package postgres

import (
	"time"

	"github.com/lib/pq"
)

type matchTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	PlayedAt      time.Time      `db:"played_at"`
	HomeTeamID    string         `db:"home_team_public_id"`
	HomeTeamName  string         `db:"home_team_name"`
	HomeTeamColor string         `db:"home_team_color"`
	AwayTeamID    string         `db:"away_team_public_id"`
	AwayTeamName  string         `db:"away_team_name"`
	AwayTeamColor string         `db:"away_team_color"`
	HomeScore     int            `db:"home_score"`
	AwayScore     int            `db:"away_score"`
	Events        []byte         `db:"events"`
	HomeLineup    pq.StringArray `db:"home_lineup"`
	AwayLineup    pq.StringArray `db:"away_lineup"`
	StatsApplied  bool           `db:"stats_applied"`
	CreatedAt     time.Time      `db:"created_at"`
}

type matchInsertModel struct {
	PublicID      string         `db:"public_id"`
	PlayedAt      time.Time      `db:"played_at"`
	HomeTeamID    string         `db:"home_team_public_id"`
	HomeTeamName  string         `db:"home_team_name"`
	HomeTeamColor string         `db:"home_team_color"`
	AwayTeamID    string         `db:"away_team_public_id"`
	AwayTeamName  string         `db:"away_team_name"`
	AwayTeamColor string         `db:"away_team_color"`
	HomeScore     int            `db:"home_score"`
	AwayScore     int            `db:"away_score"`
	Events        string         `db:"events"`
	HomeLineup    pq.StringArray `db:"home_lineup"`
	AwayLineup    pq.StringArray `db:"away_lineup"`
	StatsApplied  bool           `db:"stats_applied"`
}

type checkpointTableModel struct {
	Slot    int       `db:"slot"`
	MatchID string    `db:"match_public_id"`
	Payload []byte    `db:"payload"`
	SavedAt time.Time `db:"saved_at"`
}
