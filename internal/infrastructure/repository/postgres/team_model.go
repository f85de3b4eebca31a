package postgres

import "time"

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Color     string     `db:"color"`
	BadgeURL  string     `db:"badge_url"`
	Protected bool       `db:"protected"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID  string `db:"public_id"`
	Name      string `db:"name"`
	Color     string `db:"color"`
	BadgeURL  string `db:"badge_url"`
	Protected bool   `db:"protected"`
}

type playerTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	TeamID        string    `db:"team_public_id"`
	SortOrder     int       `db:"sort_order"`
	Name          string    `db:"name"`
	JerseyNumber  int       `db:"jersey_number"`
	Position      string    `db:"position"`
	Goals         int       `db:"goals"`
	Assists       int       `db:"assists"`
	YellowCards   int       `db:"yellow_cards"`
	RedCards      int       `db:"red_cards"`
	Fouls         int       `db:"fouls"`
	Corners       int       `db:"corners"`
	ThrowIns      int       `db:"throw_ins"`
	MatchesPlayed int       `db:"matches_played"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	PublicID      string `db:"public_id"`
	TeamID        string `db:"team_public_id"`
	SortOrder     int    `db:"sort_order"`
	Name          string `db:"name"`
	JerseyNumber  int    `db:"jersey_number"`
	Position      string `db:"position"`
	Goals         int    `db:"goals"`
	Assists       int    `db:"assists"`
	YellowCards   int    `db:"yellow_cards"`
	RedCards      int    `db:"red_cards"`
	Fouls         int    `db:"fouls"`
	Corners       int    `db:"corners"`
	ThrowIns      int    `db:"throw_ins"`
	MatchesPlayed int    `db:"matches_played"`
}
