package httpapi

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/domain/teamstats"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

type savePlayerRequest struct {
	ID           string `json:"id" validate:"omitempty,max=64"`
	Name         string `json:"name" validate:"required,max=100"`
	JerseyNumber int    `json:"jersey_number" validate:"required,min=1,max=99"`
	Position     string `json:"position" validate:"required,max=8"`
}

type saveTeamRequest struct {
	Name     string              `json:"name" validate:"required,max=100"`
	Color    string              `json:"color" validate:"required,hexcolor"`
	BadgeURL string              `json:"badge_url" validate:"omitempty,url"`
	Players  []savePlayerRequest `json:"players" validate:"required,min=11,max=25,dive"`
}

type startMatchRequest struct {
	HomeTeamID string   `json:"home_team_id" validate:"required"`
	AwayTeamID string   `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	HomeLineup []string `json:"home_lineup" validate:"omitempty,max=11,dive,required"`
	AwayLineup []string `json:"away_lineup" validate:"omitempty,max=11,dive,required"`
}

type recordEventRequest struct {
	TeamID          string `json:"team_id" validate:"required"`
	PlayerID        string `json:"player_id" validate:"required"`
	Type            string `json:"type" validate:"required,oneof=goal assist yellowCard redCard substitution foul corner throwIn"`
	Minute          *int   `json:"minute" validate:"omitempty,min=0,max=200"`
	RelatedPlayerID string `json:"related_player_id"`
}

type clockRequest struct {
	Delta int `json:"delta" validate:"min=-30,max=30"`
}

type careerStatsDTO struct {
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
	Fouls         int `json:"fouls"`
	Corners       int `json:"corners"`
	ThrowIns      int `json:"throw_ins"`
	MatchesPlayed int `json:"matches_played"`
}

type playerDTO struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	JerseyNumber int            `json:"jersey_number"`
	Position     string         `json:"position"`
	Stats        careerStatsDTO `json:"stats"`
}

type teamDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Color     string      `json:"color"`
	BadgeURL  string      `json:"badge_url,omitempty"`
	Protected bool        `json:"protected"`
	Players   []playerDTO `json:"players"`
}

type teamSnapshotDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type teamStatsDTO struct {
	MatchesPlayed  int `json:"matches_played"`
	Wins           int `json:"wins"`
	Draws          int `json:"draws"`
	Losses         int `json:"losses"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`
	Fouls          int `json:"fouls"`
	Corners        int `json:"corners"`
	ThrowIns       int `json:"throw_ins"`
}

type teamStatsViewDTO struct {
	Team  teamSnapshotDTO `json:"team"`
	Stats teamStatsDTO    `json:"stats"`
}

type standingRowDTO struct {
	Position int             `json:"position"`
	Team     teamSnapshotDTO `json:"team"`
	Stats    teamStatsDTO    `json:"stats"`
}

type defaultLineupDTO struct {
	TeamID    string   `json:"team_id"`
	PlayerIDs []string `json:"player_ids"`
}

type eventDTO struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	TeamID          string `json:"team_id"`
	PlayerID        string `json:"player_id"`
	RelatedPlayerID string `json:"related_player_id,omitempty"`
	Minute          int    `json:"minute"`
	Half            int    `json:"half,omitempty"`
	ClockLabel      string `json:"clock_label,omitempty"`
	IsDoubleYellow  bool   `json:"is_double_yellow,omitempty"`
}

type countersDTO struct {
	Fouls    int `json:"fouls"`
	Corners  int `json:"corners"`
	ThrowIns int `json:"throw_ins"`
}

type liveSideDTO struct {
	Team     teamSnapshotDTO `json:"team"`
	Score    int             `json:"score"`
	Lineup   []string        `json:"lineup"`
	Bench    []string        `json:"bench"`
	Expelled []string        `json:"expelled"`
	Counters countersDTO     `json:"counters"`
}

type clockDTO struct {
	Half       int    `json:"half"`
	Minute     int    `json:"minute"`
	Label      string `json:"label"`
	Running    bool   `json:"running"`
	Stoppage   int    `json:"stoppage"`
	InStoppage bool   `json:"in_stoppage"`
}

type lineupWarningDTO struct {
	TeamID  string `json:"team_id"`
	Players int    `json:"players"`
	Message string `json:"message"`
}

type liveMatchDTO struct {
	ID        string             `json:"id"`
	StartedAt string             `json:"started_at"`
	Home      liveSideDTO        `json:"home"`
	Away      liveSideDTO        `json:"away"`
	Events    []eventDTO         `json:"events"`
	Clock     clockDTO           `json:"clock"`
	Warnings  []lineupWarningDTO `json:"warnings,omitempty"`
}

type recordEventDTO struct {
	Recorded []eventDTO   `json:"recorded"`
	Match    liveMatchDTO `json:"match"`
}

type finalizedMatchDTO struct {
	ID           string          `json:"id"`
	PlayedAt     string          `json:"played_at"`
	Home         teamSnapshotDTO `json:"home"`
	Away         teamSnapshotDTO `json:"away"`
	HomeScore    int             `json:"home_score"`
	AwayScore    int             `json:"away_score"`
	HomeLineup   []string        `json:"home_lineup"`
	AwayLineup   []string        `json:"away_lineup"`
	Events       []eventDTO      `json:"events"`
	StatsApplied bool            `json:"stats_applied"`
}

type matchSummaryDTO struct {
	ID        string          `json:"id"`
	PlayedAt  string          `json:"played_at"`
	Home      teamSnapshotDTO `json:"home"`
	Away      teamSnapshotDTO `json:"away"`
	HomeScore int             `json:"home_score"`
	AwayScore int             `json:"away_score"`
}

type playerRefDTO struct {
	TeamID   string `json:"team_id"`
	PlayerID string `json:"player_id"`
	Error    string `json:"error,omitempty"`
}

type aggregationReportDTO struct {
	MatchID        string         `json:"match_id"`
	Applied        int            `json:"applied"`
	Skipped        int            `json:"skipped"`
	Missing        []playerRefDTO `json:"missing,omitempty"`
	Failed         []playerRefDTO `json:"failed,omitempty"`
	AlreadyApplied bool           `json:"already_applied"`
	Complete       bool           `json:"complete"`
}

type endMatchDTO struct {
	Match finalizedMatchDTO    `json:"match"`
	Stats aggregationReportDTO `json:"stats"`
}

type reapplyDTO struct {
	Pending   int                    `json:"pending"`
	Completed int                    `json:"completed"`
	Reports   []aggregationReportDTO `json:"reports"`
}

func teamToDTO(v team.Team) teamDTO {
	players := make([]playerDTO, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, playerDTO{
			ID:           p.ID,
			Name:         p.Name,
			JerseyNumber: p.JerseyNumber,
			Position:     string(p.Position),
			Stats:        careerStatsToDTO(p.Stats),
		})
	}

	return teamDTO{
		ID:        v.ID,
		Name:      v.Name,
		Color:     v.Color,
		BadgeURL:  v.BadgeURL,
		Protected: v.Protected,
		Players:   players,
	}
}

func careerStatsToDTO(s team.CareerStats) careerStatsDTO {
	return careerStatsDTO{
		Goals:         s.Goals,
		Assists:       s.Assists,
		YellowCards:   s.YellowCards,
		RedCards:      s.RedCards,
		Fouls:         s.Fouls,
		Corners:       s.Corners,
		ThrowIns:      s.ThrowIns,
		MatchesPlayed: s.MatchesPlayed,
	}
}

func snapshotToDTO(v team.TeamSnapshot) teamSnapshotDTO {
	return teamSnapshotDTO{ID: v.ID, Name: v.Name, Color: v.Color}
}

func teamStatsToDTO(s teamstats.TeamAggregateStats) teamStatsDTO {
	return teamStatsDTO{
		MatchesPlayed:  s.MatchesPlayed,
		Wins:           s.Wins,
		Draws:          s.Draws,
		Losses:         s.Losses,
		GoalsFor:       s.GoalsFor,
		GoalsAgainst:   s.GoalsAgainst,
		GoalDifference: s.GoalDifference,
		Points:         s.Points,
		Fouls:          s.Fouls,
		Corners:        s.Corners,
		ThrowIns:       s.ThrowIns,
	}
}

func eventsToDTO(events []match.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, eventDTO{
			ID:              e.ID,
			Type:            e.Type.String(),
			TeamID:          e.TeamID,
			PlayerID:        e.PlayerID,
			RelatedPlayerID: e.RelatedPlayerID,
			Minute:          e.Minute,
			Half:            e.Half,
			ClockLabel:      e.ClockLabel,
			IsDoubleYellow:  e.IsDoubleYellow,
		})
	}
	return out
}

func liveSideToDTO(v usecase.LiveSideView) liveSideDTO {
	return liveSideDTO{
		Team:     snapshotToDTO(v.Team),
		Score:    v.Score,
		Lineup:   nonNil(v.Lineup),
		Bench:    nonNil(v.Bench),
		Expelled: nonNil(v.Expelled),
		Counters: countersDTO{
			Fouls:    v.Counters.Fouls,
			Corners:  v.Counters.Corners,
			ThrowIns: v.Counters.ThrowIns,
		},
	}
}

func liveMatchToDTO(v usecase.LiveMatchView) liveMatchDTO {
	warnings := make([]lineupWarningDTO, 0, len(v.Warnings))
	for _, w := range v.Warnings {
		warnings = append(warnings, lineupWarningDTO{TeamID: w.TeamID, Players: w.Players, Message: w.Message})
	}

	return liveMatchDTO{
		ID:        v.ID,
		StartedAt: formatTime(v.StartedAt),
		Home:      liveSideToDTO(v.Home),
		Away:      liveSideToDTO(v.Away),
		Events:    eventsToDTO(v.Events),
		Clock: clockDTO{
			Half:       v.Clock.Half,
			Minute:     v.Clock.Minute,
			Label:      v.Clock.Label,
			Running:    v.Clock.Running,
			Stoppage:   v.Clock.Stoppage,
			InStoppage: v.Clock.InStoppage,
		},
		Warnings: warnings,
	}
}

func finalizedMatchToDTO(v match.FinalizedMatch) finalizedMatchDTO {
	return finalizedMatchDTO{
		ID:           v.ID,
		PlayedAt:     formatTime(v.PlayedAt),
		Home:         snapshotToDTO(v.Home),
		Away:         snapshotToDTO(v.Away),
		HomeScore:    v.HomeScore,
		AwayScore:    v.AwayScore,
		HomeLineup:   nonNil(v.HomeLineup),
		AwayLineup:   nonNil(v.AwayLineup),
		Events:       eventsToDTO(v.Events),
		StatsApplied: v.StatsApplied,
	}
}

func matchSummaryToDTO(v match.FinalizedMatch) matchSummaryDTO {
	return matchSummaryDTO{
		ID:        v.ID,
		PlayedAt:  formatTime(v.PlayedAt),
		Home:      snapshotToDTO(v.Home),
		Away:      snapshotToDTO(v.Away),
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
	}
}

func aggregationReportToDTO(v usecase.AggregationReport) aggregationReportDTO {
	out := aggregationReportDTO{
		MatchID:        v.MatchID,
		Applied:        v.Applied,
		Skipped:        v.Skipped,
		AlreadyApplied: v.AlreadyApplied,
		Complete:       v.Complete,
	}
	for _, m := range v.Missing {
		out.Missing = append(out.Missing, playerRefDTO{TeamID: m.TeamID, PlayerID: m.PlayerID})
	}
	for _, f := range v.Failed {
		out.Failed = append(out.Failed, playerRefDTO{TeamID: f.TeamID, PlayerID: f.PlayerID, Error: f.Err.Error()})
	}
	return out
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
