package match

import (
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/team"
)

// FinalizedMatch is the immutable history record written when a match ends.
// StatsApplied flips once, after every player's career stats absorbed it.
type FinalizedMatch struct {
	ID           string
	PlayedAt     time.Time
	Home         team.TeamSnapshot
	Away         team.TeamSnapshot
	HomeScore    int
	AwayScore    int
	Events       []Event
	HomeLineup   []string
	AwayLineup   []string
	StatsApplied bool
}

// Finalize snapshots the ledger into a history record with derived scores
// and the lineups on the pitch at the final whistle.
func (l *Ledger) Finalize(playedAt time.Time) FinalizedMatch {
	return FinalizedMatch{
		ID:         l.id,
		PlayedAt:   playedAt,
		Home:       l.home.team,
		Away:       l.away.team,
		HomeScore:  l.DeriveScore(l.home.team.ID),
		AwayScore:  l.DeriveScore(l.away.team.ID),
		Events:     l.Events(),
		HomeLineup: l.DeriveLineup(l.home.team.ID),
		AwayLineup: l.DeriveLineup(l.away.team.ID),
	}
}

func (m FinalizedMatch) Involves(teamID string) bool {
	return m.Home.ID == teamID || m.Away.ID == teamID
}

// Result returns the goals scored and conceded by teamID.
func (m FinalizedMatch) Result(teamID string) (goalsFor, goalsAgainst int, ok bool) {
	switch teamID {
	case m.Home.ID:
		return m.HomeScore, m.AwayScore, true
	case m.Away.ID:
		return m.AwayScore, m.HomeScore, true
	default:
		return 0, 0, false
	}
}

func (m FinalizedMatch) TeamCounters(teamID string) TeamCounters {
	return countTeamEvents(m.Events, teamID)
}

func (m FinalizedMatch) Clone() FinalizedMatch {
	out := m
	out.Events = append([]Event(nil), m.Events...)
	out.HomeLineup = append([]string(nil), m.HomeLineup...)
	out.AwayLineup = append([]string(nil), m.AwayLineup...)
	return out
}
