package teamstats

import (
	"sort"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// TeamAggregateStats is the standings line of one team, always recomputed
// from match history.
type TeamAggregateStats struct {
	TeamID         string
	MatchesPlayed  int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Fouls          int
	Corners        int
	ThrowIns       int
}

// Aggregate folds every finalized match involving teamID. The fold only adds
// and counts, so the result is independent of history order.
func Aggregate(teamID string, matches []match.FinalizedMatch) TeamAggregateStats {
	out := TeamAggregateStats{TeamID: teamID}
	for _, m := range matches {
		goalsFor, goalsAgainst, ok := m.Result(teamID)
		if !ok {
			continue
		}

		out.MatchesPlayed++
		out.GoalsFor += goalsFor
		out.GoalsAgainst += goalsAgainst
		switch {
		case goalsFor > goalsAgainst:
			out.Wins++
		case goalsFor < goalsAgainst:
			out.Losses++
		default:
			out.Draws++
		}

		counters := m.TeamCounters(teamID)
		out.Fouls += counters.Fouls
		out.Corners += counters.Corners
		out.ThrowIns += counters.ThrowIns
	}

	out.GoalDifference = out.GoalsFor - out.GoalsAgainst
	out.Points = 3*out.Wins + out.Draws
	return out
}

// Rank orders standings by points, goal difference, goals scored and finally
// team id.
func Rank(items []TeamAggregateStats) []TeamAggregateStats {
	out := append([]TeamAggregateStats(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	return out
}
