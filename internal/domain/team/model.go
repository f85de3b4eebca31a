package team

import (
	"fmt"
	"sort"
)

// Position groups players by role on the pitch.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

var positionOrder = map[Position]int{
	PositionGoalkeeper: 0,
	PositionDefender:   1,
	PositionMidfielder: 2,
	PositionForward:    3,
}

var legacyPositions = map[string]Position{
	"POR": PositionGoalkeeper,
	"MED": PositionMidfielder,
	"DEL": PositionForward,
}

// ParsePosition accepts the canonical codes and the legacy roster codes
// (POR, DEF, MED, DEL).
func ParsePosition(raw string) (Position, error) {
	candidate := Position(raw)
	if _, ok := AllPositions[candidate]; ok {
		return candidate, nil
	}
	if legacy, ok := legacyPositions[raw]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, raw)
}

// Player is a registered member of a team roster.
type Player struct {
	ID           string
	Name         string
	JerseyNumber int
	Position     Position
	Stats        CareerStats
}

// Team is the unit of persistence in the roster store.
type Team struct {
	ID        string
	Name      string
	Color     string
	BadgeURL  string
	Players   []Player
	Protected bool
}

// TeamSnapshot is the identity copy stored with finalized matches.
type TeamSnapshot struct {
	ID    string
	Name  string
	Color string
}

func (t Team) Snapshot() TeamSnapshot {
	return TeamSnapshot{ID: t.ID, Name: t.Name, Color: t.Color}
}

func (t Team) Player(playerID string) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

func (t Team) HasPlayer(playerID string) bool {
	_, ok := t.Player(playerID)
	return ok
}

func (t Team) PlayerIDs() []string {
	out := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		out = append(out, p.ID)
	}
	return out
}

// DefaultLineup picks up to MaxLineupSize players ordered goalkeeper first,
// then defenders, midfielders and forwards, keeping roster order within a
// position.
func (t Team) DefaultLineup() []string {
	sorted := append([]Player(nil), t.Players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankPosition(sorted[i].Position) < rankPosition(sorted[j].Position)
	})

	size := min(len(sorted), MaxLineupSize)
	out := make([]string, 0, size)
	for _, p := range sorted[:size] {
		out = append(out, p.ID)
	}
	return out
}

func rankPosition(p Position) int {
	if rank, ok := positionOrder[p]; ok {
		return rank
	}
	return len(positionOrder)
}

// Clone returns a deep copy so callers cannot mutate stored rosters.
func (t Team) Clone() Team {
	out := t
	out.Players = append([]Player(nil), t.Players...)
	return out
}
