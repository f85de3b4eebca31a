// Package record holds the JSON shapes used to persist match events and
// live-match checkpoints outside process memory.
package record

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/matchclock"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
)

// Version is bumped whenever the checkpoint layout changes incompatibly.
const Version = 1

type Event struct {
	ID              string          `json:"id"`
	Type            match.EventType `json:"type"`
	PlayerID        string          `json:"playerId"`
	TeamID          string          `json:"teamId"`
	Minute          int             `json:"minute"`
	RelatedPlayerID string          `json:"relatedPlayerId,omitempty"`
	IsDoubleYellow  bool            `json:"isDoubleYellow,omitempty"`
	Half            int             `json:"half,omitempty"`
	ClockLabel      string          `json:"clockLabel,omitempty"`
}

type Side struct {
	TeamID    string   `json:"teamId"`
	TeamName  string   `json:"teamName"`
	TeamColor string   `json:"teamColor"`
	Roster    []string `json:"roster"`
	Lineup    []string `json:"lineup"`
}

type Clock struct {
	Half      int       `json:"half"`
	ElapsedMs int64     `json:"elapsedMs"`
	Running   bool      `json:"running"`
	ResumedAt time.Time `json:"resumedAt"`
	Stoppage  [2]int    `json:"stoppage"`
}

type Checkpoint struct {
	Version   int       `json:"version"`
	MatchID   string    `json:"matchId"`
	StartedAt time.Time `json:"startedAt"`
	SavedAt   time.Time `json:"savedAt"`
	Home      Side      `json:"home"`
	Away      Side      `json:"away"`
	Events    []Event   `json:"events"`
	Clock     Clock     `json:"clock"`
}

func FromEvents(events []match.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, Event{
			ID:              e.ID,
			Type:            e.Type,
			PlayerID:        e.PlayerID,
			TeamID:          e.TeamID,
			Minute:          e.Minute,
			RelatedPlayerID: e.RelatedPlayerID,
			IsDoubleYellow:  e.IsDoubleYellow,
			Half:            e.Half,
			ClockLabel:      e.ClockLabel,
		})
	}
	return out
}

func ToEvents(rows []Event) []match.Event {
	out := make([]match.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, match.Event{
			ID:              r.ID,
			Type:            r.Type,
			PlayerID:        r.PlayerID,
			TeamID:          r.TeamID,
			Minute:          r.Minute,
			RelatedPlayerID: r.RelatedPlayerID,
			IsDoubleYellow:  r.IsDoubleYellow,
			Half:            r.Half,
			ClockLabel:      r.ClockLabel,
		})
	}
	return out
}

func fromSide(s match.SideSetup) Side {
	return Side{
		TeamID:    s.Team.ID,
		TeamName:  s.Team.Name,
		TeamColor: s.Team.Color,
		Roster:    append([]string(nil), s.Roster...),
		Lineup:    append([]string(nil), s.Lineup...),
	}
}

func (s Side) setup() match.SideSetup {
	return match.SideSetup{
		Team:   team.TeamSnapshot{ID: s.TeamID, Name: s.TeamName, Color: s.TeamColor},
		Roster: append([]string(nil), s.Roster...),
		Lineup: append([]string(nil), s.Lineup...),
	}
}

func FromCheckpoint(cp match.Checkpoint) Checkpoint {
	return Checkpoint{
		Version:   Version,
		MatchID:   cp.MatchID,
		StartedAt: cp.StartedAt,
		SavedAt:   cp.SavedAt,
		Home:      fromSide(cp.Home),
		Away:      fromSide(cp.Away),
		Events:    FromEvents(cp.Events),
		Clock: Clock{
			Half:      cp.Clock.Half,
			ElapsedMs: cp.Clock.Elapsed.Milliseconds(),
			Running:   cp.Clock.Running,
			ResumedAt: cp.Clock.ResumedAt,
			Stoppage:  cp.Clock.Stoppage,
		},
	}
}

func (c Checkpoint) Checkpoint() match.Checkpoint {
	return match.Checkpoint{
		MatchID:   c.MatchID,
		StartedAt: c.StartedAt,
		SavedAt:   c.SavedAt,
		Home:      c.Home.setup(),
		Away:      c.Away.setup(),
		Events:    ToEvents(c.Events),
		Clock: matchclock.State{
			Half:      c.Clock.Half,
			Elapsed:   time.Duration(c.Clock.ElapsedMs) * time.Millisecond,
			Running:   c.Clock.Running,
			ResumedAt: c.Clock.ResumedAt,
			Stoppage:  c.Clock.Stoppage,
		},
	}
}

func EncodeEvents(events []match.Event) ([]byte, error) {
	raw, err := sonic.Marshal(FromEvents(events))
	if err != nil {
		return nil, fmt.Errorf("encode events: %w", err)
	}
	return raw, nil
}

func DecodeEvents(raw []byte) ([]match.Event, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []Event
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return ToEvents(rows), nil
}

func EncodeCheckpoint(cp match.Checkpoint) ([]byte, error) {
	raw, err := sonic.Marshal(FromCheckpoint(cp))
	if err != nil {
		return nil, fmt.Errorf("encode checkpoint: %w", err)
	}
	return raw, nil
}

func DecodeCheckpoint(raw []byte) (match.Checkpoint, error) {
	var row Checkpoint
	if err := sonic.Unmarshal(raw, &row); err != nil {
		return match.Checkpoint{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	if row.Version != Version {
		return match.Checkpoint{}, fmt.Errorf("decode checkpoint: unsupported version %d", row.Version)
	}
	return row.Checkpoint(), nil
}
