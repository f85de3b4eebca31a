package match

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/match-tracker/internal/domain/team"
)

var ErrInvalidLedger = errors.New("invalid match setup")

// Side identifies the home or away team of a match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// SideSetup is the roster and starting eleven a team brings into a match.
type SideSetup struct {
	Team   team.TeamSnapshot
	Roster []string
	Lineup []string
}

type side struct {
	team    team.TeamSnapshot
	roster  []string
	members map[string]struct{}
	initial []string
}

func newSide(setup SideSetup) (side, error) {
	if strings.TrimSpace(setup.Team.ID) == "" {
		return side{}, fmt.Errorf("%w: team id is required", ErrInvalidLedger)
	}
	members := make(map[string]struct{}, len(setup.Roster))
	for _, id := range setup.Roster {
		if _, dup := members[id]; dup {
			return side{}, fmt.Errorf("%w: player %s listed twice in %s roster", ErrInvalidLedger, id, setup.Team.ID)
		}
		members[id] = struct{}{}
	}
	if len(setup.Lineup) == 0 {
		return side{}, fmt.Errorf("%w: %s lineup is empty", ErrInvalidLedger, setup.Team.ID)
	}
	if len(setup.Lineup) > team.MaxLineupSize {
		return side{}, fmt.Errorf("%w: %s lineup has %d players, max %d", ErrInvalidLedger, setup.Team.ID, len(setup.Lineup), team.MaxLineupSize)
	}
	seen := make(map[string]struct{}, len(setup.Lineup))
	for _, id := range setup.Lineup {
		if _, ok := members[id]; !ok {
			return side{}, fmt.Errorf("%w: lineup player %s is not in %s roster", ErrInvalidLedger, id, setup.Team.ID)
		}
		if _, dup := seen[id]; dup {
			return side{}, fmt.Errorf("%w: lineup player %s listed twice", ErrInvalidLedger, id)
		}
		seen[id] = struct{}{}
	}

	return side{
		team:    setup.Team,
		roster:  append([]string(nil), setup.Roster...),
		members: members,
		initial: append([]string(nil), setup.Lineup...),
	}, nil
}

func (s side) setup() SideSetup {
	return SideSetup{
		Team:   s.team,
		Roster: append([]string(nil), s.roster...),
		Lineup: append([]string(nil), s.initial...),
	}
}

// Ledger is the ordered, append-only event list of one live match. It is not
// safe for concurrent use; the owning service serializes access.
type Ledger struct {
	id     string
	home   side
	away   side
	events []Event
}

func NewLedger(id string, home, away SideSetup) (*Ledger, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidLedger)
	}
	if home.Team.ID == away.Team.ID {
		return nil, fmt.Errorf("%w: a team cannot play itself", ErrInvalidLedger)
	}

	h, err := newSide(home)
	if err != nil {
		return nil, err
	}
	a, err := newSide(away)
	if err != nil {
		return nil, err
	}
	for playerID := range h.members {
		if _, ok := a.members[playerID]; ok {
			return nil, fmt.Errorf("%w: player %s is registered for both teams", ErrInvalidLedger, playerID)
		}
	}

	return &Ledger{id: id, home: h, away: a}, nil
}

func (l *Ledger) ID() string {
	return l.id
}

func (l *Ledger) Team(s Side) team.TeamSnapshot {
	if s == SideAway {
		return l.away.team
	}
	return l.home.team
}

// Events returns a copy of the recorded events in recording order.
func (l *Ledger) Events() []Event {
	return append([]Event(nil), l.events...)
}

func (l *Ledger) side(teamID string) (*side, bool) {
	switch teamID {
	case l.home.team.ID:
		return &l.home, true
	case l.away.team.ID:
		return &l.away, true
	default:
		return nil, false
	}
}

// RecordEvent validates in against the current ledger state and appends the
// resulting events. A second yellow yields [YellowCard, RedCard] and a goal
// with an assisting teammate yields [Goal, Assist]. On rejection the ledger
// is unchanged and the error is a *RejectionError.
func (l *Ledger) RecordEvent(in EventInput) ([]Event, error) {
	if !in.Type.Valid() {
		return nil, reject(ReasonUnknownEventType, in.PlayerID, in.Type.String())
	}
	if in.Minute < 0 {
		return nil, reject(ReasonInvalidMinute, in.PlayerID, fmt.Sprintf("minute %d", in.Minute))
	}
	s, ok := l.side(in.TeamID)
	if !ok {
		return nil, reject(ReasonUnknownTeam, in.PlayerID, in.TeamID)
	}
	if l.IsExpelled(in.PlayerID) {
		return nil, reject(ReasonPlayerExpelled, in.PlayerID, "")
	}
	lineup := l.DeriveLineup(in.TeamID)
	if !slices.Contains(lineup, in.PlayerID) {
		return nil, reject(ReasonPlayerNotInLineup, in.PlayerID, "")
	}

	base := Event{
		Type:       in.Type,
		PlayerID:   in.PlayerID,
		TeamID:     in.TeamID,
		Minute:     in.Minute,
		Half:       in.Half,
		ClockLabel: in.ClockLabel,
	}

	var out []Event
	switch in.Type {
	case EventYellowCard:
		yellows, reds := l.cardCount(in.PlayerID)
		if reds > 0 || yellows >= 2 {
			return nil, reject(ReasonCardAlreadyMaxed, in.PlayerID, "")
		}
		out = append(out, base)
		if yellows == 1 {
			red := base
			red.Type = EventRedCard
			red.IsDoubleYellow = true
			out = append(out, red)
		}
	case EventRedCard:
		if _, reds := l.cardCount(in.PlayerID); reds > 0 {
			return nil, reject(ReasonCardAlreadyMaxed, in.PlayerID, "")
		}
		out = append(out, base)
	case EventGoal:
		assister := strings.TrimSpace(in.RelatedPlayerID)
		if assister == "" {
			out = append(out, base)
			break
		}
		if assister == in.PlayerID {
			return nil, reject(ReasonInvalidAssist, in.PlayerID, "scorer cannot assist their own goal")
		}
		if l.IsExpelled(assister) {
			return nil, reject(ReasonPlayerExpelled, assister, "")
		}
		if !slices.Contains(lineup, assister) {
			return nil, reject(ReasonPlayerNotInLineup, assister, "")
		}
		goal := base
		goal.RelatedPlayerID = assister
		assist := base
		assist.Type = EventAssist
		assist.PlayerID = assister
		assist.RelatedPlayerID = in.PlayerID
		out = append(out, goal, assist)
	case EventAssist:
		return nil, reject(ReasonStandaloneAssist, in.PlayerID, "")
	case EventSubstitution:
		incoming := strings.TrimSpace(in.RelatedPlayerID)
		if incoming == "" {
			return nil, reject(ReasonMissingSubstitute, in.PlayerID, "")
		}
		if slices.Contains(lineup, incoming) {
			return nil, reject(ReasonSubstituteAlreadyActive, incoming, "")
		}
		if _, ok := s.members[incoming]; !ok {
			return nil, reject(ReasonSubstituteNotOnBench, incoming, "")
		}
		sub := base
		sub.RelatedPlayerID = incoming
		out = append(out, sub)
	case EventFoul, EventCorner, EventThrowIn:
		out = append(out, base)
	}

	for i := range out {
		out[i].ID = fmt.Sprintf("%s-e%04d", l.id, len(l.events)+i+1)
	}
	l.events = append(l.events, out...)

	return append([]Event(nil), out...), nil
}

func (l *Ledger) cardCount(playerID string) (yellows, reds int) {
	for _, e := range l.events {
		if e.PlayerID != playerID {
			continue
		}
		switch e.Type {
		case EventYellowCard:
			yellows++
		case EventRedCard:
			reds++
		}
	}
	return yellows, reds
}

// DeriveLineup folds the substitutions recorded for teamID over its starting
// lineup. The incoming player takes the outgoing player's position in the
// returned slice. Unknown teams yield nil.
func (l *Ledger) DeriveLineup(teamID string) []string {
	s, ok := l.side(teamID)
	if !ok {
		return nil
	}
	lineup := append([]string(nil), s.initial...)
	for _, e := range l.events {
		if e.Type != EventSubstitution || e.TeamID != teamID {
			continue
		}
		if idx := slices.Index(lineup, e.PlayerID); idx >= 0 {
			lineup[idx] = e.RelatedPlayerID
		}
	}
	return lineup
}

// Bench returns the roster players of teamID not currently on the pitch.
func (l *Ledger) Bench(teamID string) []string {
	s, ok := l.side(teamID)
	if !ok {
		return nil
	}
	lineup := l.DeriveLineup(teamID)
	out := make([]string, 0, len(s.roster))
	for _, id := range s.roster {
		if !slices.Contains(lineup, id) {
			out = append(out, id)
		}
	}
	return out
}

func (l *Ledger) DeriveScore(teamID string) int {
	goals := 0
	for _, e := range l.events {
		if e.Type == EventGoal && e.TeamID == teamID {
			goals++
		}
	}
	return goals
}

// IsExpelled reports whether the player has been sent off, directly or by
// two yellow cards.
func (l *Ledger) IsExpelled(playerID string) bool {
	yellows, reds := l.cardCount(playerID)
	return reds >= 1 || yellows >= 2
}

func (l *Ledger) DeriveTeamCounters(teamID string) TeamCounters {
	return countTeamEvents(l.events, teamID)
}

func countTeamEvents(events []Event, teamID string) TeamCounters {
	var out TeamCounters
	for _, e := range events {
		if e.TeamID != teamID {
			continue
		}
		switch e.Type {
		case EventFoul:
			out.Fouls++
		case EventCorner:
			out.Corners++
		case EventThrowIn:
			out.ThrowIns++
		}
	}
	return out
}
