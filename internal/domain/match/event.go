package match

import "fmt"

// EventType is the closed set of events a ledger can hold.
type EventType uint8

const (
	EventGoal EventType = iota + 1
	EventAssist
	EventYellowCard
	EventRedCard
	EventSubstitution
	EventFoul
	EventCorner
	EventThrowIn
)

var eventTypeNames = map[EventType]string{
	EventGoal:         "goal",
	EventAssist:       "assist",
	EventYellowCard:   "yellowCard",
	EventRedCard:      "redCard",
	EventSubstitution: "substitution",
	EventFoul:         "foul",
	EventCorner:       "corner",
	EventThrowIn:      "throwIn",
}

// AllEventTypes lists every event type in declaration order.
var AllEventTypes = []EventType{
	EventGoal,
	EventAssist,
	EventYellowCard,
	EventRedCard,
	EventSubstitution,
	EventFoul,
	EventCorner,
	EventThrowIn,
}

func (t EventType) Valid() bool {
	_, ok := eventTypeNames[t]
	return ok
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

func ParseEventType(raw string) (EventType, error) {
	for t, name := range eventTypeNames {
		if name == raw {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEventType, raw)
}

func (t EventType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEventType, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(text []byte) error {
	parsed, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Event is one immutable ledger entry. Minute is display data; ledger order
// is the authoritative chronology.
type Event struct {
	ID              string
	Type            EventType
	PlayerID        string
	TeamID          string
	Minute          int
	RelatedPlayerID string
	IsDoubleYellow  bool
	Half            int
	ClockLabel      string
}

// EventInput is a request to record an event against the live ledger.
type EventInput struct {
	PlayerID        string
	TeamID          string
	Type            EventType
	Minute          int
	RelatedPlayerID string
	Half            int
	ClockLabel      string
}

// TeamCounters are per-team tallies of the set-piece and discipline events
// that do not affect the score.
type TeamCounters struct {
	Fouls    int
	Corners  int
	ThrowIns int
}
