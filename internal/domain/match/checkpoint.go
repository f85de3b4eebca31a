package match

import (
	"fmt"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/matchclock"
)

// Checkpoint is the crash-recovery snapshot of an in-progress match.
type Checkpoint struct {
	MatchID   string
	StartedAt time.Time
	SavedAt   time.Time
	Home      SideSetup
	Away      SideSetup
	Events    []Event
	Clock     matchclock.State
}

func (l *Ledger) Checkpoint() Checkpoint {
	return Checkpoint{
		MatchID: l.id,
		Home:    l.home.setup(),
		Away:    l.away.setup(),
		Events:  l.Events(),
	}
}

// RestoreLedger rebuilds a ledger from a checkpoint. Events are taken as
// recorded; only their shape is checked.
func RestoreLedger(cp Checkpoint) (*Ledger, error) {
	l, err := NewLedger(cp.MatchID, cp.Home, cp.Away)
	if err != nil {
		return nil, err
	}
	for i, e := range cp.Events {
		if !e.Type.Valid() {
			return nil, fmt.Errorf("%w: checkpoint event %d has unknown type", ErrInvalidLedger, i)
		}
		if _, ok := l.side(e.TeamID); !ok {
			return nil, fmt.Errorf("%w: checkpoint event %d references team %s", ErrInvalidLedger, i, e.TeamID)
		}
	}
	l.events = append([]Event(nil), cp.Events...)
	return l, nil
}
