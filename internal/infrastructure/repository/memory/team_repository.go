package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/match-tracker/internal/domain/team"
)

type appliedKey struct {
	matchID  string
	playerID string
}

// TeamRepository keeps rosters in process memory. Returned teams are copies.
type TeamRepository struct {
	mu      sync.RWMutex
	teams   map[string]team.Team
	order   []string
	applied map[appliedKey]struct{}
}

func NewTeamRepository(seed []team.Team) *TeamRepository {
	r := &TeamRepository{}
	r.load(seed)
	return r
}

func (r *TeamRepository) load(seed []team.Team) {
	r.teams = make(map[string]team.Team, len(seed))
	r.order = make([]string, 0, len(seed))
	r.applied = make(map[appliedKey]struct{})
	for _, item := range seed {
		if _, exists := r.teams[item.ID]; !exists {
			r.order = append(r.order, item.ID)
		}
		r.teams[item.ID] = item.Clone()
	}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id].Clone())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	if !ok {
		return team.Team{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	teamID := strings.TrimSpace(item.ID)
	if teamID == "" {
		return fmt.Errorf("%w: team id is required", team.ErrInvalidTeam)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[teamID]; !exists {
		r.order = append(r.order, teamID)
	}
	r.teams[teamID] = item.Clone()
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: team=%s", team.ErrTeamNotFound, teamID)
	}
	if item.Protected {
		return fmt.Errorf("%w: team=%s", team.ErrProtectedTeam, teamID)
	}

	delete(r.teams, teamID)
	for i, id := range r.order {
		if id == teamID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *TeamRepository) ApplyPlayerStats(_ context.Context, teamID, playerID string, delta team.StatsDelta) (bool, error) {
	if err := delta.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
	if !ok {
		return false, fmt.Errorf("%w: team=%s", team.ErrTeamNotFound, teamID)
	}
	idx := -1
	for i := range item.Players {
		if item.Players[i].ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, fmt.Errorf("%w: team=%s player=%s", team.ErrPlayerNotFound, teamID, playerID)
	}

	key := appliedKey{matchID: delta.MatchID, playerID: playerID}
	if delta.MatchID != "" {
		if _, done := r.applied[key]; done {
			return false, nil
		}
	}

	item = item.Clone()
	item.Players[idx].Stats = delta.ApplyTo(item.Players[idx].Stats)
	r.teams[teamID] = item
	if delta.MatchID != "" {
		r.applied[key] = struct{}{}
	}
	return true, nil
}

func (r *TeamRepository) Reset(_ context.Context, seed []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.load(seed)
	return nil
}
