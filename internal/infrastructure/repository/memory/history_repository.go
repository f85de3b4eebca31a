package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// HistoryRepository is an append-only list of finalized matches.
type HistoryRepository struct {
	mu      sync.RWMutex
	matches []match.FinalizedMatch
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) List(_ context.Context) ([]match.FinalizedMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.FinalizedMatch, 0, len(r.matches))
	for _, item := range r.matches {
		out = append(out, item.Clone())
	}
	return out, nil
}

func (r *HistoryRepository) GetByID(_ context.Context, matchID string) (match.FinalizedMatch, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.matches {
		if item.ID == matchID {
			return item.Clone(), true, nil
		}
	}
	return match.FinalizedMatch{}, false, nil
}

func (r *HistoryRepository) Append(_ context.Context, item match.FinalizedMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.matches {
		if existing.ID == item.ID {
			return fmt.Errorf("%w: match=%s", match.ErrMatchExists, item.ID)
		}
	}
	r.matches = append(r.matches, item.Clone())
	return nil
}

func (r *HistoryRepository) MarkStatsApplied(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.matches {
		if r.matches[i].ID == matchID {
			r.matches[i].StatsApplied = true
			return nil
		}
	}
	return fmt.Errorf("%w: match=%s", match.ErrMatchNotFound, matchID)
}

func (r *HistoryRepository) ListPendingStats(_ context.Context) ([]match.FinalizedMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.FinalizedMatch
	for _, item := range r.matches {
		if !item.StatsApplied {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (r *HistoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches = nil
	return nil
}
