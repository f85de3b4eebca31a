package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
)

// CheckpointRepository holds the single live match checkpoint. It does not
// survive a restart and is meant for development and tests.
type CheckpointRepository struct {
	mu    sync.Mutex
	cp    match.Checkpoint
	saved bool
}

func NewCheckpointRepository() *CheckpointRepository {
	return &CheckpointRepository{}
}

func (r *CheckpointRepository) Save(_ context.Context, cp match.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp.Events = append([]match.Event(nil), cp.Events...)
	r.cp = cp
	r.saved = true
	return nil
}

func (r *CheckpointRepository) Get(_ context.Context) (match.Checkpoint, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.saved {
		return match.Checkpoint{}, false, nil
	}
	out := r.cp
	out.Events = append([]match.Event(nil), r.cp.Events...)
	return out, true, nil
}

func (r *CheckpointRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cp = match.Checkpoint{}
	r.saved = false
	return nil
}
