package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

type MatchHistoryService struct {
	historyRepo match.HistoryRepository
	logger      *logging.Logger
}

func NewMatchHistoryService(historyRepo match.HistoryRepository, logger *logging.Logger) *MatchHistoryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchHistoryService{historyRepo: historyRepo, logger: logger}
}

// List returns finalized matches, most recently played first. A non-empty
// teamID keeps only the matches that team played in.
func (s *MatchHistoryService) List(ctx context.Context, teamID string) ([]match.FinalizedMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchHistoryService.List")
	defer span.End()

	items, err := s.historyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list match history: %w", err)
	}

	teamID = strings.TrimSpace(teamID)
	out := make([]match.FinalizedMatch, 0, len(items))
	for _, item := range items {
		if teamID != "" && !item.Involves(teamID) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayedAt.After(out[j].PlayedAt)
	})
	return out, nil
}

func (s *MatchHistoryService) Get(ctx context.Context, matchID string) (match.FinalizedMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchHistoryService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.FinalizedMatch{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.historyRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.FinalizedMatch{}, fmt.Errorf("get match=%s: %w", matchID, err)
	}
	if !exists {
		return match.FinalizedMatch{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}
