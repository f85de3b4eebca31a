package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

// SavePlayerInput is one roster row of a create/update team request. An empty
// ID registers a new player.
type SavePlayerInput struct {
	ID           string
	Name         string
	JerseyNumber int
	Position     string
}

// SaveTeamInput is the incoming payload for create/update team. An empty ID
// creates a new team.
type SaveTeamInput struct {
	ID       string
	Name     string
	Color    string
	BadgeURL string
	Players  []SavePlayerInput
}

type TeamService struct {
	teamRepo    team.Repository
	historyRepo match.HistoryRepository
	checkpoints match.CheckpointRepository
	seed        []team.Team
	idGen       idgen.Generator
	logger      *logging.Logger
}

func NewTeamService(
	teamRepo team.Repository,
	historyRepo match.HistoryRepository,
	checkpoints match.CheckpointRepository,
	seed []team.Team,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:    teamRepo,
		historyRepo: historyRepo,
		checkpoints: checkpoints,
		seed:        seed,
		idGen:       idGen,
		logger:      logger,
	}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}

// Save creates or replaces a team. Existing players keep their career stats,
// new players start from zero and the protected flag is carried over from
// the stored team.
func (s *TeamService) Save(ctx context.Context, input SaveTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Save")
	defer span.End()

	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)
	input.BadgeURL = strings.TrimSpace(input.BadgeURL)

	var existing team.Team
	if input.ID != "" {
		stored, exists, err := s.teamRepo.GetByID(ctx, input.ID)
		if err != nil {
			return team.Team{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.ID)
		}
		existing = stored
	} else {
		teamID, err := s.idGen.NewID()
		if err != nil {
			return team.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		input.ID = teamID
	}

	players, err := s.buildPlayers(existing, input.Players)
	if err != nil {
		return team.Team{}, err
	}

	item := team.Team{
		ID:        input.ID,
		Name:      input.Name,
		Color:     input.Color,
		BadgeURL:  input.BadgeURL,
		Players:   players,
		Protected: existing.Protected,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Upsert(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("upsert team: %w", err)
	}

	s.logger.InfoContext(ctx, "team saved",
		"team_id", item.ID,
		"players", len(item.Players),
		"created", existing.ID == "",
	)
	return item, nil
}

func (s *TeamService) buildPlayers(existing team.Team, rows []SavePlayerInput) ([]team.Player, error) {
	out := make([]team.Player, 0, len(rows))
	for i, row := range rows {
		row.ID = strings.TrimSpace(row.ID)
		row.Name = strings.TrimSpace(row.Name)

		position, err := team.ParsePosition(strings.ToUpper(strings.TrimSpace(row.Position)))
		if err != nil {
			return nil, fmt.Errorf("%w: player %d: %w", ErrInvalidInput, i, err)
		}

		player := team.Player{
			ID:           row.ID,
			Name:         row.Name,
			JerseyNumber: row.JerseyNumber,
			Position:     position,
		}
		if row.ID == "" {
			playerID, err := s.idGen.NewID()
			if err != nil {
				return nil, fmt.Errorf("generate player id: %w", err)
			}
			player.ID = playerID
		} else {
			stored, ok := existing.Player(row.ID)
			if !ok {
				return nil, fmt.Errorf("%w: player %s does not belong to this team", ErrInvalidInput, row.ID)
			}
			player.Stats = stored.Stats
		}
		out = append(out, player)
	}
	return out, nil
}

func (s *TeamService) Delete(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	item, err := s.Get(ctx, teamID)
	if err != nil {
		return err
	}
	if item.Protected {
		return fmt.Errorf("%w: %w: team=%s", ErrForbidden, team.ErrProtectedTeam, item.ID)
	}

	if err := s.teamRepo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, team.ErrProtectedTeam) {
			return fmt.Errorf("%w: %w", ErrForbidden, err)
		}
		return fmt.Errorf("delete team: %w", err)
	}

	s.logger.InfoContext(ctx, "team deleted", "team_id", item.ID)
	return nil
}

// Reset restores the seeded rosters and wipes match history and the live
// match checkpoint. Callers discard the in-memory live match first.
func (s *TeamService) Reset(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Reset")
	defer span.End()

	if err := s.teamRepo.Reset(ctx, s.seed); err != nil {
		return fmt.Errorf("reset teams: %w", err)
	}
	if err := s.historyRepo.Clear(ctx); err != nil {
		return fmt.Errorf("clear match history: %w", err)
	}
	if err := s.checkpoints.Clear(ctx); err != nil {
		return fmt.Errorf("clear checkpoint: %w", err)
	}

	s.logger.WarnContext(ctx, "all data reset to defaults", "teams", len(s.seed))
	return nil
}
