package team

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MinRosterSize = 11
	MaxRosterSize = 25
	MaxLineupSize = 11
	MinJersey     = 1
	MaxJersey     = 99
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrProtectedTeam         = errors.New("default team cannot be deleted")
	ErrDuplicateJerseyNumber = errors.New("duplicate jersey number")
	ErrDuplicatePlayerID     = errors.New("duplicate player id")
	ErrInvalidJerseyNumber   = errors.New("jersey number out of range")
	ErrRosterTooSmall        = errors.New("roster too small")
	ErrRosterTooLarge        = errors.New("roster too large")
	ErrUnknownPosition       = errors.New("unknown player position")
	ErrInvalidTeam           = errors.New("invalid team")
	ErrNegativeDelta         = errors.New("stats delta must not be negative")
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks identity fields and the roster rules a team must satisfy
// before it can be saved.
func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidTeam)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: team name is required", ErrInvalidTeam)
	}
	if !colorPattern.MatchString(t.Color) {
		return fmt.Errorf("%w: color must be #RRGGBB, got %q", ErrInvalidTeam, t.Color)
	}

	return ValidateRoster(t.Players)
}

// ValidateRoster enforces unique ids, unique jersey numbers and the
// saveable roster size.
func ValidateRoster(players []Player) error {
	if err := ValidatePlayers(players); err != nil {
		return err
	}
	if len(players) < MinRosterSize {
		return fmt.Errorf("%w: need at least %d players, have %d", ErrRosterTooSmall, MinRosterSize, len(players))
	}
	if len(players) > MaxRosterSize {
		return fmt.Errorf("%w: at most %d players, have %d", ErrRosterTooLarge, MaxRosterSize, len(players))
	}
	return nil
}

// ValidatePlayers checks per-player fields and uniqueness without the size
// bounds.
func ValidatePlayers(players []Player) error {
	ids := make(map[string]struct{}, len(players))
	jerseys := make(map[int]string, len(players))
	for _, p := range players {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: player id is required", ErrInvalidTeam)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %s name is required", ErrInvalidTeam, p.ID)
		}
		if _, ok := AllPositions[p.Position]; !ok {
			return fmt.Errorf("%w: player %s has %q", ErrUnknownPosition, p.ID, p.Position)
		}
		if p.JerseyNumber < MinJersey || p.JerseyNumber > MaxJersey {
			return fmt.Errorf("%w: player %s has %d, valid range is %d-%d", ErrInvalidJerseyNumber, p.ID, p.JerseyNumber, MinJersey, MaxJersey)
		}
		if _, ok := ids[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayerID, p.ID)
		}
		ids[p.ID] = struct{}{}
		if other, ok := jerseys[p.JerseyNumber]; ok {
			return fmt.Errorf("%w: %d is used by %s and %s", ErrDuplicateJerseyNumber, p.JerseyNumber, other, p.ID)
		}
		jerseys[p.JerseyNumber] = p.ID
	}
	return nil
}
