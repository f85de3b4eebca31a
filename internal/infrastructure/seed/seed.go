package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"gopkg.in/yaml.v3"
)

// RequiredDefaultTeams is the number of protected teams every roster store
// is seeded with.
const RequiredDefaultTeams = 2

var ErrInvalidSeed = errors.New("invalid seed rosters")

//go:embed default_teams.yaml
var defaultTeamsYAML []byte

type seedFile struct {
	Teams []seedTeam `yaml:"teams"`
}

type seedTeam struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Color     string       `yaml:"color"`
	BadgeURL  string       `yaml:"badge_url"`
	Protected bool         `yaml:"protected"`
	Players   []seedPlayer `yaml:"players"`
}

type seedPlayer struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Number   int    `yaml:"number"`
	Position string `yaml:"position"`
}

// DefaultTeams returns the embedded default rosters.
func DefaultTeams() []team.Team {
	teams, err := Parse(defaultTeamsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded seed rosters are invalid: %v", err))
	}
	return teams
}

// Load reads rosters from path, falling back to the embedded defaults when
// path is empty.
func Load(path string) ([]team.Team, error) {
	if path == "" {
		return DefaultTeams(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates YAML rosters. Exactly RequiredDefaultTeams
// teams must be marked protected.
func Parse(raw []byte) ([]team.Team, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidSeed, err)
	}

	out := make([]team.Team, 0, len(file.Teams))
	seen := make(map[string]struct{}, len(file.Teams))
	protected := 0
	for _, st := range file.Teams {
		item, err := st.toTeam()
		if err != nil {
			return nil, err
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: team %s: %v", ErrInvalidSeed, st.ID, err)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("%w: team %s listed twice", ErrInvalidSeed, item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Protected {
			protected++
		}
		out = append(out, item)
	}
	if protected != RequiredDefaultTeams {
		return nil, fmt.Errorf("%w: need %d protected teams, found %d", ErrInvalidSeed, RequiredDefaultTeams, protected)
	}

	return out, nil
}

func (st seedTeam) toTeam() (team.Team, error) {
	players := make([]team.Player, 0, len(st.Players))
	for _, sp := range st.Players {
		position, err := team.ParsePosition(sp.Position)
		if err != nil {
			return team.Team{}, fmt.Errorf("%w: team %s player %s: %v", ErrInvalidSeed, st.ID, sp.ID, err)
		}
		players = append(players, team.Player{
			ID:           sp.ID,
			Name:         sp.Name,
			JerseyNumber: sp.Number,
			Position:     position,
		})
	}

	return team.Team{
		ID:        st.ID,
		Name:      st.Name,
		Color:     st.Color,
		BadgeURL:  st.BadgeURL,
		Protected: st.Protected,
		Players:   players,
	}, nil
}
