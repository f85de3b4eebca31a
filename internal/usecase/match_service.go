package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/matchclock"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

// StartMatchInput selects the two teams and, optionally, their starting
// lineups. An empty lineup falls back to the team's default lineup.
type StartMatchInput struct {
	HomeTeamID string
	AwayTeamID string
	HomeLineup []string
	AwayLineup []string
}

// RecordEventInput is one user action. A nil Minute takes the current clock
// minute.
type RecordEventInput struct {
	TeamID          string
	PlayerID        string
	Type            string
	Minute          *int
	RelatedPlayerID string
}

const (
	ClockActionStart    = "start"
	ClockActionPause    = "pause"
	ClockActionReset    = "reset"
	ClockActionNextHalf = "next-half"
	ClockActionStoppage = "stoppage"
)

type ClockInput struct {
	Action        string
	StoppageDelta int
}

// LineupWarning flags a side that starts with fewer than a full eleven.
type LineupWarning struct {
	TeamID  string
	Players int
	Message string
}

type ClockView struct {
	Half       int
	Minute     int
	Label      string
	Running    bool
	Stoppage   int
	InStoppage bool
}

type LiveSideView struct {
	Team     team.TeamSnapshot
	Score    int
	Lineup   []string
	Bench    []string
	Expelled []string
	Counters match.TeamCounters
}

// LiveMatchView is the derived read model of the match in progress.
type LiveMatchView struct {
	ID        string
	StartedAt time.Time
	Home      LiveSideView
	Away      LiveSideView
	Events    []match.Event
	Clock     ClockView
	Warnings  []LineupWarning
}

type RecordEventResult struct {
	Recorded []match.Event
	Match    LiveMatchView
}

type EndMatchResult struct {
	Match match.FinalizedMatch
	Stats AggregationReport
}

type liveMatch struct {
	ledger    *match.Ledger
	clock     *matchclock.Clock
	startedAt time.Time
	warnings  []LineupWarning
}

// MatchService owns the single live match. Every mutation goes through its
// lock; readers get derived views.
type MatchService struct {
	mu sync.Mutex

	teamRepo    team.Repository
	historyRepo match.HistoryRepository
	checkpoints match.CheckpointRepository
	aggregator  *StatsAggregator
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time

	live *liveMatch
}

func NewMatchService(
	teamRepo team.Repository,
	historyRepo match.HistoryRepository,
	checkpoints match.CheckpointRepository,
	aggregator *StatsAggregator,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		teamRepo:    teamRepo,
		historyRepo: historyRepo,
		checkpoints: checkpoints,
		aggregator:  aggregator,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *MatchService) Start(ctx context.Context, input StartMatchInput) (LiveMatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Start")
	defer span.End()

	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return LiveMatchView{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return LiveMatchView{}, fmt.Errorf("%w: home and away teams must differ", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live != nil {
		return LiveMatchView{}, fmt.Errorf("%w: match=%s", ErrMatchInProgress, s.live.ledger.ID())
	}

	home, err := s.loadSide(ctx, input.HomeTeamID, input.HomeLineup)
	if err != nil {
		return LiveMatchView{}, err
	}
	away, err := s.loadSide(ctx, input.AwayTeamID, input.AwayLineup)
	if err != nil {
		return LiveMatchView{}, err
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return LiveMatchView{}, fmt.Errorf("generate match id: %w", err)
	}
	ledger, err := match.NewLedger(matchID, home, away)
	if err != nil {
		return LiveMatchView{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	live := &liveMatch{
		ledger:    ledger,
		clock:     matchclock.New(s.now),
		startedAt: s.now().UTC(),
		warnings:  lineupWarnings(home, away),
	}
	s.live = live
	s.checkpoint(ctx)

	for _, w := range live.warnings {
		s.logger.WarnContext(ctx, "short lineup", "match_id", matchID, "team_id", w.TeamID, "players", w.Players)
	}
	s.logger.InfoContext(ctx, "match started",
		"match_id", matchID,
		"home_team_id", home.Team.ID,
		"away_team_id", away.Team.ID,
	)
	return s.view(), nil
}

func (s *MatchService) loadSide(ctx context.Context, teamID string, lineup []string) (match.SideSetup, error) {
	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return match.SideSetup{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return match.SideSetup{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	cleaned := make([]string, 0, len(lineup))
	for _, id := range lineup {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		cleaned = item.DefaultLineup()
	}

	return match.SideSetup{
		Team:   item.Snapshot(),
		Roster: item.PlayerIDs(),
		Lineup: cleaned,
	}, nil
}

func lineupWarnings(sides ...match.SideSetup) []LineupWarning {
	var out []LineupWarning
	for _, side := range sides {
		if len(side.Lineup) >= team.MaxLineupSize {
			continue
		}
		out = append(out, LineupWarning{
			TeamID:  side.Team.ID,
			Players: len(side.Lineup),
			Message: fmt.Sprintf("%s starts with %d of %d players", side.Team.Name, len(side.Lineup), team.MaxLineupSize),
		})
	}
	return out
}

func (s *MatchService) Current(ctx context.Context) (LiveMatchView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.MatchService.Current")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == nil {
		return LiveMatchView{}, ErrNoLiveMatch
	}
	return s.view(), nil
}

// RecordEvent validates and appends one action to the live match. Ledger
// rejections are returned unchanged so callers can read the reason.
func (s *MatchService) RecordEvent(ctx context.Context, input RecordEventInput) (RecordEventResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordEvent")
	defer span.End()

	eventType, err := match.ParseEventType(strings.TrimSpace(input.Type))
	if err != nil {
		return RecordEventResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.TeamID == "" || input.PlayerID == "" {
		return RecordEventResult{}, fmt.Errorf("%w: team id and player id are required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == nil {
		return RecordEventResult{}, ErrNoLiveMatch
	}

	clock := s.live.clock
	event := match.EventInput{
		PlayerID:        input.PlayerID,
		TeamID:          input.TeamID,
		Type:            eventType,
		Minute:          clock.Minute(),
		RelatedPlayerID: strings.TrimSpace(input.RelatedPlayerID),
		Half:            clock.Half(),
		ClockLabel:      clock.Label(),
	}
	if input.Minute != nil {
		event.Minute = *input.Minute
		event.ClockLabel = fmt.Sprintf("%d'", *input.Minute)
	}

	recorded, err := s.live.ledger.RecordEvent(event)
	if err != nil {
		reason, _ := match.ReasonOf(err)
		s.logger.WarnContext(ctx, "event rejected",
			"match_id", s.live.ledger.ID(),
			"type", eventType.String(),
			"player_id", input.PlayerID,
			"reason", string(reason),
		)
		return RecordEventResult{}, err
	}
	s.checkpoint(ctx)

	s.logger.InfoContext(ctx, "event recorded",
		"match_id", s.live.ledger.ID(),
		"type", eventType.String(),
		"player_id", input.PlayerID,
		"events", len(recorded),
	)
	return RecordEventResult{Recorded: recorded, Match: s.view()}, nil
}

func (s *MatchService) Clock(ctx context.Context, input ClockInput) (LiveMatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Clock")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == nil {
		return LiveMatchView{}, ErrNoLiveMatch
	}

	clock := s.live.clock
	switch strings.ToLower(strings.TrimSpace(input.Action)) {
	case ClockActionStart:
		clock.Start()
	case ClockActionPause:
		clock.Pause()
	case ClockActionReset:
		clock.Reset()
	case ClockActionNextHalf:
		if err := clock.NextHalf(); err != nil {
			return LiveMatchView{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	case ClockActionStoppage:
		if _, err := clock.AdjustStoppage(input.StoppageDelta); err != nil {
			return LiveMatchView{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	default:
		return LiveMatchView{}, fmt.Errorf("%w: unknown clock action %q", ErrInvalidInput, input.Action)
	}
	s.checkpoint(ctx)

	return s.view(), nil
}

// End finalizes the live match. The history record is written first; if that
// fails the match stays open and its checkpoint is kept. Stats aggregation
// failures are reported but do not reopen the match, they are retried by
// StatsAggregator.ReapplyPending.
func (s *MatchService) End(ctx context.Context) (EndMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.End")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == nil {
		return EndMatchResult{}, ErrNoLiveMatch
	}

	finalized := s.live.ledger.Finalize(s.now().UTC())
	if err := s.historyRepo.Append(ctx, finalized); err != nil {
		if !errors.Is(err, match.ErrMatchExists) {
			return EndMatchResult{}, fmt.Errorf("%w: append match history: %w", ErrDependencyUnavailable, err)
		}
		stored, exists, getErr := s.historyRepo.GetByID(ctx, finalized.ID)
		if getErr != nil || !exists {
			return EndMatchResult{}, fmt.Errorf("%w: append match history: %w", ErrDependencyUnavailable, err)
		}
		finalized = stored
	}

	report, aggErr := s.aggregator.Apply(ctx, finalized)
	if aggErr != nil {
		s.logger.ErrorContext(ctx, "stats aggregation failed, will retry on reapply",
			"match_id", finalized.ID,
			"error", aggErr,
		)
	} else {
		finalized.StatsApplied = true
	}

	if err := s.checkpoints.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear checkpoint failed", "match_id", finalized.ID, "error", err)
	}
	s.live = nil

	s.logger.InfoContext(ctx, "match finalized",
		"match_id", finalized.ID,
		"home_score", finalized.HomeScore,
		"away_score", finalized.AwayScore,
		"events", len(finalized.Events),
	)
	return EndMatchResult{Match: finalized, Stats: report}, nil
}

// Abandon drops the live match without writing history.
func (s *MatchService) Abandon(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Abandon")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == nil {
		return ErrNoLiveMatch
	}
	matchID := s.live.ledger.ID()
	if err := s.checkpoints.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear checkpoint: %w", ErrDependencyUnavailable, err)
	}
	s.live = nil

	s.logger.WarnContext(ctx, "match abandoned", "match_id", matchID)
	return nil
}

// Resume restores the live match from the stored checkpoint. It reports
// false when there is nothing to restore. A checkpoint whose match already
// reached history is cleared instead of restored.
func (s *MatchService) Resume(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Resume")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live != nil {
		return true, nil
	}

	cp, exists, err := s.checkpoints.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("get checkpoint: %w", err)
	}
	if !exists {
		return false, nil
	}

	_, finished, err := s.historyRepo.GetByID(ctx, cp.MatchID)
	if err != nil {
		return false, fmt.Errorf("get match history: %w", err)
	}
	if finished {
		s.logger.InfoContext(ctx, "checkpoint belongs to a finalized match, clearing", "match_id", cp.MatchID)
		if err := s.checkpoints.Clear(ctx); err != nil {
			return false, fmt.Errorf("clear checkpoint: %w", err)
		}
		return false, nil
	}

	ledger, err := match.RestoreLedger(cp)
	if err != nil {
		return false, fmt.Errorf("restore ledger: %w", err)
	}
	clock := matchclock.New(s.now)
	clock.Restore(cp.Clock)

	s.live = &liveMatch{
		ledger:    ledger,
		clock:     clock,
		startedAt: cp.StartedAt,
		warnings:  lineupWarnings(cp.Home, cp.Away),
	}

	s.logger.InfoContext(ctx, "match resumed from checkpoint",
		"match_id", cp.MatchID,
		"events", len(cp.Events),
		"saved_at", cp.SavedAt,
	)
	return true, nil
}

func (s *MatchService) checkpoint(ctx context.Context) {
	cp := s.live.ledger.Checkpoint()
	cp.StartedAt = s.live.startedAt
	cp.SavedAt = s.now().UTC()
	cp.Clock = s.live.clock.State()

	if err := s.checkpoints.Save(ctx, cp); err != nil {
		s.logger.WarnContext(ctx, "save checkpoint failed", "match_id", cp.MatchID, "error", err)
	}
}

func (s *MatchService) view() LiveMatchView {
	ledger := s.live.ledger
	clock := s.live.clock

	return LiveMatchView{
		ID:        ledger.ID(),
		StartedAt: s.live.startedAt,
		Home:      sideView(ledger, ledger.Team(match.SideHome)),
		Away:      sideView(ledger, ledger.Team(match.SideAway)),
		Events:    ledger.Events(),
		Clock: ClockView{
			Half:       clock.Half(),
			Minute:     clock.Minute(),
			Label:      clock.Label(),
			Running:    clock.Running(),
			Stoppage:   clock.Stoppage(),
			InStoppage: clock.InStoppage(),
		},
		Warnings: append([]LineupWarning(nil), s.live.warnings...),
	}
}

func sideView(ledger *match.Ledger, snapshot team.TeamSnapshot) LiveSideView {
	out := LiveSideView{
		Team:     snapshot,
		Score:    ledger.DeriveScore(snapshot.ID),
		Lineup:   ledger.DeriveLineup(snapshot.ID),
		Bench:    ledger.Bench(snapshot.ID),
		Counters: ledger.DeriveTeamCounters(snapshot.ID),
	}
	seen := make(map[string]struct{})
	for _, e := range ledger.Events() {
		if e.TeamID != snapshot.ID {
			continue
		}
		if _, ok := seen[e.PlayerID]; ok {
			continue
		}
		if ledger.IsExpelled(e.PlayerID) {
			seen[e.PlayerID] = struct{}{}
			out.Expelled = append(out.Expelled, e.PlayerID)
		}
	}
	return out
}
