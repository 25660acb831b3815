package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fieldside/gameday/internal/domain/availability"
	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/domain/gameplan"
	"github.com/fieldside/gameday/internal/domain/lineup"
	"github.com/fieldside/gameday/internal/domain/roster"
	"github.com/fieldside/gameday/internal/platform/cache"
	idgen "github.com/fieldside/gameday/internal/platform/id"
	"github.com/fieldside/gameday/internal/platform/logging"
)

// RecalculateInput drives one rotation plan (re)build.
type RecalculateInput struct {
	GameID          string
	TeamID          string
	IntervalMinutes int
	SlotsPerHalf    int
	// DriftThresholdSeconds optionally overrides the planner's fairness bound.
	DriftThresholdSeconds int
}

// RotationService orchestrates the pure planner: collects roster, lineup and
// availability, validates the input, and persists the result. Re-running with
// the same state reproduces the same plan, so "recalculate" is safe to
// repeat; callers serialize competing recalculations themselves.
type RotationService struct {
	gameRepo   game.Repository
	lineupRepo lineup.Repository
	availRepo  availability.Repository
	planRepo   gameplan.Repository
	provider   roster.Provider
	store      *cache.Store
	validate   *validator.Validate
	ids        idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewRotationService(
	gameRepo game.Repository,
	lineupRepo lineup.Repository,
	availRepo availability.Repository,
	planRepo gameplan.Repository,
	provider roster.Provider,
	store *cache.Store,
	ids idgen.Generator,
	logger *logging.Logger,
) *RotationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RotationService{
		gameRepo:   gameRepo,
		lineupRepo: lineupRepo,
		availRepo:  availRepo,
		planRepo:   planRepo,
		provider:   provider,
		store:      store,
		validate:   validator.New(),
		ids:        ids,
		logger:     logger,
		now:        time.Now,
	}
}

// SetNow overrides the wall clock, for tests.
func (s *RotationService) SetNow(now func() time.Time) {
	s.now = now
}

func (s *RotationService) Recalculate(ctx context.Context, input RecalculateInput) (gameplan.Plan, error) {
	ctx, span := startEngineSpan(ctx, "usecase.RotationService.Recalculate")
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.GameID == "" || input.TeamID == "" {
		return gameplan.Plan{}, fmt.Errorf("%w: game_id and team_id are required", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return gameplan.Plan{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return gameplan.Plan{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	assignments, err := s.lineupRepo.ListByGame(ctx, input.GameID)
	if err != nil {
		return gameplan.Plan{}, fmt.Errorf("list lineup: %w", err)
	}
	if len(assignments) == 0 {
		return gameplan.Plan{}, fmt.Errorf("%w: no starting lineup for game=%s", ErrRecalculationBlocked, input.GameID)
	}

	starters := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		starters[assignment.PositionID] = assignment.PlayerID
	}

	players, err := s.listPlayers(ctx, input.TeamID)
	if err != nil {
		return gameplan.Plan{}, err
	}
	positions, err := s.listPositions(ctx, input.TeamID)
	if err != nil {
		return gameplan.Plan{}, err
	}

	avail, err := s.availRepo.MapByGame(ctx, input.GameID)
	if err != nil {
		return gameplan.Plan{}, fmt.Errorf("map availability: %w", err)
	}

	eligible := 0
	for _, p := range players {
		record, has := avail[p.ID]
		if has && availability.Unavailable(record.Status) {
			continue
		}
		eligible++
	}
	if eligible == 0 {
		return gameplan.Plan{}, fmt.Errorf("%w: no available players for game=%s", ErrRecalculationBlocked, input.GameID)
	}

	planInput := gameplan.PlanInput{
		GameID:                input.GameID,
		Players:               players,
		Positions:             positions,
		Starters:              starters,
		Availability:          avail,
		HalfLengthMinutes:     g.HalfLengthSeconds / 60,
		IntervalMinutes:       input.IntervalMinutes,
		SlotsPerHalf:          input.SlotsPerHalf,
		ExistingRotations:     s.elapsedRotations(g, input.IntervalMinutes),
		DriftThresholdSeconds: input.DriftThresholdSeconds,
	}
	if err := s.validate.Struct(planInput); err != nil {
		return gameplan.Plan{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	plan, err := gameplan.BuildPlan(planInput)
	if err != nil {
		return gameplan.Plan{}, fmt.Errorf("build rotation plan: %w", err)
	}

	planID, err := s.ids.NewID()
	if err != nil {
		return gameplan.Plan{}, fmt.Errorf("generate plan id: %w", err)
	}
	plan.ID = planID
	plan.CreatedAt = s.now().UTC()

	if err := s.planRepo.Upsert(ctx, plan); err != nil {
		return gameplan.Plan{}, fmt.Errorf("save rotation plan: %w", err)
	}

	s.logger.InfoContext(ctx, "rotation plan recalculated",
		"game_id", input.GameID, "rotations", len(plan.Rotations))
	return plan, nil
}

// Plan returns the stored plan for a game.
func (s *RotationService) Plan(ctx context.Context, gameID string) (gameplan.Plan, bool, error) {
	plan, exists, err := s.planRepo.GetByGame(ctx, gameID)
	if err != nil {
		return gameplan.Plan{}, false, fmt.Errorf("get plan by game: %w", err)
	}
	return plan, exists, nil
}

// NextRotation returns the first rotation planned after the game's current
// elapsed minute.
func (s *RotationService) NextRotation(ctx context.Context, gameID string) (gameplan.Rotation, bool, error) {
	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return gameplan.Rotation{}, false, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return gameplan.Rotation{}, false, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	plan, hasPlan, err := s.planRepo.GetByGame(ctx, gameID)
	if err != nil {
		return gameplan.Rotation{}, false, fmt.Errorf("get plan by game: %w", err)
	}
	if !hasPlan {
		return gameplan.Rotation{}, false, nil
	}

	rotation, ok := plan.NextAfter(g.Elapsed(s.now()) / 60)
	return rotation, ok, nil
}

// elapsedRotations counts rotation points the game has already passed, so a
// mid-game recalculation keeps their numbering instead of re-planning them.
func (s *RotationService) elapsedRotations(g game.Game, intervalMinutes int) int {
	if g.Status == game.StatusScheduled || intervalMinutes <= 0 {
		return 0
	}

	passed := 0
	halfLengthMinutes := g.HalfLengthSeconds / 60
	elapsedMinutes := g.Elapsed(s.now()) / 60
	for half := 1; half <= g.CurrentHalf; half++ {
		base := 0
		if half == 2 {
			base = halfLengthMinutes
		}
		for slot := 1; ; slot++ {
			minute := base + slot*intervalMinutes
			if minute >= half*halfLengthMinutes || minute > elapsedMinutes {
				break
			}
			passed++
		}
	}

	return passed
}

func (s *RotationService) listPlayers(ctx context.Context, teamID string) ([]roster.Player, error) {
	load := func(ctx context.Context) (any, error) {
		return s.provider.ListPlayers(ctx, teamID)
	}

	if s.store == nil {
		players, err := s.provider.ListPlayers(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("list roster players: %w", err)
		}
		return players, nil
	}

	value, err := s.store.GetOrLoad(ctx, "roster:players:"+teamID, load)
	if err != nil {
		return nil, fmt.Errorf("list roster players: %w", err)
	}
	players, ok := value.([]roster.Player)
	if !ok {
		return nil, fmt.Errorf("unexpected cached roster type %T", value)
	}
	return players, nil
}

func (s *RotationService) listPositions(ctx context.Context, teamID string) ([]roster.FieldPosition, error) {
	load := func(ctx context.Context) (any, error) {
		return s.provider.ListPositions(ctx, teamID)
	}

	if s.store == nil {
		positions, err := s.provider.ListPositions(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("list field positions: %w", err)
		}
		return positions, nil
	}

	value, err := s.store.GetOrLoad(ctx, "roster:positions:"+teamID, load)
	if err != nil {
		return nil, fmt.Errorf("list field positions: %w", err)
	}
	positions, ok := value.([]roster.FieldPosition)
	if !ok {
		return nil, fmt.Errorf("unexpected cached positions type %T", value)
	}
	return positions, nil
}
