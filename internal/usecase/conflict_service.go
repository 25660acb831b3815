package usecase

import (
	"context"
	"fmt"

	"github.com/fieldside/gameday/internal/domain/availability"
	"github.com/fieldside/gameday/internal/domain/gameplan"
	"github.com/fieldside/gameday/internal/domain/lineup"
)

// ConflictService cross-references the rotation plan and starting lineup
// against live availability. Conflicts are warnings for the coach before
// kickoff and at each rotation boundary; they never block anything.
type ConflictService struct {
	lineupRepo lineup.Repository
	availRepo  availability.Repository
	planRepo   gameplan.Repository
}

func NewConflictService(lineupRepo lineup.Repository, availRepo availability.Repository, planRepo gameplan.Repository) *ConflictService {
	return &ConflictService{
		lineupRepo: lineupRepo,
		availRepo:  availRepo,
		planRepo:   planRepo,
	}
}

func (s *ConflictService) Conflicts(ctx context.Context, gameID string) ([]gameplan.Conflict, error) {
	ctx, span := startEngineSpan(ctx, "usecase.ConflictService.Conflicts")
	defer span.End()

	assignments, err := s.lineupRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list lineup: %w", err)
	}
	starters := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		starters[assignment.PositionID] = assignment.PlayerID
	}

	plan, hasPlan, err := s.planRepo.GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get plan by game: %w", err)
	}
	if !hasPlan {
		plan = gameplan.Plan{GameID: gameID}
	}

	avail, err := s.availRepo.MapByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("map availability: %w", err)
	}

	return gameplan.DetectConflicts(starters, plan, avail), nil
}
