package memory

import (
	"context"
	"sync"

	"github.com/fieldside/gameday/internal/domain/gameplan"
)

type GamePlanRepository struct {
	mu    sync.RWMutex
	items map[string]gameplan.Plan // key: gameID
}

func NewGamePlanRepository() *GamePlanRepository {
	return &GamePlanRepository{items: make(map[string]gameplan.Plan)}
}

func (r *GamePlanRepository) GetByGame(_ context.Context, gameID string) (gameplan.Plan, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[gameID]
	if !ok {
		return gameplan.Plan{}, false, nil
	}
	return clonePlan(item), true, nil
}

func (r *GamePlanRepository) Upsert(_ context.Context, plan gameplan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[plan.GameID] = clonePlan(plan)
	return nil
}

func clonePlan(plan gameplan.Plan) gameplan.Plan {
	copied := plan
	copied.Rotations = make([]gameplan.Rotation, len(plan.Rotations))
	for i, rotation := range plan.Rotations {
		r := rotation
		r.Substitutions = append([]gameplan.PlannedSubstitution(nil), rotation.Substitutions...)
		copied.Rotations[i] = r
	}
	return copied
}
