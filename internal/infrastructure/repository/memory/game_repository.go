package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldside/gameday/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository(seed []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(seed))
	for _, g := range seed {
		items[g.ID] = cloneGame(g)
	}
	return &GameRepository{items: items}
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return game.Game{}, false, nil
	}
	return cloneGame(item), true, nil
}

func (r *GameRepository) ListByTeam(_ context.Context, teamID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, cloneGame(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GameRepository) Upsert(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[g.ID] = cloneGame(g)
	return nil
}

func cloneGame(g game.Game) game.Game {
	copied := g
	if g.LastResumeAt != nil {
		at := *g.LastResumeAt
		copied.LastResumeAt = &at
	}
	return copied
}
