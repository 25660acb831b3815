package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldside/gameday/internal/domain/lineup"
)

type LineupRepository struct {
	mu    sync.RWMutex
	items map[string]lineup.Assignment // key: gameID::positionID
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{items: make(map[string]lineup.Assignment)}
}

func (r *LineupRepository) ListByGame(_ context.Context, gameID string) ([]lineup.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Assignment, 0, len(r.items))
	for _, item := range r.items {
		if item.GameID == gameID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PositionID < out[j].PositionID })
	return out, nil
}

func (r *LineupRepository) GetByPosition(_ context.Context, gameID, positionID string) (lineup.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[assignmentKey(gameID, positionID)]
	if !ok {
		return lineup.Assignment{}, false, nil
	}
	return item, true, nil
}

func (r *LineupRepository) GetByPlayer(_ context.Context, gameID, playerID string) (lineup.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.GameID == gameID && item.PlayerID == playerID {
			return item, true, nil
		}
	}
	return lineup.Assignment{}, false, nil
}

func (r *LineupRepository) Upsert(_ context.Context, assignment lineup.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// One assignment per player: moving a player to a new position clears
	// their old slot.
	for key, item := range r.items {
		if item.GameID == assignment.GameID &&
			item.PlayerID == assignment.PlayerID &&
			item.PositionID != assignment.PositionID {
			delete(r.items, key)
		}
	}

	r.items[assignmentKey(assignment.GameID, assignment.PositionID)] = assignment
	return nil
}

func (r *LineupRepository) Remove(_ context.Context, gameID, positionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, assignmentKey(gameID, positionID))
	return nil
}

func assignmentKey(gameID, positionID string) string {
	return gameID + "::" + positionID
}
