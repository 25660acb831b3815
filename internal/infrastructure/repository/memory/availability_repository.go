package memory

import (
	"context"
	"sync"

	"github.com/fieldside/gameday/internal/domain/availability"
)

type AvailabilityRepository struct {
	mu    sync.RWMutex
	items map[string]availability.Availability // key: gameID::playerID
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{items: make(map[string]availability.Availability)}
}

func (r *AvailabilityRepository) MapByGame(_ context.Context, gameID string) (map[string]availability.Availability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]availability.Availability)
	for _, item := range r.items {
		if item.GameID == gameID {
			out[item.PlayerID] = item
		}
	}
	return out, nil
}

func (r *AvailabilityRepository) Upsert(_ context.Context, item availability.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.GameID+"::"+item.PlayerID] = item
	return nil
}
