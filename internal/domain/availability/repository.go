package availability

import "context"

// Repository exposes per-game availability persistence operations.
type Repository interface {
	MapByGame(ctx context.Context, gameID string) (map[string]Availability, error)
	Upsert(ctx context.Context, item Availability) error
}
