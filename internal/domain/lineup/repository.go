package lineup

import "context"

// Repository exposes lineup persistence operations.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]Assignment, error)
	GetByPosition(ctx context.Context, gameID, positionID string) (Assignment, bool, error)
	GetByPlayer(ctx context.Context, gameID, playerID string) (Assignment, bool, error)
	Upsert(ctx context.Context, assignment Assignment) error
	Remove(ctx context.Context, gameID, positionID string) error
}
