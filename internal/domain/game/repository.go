package game

import "context"

// Repository exposes game clock persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Game, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Game, error)
	Upsert(ctx context.Context, g Game) error
}
