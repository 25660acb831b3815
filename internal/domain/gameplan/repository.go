package gameplan

import "context"

// Repository exposes game plan persistence operations. A game holds at most
// one plan; recalculation replaces it.
type Repository interface {
	GetByGame(ctx context.Context, gameID string) (Plan, bool, error)
	Upsert(ctx context.Context, plan Plan) error
}
