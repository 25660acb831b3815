package playtime

import "context"

// Repository exposes play-time ledger persistence operations. Close and
// CloseAllOpen must ignore records that are already closed so repeated
// halftime/end transitions cannot double-close the ledger.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]Record, error)
	ListOpenByGame(ctx context.Context, gameID string) ([]Record, error)
	GetOpenByPlayer(ctx context.Context, gameID, playerID string) (Record, bool, error)
	Insert(ctx context.Context, record Record) error
	Close(ctx context.Context, recordID string, endSeconds int) error
	CloseAllOpen(ctx context.Context, gameID string, endSeconds int) (int, error)
}
