package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldside/gameday/internal/domain/playtime"
	idgen "github.com/fieldside/gameday/internal/platform/id"
)

// LedgerService owns the play-time interval ledger. It enforces the single
// invariant everything else depends on: a player holds at most one open
// interval at a time.
type LedgerService struct {
	playRepo playtime.Repository
	ids      idgen.Generator
}

func NewLedgerService(playRepo playtime.Repository, ids idgen.Generator) *LedgerService {
	return &LedgerService{
		playRepo: playRepo,
		ids:      ids,
	}
}

// OpenInterval starts a new ledger record. A duplicate start for a player who
// is already on the field is rejected, which deduplicates re-synced starter
// lists racing against each other.
func (s *LedgerService) OpenInterval(ctx context.Context, gameID, playerID, positionID string, half, atSeconds int) (playtime.Record, error) {
	gameID = strings.TrimSpace(gameID)
	playerID = strings.TrimSpace(playerID)
	positionID = strings.TrimSpace(positionID)
	if gameID == "" || playerID == "" || positionID == "" {
		return playtime.Record{}, fmt.Errorf("%w: game_id, player_id and position_id are required", ErrInvalidInput)
	}
	if atSeconds < 0 {
		return playtime.Record{}, fmt.Errorf("%w: at_seconds cannot be negative", ErrInvalidInput)
	}

	existing, open, err := s.playRepo.GetOpenByPlayer(ctx, gameID, playerID)
	if err != nil {
		return playtime.Record{}, fmt.Errorf("check open interval: %w", err)
	}
	if open {
		return playtime.Record{}, fmt.Errorf("%w: player=%s position=%s", ErrDuplicateOpenInterval, playerID, existing.PositionID)
	}

	recordID, err := s.ids.NewID()
	if err != nil {
		return playtime.Record{}, fmt.Errorf("generate record id: %w", err)
	}

	record := playtime.Record{
		ID:           recordID,
		GameID:       gameID,
		PlayerID:     playerID,
		PositionID:   positionID,
		Half:         half,
		StartSeconds: atSeconds,
	}
	if err := s.playRepo.Insert(ctx, record); err != nil {
		return playtime.Record{}, fmt.Errorf("insert play time record: %w", err)
	}

	return record, nil
}

// CloseInterval ends the player's open record at atSeconds. A player with no
// open record is a no-op, so closing twice is always safe.
func (s *LedgerService) CloseInterval(ctx context.Context, gameID, playerID string, atSeconds int) error {
	record, open, err := s.playRepo.GetOpenByPlayer(ctx, gameID, playerID)
	if err != nil {
		return fmt.Errorf("find open interval: %w", err)
	}
	if !open {
		return nil
	}

	end := atSeconds
	if end < record.StartSeconds {
		end = record.StartSeconds
	}
	if err := s.playRepo.Close(ctx, record.ID, end); err != nil {
		return fmt.Errorf("close play time record: %w", err)
	}

	return nil
}

// CloseAll ends every open record for the game, used at halftime and end.
func (s *LedgerService) CloseAll(ctx context.Context, gameID string, atSeconds int) (int, error) {
	closed, err := s.playRepo.CloseAllOpen(ctx, gameID, atSeconds)
	if err != nil {
		return 0, fmt.Errorf("close all open records: %w", err)
	}
	return closed, nil
}

// TotalPlayTime sums closed intervals plus the live duration of an open one.
func (s *LedgerService) TotalPlayTime(ctx context.Context, gameID, playerID string, currentSeconds int) (int, error) {
	records, err := s.playRepo.ListByGame(ctx, gameID)
	if err != nil {
		return 0, fmt.Errorf("list play time records: %w", err)
	}
	return playtime.Total(records, playerID, currentSeconds), nil
}

// IsOnField reports whether the player has an open interval.
func (s *LedgerService) IsOnField(ctx context.Context, gameID, playerID string) (bool, error) {
	_, open, err := s.playRepo.GetOpenByPlayer(ctx, gameID, playerID)
	if err != nil {
		return false, fmt.Errorf("find open interval: %w", err)
	}
	return open, nil
}

// Records returns the full ledger for a game.
func (s *LedgerService) Records(ctx context.Context, gameID string) ([]playtime.Record, error) {
	records, err := s.playRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list play time records: %w", err)
	}
	return records, nil
}
