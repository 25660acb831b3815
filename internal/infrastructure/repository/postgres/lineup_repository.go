package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldside/gameday/internal/domain/lineup"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

const lineupSelectColumns = ` game_id, position_id, player_id, half, updated_at`

func (r *LineupRepository) ListByGame(ctx context.Context, gameID string) ([]lineup.Assignment, error) {
	query := `SELECT` + lineupSelectColumns + `
		FROM lineup_assignments WHERE game_id = $1 ORDER BY position_id`

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("list lineup by game: %w", err)
	}

	out := make([]lineup.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineupFromRow(row))
	}
	return out, nil
}

func (r *LineupRepository) GetByPosition(ctx context.Context, gameID, positionID string) (lineup.Assignment, bool, error) {
	query := `SELECT` + lineupSelectColumns + `
		FROM lineup_assignments WHERE game_id = $1 AND position_id = $2`

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, gameID, positionID); err != nil {
		if isNotFound(err) {
			return lineup.Assignment{}, false, nil
		}
		return lineup.Assignment{}, false, fmt.Errorf("get lineup by position: %w", err)
	}

	return lineupFromRow(row), true, nil
}

func (r *LineupRepository) GetByPlayer(ctx context.Context, gameID, playerID string) (lineup.Assignment, bool, error) {
	query := `SELECT` + lineupSelectColumns + `
		FROM lineup_assignments WHERE game_id = $1 AND player_id = $2`

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, gameID, playerID); err != nil {
		if isNotFound(err) {
			return lineup.Assignment{}, false, nil
		}
		return lineup.Assignment{}, false, fmt.Errorf("get lineup by player: %w", err)
	}

	return lineupFromRow(row), true, nil
}

// Upsert keeps both per-position and per-player uniqueness: the player's
// previous slot is vacated inside the same transaction before the new
// assignment lands.
func (r *LineupRepository) Upsert(ctx context.Context, assignment lineup.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert lineup: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	clear := `
		DELETE FROM lineup_assignments
		WHERE game_id = $1 AND player_id = $2 AND position_id <> $3`
	if _, err := tx.ExecContext(ctx, clear, assignment.GameID, assignment.PlayerID, assignment.PositionID); err != nil {
		return fmt.Errorf("upsert lineup: clear player slot: %w", err)
	}

	query := `
		INSERT INTO lineup_assignments (game_id, position_id, player_id, half, updated_at)
		VALUES (:game_id, :position_id, :player_id, :half, :updated_at)
		ON CONFLICT (game_id, position_id) DO UPDATE SET
			player_id = EXCLUDED.player_id,
			half = EXCLUDED.half,
			updated_at = EXCLUDED.updated_at`
	if _, err := tx.NamedExecContext(ctx, query, lineupToRow(assignment)); err != nil {
		return fmt.Errorf("upsert lineup: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert lineup: commit: %w", err)
	}
	return nil
}

func (r *LineupRepository) Remove(ctx context.Context, gameID, positionID string) error {
	query := `DELETE FROM lineup_assignments WHERE game_id = $1 AND position_id = $2`
	if _, err := r.db.ExecContext(ctx, query, gameID, positionID); err != nil {
		return fmt.Errorf("remove lineup assignment: %w", err)
	}
	return nil
}
