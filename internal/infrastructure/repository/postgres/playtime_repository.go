package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldside/gameday/internal/domain/playtime"
)

type PlaytimeRepository struct {
	db *sqlx.DB
}

func NewPlaytimeRepository(db *sqlx.DB) *PlaytimeRepository {
	return &PlaytimeRepository{db: db}
}

const playtimeSelectColumns = `
	id, game_id, player_id, position_id, half, start_seconds, end_seconds`

func (r *PlaytimeRepository) ListByGame(ctx context.Context, gameID string) ([]playtime.Record, error) {
	query := `SELECT` + playtimeSelectColumns + `
		FROM play_time_records WHERE game_id = $1 ORDER BY start_seconds, id`

	var rows []playtimeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("list play time records: %w", err)
	}

	out := make([]playtime.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, playtimeFromRow(row))
	}
	return out, nil
}

func (r *PlaytimeRepository) ListOpenByGame(ctx context.Context, gameID string) ([]playtime.Record, error) {
	query := `SELECT` + playtimeSelectColumns + `
		FROM play_time_records
		WHERE game_id = $1 AND end_seconds IS NULL
		ORDER BY start_seconds, id`

	var rows []playtimeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("list open play time records: %w", err)
	}

	out := make([]playtime.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, playtimeFromRow(row))
	}
	return out, nil
}

func (r *PlaytimeRepository) GetOpenByPlayer(ctx context.Context, gameID, playerID string) (playtime.Record, bool, error) {
	query := `SELECT` + playtimeSelectColumns + `
		FROM play_time_records
		WHERE game_id = $1 AND player_id = $2 AND end_seconds IS NULL`

	var row playtimeTableModel
	if err := r.db.GetContext(ctx, &row, query, gameID, playerID); err != nil {
		if isNotFound(err) {
			return playtime.Record{}, false, nil
		}
		return playtime.Record{}, false, fmt.Errorf("get open play time record: %w", err)
	}

	return playtimeFromRow(row), true, nil
}

func (r *PlaytimeRepository) Insert(ctx context.Context, record playtime.Record) error {
	query := `
		INSERT INTO play_time_records (
			id, game_id, player_id, position_id, half, start_seconds, end_seconds
		) VALUES (
			:id, :game_id, :player_id, :position_id, :half, :start_seconds, :end_seconds
		)`

	if _, err := r.db.NamedExecContext(ctx, query, playtimeToRow(record)); err != nil {
		return fmt.Errorf("insert play time record: %w", err)
	}
	return nil
}

// Close only touches still-open records; closing twice is a no-op. The end
// is clamped at the record's start so backwards clock snapshots cannot write
// negative intervals.
func (r *PlaytimeRepository) Close(ctx context.Context, recordID string, endSeconds int) error {
	query := `
		UPDATE play_time_records
		SET end_seconds = GREATEST(start_seconds, $2)
		WHERE id = $1 AND end_seconds IS NULL`

	if _, err := r.db.ExecContext(ctx, query, recordID, endSeconds); err != nil {
		return fmt.Errorf("close play time record: %w", err)
	}
	return nil
}

func (r *PlaytimeRepository) CloseAllOpen(ctx context.Context, gameID string, endSeconds int) (int, error) {
	query := `
		UPDATE play_time_records
		SET end_seconds = GREATEST(start_seconds, $2)
		WHERE game_id = $1 AND end_seconds IS NULL`

	res, err := r.db.ExecContext(ctx, query, gameID, endSeconds)
	if err != nil {
		return 0, fmt.Errorf("close open play time records: %w", err)
	}

	closed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("close open play time records: rows affected: %w", err)
	}
	return int(closed), nil
}
