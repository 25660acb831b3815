package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fieldside/gameday/internal/domain/availability"
)

type AvailabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

type availabilityTableModel struct {
	GameID                string    `db:"game_id"`
	PlayerID              string    `db:"player_id"`
	Status                string    `db:"status"`
	Reason                string    `db:"reason"`
	ExpectedArrivalMinute int       `db:"expected_arrival_minute"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func (r *AvailabilityRepository) MapByGame(ctx context.Context, gameID string) (map[string]availability.Availability, error) {
	query := `
		SELECT game_id, player_id, status, reason, expected_arrival_minute, updated_at
		FROM player_availability WHERE game_id = $1`

	var rows []availabilityTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("list availability by game: %w", err)
	}

	out := make(map[string]availability.Availability, len(rows))
	for _, row := range rows {
		out[row.PlayerID] = availability.Availability{
			GameID:                row.GameID,
			PlayerID:              row.PlayerID,
			Status:                row.Status,
			Reason:                row.Reason,
			ExpectedArrivalMinute: row.ExpectedArrivalMinute,
			UpdatedAt:             row.UpdatedAt,
		}
	}
	return out, nil
}

func (r *AvailabilityRepository) Upsert(ctx context.Context, item availability.Availability) error {
	query := `
		INSERT INTO player_availability (
			game_id, player_id, status, reason, expected_arrival_minute, updated_at
		) VALUES (
			:game_id, :player_id, :status, :reason, :expected_arrival_minute, :updated_at
		)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			status = EXCLUDED.status,
			reason = EXCLUDED.reason,
			expected_arrival_minute = EXCLUDED.expected_arrival_minute,
			updated_at = EXCLUDED.updated_at`

	row := availabilityTableModel{
		GameID:                item.GameID,
		PlayerID:              item.PlayerID,
		Status:                item.Status,
		Reason:                item.Reason,
		ExpectedArrivalMinute: item.ExpectedArrivalMinute,
		UpdatedAt:             item.UpdatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}
