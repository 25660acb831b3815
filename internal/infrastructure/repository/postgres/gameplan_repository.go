package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fieldside/gameday/internal/domain/gameplan"
	"github.com/fieldside/gameday/internal/platform/logging"
)

type GameplanRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewGameplanRepository(db *sqlx.DB, logger *logging.Logger) *GameplanRepository {
	return &GameplanRepository{db: db, logger: logger}
}

type planTableModel struct {
	ID              string    `db:"id"`
	GameID          string    `db:"game_id"`
	IntervalMinutes int       `db:"interval_minutes"`
	SlotsPerHalf    int       `db:"slots_per_half"`
	CreatedAt       time.Time `db:"created_at"`
}

type rotationTableModel struct {
	PlanID        string `db:"plan_id"`
	Number        int    `db:"number"`
	Half          int    `db:"half"`
	GameMinute    int    `db:"game_minute"`
	Substitutions string `db:"substitutions"`
}

func (r *GameplanRepository) GetByGame(ctx context.Context, gameID string) (gameplan.Plan, bool, error) {
	query := `
		SELECT id, game_id, interval_minutes, slots_per_half, created_at
		FROM game_plans WHERE game_id = $1`

	var row planTableModel
	if err := r.db.GetContext(ctx, &row, query, gameID); err != nil {
		if isNotFound(err) {
			return gameplan.Plan{}, false, nil
		}
		return gameplan.Plan{}, false, fmt.Errorf("get game plan: %w", err)
	}

	rotations, err := r.listRotations(ctx, row.ID)
	if err != nil {
		return gameplan.Plan{}, false, err
	}

	return gameplan.Plan{
		ID:              row.ID,
		GameID:          row.GameID,
		IntervalMinutes: row.IntervalMinutes,
		SlotsPerHalf:    row.SlotsPerHalf,
		Rotations:       rotations,
		CreatedAt:       row.CreatedAt,
	}, true, nil
}

func (r *GameplanRepository) listRotations(ctx context.Context, planID string) ([]gameplan.Rotation, error) {
	query := `
		SELECT plan_id, number, half, game_minute, substitutions
		FROM game_plan_rotations WHERE plan_id = $1 ORDER BY number`

	var rows []rotationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, planID); err != nil {
		return nil, fmt.Errorf("list plan rotations: %w", err)
	}

	out := make([]gameplan.Rotation, 0, len(rows))
	for _, row := range rows {
		decoded := gameplan.DecodeSubstitutions(row.Substitutions)
		if !decoded.OK() {
			// A corrupt blob degrades one rotation to an empty entry, it
			// never takes the whole plan down.
			r.logger.Warn("discarding malformed rotation substitutions",
				"plan_id", planID,
				"rotation", row.Number,
				"error", decoded.Err,
			)
		}

		out = append(out, gameplan.Rotation{
			Number:        row.Number,
			Half:          row.Half,
			GameMinute:    row.GameMinute,
			Substitutions: decoded.Substitutions,
		})
	}
	return out, nil
}

// Upsert replaces the game's plan wholesale; a game keeps at most one plan.
func (r *GameplanRepository) Upsert(ctx context.Context, plan gameplan.Plan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert game plan: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_plans WHERE game_id = $1`, plan.GameID); err != nil {
		return fmt.Errorf("upsert game plan: drop previous: %w", err)
	}

	planQuery := `
		INSERT INTO game_plans (id, game_id, interval_minutes, slots_per_half, created_at)
		VALUES (:id, :game_id, :interval_minutes, :slots_per_half, :created_at)`
	planRow := planTableModel{
		ID:              plan.ID,
		GameID:          plan.GameID,
		IntervalMinutes: plan.IntervalMinutes,
		SlotsPerHalf:    plan.SlotsPerHalf,
		CreatedAt:       plan.CreatedAt,
	}
	if _, err := tx.NamedExecContext(ctx, planQuery, planRow); err != nil {
		return fmt.Errorf("upsert game plan: %w", err)
	}

	rotationQuery := `
		INSERT INTO game_plan_rotations (plan_id, number, half, game_minute, substitutions)
		VALUES (:plan_id, :number, :half, :game_minute, :substitutions)`
	for _, rotation := range plan.Rotations {
		encoded, err := gameplan.EncodeSubstitutions(rotation.Substitutions)
		if err != nil {
			return err
		}

		row := rotationTableModel{
			PlanID:        plan.ID,
			Number:        rotation.Number,
			Half:          rotation.Half,
			GameMinute:    rotation.GameMinute,
			Substitutions: encoded,
		}
		if _, err := tx.NamedExecContext(ctx, rotationQuery, row); err != nil {
			return fmt.Errorf("upsert plan rotation %d: %w", rotation.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert game plan: commit: %w", err)
	}
	return nil
}
