package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldside/gameday/internal/domain/game"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameSelectColumns = `
	id, team_id, opponent, status, current_half, half_length_seconds,
	elapsed_seconds, last_resume_at, home_score, away_score, updated_at`

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query := `SELECT` + gameSelectColumns + ` FROM games WHERE id = $1`

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListByTeam(ctx context.Context, teamID string) ([]game.Game, error) {
	query := `SELECT` + gameSelectColumns + ` FROM games WHERE team_id = $1 ORDER BY id`

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, teamID); err != nil {
		return nil, fmt.Errorf("list games by team: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) Upsert(ctx context.Context, g game.Game) error {
	query := `
		INSERT INTO games (
			id, team_id, opponent, status, current_half, half_length_seconds,
			elapsed_seconds, last_resume_at, home_score, away_score, updated_at
		) VALUES (
			:id, :team_id, :opponent, :status, :current_half, :half_length_seconds,
			:elapsed_seconds, :last_resume_at, :home_score, :away_score, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			current_half = EXCLUDED.current_half,
			half_length_seconds = EXCLUDED.half_length_seconds,
			elapsed_seconds = EXCLUDED.elapsed_seconds,
			last_resume_at = EXCLUDED.last_resume_at,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, gameToRow(g)); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}
	return nil
}
