package postgres

import (
	"time"

	"github.com/fieldside/gameday/internal/domain/game"
)

type gameTableModel struct {
	ID                string     `db:"id"`
	TeamID            string     `db:"team_id"`
	Opponent          string     `db:"opponent"`
	Status            string     `db:"status"`
	CurrentHalf       int        `db:"current_half"`
	HalfLengthSeconds int        `db:"half_length_seconds"`
	ElapsedSeconds    int        `db:"elapsed_seconds"`
	LastResumeAt      *time.Time `db:"last_resume_at"`
	HomeScore         int        `db:"home_score"`
	AwayScore         int        `db:"away_score"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:                row.ID,
		TeamID:            row.TeamID,
		Opponent:          row.Opponent,
		Status:            game.NormalizeStatus(row.Status),
		CurrentHalf:       row.CurrentHalf,
		HalfLengthSeconds: row.HalfLengthSeconds,
		ElapsedSeconds:    row.ElapsedSeconds,
		LastResumeAt:      row.LastResumeAt,
		HomeScore:         row.HomeScore,
		AwayScore:         row.AwayScore,
		UpdatedAt:         row.UpdatedAt,
	}
}

func gameToRow(g game.Game) gameTableModel {
	return gameTableModel{
		ID:                g.ID,
		TeamID:            g.TeamID,
		Opponent:          g.Opponent,
		Status:            g.Status,
		CurrentHalf:       g.CurrentHalf,
		HalfLengthSeconds: g.HalfLengthSeconds,
		ElapsedSeconds:    g.ElapsedSeconds,
		LastResumeAt:      g.LastResumeAt,
		HomeScore:         g.HomeScore,
		AwayScore:         g.AwayScore,
		UpdatedAt:         g.UpdatedAt,
	}
}
