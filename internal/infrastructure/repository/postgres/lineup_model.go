package postgres

import (
	"time"

	"github.com/fieldside/gameday/internal/domain/lineup"
)

type lineupTableModel struct {
	GameID     string    `db:"game_id"`
	PositionID string    `db:"position_id"`
	PlayerID   string    `db:"player_id"`
	Half       int       `db:"half"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func lineupFromRow(row lineupTableModel) lineup.Assignment {
	return lineup.Assignment{
		GameID:     row.GameID,
		PositionID: row.PositionID,
		PlayerID:   row.PlayerID,
		Half:       row.Half,
		UpdatedAt:  row.UpdatedAt,
	}
}

func lineupToRow(a lineup.Assignment) lineupTableModel {
	return lineupTableModel{
		GameID:     a.GameID,
		PositionID: a.PositionID,
		PlayerID:   a.PlayerID,
		Half:       a.Half,
		UpdatedAt:  a.UpdatedAt,
	}
}
