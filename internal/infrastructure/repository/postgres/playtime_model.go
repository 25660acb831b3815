package postgres

import "github.com/fieldside/gameday/internal/domain/playtime"

type playtimeTableModel struct {
	ID           string `db:"id"`
	GameID       string `db:"game_id"`
	PlayerID     string `db:"player_id"`
	PositionID   string `db:"position_id"`
	Half         int    `db:"half"`
	StartSeconds int    `db:"start_seconds"`
	EndSeconds   *int   `db:"end_seconds"`
}

func playtimeFromRow(row playtimeTableModel) playtime.Record {
	return playtime.Record{
		ID:           row.ID,
		GameID:       row.GameID,
		PlayerID:     row.PlayerID,
		PositionID:   row.PositionID,
		Half:         row.Half,
		StartSeconds: row.StartSeconds,
		EndSeconds:   row.EndSeconds,
	}
}

func playtimeToRow(rec playtime.Record) playtimeTableModel {
	return playtimeTableModel{
		ID:           rec.ID,
		GameID:       rec.GameID,
		PlayerID:     rec.PlayerID,
		PositionID:   rec.PositionID,
		Half:         rec.Half,
		StartSeconds: rec.StartSeconds,
		EndSeconds:   rec.EndSeconds,
	}
}
