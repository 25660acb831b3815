package gameplan

import "time"

// PlannedSubstitution is one suggested swap inside a rotation point.
type PlannedSubstitution struct {
	PlayerOutID string `json:"player_out_id"`
	PlayerInID  string `json:"player_in_id"`
	PositionID  string `json:"position_id"`
}

// Rotation is a planned minute mark at which substitutions are suggested.
// Numbers are global across the game; minutes are game-elapsed.
type Rotation struct {
	Number        int
	Half          int
	GameMinute    int
	Substitutions []PlannedSubstitution
}

// Plan is the advisory rotation schedule for one game. It never mutates the
// lineup by itself; a coach action is always required to apply an entry.
type Plan struct {
	ID              string
	GameID          string
	IntervalMinutes int
	SlotsPerHalf    int
	Rotations       []Rotation
	CreatedAt       time.Time
}

// NextAfter returns the first rotation planned strictly after the given
// game-elapsed minute.
func (p Plan) NextAfter(minute int) (Rotation, bool) {
	for _, r := range p.Rotations {
		if r.GameMinute > minute {
			return r, true
		}
	}
	return Rotation{}, false
}

// RotationAt returns the rotation planned exactly at the given minute.
func (p Plan) RotationAt(minute int) (Rotation, bool) {
	for _, r := range p.Rotations {
		if r.GameMinute == minute {
			return r, true
		}
	}
	return Rotation{}, false
}
