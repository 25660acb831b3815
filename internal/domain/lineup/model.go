package lineup

import "time"

// Assignment maps one field position to the player currently covering it.
// A game holds at most one assignment per position and per player.
type Assignment struct {
	GameID     string
	PositionID string
	PlayerID   string
	Half       int
	UpdatedAt  time.Time
}
