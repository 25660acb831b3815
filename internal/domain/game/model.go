package game

import "time"

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusHalftime   = "halftime"
	StatusCompleted  = "completed"
)

// HardCapSeconds bounds elapsed time for any game. A clock left running
// overnight completes the game instead of accumulating nonsense totals.
const HardCapSeconds = 7200

// Game is the clock state for one match. ElapsedSeconds is the last
// checkpointed game-elapsed value; LastResumeAt is the wall anchor the live
// value is reconstructed from, nil while the clock is stopped.
type Game struct {
	ID                string
	TeamID            string
	Opponent          string
	Status            string
	CurrentHalf       int
	HalfLengthSeconds int
	ElapsedSeconds    int
	LastResumeAt      *time.Time
	HomeScore         int
	AwayScore         int
	UpdatedAt         time.Time
}

// Running reports whether the clock is live: in progress with a wall anchor.
func (g Game) Running() bool {
	return g.Status == StatusInProgress && g.LastResumeAt != nil
}

// Elapsed reconstructs live game-elapsed seconds from the last checkpoint
// plus wall time since the anchor. Clock skew never takes the value below
// the checkpoint.
func (g Game) Elapsed(now time.Time) int {
	if !g.Running() {
		return g.ElapsedSeconds
	}

	delta := int(now.Sub(*g.LastResumeAt) / time.Second)
	if delta < 0 {
		delta = 0
	}

	elapsed := g.ElapsedSeconds + delta
	if elapsed > HardCapSeconds {
		elapsed = HardCapSeconds
	}
	return elapsed
}

// ValidTransition reports whether a status change follows the clock state
// machine. Completed is terminal.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusScheduled:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusHalftime || to == StatusCompleted
	case StatusHalftime:
		return to == StatusInProgress || to == StatusCompleted
	default:
		return false
	}
}

// NormalizeStatus maps unknown stored values to scheduled so a bad row can
// not wedge the state machine.
func NormalizeStatus(status string) string {
	switch status {
	case StatusScheduled, StatusInProgress, StatusHalftime, StatusCompleted:
		return status
	default:
		return StatusScheduled
	}
}
