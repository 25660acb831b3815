package availability

import "time"

const (
	StatusAvailable   = "available"
	StatusAbsent      = "absent"
	StatusLateArrival = "late_arrival"
	StatusInjured     = "injured"
)

var AllStatuses = map[string]struct{}{
	StatusAvailable:   {},
	StatusAbsent:      {},
	StatusLateArrival: {},
	StatusInjured:     {},
}

// Availability is one player's per-game status. The absence of a record
// means the player is available.
type Availability struct {
	GameID   string
	PlayerID string
	Status   string
	Reason   string
	// ExpectedArrivalMinute only applies to late arrivals; zero means unknown.
	ExpectedArrivalMinute int
	UpdatedAt             time.Time
}

// Unavailable reports whether the status rules a player out entirely.
// Late arrivals are not unavailable, only ineligible before their minute.
func Unavailable(status string) bool {
	return status == StatusAbsent || status == StatusInjured
}
