package roster

import "context"

// Player is one athlete on the team roster.
type Player struct {
	ID                   string
	TeamID               string
	Name                 string
	JerseyNumber         int
	PreferredPositionIDs []string
}

// Prefers reports whether the player lists the position among their
// preferred spots.
func (p Player) Prefers(positionID string) bool {
	for _, id := range p.PreferredPositionIDs {
		if id == positionID {
			return true
		}
	}
	return false
}

// FieldPosition is one on-field slot in the team's formation.
type FieldPosition struct {
	ID           string
	TeamID       string
	Name         string
	Abbreviation string
	SortOrder    int
}

// Provider is the read-only roster/formation collaborator. The engine never
// mutates rosters.
type Provider interface {
	ListPlayers(ctx context.Context, teamID string) ([]Player, error)
	ListPositions(ctx context.Context, teamID string) ([]FieldPosition, error)
}
