package memory

import (
	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/domain/roster"
)

const (
	TeamIDRovers = "u10-rovers"
	GameIDRovers = "rovers-vs-harbor"
)

// SeedGames returns one scheduled 7v7 youth match with 25 minute halves.
func SeedGames() []game.Game {
	return []game.Game{
		{
			ID:                GameIDRovers,
			TeamID:            TeamIDRovers,
			Opponent:          "Harbor United",
			Status:            game.StatusScheduled,
			CurrentHalf:       1,
			HalfLengthSeconds: 25 * 60,
		},
	}
}

func SeedPositions() []roster.FieldPosition {
	return []roster.FieldPosition{
		{ID: "pos-gk", TeamID: TeamIDRovers, Name: "Goalkeeper", Abbreviation: "GK", SortOrder: 1},
		{ID: "pos-lb", TeamID: TeamIDRovers, Name: "Left Back", Abbreviation: "LB", SortOrder: 2},
		{ID: "pos-rb", TeamID: TeamIDRovers, Name: "Right Back", Abbreviation: "RB", SortOrder: 3},
		{ID: "pos-cm", TeamID: TeamIDRovers, Name: "Center Mid", Abbreviation: "CM", SortOrder: 4},
		{ID: "pos-lw", TeamID: TeamIDRovers, Name: "Left Wing", Abbreviation: "LW", SortOrder: 5},
		{ID: "pos-rw", TeamID: TeamIDRovers, Name: "Right Wing", Abbreviation: "RW", SortOrder: 6},
		{ID: "pos-st", TeamID: TeamIDRovers, Name: "Striker", Abbreviation: "ST", SortOrder: 7},
	}
}

func SeedPlayers() []roster.Player {
	return []roster.Player{
		{ID: "p-ava", TeamID: TeamIDRovers, Name: "Ava", JerseyNumber: 1, PreferredPositionIDs: []string{"pos-gk"}},
		{ID: "p-ben", TeamID: TeamIDRovers, Name: "Ben", JerseyNumber: 2, PreferredPositionIDs: []string{"pos-lb", "pos-rb"}},
		{ID: "p-cam", TeamID: TeamIDRovers, Name: "Cam", JerseyNumber: 3, PreferredPositionIDs: []string{"pos-rb"}},
		{ID: "p-dee", TeamID: TeamIDRovers, Name: "Dee", JerseyNumber: 4, PreferredPositionIDs: []string{"pos-cm"}},
		{ID: "p-eli", TeamID: TeamIDRovers, Name: "Eli", JerseyNumber: 5, PreferredPositionIDs: []string{"pos-lw", "pos-st"}},
		{ID: "p-fin", TeamID: TeamIDRovers, Name: "Fin", JerseyNumber: 6, PreferredPositionIDs: []string{"pos-rw"}},
		{ID: "p-gus", TeamID: TeamIDRovers, Name: "Gus", JerseyNumber: 7, PreferredPositionIDs: []string{"pos-st"}},
		{ID: "p-hal", TeamID: TeamIDRovers, Name: "Hal", JerseyNumber: 8, PreferredPositionIDs: []string{"pos-cm", "pos-lw"}},
		{ID: "p-ida", TeamID: TeamIDRovers, Name: "Ida", JerseyNumber: 9, PreferredPositionIDs: []string{"pos-lb"}},
		{ID: "p-jo", TeamID: TeamIDRovers, Name: "Jo", JerseyNumber: 10, PreferredPositionIDs: []string{"pos-st", "pos-rw"}},
		{ID: "p-kit", TeamID: TeamIDRovers, Name: "Kit", JerseyNumber: 11, PreferredPositionIDs: []string{"pos-rb", "pos-cm"}},
	}
}

// SeedStarters maps the seven on-field positions to the opening lineup.
func SeedStarters() map[string]string {
	return map[string]string{
		"pos-gk": "p-ava",
		"pos-lb": "p-ben",
		"pos-rb": "p-cam",
		"pos-cm": "p-dee",
		"pos-lw": "p-eli",
		"pos-rw": "p-fin",
		"pos-st": "p-gus",
	}
}
