package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldside/gameday/internal/domain/roster"
)

// RosterProvider is the in-memory roster/formation collaborator.
type RosterProvider struct {
	mu        sync.RWMutex
	players   []roster.Player
	positions []roster.FieldPosition
}

func NewRosterProvider(players []roster.Player, positions []roster.FieldPosition) *RosterProvider {
	return &RosterProvider{
		players:   append([]roster.Player(nil), players...),
		positions: append([]roster.FieldPosition(nil), positions...),
	}
}

func (p *RosterProvider) ListPlayers(_ context.Context, teamID string) ([]roster.Player, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]roster.Player, 0, len(p.players))
	for _, player := range p.players {
		if player.TeamID == teamID {
			copied := player
			copied.PreferredPositionIDs = append([]string(nil), player.PreferredPositionIDs...)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JerseyNumber < out[j].JerseyNumber })
	return out, nil
}

func (p *RosterProvider) ListPositions(_ context.Context, teamID string) ([]roster.FieldPosition, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]roster.FieldPosition, 0, len(p.positions))
	for _, position := range p.positions {
		if position.TeamID == teamID {
			out = append(out, position)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}
