package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/fieldside/gameday/internal/domain/roster"
	"github.com/fieldside/gameday/internal/infrastructure/repository/memory"
)

type rosterProviderMock struct {
	mock.Mock
}

func (m *rosterProviderMock) ListPlayers(ctx context.Context, teamID string) ([]roster.Player, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]roster.Player), args.Error(1)
}

func (m *rosterProviderMock) ListPositions(ctx context.Context, teamID string) ([]roster.FieldPosition, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]roster.FieldPosition), args.Error(1)
}

func TestRecalculateCachesRosterReads(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	seedStarters(t, ft, memory.GameIDRovers)

	provider := &rosterProviderMock{}
	provider.
		On("ListPlayers", mock.Anything, memory.TeamIDRovers).
		Return(memory.SeedPlayers(), nil).
		Once()
	provider.
		On("ListPositions", mock.Anything, memory.TeamIDRovers).
		Return(memory.SeedPositions(), nil).
		Once()
	ft.rotation.provider = provider

	// Two rebuilds, one provider round trip: the second hits the cache.
	for i := 0; i < 2; i++ {
		if _, err := ft.rotation.Recalculate(ctx, rotationInput()); err != nil {
			t.Fatalf("recalculate %d: %v", i, err)
		}
	}

	provider.AssertExpectations(t)
}
