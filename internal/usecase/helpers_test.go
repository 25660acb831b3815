package usecase

import (
	"time"

	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/infrastructure/repository/memory"
	"github.com/fieldside/gameday/internal/platform/cache"
	idgen "github.com/fieldside/gameday/internal/platform/id"
	"github.com/fieldside/gameday/internal/platform/logging"
)

// fixture wires every service against fresh in-memory repositories with a
// controllable wall clock.
type fixture struct {
	games    *memory.GameRepository
	lineups  *memory.LineupRepository
	plays    *memory.PlayTimeRepository
	avail    *memory.AvailabilityRepository
	plans    *memory.GamePlanRepository
	roster   *memory.RosterProvider
	ledger   *LedgerService
	clock    *ClockService
	subs     *SubstitutionService
	rotation *RotationService
	detector *ConflictService

	now time.Time
}

func newFixture(seed []game.Game) *fixture {
	ft := &fixture{
		games:   memory.NewGameRepository(seed),
		lineups: memory.NewLineupRepository(),
		plays:   memory.NewPlayTimeRepository(),
		avail:   memory.NewAvailabilityRepository(),
		plans:   memory.NewGamePlanRepository(),
		roster:  memory.NewRosterProvider(memory.SeedPlayers(), memory.SeedPositions()),
		now:     time.Date(2026, time.April, 18, 9, 0, 0, 0, time.UTC),
	}

	logger := logging.NewNop()
	ft.ledger = NewLedgerService(ft.plays, idgen.NewSequence("rec"))
	ft.clock = NewClockService(ft.games, ft.lineups, ft.ledger, logger)
	ft.subs = NewSubstitutionService(ft.games, ft.lineups, ft.avail, ft.ledger, logger)
	ft.rotation = NewRotationService(ft.games, ft.lineups, ft.avail, ft.plans, ft.roster, cache.NewStore(time.Minute), idgen.NewSequence("plan"), logger)
	ft.detector = NewConflictService(ft.lineups, ft.avail, ft.plans)

	wall := func() time.Time { return ft.now }
	ft.clock.SetNow(wall)
	ft.subs.SetNow(wall)
	ft.rotation.SetNow(wall)

	return ft
}

func newSeededFixture() *fixture {
	return newFixture(memory.SeedGames())
}

func (ft *fixture) advance(d time.Duration) {
	ft.now = ft.now.Add(d)
}
