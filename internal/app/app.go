package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldside/gameday/internal/config"
	"github.com/fieldside/gameday/internal/domain/availability"
	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/domain/gameplan"
	"github.com/fieldside/gameday/internal/domain/lineup"
	"github.com/fieldside/gameday/internal/domain/playtime"
	"github.com/fieldside/gameday/internal/domain/roster"
	"github.com/fieldside/gameday/internal/infrastructure/notify"
	"github.com/fieldside/gameday/internal/infrastructure/repository/memory"
	"github.com/fieldside/gameday/internal/infrastructure/repository/postgres"
	"github.com/fieldside/gameday/internal/platform/cache"
	idgen "github.com/fieldside/gameday/internal/platform/id"
	"github.com/fieldside/gameday/internal/platform/logging"
	"github.com/fieldside/gameday/internal/usecase"
)

// Engine bundles the wired services behind one handle. Callers own the
// lifecycle: Close stops the clock runner and the broadcaster, and the DB
// handle when one was opened.
type Engine struct {
	Games        game.Repository
	Lineups      lineup.Repository
	PlayTime     playtime.Repository
	Availability availability.Repository
	Plans        gameplan.Repository
	Roster       roster.Provider

	Ledger        *usecase.LedgerService
	Clock         *usecase.ClockService
	Substitutions *usecase.SubstitutionService
	Rotation      *usecase.RotationService
	Conflicts     *usecase.ConflictService
	Runner        *usecase.ClockRunner
	Broadcaster   *notify.Broadcaster

	db *sqlx.DB
}

// NewMemoryEngine wires the engine against seeded in-memory repositories.
func NewMemoryEngine(cfg config.Config, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.Default()
	}

	return newEngine(cfg, logger, engineDeps{
		games:        memory.NewGameRepository(memory.SeedGames()),
		lineups:      memory.NewLineupRepository(),
		playTime:     memory.NewPlayTimeRepository(),
		availability: memory.NewAvailabilityRepository(),
		plans:        memory.NewGamePlanRepository(),
		roster:       memory.NewRosterProvider(memory.SeedPlayers(), memory.SeedPositions()),
	})
}

// NewPostgresEngine wires the engine against the postgres repositories.
func NewPostgresEngine(ctx context.Context, cfg config.Config, logger *logging.Logger, provider roster.Provider) (*Engine, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine, err := newEngine(cfg, logger, engineDeps{
		games:        postgres.NewGameRepository(db),
		lineups:      postgres.NewLineupRepository(db),
		playTime:     postgres.NewPlaytimeRepository(db),
		availability: postgres.NewAvailabilityRepository(db),
		plans:        postgres.NewGameplanRepository(db, logger),
		roster:       provider,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	engine.db = db
	return engine, nil
}

type engineDeps struct {
	games        game.Repository
	lineups      lineup.Repository
	playTime     playtime.Repository
	availability availability.Repository
	plans        gameplan.Repository
	roster       roster.Provider
}

func newEngine(cfg config.Config, logger *logging.Logger, deps engineDeps) (*Engine, error) {
	if deps.roster == nil {
		return nil, fmt.Errorf("roster provider cannot be nil")
	}

	cacheTTL := cfg.CacheTTL
	if !cfg.CacheEnabled {
		cacheTTL = -1
	}

	ids := idgen.NewRandomGenerator()
	ledger := usecase.NewLedgerService(deps.playTime, ids)
	clock := usecase.NewClockService(deps.games, deps.lineups, ledger, logger)
	broadcaster := notify.NewBroadcaster(logger)

	runner, err := usecase.NewClockRunner(clock, broadcaster, logger, cfg.TickInterval, cfg.CheckpointEveryTicks)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Games:        deps.games,
		Lineups:      deps.lineups,
		PlayTime:     deps.playTime,
		Availability: deps.availability,
		Plans:        deps.plans,
		Roster:       deps.roster,

		Ledger:        ledger,
		Clock:         clock,
		Substitutions: usecase.NewSubstitutionService(deps.games, deps.lineups, deps.availability, ledger, logger),
		Rotation: usecase.NewRotationService(
			deps.games,
			deps.lineups,
			deps.availability,
			deps.plans,
			deps.roster,
			cache.NewStore(cacheTTL),
			ids,
			logger,
		),
		Conflicts:   usecase.NewConflictService(deps.lineups, deps.availability, deps.plans),
		Runner:      runner,
		Broadcaster: broadcaster,
	}, nil
}

// Close stops background work and releases the DB handle, if any.
func (e *Engine) Close() error {
	e.Runner.Close()
	e.Broadcaster.Close()
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}
