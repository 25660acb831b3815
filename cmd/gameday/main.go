package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fieldside/gameday/internal/app"
	"github.com/fieldside/gameday/internal/config"
	"github.com/fieldside/gameday/internal/infrastructure/repository/memory"
	"github.com/fieldside/gameday/internal/observability"
	"github.com/fieldside/gameday/internal/platform/logging"
	"github.com/fieldside/gameday/internal/usecase"
)

// Runs one seeded match end to end against the in-memory repositories:
// opening lineup, live clock, rotation plan, and snapshot fan-out.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync() //nolint:errcheck

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := app.NewMemoryEngine(cfg, logger)
	if err != nil {
		logger.Error("build engine", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, engine, logger); err != nil {
		logger.Error("match run failed", "error", err)
	}

	if err := engine.Close(); err != nil {
		logger.Error("close engine", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}

	logger.Info("gameday stopped")
}

func run(ctx context.Context, cfg config.Config, engine *app.Engine, logger *logging.Logger) error {
	gameID := memory.GameIDRovers

	if err := setLineup(ctx, engine, gameID); err != nil {
		return err
	}

	snapshots, cancelSub := engine.Broadcaster.Subscribe(gameID)
	defer cancelSub()
	go func() {
		for raw := range snapshots {
			logger.Debug("snapshot", "payload", string(raw))
		}
	}()

	g, err := engine.Clock.Start(ctx, gameID)
	if err != nil {
		return err
	}
	logger.Info("kickoff",
		"game_id", g.ID,
		"opponent", g.Opponent,
		"half_length_seconds", g.HalfLengthSeconds,
	)
	engine.Runner.Watch(ctx, g)

	plan, err := engine.Rotation.Recalculate(ctx, usecase.RecalculateInput{
		GameID:                gameID,
		TeamID:                memory.TeamIDRovers,
		IntervalMinutes:       cfg.RotationIntervalMinutes,
		SlotsPerHalf:          cfg.RotationSlotsPerHalf,
		DriftThresholdSeconds: cfg.RotationDriftThresholdSecs,
	})
	if err != nil {
		return err
	}
	logger.Info("rotation plan ready",
		"plan_id", plan.ID,
		"rotations", len(plan.Rotations),
		"interval_minutes", plan.IntervalMinutes,
	)

	conflicts, err := engine.Conflicts.Conflicts(ctx, gameID)
	if err != nil {
		return err
	}
	for _, c := range conflicts {
		logger.Warn("availability conflict",
			"player_id", c.PlayerID,
			"type", c.Type,
			"rotations", c.RotationNumbers,
		)
	}

	if next, ok, err := engine.Rotation.NextRotation(ctx, gameID); err != nil {
		return err
	} else if ok {
		logger.Info("next rotation",
			"number", next.Number,
			"game_minute", next.GameMinute,
			"substitutions", len(next.Substitutions),
		)
	}

	<-ctx.Done()
	return nil
}

func setLineup(ctx context.Context, engine *app.Engine, gameID string) error {
	starters := memory.SeedStarters()

	positions := make([]string, 0, len(starters))
	for positionID := range starters {
		positions = append(positions, positionID)
	}
	sort.Strings(positions)

	for _, positionID := range positions {
		if err := engine.Substitutions.AssignToEmptyPosition(ctx, gameID, starters[positionID], positionID, 0, 1); err != nil {
			return err
		}
	}
	return nil
}
