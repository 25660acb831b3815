package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/domain/lineup"
	"github.com/fieldside/gameday/internal/platform/logging"
)

// suppressWindow is how long a user-initiated pause shields the local state
// from an external "running" snapshot. An in-flight change notification can
// otherwise resurrect a timer the coach just stopped.
const suppressWindow = 3 * time.Second

// TickResult describes what one clock tick did.
type TickResult struct {
	Applied           bool
	HalftimeTriggered bool
	GameEnded         bool
}

// ClockService is the game clock state machine. Transitions take and return
// explicit game state instead of sharing a singleton, so multiple games can
// run and be tested independently.
type ClockService struct {
	gameRepo   game.Repository
	lineupRepo lineup.Repository
	ledger     *LedgerService
	logger     *logging.Logger
	now        func() time.Time

	mu         sync.Mutex
	suppressAt map[string]time.Time
}

func NewClockService(gameRepo game.Repository, lineupRepo lineup.Repository, ledger *LedgerService, logger *logging.Logger) *ClockService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClockService{
		gameRepo:   gameRepo,
		lineupRepo: lineupRepo,
		ledger:     ledger,
		logger:     logger,
		now:        time.Now,
		suppressAt: make(map[string]time.Time),
	}
}

// SetNow overrides the wall clock, for tests.
func (s *ClockService) SetNow(now func() time.Time) {
	s.now = now
}

func (s *ClockService) Get(ctx context.Context, gameID string) (game.Game, error) {
	return s.getGame(ctx, gameID)
}

// CurrentElapsed reconstructs live game-elapsed seconds without a tick loop.
func (s *ClockService) CurrentElapsed(ctx context.Context, gameID string) (int, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	return g.Elapsed(s.now()), nil
}

// Start moves a scheduled game to in-progress, opening a play-time record
// for every starter at the current elapsed value (normally zero). Duplicate
// opens from a racing starter re-sync are skipped, which makes a retry after
// a partial failure safe.
func (s *ClockService) Start(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startEngineSpan(ctx, "usecase.ClockService.Start")
	defer span.End()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status != game.StatusScheduled {
		return game.Game{}, fmt.Errorf("%w: game=%s status=%s", ErrStaleOperation, gameID, g.Status)
	}

	if err := s.openLineupIntervals(ctx, g, g.ElapsedSeconds, 1); err != nil {
		return game.Game{}, err
	}

	now := s.now()
	g.Status = game.StatusInProgress
	g.CurrentHalf = 1
	g.LastResumeAt = &now
	g.UpdatedAt = now
	if err := s.gameRepo.Upsert(ctx, g); err != nil {
		return game.Game{}, errors.WithHint(
			errors.Wrap(err, "persist game start"),
			"starter intervals were opened; retrying start is safe because duplicate opens are skipped",
		)
	}

	s.logger.InfoContext(ctx, "game started", "game_id", gameID, "elapsed_seconds", g.ElapsedSeconds)
	return g, nil
}

// Tick advances the passed state by one game second and applies automatic
// transitions. The caller owns persistence cadence; Tick only writes when a
// transition closes ledger records.
func (s *ClockService) Tick(ctx context.Context, g game.Game) (game.Game, TickResult, error) {
	if !g.Running() {
		return g, TickResult{}, nil
	}

	next := g
	next.ElapsedSeconds++

	if next.CurrentHalf == 1 && next.ElapsedSeconds >= next.HalfLengthSeconds {
		// Close at the boundary, not the post-tick value, so the ledger sums
		// exactly to halfLength * slots even when the tick overshoots.
		frozen, err := s.freeze(ctx, next, game.StatusHalftime, next.HalfLengthSeconds)
		if err != nil {
			return g, TickResult{}, err
		}
		return frozen, TickResult{Applied: true, HalftimeTriggered: true}, nil
	}

	if next.ElapsedSeconds >= game.HardCapSeconds {
		ended, err := s.freeze(ctx, next, game.StatusCompleted, game.HardCapSeconds)
		if err != nil {
			return g, TickResult{}, err
		}
		return ended, TickResult{Applied: true, GameEnded: true}, nil
	}

	return next, TickResult{Applied: true}, nil
}

// Pause stops the clock at the reconstructed elapsed value and clears the
// wall anchor. The suppression window starts immediately so an external
// auto-resume cannot race the pause.
func (s *ClockService) Pause(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startEngineSpan(ctx, "usecase.ClockService.Pause")
	defer span.End()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status != game.StatusInProgress {
		return game.Game{}, fmt.Errorf("%w: pause from %s", ErrInvalidTransition, g.Status)
	}
	if !g.Running() {
		return game.Game{}, fmt.Errorf("%w: game=%s already paused", ErrStaleOperation, gameID)
	}

	now := s.now()
	s.beginSuppression(gameID, now)

	g.ElapsedSeconds = g.Elapsed(now)
	g.LastResumeAt = nil
	g.UpdatedAt = now
	if err := s.gameRepo.Upsert(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist pause: %w", err)
	}

	s.logger.InfoContext(ctx, "clock paused", "game_id", gameID, "elapsed_seconds", g.ElapsedSeconds)
	return g, nil
}

// Resume re-anchors the clock from the stored elapsed value.
func (s *ClockService) Resume(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startEngineSpan(ctx, "usecase.ClockService.Resume")
	defer span.End()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status != game.StatusInProgress {
		return game.Game{}, fmt.Errorf("%w: resume from %s", ErrInvalidTransition, g.Status)
	}
	if g.Running() {
		return game.Game{}, fmt.Errorf("%w: game=%s already running", ErrStaleOperation, gameID)
	}

	now := s.now()
	s.clearSuppression(gameID)

	g.LastResumeAt = &now
	g.UpdatedAt = now
	if err := s.gameRepo.Upsert(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist resume: %w", err)
	}

	s.logger.InfoContext(ctx, "clock resumed", "game_id", gameID, "elapsed_seconds", g.ElapsedSeconds)
	return g, nil
}

// Halftime is the explicit coach-triggered variant; the automatic one runs
// inside Tick at the half boundary.
func (s *ClockService) Halftime(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startEngineSpan(ctx, "usecase.ClockService.Halftime")
	defer span.End()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status == game.StatusHalftime {
		return game.Game{}, fmt.Errorf("%w: game=%s already at halftime", ErrStaleOperation, gameID)
	}
	if g.Status != game.StatusInProgress || g.CurrentHalf != 1 {
		return game.Game{}, fmt.Errorf("%w: halftime from %s half=%d", ErrInvalidTransition, g.Status, g.CurrentHalf)
	}

	frozen, err := s.freeze(ctx, g, game.StatusHalftime, g.Elapsed(s.now()))
	if err != nil {
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "halftime", "game_id", gameID, "elapsed_seconds", frozen.ElapsedSeconds)
	return frozen, nil
}

// StartSecondHalf reopens records for everyone currently in the lineup at
// the frozen elapsed value; game time accumulates, it never resets.
func (s *ClockService) StartSecondHalf(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startEngineSpan(ctx, "usecase.ClockService.StartSecondHalf")
	defer span.End()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status == game.StatusCompleted {
		return game.Game{}, fmt.Errorf("%w: game=%s completed", ErrStaleOperation, gameID)
	}
	if g.Status != game.StatusHalftime {
		return game.Game{}, fmt.Errorf("%w: start second half from %s", ErrInvalidTransition, g.Status)
	}

	if err := s.openLineupIntervals(ctx, g, g.ElapsedSeconds, 2); err != nil {
		return game.Game{}, err
	}

	now := s.now()
	g.Status = game.StatusInProgress
	g.CurrentHalf = 2
	g.LastResumeAt = &now
	g.UpdatedAt = now
	if err := s.gameRepo.Upsert(ctx, g); err != nil {
		return game.Game{}, errors.WithHint(
			errors.Wrap(err, "persist second half start"),
			"intervals were opened; retrying is safe because duplicate opens are skipped",
		)
	}

	s.logger.InfoContext(ctx, "second half started", "game_id", gameID, "elapsed_seconds", g.ElapsedSeconds)
	return g, nil
}

// End closes every open record and completes the game. Idempotent: a second
// call reports ErrStaleOperation and leaves the ledger unchanged.
func (s *ClockService) End(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startEngineSpan(ctx, "usecase.ClockService.End")
	defer span.End()

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status == game.StatusCompleted {
		return g, fmt.Errorf("%w: game=%s already completed", ErrStaleOperation, gameID)
	}
	if g.Status == game.StatusScheduled {
		return game.Game{}, fmt.Errorf("%w: end from %s", ErrInvalidTransition, g.Status)
	}

	ended, err := s.freeze(ctx, g, game.StatusCompleted, g.Elapsed(s.now()))
	if err != nil {
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "game ended", "game_id", gameID, "elapsed_seconds", ended.ElapsedSeconds)
	return ended, nil
}

// RecordGoal bumps one side's score.
func (s *ClockService) RecordGoal(ctx context.Context, gameID string, home bool) (game.Game, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if g.Status == game.StatusScheduled || g.Status == game.StatusCompleted {
		return game.Game{}, fmt.Errorf("%w: record goal from %s", ErrInvalidTransition, g.Status)
	}

	if home {
		g.HomeScore++
	} else {
		g.AwayScore++
	}
	g.UpdatedAt = s.now()
	if err := s.gameRepo.Upsert(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("persist score: %w", err)
	}

	return g, nil
}

// Checkpoint persists the passed clock state. Used by the tick loop every
// few seconds; failures are the caller's to log and retry, never fatal.
//
// The tick loop accumulates ElapsedSeconds without moving the wall anchor,
// so the anchor is reset to the checkpoint time here; otherwise a store
// reader reconstructing checkpoint + (now - anchor) counts the same seconds
// twice. A stored game that is no longer running wins outright: a late
// fire-and-forget write must not resurrect a clock the coach just stopped.
func (s *ClockService) Checkpoint(ctx context.Context, g game.Game) error {
	stored, err := s.getGame(ctx, g.ID)
	if err != nil {
		return err
	}
	if !stored.Running() {
		return nil
	}

	now := s.now()
	if g.Running() {
		anchor := now
		g.LastResumeAt = &anchor
	}
	g.UpdatedAt = now
	if err := s.gameRepo.Upsert(ctx, g); err != nil {
		return fmt.Errorf("checkpoint clock: %w", err)
	}
	return nil
}

// ApplySnapshot merges an eventually-consistent external snapshot into local
// state. During the pause-suppression window a "running" snapshot cannot
// override a local pause; everything else defers to the external authority.
func (s *ClockService) ApplySnapshot(local, incoming game.Game) game.Game {
	if local.ID != incoming.ID {
		return local
	}
	if s.suppressed(local.ID) && incoming.Running() && !local.Running() {
		return local
	}
	return incoming
}

func (s *ClockService) freeze(ctx context.Context, g game.Game, status string, atSeconds int) (game.Game, error) {
	if !game.ValidTransition(g.Status, status) {
		return game.Game{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, status)
	}

	closed, err := s.ledger.CloseAll(ctx, g.ID, atSeconds)
	if err != nil {
		return game.Game{}, errors.Wrapf(err, "close open intervals for %s", status)
	}

	g.Status = status
	g.ElapsedSeconds = atSeconds
	g.LastResumeAt = nil
	g.UpdatedAt = s.now()
	if err := s.gameRepo.Upsert(ctx, g); err != nil {
		return game.Game{}, errors.WithHint(
			errors.Wrapf(err, "persist %s", status),
			fmt.Sprintf("%d intervals were closed; retrying is safe because closed records stay closed", closed),
		)
	}

	return g, nil
}

func (s *ClockService) openLineupIntervals(ctx context.Context, g game.Game, atSeconds, half int) error {
	assignments, err := s.lineupRepo.ListByGame(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("list lineup: %w", err)
	}
	if len(assignments) == 0 {
		return fmt.Errorf("%w: game=%s has no lineup", ErrInvalidInput, g.ID)
	}

	for _, assignment := range assignments {
		_, err := s.ledger.OpenInterval(ctx, g.ID, assignment.PlayerID, assignment.PositionID, half, atSeconds)
		if err != nil {
			if errors.Is(err, ErrDuplicateOpenInterval) {
				s.logger.WarnContext(ctx, "duplicate starter interval skipped",
					"game_id", g.ID, "player_id", assignment.PlayerID)
				continue
			}
			return errors.Wrapf(err, "open interval for player %s", assignment.PlayerID)
		}
	}

	return nil
}

func (s *ClockService) getGame(ctx context.Context, gameID string) (game.Game, error) {
	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return g, nil
}

func (s *ClockService) beginSuppression(gameID string, now time.Time) {
	s.mu.Lock()
	s.suppressAt[gameID] = now.Add(suppressWindow)
	s.mu.Unlock()
}

func (s *ClockService) clearSuppression(gameID string) {
	s.mu.Lock()
	delete(s.suppressAt, gameID)
	s.mu.Unlock()
}

func (s *ClockService) suppressed(gameID string) bool {
	s.mu.Lock()
	deadline, ok := s.suppressAt[gameID]
	s.mu.Unlock()
	return ok && s.now().Before(deadline)
}
