package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/infrastructure/notify"
	"github.com/fieldside/gameday/internal/platform/logging"
)

const (
	defaultTickInterval    = time.Second
	defaultCheckpointEvery = 5
	checkpointWorkers      = 4
)

// ClockRunner drives the one-second tick loop for running games. There is a
// single logical timer authority per game; observers reconstruct elapsed
// time from broadcast snapshots rather than ticking locally.
//
// Checkpoint writes go through a bounded worker pool so persistence latency
// can never stall a tick.
type ClockRunner struct {
	clock           *ClockService
	broadcaster     *notify.Broadcaster
	logger          *logging.Logger
	tickInterval    time.Duration
	checkpointEvery int

	pool *ants.Pool
	wg   conc.WaitGroup

	mu       sync.Mutex
	sessions map[string]*clockSession
}

type clockSession struct {
	paused atomic.Bool
	stop   chan struct{}
	done   chan struct{}
}

func NewClockRunner(clock *ClockService, broadcaster *notify.Broadcaster, logger *logging.Logger, tickInterval time.Duration, checkpointEvery int) (*ClockRunner, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}
	if checkpointEvery <= 0 {
		checkpointEvery = defaultCheckpointEvery
	}

	pool, err := ants.NewPool(checkpointWorkers)
	if err != nil {
		return nil, fmt.Errorf("create checkpoint pool: %w", err)
	}

	return &ClockRunner{
		clock:           clock,
		broadcaster:     broadcaster,
		logger:          logger,
		tickInterval:    tickInterval,
		checkpointEvery: checkpointEvery,
		pool:            pool,
		sessions:        make(map[string]*clockSession),
	}, nil
}

// Watch begins ticking an already-running game. One session per game; a
// second Watch for the same game is a no-op.
func (r *ClockRunner) Watch(ctx context.Context, g game.Game) {
	r.mu.Lock()
	if _, exists := r.sessions[g.ID]; exists {
		r.mu.Unlock()
		return
	}
	session := &clockSession{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	r.sessions[g.ID] = session
	r.mu.Unlock()

	r.wg.Go(func() {
		defer close(session.done)
		defer r.dropSession(g.ID)
		r.loop(ctx, g, session)
	})
}

// Pause flips the session flag before touching storage, so the very next
// tick is already suppressed while the persisted pause is still in flight.
func (r *ClockRunner) Pause(ctx context.Context, gameID string) (game.Game, error) {
	if session := r.session(gameID); session != nil {
		session.paused.Store(true)
	}

	g, err := r.clock.Pause(ctx, gameID)
	if err != nil {
		if session := r.session(gameID); session != nil {
			session.paused.Store(false)
		}
		return game.Game{}, err
	}

	r.publish(ctx, g)
	return g, nil
}

func (r *ClockRunner) Resume(ctx context.Context, gameID string) (game.Game, error) {
	g, err := r.clock.Resume(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}

	if session := r.session(gameID); session != nil {
		session.paused.Store(false)
	} else {
		r.Watch(ctx, g)
	}

	r.publish(ctx, g)
	return g, nil
}

// Stop ends the session for one game without touching game state.
func (r *ClockRunner) Stop(gameID string) {
	session := r.session(gameID)
	if session == nil {
		return
	}
	select {
	case <-session.stop:
	default:
		close(session.stop)
	}
	<-session.done
}

// Close stops every session and waits for the loops and pending checkpoints.
func (r *ClockRunner) Close() {
	r.mu.Lock()
	for _, session := range r.sessions {
		select {
		case <-session.stop:
		default:
			close(session.stop)
		}
	}
	r.mu.Unlock()

	r.wg.Wait()
	r.pool.Release()
}

func (r *ClockRunner) loop(ctx context.Context, g game.Game, session *clockSession) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	r.logger.InfoContext(ctx, "clock loop started", "game_id", g.ID)

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			r.checkpoint(context.WithoutCancel(ctx), g)
			return
		case <-session.stop:
			r.checkpoint(ctx, g)
			return
		case <-ticker.C:
			if session.paused.Load() {
				continue
			}

			next, result, err := r.clock.Tick(ctx, g)
			if err != nil {
				// Tick failures are never fatal to the session; state is
				// retried on the next interval.
				r.logger.ErrorContext(ctx, "tick failed", "game_id", g.ID, "error", err)
				continue
			}
			if !result.Applied {
				continue
			}
			g = next
			ticks++

			r.publish(ctx, g)

			if result.GameEnded {
				r.logger.InfoContext(ctx, "clock loop finished", "game_id", g.ID, "reason", "game ended")
				return
			}
			if result.HalftimeTriggered {
				r.logger.InfoContext(ctx, "clock loop finished", "game_id", g.ID, "reason", "halftime")
				return
			}

			if ticks%r.checkpointEvery == 0 {
				r.checkpoint(ctx, g)
			}
		}
	}
}

// checkpoint submits a fire-and-forget persistence write. Errors are logged
// and the next interval retries with fresher state.
func (r *ClockRunner) checkpoint(ctx context.Context, g game.Game) {
	snapshot := g
	if err := r.pool.Submit(func() {
		if err := r.clock.Checkpoint(ctx, snapshot); err != nil {
			r.logger.WarnContext(ctx, "clock checkpoint failed",
				"game_id", snapshot.ID, "elapsed_seconds", snapshot.ElapsedSeconds, "error", err)
		}
	}); err != nil {
		r.logger.WarnContext(ctx, "clock checkpoint not submitted", "game_id", snapshot.ID, "error", err)
	}
}

func (r *ClockRunner) publish(ctx context.Context, g game.Game) {
	if r.broadcaster == nil {
		return
	}
	r.broadcaster.Publish(ctx, notify.SnapshotFromGame(g))
}

func (r *ClockRunner) session(gameID string) *clockSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[gameID]
}

func (r *ClockRunner) dropSession(gameID string) {
	r.mu.Lock()
	delete(r.sessions, gameID)
	r.mu.Unlock()
}
