package notify

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc"

	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/platform/logging"
)

const subscriberBuffer = 16

// Snapshot is the eventually-consistent game view pushed to observers. It
// carries everything a viewer needs to reconstruct the live clock:
// elapsed = ElapsedSeconds + (now - ResumedAt) while running.
type Snapshot struct {
	GameID         string     `json:"game_id"`
	Status         string     `json:"status"`
	CurrentHalf    int        `json:"current_half"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Running        bool       `json:"running"`
	ResumedAt      *time.Time `json:"resumed_at,omitempty"`
	HomeScore      int        `json:"home_score"`
	AwayScore      int        `json:"away_score"`
	ObservedAt     time.Time  `json:"observed_at"`
}

func SnapshotFromGame(g game.Game) Snapshot {
	observed := time.Now().UTC()

	// ElapsedSeconds is current as of this snapshot, so the anchor moves to
	// the observation time; keeping the original resume time would make
	// viewers count the seconds since then twice.
	resumedAt := g.LastResumeAt
	if g.Running() {
		anchor := observed
		resumedAt = &anchor
	}

	return Snapshot{
		GameID:         g.ID,
		Status:         g.Status,
		CurrentHalf:    g.CurrentHalf,
		ElapsedSeconds: g.ElapsedSeconds,
		Running:        g.Running(),
		ResumedAt:      resumedAt,
		HomeScore:      g.HomeScore,
		AwayScore:      g.AwayScore,
		ObservedAt:     observed,
	}
}

// Broadcaster fans encoded snapshots out to subscribers filtered by game id.
// Sends never block the publisher; a subscriber that falls behind loses the
// oldest update, which is fine for eventually-consistent clock views.
type Broadcaster struct {
	logger *logging.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan []byte

	wg conc.WaitGroup
}

func NewBroadcaster(logger *logging.Logger) *Broadcaster {
	if logger == nil {
		logger = logging.Default()
	}
	return &Broadcaster{
		logger: logger,
		subs:   make(map[string]map[int]chan []byte),
	}
}

// Subscribe returns a channel of sonic-encoded Snapshots for one game and a
// cancel func that must be called to release the subscription.
func (b *Broadcaster) Subscribe(gameID string) (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	b.nextID++
	subID := b.nextID
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[int]chan []byte)
	}
	b.subs[gameID][subID] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if channels, ok := b.subs[gameID]; ok {
			if _, ok := channels[subID]; ok {
				delete(channels, subID)
				close(ch)
			}
			if len(channels) == 0 {
				delete(b.subs, gameID)
			}
		}
		b.mu.Unlock()
	}

	return ch, cancel
}

// Publish encodes and delivers a snapshot to every subscriber of its game.
func (b *Broadcaster) Publish(ctx context.Context, snapshot Snapshot) {
	encoded, err := sonic.Marshal(snapshot)
	if err != nil {
		b.logger.ErrorContext(ctx, "encode snapshot", "game_id", snapshot.GameID, "error", err)
		return
	}

	gameID := snapshot.GameID
	b.wg.Go(func() {
		// Deliveries happen under the read lock so a concurrent cancel cannot
		// close a channel mid-send.
		b.mu.RLock()
		defer b.mu.RUnlock()

		for _, ch := range b.subs[gameID] {
			select {
			case ch <- encoded:
			default:
				// Drop the oldest update so a slow viewer never blocks the tick.
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- encoded:
				default:
				}
			}
		}
	})
}

// Close waits for in-flight deliveries and closes every subscription.
func (b *Broadcaster) Close() {
	b.wg.Wait()

	b.mu.Lock()
	for gameID, channels := range b.subs {
		for subID, ch := range channels {
			delete(channels, subID)
			close(ch)
		}
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}
