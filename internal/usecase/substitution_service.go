package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/fieldside/gameday/internal/domain/availability"
	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/domain/lineup"
	"github.com/fieldside/gameday/internal/platform/logging"
)

// SubstituteInput describes one immediate substitution.
type SubstituteInput struct {
	GameID      string
	PlayerOutID string
	PlayerInID  string
	PositionID  string
	AtSeconds   int
	Half        int
}

// QueueEntry is a declared substitution intent, keyed by the incoming
// player. Entries are transient; they live only in memory until executed.
type QueueEntry struct {
	PlayerInID string
	PositionID string
	EnqueuedAt time.Time
}

// QueueExecution reports what a batch execution did, entry by entry. Skipped
// entries carry the reason instead of aborting the whole batch.
type QueueExecution struct {
	Applied []QueueEntry
	Skipped []SkippedEntry
}

type SkippedEntry struct {
	Entry  QueueEntry
	Reason string
}

// SubstitutionService executes and queues substitutions. The three ledger
// and lineup writes behind one substitution are a single logical unit; the
// storage layer gives no cross-record transaction, so a partial failure is
// surfaced with the failed step named rather than silently swallowed.
type SubstitutionService struct {
	gameRepo   game.Repository
	lineupRepo lineup.Repository
	availRepo  availability.Repository
	ledger     *LedgerService
	logger     *logging.Logger
	now        func() time.Time

	mu     sync.Mutex
	queues map[string][]QueueEntry
}

func NewSubstitutionService(
	gameRepo game.Repository,
	lineupRepo lineup.Repository,
	availRepo availability.Repository,
	ledger *LedgerService,
	logger *logging.Logger,
) *SubstitutionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubstitutionService{
		gameRepo:   gameRepo,
		lineupRepo: lineupRepo,
		availRepo:  availRepo,
		ledger:     ledger,
		logger:     logger,
		now:        time.Now,
		queues:     make(map[string][]QueueEntry),
	}
}

// SetNow overrides the wall clock, for tests.
func (s *SubstitutionService) SetNow(now func() time.Time) {
	s.now = now
}

// Execute swaps the position's occupant: close the outgoing interval,
// reassign the lineup entry, open the incoming interval, all at AtSeconds.
// Each step re-checks current state before writing, so a retry after a
// reported partial failure converges instead of double-applying.
func (s *SubstitutionService) Execute(ctx context.Context, input SubstituteInput) error {
	ctx, span := startEngineSpan(ctx, "usecase.SubstitutionService.Execute")
	defer span.End()

	if err := normalizeSubstituteInput(&input); err != nil {
		return err
	}

	occupant, exists, err := s.lineupRepo.GetByPosition(ctx, input.GameID, input.PositionID)
	if err != nil {
		return fmt.Errorf("get position occupant: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: position=%s", ErrNoCurrentOccupant, input.PositionID)
	}
	if occupant.PlayerID != input.PlayerOutID {
		return fmt.Errorf("%w: position=%s occupied by %s, not %s",
			ErrNoCurrentOccupant, input.PositionID, occupant.PlayerID, input.PlayerOutID)
	}

	if err := s.ledger.CloseInterval(ctx, input.GameID, input.PlayerOutID, input.AtSeconds); err != nil {
		return errors.WithHint(
			errors.Wrap(err, "substitution step 1: close outgoing interval"),
			"nothing was changed; the substitution can be retried as-is",
		)
	}

	assignment := lineup.Assignment{
		GameID:     input.GameID,
		PositionID: input.PositionID,
		PlayerID:   input.PlayerInID,
		Half:       input.Half,
		UpdatedAt:  s.now(),
	}
	if err := s.lineupRepo.Upsert(ctx, assignment); err != nil {
		return errors.WithHint(
			errors.Wrap(err, "substitution step 2: reassign lineup"),
			"the outgoing interval is closed but the lineup still names the outgoing player; retry to converge",
		)
	}

	if _, err := s.ledger.OpenInterval(ctx, input.GameID, input.PlayerInID, input.PositionID, input.Half, input.AtSeconds); err != nil {
		if errors.Is(err, ErrDuplicateOpenInterval) {
			// A previous attempt already opened it; the retry converged.
			return nil
		}
		return errors.WithHint(
			errors.Wrap(err, "substitution step 3: open incoming interval"),
			"the lineup names the incoming player but their interval is missing; retry to converge",
		)
	}

	s.logger.InfoContext(ctx, "substitution executed",
		"game_id", input.GameID,
		"position_id", input.PositionID,
		"player_out", input.PlayerOutID,
		"player_in", input.PlayerInID,
		"at_seconds", input.AtSeconds,
	)
	return nil
}

// AssignToEmptyPosition covers the vacant-slot path: no outgoing player, so
// only the lineup write and, for a live game, the interval open apply.
func (s *SubstitutionService) AssignToEmptyPosition(ctx context.Context, gameID, playerID, positionID string, atSeconds, half int) error {
	gameID = strings.TrimSpace(gameID)
	playerID = strings.TrimSpace(playerID)
	positionID = strings.TrimSpace(positionID)
	if gameID == "" || playerID == "" || positionID == "" {
		return fmt.Errorf("%w: game_id, player_id and position_id are required", ErrInvalidInput)
	}

	_, occupied, err := s.lineupRepo.GetByPosition(ctx, gameID, positionID)
	if err != nil {
		return fmt.Errorf("get position occupant: %w", err)
	}
	if occupied {
		return fmt.Errorf("%w: position=%s is already occupied", ErrInvalidInput, positionID)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	assignment := lineup.Assignment{
		GameID:     gameID,
		PositionID: positionID,
		PlayerID:   playerID,
		Half:       half,
		UpdatedAt:  s.now(),
	}
	if err := s.lineupRepo.Upsert(ctx, assignment); err != nil {
		return fmt.Errorf("assign position: %w", err)
	}

	if g.Status == game.StatusInProgress {
		if _, err := s.ledger.OpenInterval(ctx, gameID, playerID, positionID, half, atSeconds); err != nil && !errors.Is(err, ErrDuplicateOpenInterval) {
			return errors.WithHint(
				errors.Wrap(err, "open interval for assigned player"),
				"the lineup entry exists but the interval is missing; retry to converge",
			)
		}
	}

	return nil
}

// Queue declares a substitution intent without executing it. Entries are
// unique per incoming player and per position.
func (s *SubstitutionService) Queue(ctx context.Context, gameID string, entry QueueEntry) error {
	gameID = strings.TrimSpace(gameID)
	entry.PlayerInID = strings.TrimSpace(entry.PlayerInID)
	entry.PositionID = strings.TrimSpace(entry.PositionID)
	if gameID == "" || entry.PlayerInID == "" || entry.PositionID == "" {
		return fmt.Errorf("%w: game_id, player_in_id and position_id are required", ErrInvalidInput)
	}
	if entry.EnqueuedAt.IsZero() {
		entry.EnqueuedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, queued := range s.queues[gameID] {
		if queued.PlayerInID == entry.PlayerInID {
			return fmt.Errorf("%w: player %s is already queued", ErrInvalidInput, entry.PlayerInID)
		}
		if queued.PositionID == entry.PositionID {
			return fmt.Errorf("%w: position %s already has a queued substitution", ErrInvalidInput, entry.PositionID)
		}
	}

	s.queues[gameID] = append(s.queues[gameID], entry)
	s.logger.InfoContext(ctx, "substitution queued",
		"game_id", gameID, "player_in", entry.PlayerInID, "position_id", entry.PositionID)
	return nil
}

// Unqueue withdraws a pending entry by incoming player.
func (s *SubstitutionService) Unqueue(gameID, playerInID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.queues[gameID]
	for i, entry := range queue {
		if entry.PlayerInID == playerInID {
			s.queues[gameID] = append(queue[:i:i], queue[i+1:]...)
			return true
		}
	}
	return false
}

// Queued returns a copy of the pending entries in FIFO order.
func (s *SubstitutionService) Queued(gameID string) []QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]QueueEntry(nil), s.queues[gameID]...)
}

// ExecuteQueue applies every queued entry in order. An entry whose target
// position is empty is skipped and reported; the batch keeps going.
func (s *SubstitutionService) ExecuteQueue(ctx context.Context, gameID string, atSeconds, half int) (QueueExecution, error) {
	ctx, span := startEngineSpan(ctx, "usecase.SubstitutionService.ExecuteQueue")
	defer span.End()

	s.mu.Lock()
	queue := append([]QueueEntry(nil), s.queues[gameID]...)
	s.mu.Unlock()

	var execution QueueExecution
	for _, entry := range queue {
		occupant, exists, err := s.lineupRepo.GetByPosition(ctx, gameID, entry.PositionID)
		if err != nil {
			return execution, fmt.Errorf("get position occupant: %w", err)
		}
		if !exists {
			execution.Skipped = append(execution.Skipped, SkippedEntry{
				Entry:  entry,
				Reason: fmt.Sprintf("position %s has no current occupant", entry.PositionID),
			})
			continue
		}

		err = s.Execute(ctx, SubstituteInput{
			GameID:      gameID,
			PlayerOutID: occupant.PlayerID,
			PlayerInID:  entry.PlayerInID,
			PositionID:  entry.PositionID,
			AtSeconds:   atSeconds,
			Half:        half,
		})
		if err != nil {
			return execution, errors.Wrapf(err, "execute queued substitution for %s", entry.PlayerInID)
		}
		execution.Applied = append(execution.Applied, entry)
	}

	s.mu.Lock()
	s.queues[gameID] = remainingEntries(s.queues[gameID], execution)
	s.mu.Unlock()

	return execution, nil
}

// MarkInjured pulls a player immediately: close their open interval, clear
// the lineup entry, record the injured status. Any plan entry referencing
// them surfaces through the conflict detector afterward.
func (s *SubstitutionService) MarkInjured(ctx context.Context, gameID, playerID, reason string, atSeconds int) error {
	ctx, span := startEngineSpan(ctx, "usecase.SubstitutionService.MarkInjured")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	playerID = strings.TrimSpace(playerID)
	if gameID == "" || playerID == "" {
		return fmt.Errorf("%w: game_id and player_id are required", ErrInvalidInput)
	}

	if err := s.ledger.CloseInterval(ctx, gameID, playerID, atSeconds); err != nil {
		return errors.Wrap(err, "close injured player interval")
	}

	assignment, assigned, err := s.lineupRepo.GetByPlayer(ctx, gameID, playerID)
	if err != nil {
		return fmt.Errorf("get lineup entry: %w", err)
	}
	if assigned {
		if err := s.lineupRepo.Remove(ctx, gameID, assignment.PositionID); err != nil {
			return errors.WithHint(
				errors.Wrap(err, "remove injured player from lineup"),
				"the interval is closed but the lineup still names the player; retry to converge",
			)
		}
	}

	item := availability.Availability{
		GameID:    gameID,
		PlayerID:  playerID,
		Status:    availability.StatusInjured,
		Reason:    reason,
		UpdatedAt: s.now(),
	}
	if err := s.availRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("record injured status: %w", err)
	}

	s.logger.InfoContext(ctx, "player marked injured",
		"game_id", gameID, "player_id", playerID, "at_seconds", atSeconds)
	return nil
}

// MarkLateArrivalAvailable flips a late arrival to available so the planner
// and queue can use them.
func (s *SubstitutionService) MarkLateArrivalAvailable(ctx context.Context, gameID, playerID string) error {
	gameID = strings.TrimSpace(gameID)
	playerID = strings.TrimSpace(playerID)
	if gameID == "" || playerID == "" {
		return fmt.Errorf("%w: game_id and player_id are required", ErrInvalidInput)
	}

	item := availability.Availability{
		GameID:    gameID,
		PlayerID:  playerID,
		Status:    availability.StatusAvailable,
		UpdatedAt: s.now(),
	}
	if err := s.availRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("record availability: %w", err)
	}

	return nil
}

func normalizeSubstituteInput(input *SubstituteInput) error {
	input.GameID = strings.TrimSpace(input.GameID)
	input.PlayerOutID = strings.TrimSpace(input.PlayerOutID)
	input.PlayerInID = strings.TrimSpace(input.PlayerInID)
	input.PositionID = strings.TrimSpace(input.PositionID)

	if input.GameID == "" || input.PlayerOutID == "" || input.PlayerInID == "" || input.PositionID == "" {
		return fmt.Errorf("%w: game_id, player_out_id, player_in_id and position_id are required", ErrInvalidInput)
	}
	if input.PlayerOutID == input.PlayerInID {
		return fmt.Errorf("%w: a player cannot replace themselves", ErrInvalidInput)
	}
	if input.AtSeconds < 0 {
		return fmt.Errorf("%w: at_seconds cannot be negative", ErrInvalidInput)
	}
	return nil
}

func remainingEntries(queue []QueueEntry, execution QueueExecution) []QueueEntry {
	applied := make(map[string]struct{}, len(execution.Applied))
	for _, entry := range execution.Applied {
		applied[entry.PlayerInID] = struct{}{}
	}

	remaining := queue[:0:0]
	for _, entry := range queue {
		if _, ok := applied[entry.PlayerInID]; ok {
			continue
		}
		remaining = append(remaining, entry)
	}
	return remaining
}
