package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldside/gameday/internal/domain/availability"
	"github.com/fieldside/gameday/internal/infrastructure/repository/memory"
)

func TestSubstitutionExecute(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	// Ten minutes in, the center mid makes way.
	ft.advance(10 * time.Minute)
	err := ft.subs.Execute(ctx, SubstituteInput{
		GameID:      memory.GameIDRovers,
		PlayerOutID: "p-dee",
		PlayerInID:  "p-hal",
		PositionID:  "pos-cm",
		AtSeconds:   600,
		Half:        1,
	})
	if err != nil {
		t.Fatalf("execute substitution: %v", err)
	}

	assignment, exists, err := ft.lineups.GetByPosition(ctx, memory.GameIDRovers, "pos-cm")
	if err != nil || !exists {
		t.Fatalf("get position: %v exists=%t", err, exists)
	}
	if assignment.PlayerID != "p-hal" {
		t.Fatalf("lineup still names %s", assignment.PlayerID)
	}

	outTotal, err := ft.ledger.TotalPlayTime(ctx, memory.GameIDRovers, "p-dee", 600)
	if err != nil || outTotal != 600 {
		t.Fatalf("outgoing total = %d, %v", outTotal, err)
	}
	inTotal, err := ft.ledger.TotalPlayTime(ctx, memory.GameIDRovers, "p-hal", 600)
	if err != nil || inTotal != 0 {
		t.Fatalf("incoming total = %d, %v", inTotal, err)
	}

	// Five minutes later the outgoing player's total is flat and the
	// incoming player's total is live.
	outTotal, _ = ft.ledger.TotalPlayTime(ctx, memory.GameIDRovers, "p-dee", 900)
	inTotal, _ = ft.ledger.TotalPlayTime(ctx, memory.GameIDRovers, "p-hal", 900)
	if outTotal != 600 || inTotal != 300 {
		t.Fatalf("totals at 900s: out=%d in=%d, want 600/300", outTotal, inTotal)
	}
}

func TestSubstitutionExecuteOccupantChecks(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	err := ft.subs.Execute(ctx, SubstituteInput{
		GameID:      memory.GameIDRovers,
		PlayerOutID: "p-gus",
		PlayerInID:  "p-hal",
		PositionID:  "pos-cm", // occupied by p-dee
		AtSeconds:   60,
		Half:        1,
	})
	if !errors.Is(err, ErrNoCurrentOccupant) {
		t.Fatalf("expected ErrNoCurrentOccupant for wrong occupant, got %v", err)
	}

	err = ft.subs.Execute(ctx, SubstituteInput{
		GameID:      memory.GameIDRovers,
		PlayerOutID: "p-dee",
		PlayerInID:  "p-hal",
		PositionID:  "pos-bench",
		AtSeconds:   60,
		Half:        1,
	})
	if !errors.Is(err, ErrNoCurrentOccupant) {
		t.Fatalf("expected ErrNoCurrentOccupant for empty position, got %v", err)
	}
}

func TestSubstitutionInputValidation(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()

	err := ft.subs.Execute(ctx, SubstituteInput{
		GameID:      memory.GameIDRovers,
		PlayerOutID: "p-dee",
		PlayerInID:  "p-dee",
		PositionID:  "pos-cm",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self swap, got %v", err)
	}

	err = ft.subs.Execute(ctx, SubstituteInput{
		GameID:      memory.GameIDRovers,
		PlayerOutID: "p-dee",
		PlayerInID:  "p-hal",
		PositionID:  "pos-cm",
		AtSeconds:   -5,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative seconds, got %v", err)
	}
}

func TestAssignToEmptyPosition(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	// pos-cm is occupied.
	err := ft.subs.AssignToEmptyPosition(ctx, memory.GameIDRovers, "p-hal", "pos-cm", 100, 1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for occupied position, got %v", err)
	}

	// A live game opens the interval along with the lineup write. The seeds
	// hold seven positions; this eighth slot stands in for a formation
	// change.
	if err := ft.lineups.Remove(ctx, memory.GameIDRovers, "pos-st"); err != nil {
		t.Fatalf("vacate position: %v", err)
	}
	if err := ft.ledger.CloseInterval(ctx, memory.GameIDRovers, "p-gus", 100); err != nil {
		t.Fatalf("close interval: %v", err)
	}
	if err := ft.subs.AssignToEmptyPosition(ctx, memory.GameIDRovers, "p-jo", "pos-st", 100, 1); err != nil {
		t.Fatalf("assign empty position: %v", err)
	}

	onField, err := ft.ledger.IsOnField(ctx, memory.GameIDRovers, "p-jo")
	if err != nil || !onField {
		t.Fatalf("expected p-jo on field: %t, %v", onField, err)
	}
}

func TestQueueUniqueness(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()

	if err := ft.subs.Queue(ctx, "g1", QueueEntry{PlayerInID: "p-hal", PositionID: "pos-cm"}); err != nil {
		t.Fatalf("queue: %v", err)
	}

	err := ft.subs.Queue(ctx, "g1", QueueEntry{PlayerInID: "p-hal", PositionID: "pos-lw"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate player, got %v", err)
	}
	err = ft.subs.Queue(ctx, "g1", QueueEntry{PlayerInID: "p-jo", PositionID: "pos-cm"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate position, got %v", err)
	}

	if err := ft.subs.Queue(ctx, "g1", QueueEntry{PlayerInID: "p-jo", PositionID: "pos-lw"}); err != nil {
		t.Fatalf("queue second entry: %v", err)
	}

	queued := ft.subs.Queued("g1")
	if len(queued) != 2 || queued[0].PlayerInID != "p-hal" || queued[1].PlayerInID != "p-jo" {
		t.Fatalf("unexpected queue order: %+v", queued)
	}

	if !ft.subs.Unqueue("g1", "p-hal") {
		t.Fatalf("unqueue reported false")
	}
	if ft.subs.Unqueue("g1", "p-hal") {
		t.Fatalf("second unqueue reported true")
	}
	if queued := ft.subs.Queued("g1"); len(queued) != 1 {
		t.Fatalf("unexpected queue after unqueue: %+v", queued)
	}
}

func TestExecuteQueueSkipsEmptyPositions(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	if err := ft.subs.Queue(ctx, memory.GameIDRovers, QueueEntry{PlayerInID: "p-hal", PositionID: "pos-cm"}); err != nil {
		t.Fatalf("queue: %v", err)
	}
	if err := ft.subs.Queue(ctx, memory.GameIDRovers, QueueEntry{PlayerInID: "p-jo", PositionID: "pos-bench"}); err != nil {
		t.Fatalf("queue: %v", err)
	}

	execution, err := ft.subs.ExecuteQueue(ctx, memory.GameIDRovers, 300, 1)
	if err != nil {
		t.Fatalf("execute queue: %v", err)
	}
	if len(execution.Applied) != 1 || execution.Applied[0].PlayerInID != "p-hal" {
		t.Fatalf("unexpected applied entries: %+v", execution.Applied)
	}
	if len(execution.Skipped) != 1 || execution.Skipped[0].Entry.PlayerInID != "p-jo" {
		t.Fatalf("unexpected skipped entries: %+v", execution.Skipped)
	}

	// Applied entries leave the queue; skipped entries stay for the coach to
	// retarget or withdraw.
	remaining := ft.subs.Queued(memory.GameIDRovers)
	if len(remaining) != 1 || remaining[0].PlayerInID != "p-jo" {
		t.Fatalf("unexpected remaining queue: %+v", remaining)
	}
}

func TestMarkInjured(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	ft.advance(8 * time.Minute)
	if err := ft.subs.MarkInjured(ctx, memory.GameIDRovers, "p-eli", "rolled ankle", 480); err != nil {
		t.Fatalf("mark injured: %v", err)
	}

	onField, err := ft.ledger.IsOnField(ctx, memory.GameIDRovers, "p-eli")
	if err != nil || onField {
		t.Fatalf("injured player still on field: %t, %v", onField, err)
	}
	if _, exists, _ := ft.lineups.GetByPosition(ctx, memory.GameIDRovers, "pos-lw"); exists {
		t.Fatalf("injured player still in lineup")
	}

	total, err := ft.ledger.TotalPlayTime(ctx, memory.GameIDRovers, "p-eli", 900)
	if err != nil || total != 480 {
		t.Fatalf("injured total = %d, %v", total, err)
	}

	avail, err := ft.avail.MapByGame(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("map availability: %v", err)
	}
	record, ok := avail["p-eli"]
	if !ok || record.Status != availability.StatusInjured || record.Reason != "rolled ankle" {
		t.Fatalf("unexpected availability record: %+v", record)
	}
}

func TestMarkLateArrivalAvailable(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()

	late := availability.Availability{
		GameID:                memory.GameIDRovers,
		PlayerID:              "p-kit",
		Status:                availability.StatusLateArrival,
		ExpectedArrivalMinute: 15,
	}
	if err := ft.avail.Upsert(ctx, late); err != nil {
		t.Fatalf("seed availability: %v", err)
	}

	if err := ft.subs.MarkLateArrivalAvailable(ctx, memory.GameIDRovers, "p-kit"); err != nil {
		t.Fatalf("mark available: %v", err)
	}

	avail, err := ft.avail.MapByGame(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("map availability: %v", err)
	}
	if avail["p-kit"].Status != availability.StatusAvailable {
		t.Fatalf("unexpected status: %+v", avail["p-kit"])
	}
}
