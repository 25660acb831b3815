package usecase

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/fieldside/gameday/internal/domain/game"
	"github.com/fieldside/gameday/internal/infrastructure/repository/memory"
)

func seedStarters(t *testing.T, ft *fixture, gameID string) {
	t.Helper()

	starters := memory.SeedStarters()
	positions := make([]string, 0, len(starters))
	for positionID := range starters {
		positions = append(positions, positionID)
	}
	sort.Strings(positions)

	ctx := context.Background()
	for _, positionID := range positions {
		if err := ft.subs.AssignToEmptyPosition(ctx, gameID, starters[positionID], positionID, 0, 1); err != nil {
			t.Fatalf("assign %s: %v", positionID, err)
		}
	}
}

func startSeededGame(t *testing.T, ft *fixture) game.Game {
	t.Helper()

	seedStarters(t, ft, memory.GameIDRovers)
	g, err := ft.clock.Start(context.Background(), memory.GameIDRovers)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	return g
}

func TestClockStart(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	g := startSeededGame(t, ft)

	if g.Status != game.StatusInProgress || !g.Running() {
		t.Fatalf("unexpected state after start: %+v", g)
	}

	records, err := ft.ledger.Records(ctx, g.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 7 {
		t.Fatalf("expected 7 starter intervals, got %d", len(records))
	}
	for _, rec := range records {
		if !rec.Open() || rec.StartSeconds != 0 || rec.Half != 1 {
			t.Fatalf("unexpected starter record: %+v", rec)
		}
	}

	if _, err := ft.clock.Start(ctx, g.ID); !errors.Is(err, ErrStaleOperation) {
		t.Fatalf("expected ErrStaleOperation on double start, got %v", err)
	}
}

func TestClockStartRequiresLineup(t *testing.T) {
	ft := newSeededFixture()
	if _, err := ft.clock.Start(context.Background(), memory.GameIDRovers); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without a lineup, got %v", err)
	}
}

func TestClockCurrentElapsed(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	ft.advance(10 * time.Minute)
	elapsed, err := ft.clock.CurrentElapsed(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("current elapsed: %v", err)
	}
	if elapsed != 600 {
		t.Fatalf("elapsed = %d, want 600", elapsed)
	}
}

func TestClockPauseResume(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	ft.advance(5 * time.Minute)
	g, err := ft.clock.Pause(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if g.Running() || g.ElapsedSeconds != 300 {
		t.Fatalf("unexpected state after pause: %+v", g)
	}

	if _, err := ft.clock.Pause(ctx, g.ID); !errors.Is(err, ErrStaleOperation) {
		t.Fatalf("expected ErrStaleOperation on double pause, got %v", err)
	}

	// Time off the clock does not count.
	ft.advance(2 * time.Minute)
	elapsed, err := ft.clock.CurrentElapsed(ctx, g.ID)
	if err != nil || elapsed != 300 {
		t.Fatalf("elapsed while paused = %d, %v", elapsed, err)
	}

	if _, err := ft.clock.Resume(ctx, g.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	ft.advance(time.Minute)
	elapsed, err = ft.clock.CurrentElapsed(ctx, g.ID)
	if err != nil || elapsed != 360 {
		t.Fatalf("elapsed after resume = %d, %v", elapsed, err)
	}

	if _, err := ft.clock.Resume(ctx, g.ID); !errors.Is(err, ErrStaleOperation) {
		t.Fatalf("expected ErrStaleOperation on double resume, got %v", err)
	}
}

func TestClockTickHalftimeAtExactBoundary(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	g := startSeededGame(t, ft)

	// Overshoot the boundary: the checkpointed value is already past the
	// half, as happens when the loop stalls. The ledger still closes at
	// exactly the half length.
	g.ElapsedSeconds = g.HalfLengthSeconds + 5

	next, result, err := ft.clock.Tick(ctx, g)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !result.Applied || !result.HalftimeTriggered {
		t.Fatalf("unexpected tick result: %+v", result)
	}
	if next.Status != game.StatusHalftime || next.ElapsedSeconds != g.HalfLengthSeconds {
		t.Fatalf("unexpected state after halftime tick: %+v", next)
	}

	records, err := ft.ledger.Records(ctx, g.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	sum := 0
	for _, rec := range records {
		if rec.Open() {
			t.Fatalf("record %s still open at halftime", rec.ID)
		}
		sum += rec.Duration(0)
	}
	if want := g.HalfLengthSeconds * 7; sum != want {
		t.Fatalf("ledger sum = %d, want %d", sum, want)
	}
}

func TestClockTickPausedIsNoop(t *testing.T) {
	ft := newSeededFixture()
	g := startSeededGame(t, ft)
	g.LastResumeAt = nil

	next, result, err := ft.clock.Tick(context.Background(), g)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Applied || next.ElapsedSeconds != g.ElapsedSeconds {
		t.Fatalf("paused tick should not advance: %+v %+v", next, result)
	}
}

func TestClockTickHardCap(t *testing.T) {
	ft := newSeededFixture()
	g := startSeededGame(t, ft)
	g.CurrentHalf = 2
	g.ElapsedSeconds = game.HardCapSeconds - 1

	next, result, err := ft.clock.Tick(context.Background(), g)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !result.GameEnded {
		t.Fatalf("expected game ended at hard cap, got %+v", result)
	}
	if next.Status != game.StatusCompleted || next.ElapsedSeconds != game.HardCapSeconds {
		t.Fatalf("unexpected state at hard cap: %+v", next)
	}
}

func TestClockSecondHalfAccumulates(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	g := startSeededGame(t, ft)

	ft.advance(time.Duration(g.HalfLengthSeconds) * time.Second)
	if _, err := ft.clock.Halftime(ctx, g.ID); err != nil {
		t.Fatalf("halftime: %v", err)
	}

	second, err := ft.clock.StartSecondHalf(ctx, g.ID)
	if err != nil {
		t.Fatalf("start second half: %v", err)
	}
	if second.CurrentHalf != 2 || !second.Running() {
		t.Fatalf("unexpected second half state: %+v", second)
	}
	if second.ElapsedSeconds != g.HalfLengthSeconds {
		t.Fatalf("elapsed reset across halftime: %d", second.ElapsedSeconds)
	}

	ft.advance(10 * time.Minute)
	total, err := ft.ledger.TotalPlayTime(ctx, g.ID, "p-ava", second.Elapsed(ft.now))
	if err != nil {
		t.Fatalf("total play time: %v", err)
	}
	if want := g.HalfLengthSeconds + 600; total != want {
		t.Fatalf("total = %d, want %d", total, want)
	}
}

func TestClockEndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	g := startSeededGame(t, ft)

	ft.advance(30 * time.Minute)
	ended, err := ft.clock.End(ctx, g.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Status != game.StatusCompleted || ended.ElapsedSeconds != 1800 {
		t.Fatalf("unexpected state after end: %+v", ended)
	}

	before, err := ft.ledger.Records(ctx, g.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}

	again, err := ft.clock.End(ctx, g.ID)
	if !errors.Is(err, ErrStaleOperation) {
		t.Fatalf("expected ErrStaleOperation on double end, got %v", err)
	}
	if again.Status != game.StatusCompleted {
		t.Fatalf("double end should report the completed game, got %+v", again)
	}

	after, err := ft.ledger.Records(ctx, g.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(before) != len(after) {
		t.Fatalf("double end changed the ledger: %d -> %d records", len(before), len(after))
	}
	for i := range before {
		if *before[i].EndSeconds != *after[i].EndSeconds {
			t.Fatalf("double end moved record %s end: %d -> %d",
				before[i].ID, *before[i].EndSeconds, *after[i].EndSeconds)
		}
	}
}

func TestClockEndFromScheduled(t *testing.T) {
	ft := newSeededFixture()
	if _, err := ft.clock.End(context.Background(), memory.GameIDRovers); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestClockSnapshotSuppression(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	startSeededGame(t, ft)

	ft.advance(5 * time.Minute)
	local, err := ft.clock.Pause(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}

	resumeAt := ft.now
	incoming := local
	incoming.LastResumeAt = &resumeAt
	incoming.Status = game.StatusInProgress

	// Inside the window the stale "running" snapshot loses.
	merged := ft.clock.ApplySnapshot(local, incoming)
	if merged.Running() {
		t.Fatalf("suppressed snapshot overrode a local pause")
	}

	// Once the window lapses the external authority wins again.
	ft.advance(4 * time.Second)
	merged = ft.clock.ApplySnapshot(local, incoming)
	if !merged.Running() {
		t.Fatalf("snapshot rejected after suppression window lapsed")
	}
}

func TestClockSnapshotIgnoresOtherGames(t *testing.T) {
	ft := newSeededFixture()
	local := game.Game{ID: "g1", Status: game.StatusInProgress}
	incoming := game.Game{ID: "g2", Status: game.StatusCompleted}

	if merged := ft.clock.ApplySnapshot(local, incoming); merged.ID != "g1" {
		t.Fatalf("snapshot for another game applied: %+v", merged)
	}
}

func TestClockRecordGoal(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()

	if _, err := ft.clock.RecordGoal(ctx, memory.GameIDRovers, true); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition before kickoff, got %v", err)
	}

	startSeededGame(t, ft)
	g, err := ft.clock.RecordGoal(ctx, memory.GameIDRovers, true)
	if err != nil {
		t.Fatalf("record goal: %v", err)
	}
	if g.HomeScore != 1 || g.AwayScore != 0 {
		t.Fatalf("unexpected score: %d-%d", g.HomeScore, g.AwayScore)
	}
}

func TestCheckpointReanchorsClock(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	g := startSeededGame(t, ft)

	// Five wall seconds pass while the loop ticks five times; the in-memory
	// state accumulates seconds but still carries the kickoff anchor.
	ft.advance(5 * time.Second)
	for i := 0; i < 5; i++ {
		next, result, err := ft.clock.Tick(ctx, g)
		if err != nil || !result.Applied {
			t.Fatalf("tick %d: applied=%t err=%v", i, result.Applied, err)
		}
		g = next
	}

	if err := ft.clock.Checkpoint(ctx, g); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	// A reader reconstructing from the store must not count the ticked
	// seconds a second time through the old anchor.
	elapsed, err := ft.clock.CurrentElapsed(ctx, memory.GameIDRovers)
	if err != nil || elapsed != 5 {
		t.Fatalf("elapsed right after checkpoint = %d, %v, want 5", elapsed, err)
	}

	ft.advance(10 * time.Second)
	elapsed, err = ft.clock.CurrentElapsed(ctx, memory.GameIDRovers)
	if err != nil || elapsed != 15 {
		t.Fatalf("elapsed 10s after checkpoint = %d, %v, want 15", elapsed, err)
	}
}

func TestCheckpointYieldsToPause(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	g := startSeededGame(t, ft)

	stale, result, err := ft.clock.Tick(ctx, g)
	if err != nil || !result.Applied {
		t.Fatalf("tick: applied=%t err=%v", result.Applied, err)
	}

	ft.advance(3 * time.Second)
	paused, err := ft.clock.Pause(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}

	// A checkpoint queued before the pause lands after it: the stored pause
	// must win.
	if err := ft.clock.Checkpoint(ctx, stale); err != nil {
		t.Fatalf("late checkpoint: %v", err)
	}

	got, err := ft.clock.Get(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.Running() {
		t.Fatalf("late checkpoint resurrected a paused clock")
	}
	if got.ElapsedSeconds != paused.ElapsedSeconds {
		t.Fatalf("paused elapsed overwritten: got %d, want %d", got.ElapsedSeconds, paused.ElapsedSeconds)
	}
}
