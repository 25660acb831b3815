package usecase

import (
	"context"
	"testing"

	"github.com/fieldside/gameday/internal/domain/availability"
	"github.com/fieldside/gameday/internal/domain/gameplan"
	"github.com/fieldside/gameday/internal/infrastructure/repository/memory"
)

func TestConflictsFlagUnavailablePlayers(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	seedStarters(t, ft, memory.GameIDRovers)

	if _, err := ft.rotation.Recalculate(ctx, rotationInput()); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	// p-ava starts in goal; p-hal is planned in for the second rotation.
	for playerID, status := range map[string]string{
		"p-ava": availability.StatusAbsent,
		"p-hal": availability.StatusInjured,
	} {
		record := availability.Availability{
			GameID:   memory.GameIDRovers,
			PlayerID: playerID,
			Status:   status,
		}
		if err := ft.avail.Upsert(ctx, record); err != nil {
			t.Fatalf("seed availability: %v", err)
		}
	}

	conflicts, err := ft.detector.Conflicts(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("detect conflicts: %v", err)
	}
	if len(conflicts) < 2 {
		t.Fatalf("expected at least 2 conflicts, got %+v", conflicts)
	}
	if conflicts[0].PlayerID != "p-ava" || conflicts[0].Type != gameplan.ConflictStarter {
		t.Fatalf("unexpected first conflict: %+v", conflicts[0])
	}

	var rotationHit *gameplan.Conflict
	for i := range conflicts {
		if conflicts[i].PlayerID == "p-hal" && conflicts[i].Type == gameplan.ConflictRotation {
			rotationHit = &conflicts[i]
			break
		}
	}
	if rotationHit == nil {
		t.Fatalf("no rotation conflict for p-hal: %+v", conflicts)
	}
	if len(rotationHit.RotationNumbers) == 0 || rotationHit.RotationNumbers[0] != 2 {
		t.Fatalf("unexpected rotation numbers: %+v", rotationHit.RotationNumbers)
	}
}

func TestConflictsWithoutPlan(t *testing.T) {
	ctx := context.Background()
	ft := newSeededFixture()
	seedStarters(t, ft, memory.GameIDRovers)

	record := availability.Availability{
		GameID:   memory.GameIDRovers,
		PlayerID: "p-gus",
		Status:   availability.StatusInjured,
	}
	if err := ft.avail.Upsert(ctx, record); err != nil {
		t.Fatalf("seed availability: %v", err)
	}

	conflicts, err := ft.detector.Conflicts(ctx, memory.GameIDRovers)
	if err != nil {
		t.Fatalf("detect conflicts: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].PlayerID != "p-gus" || conflicts[0].Type != gameplan.ConflictStarter {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
}
