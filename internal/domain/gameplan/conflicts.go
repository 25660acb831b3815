package gameplan

import (
	"sort"

	"github.com/fieldside/gameday/internal/domain/availability"
)

const (
	ConflictStarter  = "starter"
	ConflictRotation = "rotation"
)

// Conflict flags one player referenced by the lineup or plan whose live
// availability rules them out. Conflicts are warnings for the coach; they
// never block an operation.
type Conflict struct {
	PlayerID        string
	Type            string
	RotationNumbers []int
}

// DetectConflicts cross-references the starting lineup and every planned
// rotation against live availability. Read-only; the plan is never mutated.
// Output is sorted by player id, starters before rotations.
func DetectConflicts(starters map[string]string, plan Plan, avail map[string]availability.Availability) []Conflict {
	unavailable := func(playerID string) bool {
		record, ok := avail[playerID]
		return ok && availability.Unavailable(record.Status)
	}

	var conflicts []Conflict
	seenStarters := make(map[string]struct{})
	for _, playerID := range starters {
		if _, seen := seenStarters[playerID]; seen {
			continue
		}
		seenStarters[playerID] = struct{}{}
		if unavailable(playerID) {
			conflicts = append(conflicts, Conflict{PlayerID: playerID, Type: ConflictStarter})
		}
	}

	rotationHits := make(map[string][]int)
	for _, rotation := range plan.Rotations {
		for _, sub := range rotation.Substitutions {
			if unavailable(sub.PlayerInID) {
				rotationHits[sub.PlayerInID] = appendNumber(rotationHits[sub.PlayerInID], rotation.Number)
			}
			if unavailable(sub.PlayerOutID) {
				rotationHits[sub.PlayerOutID] = appendNumber(rotationHits[sub.PlayerOutID], rotation.Number)
			}
		}
	}
	for playerID, numbers := range rotationHits {
		conflicts = append(conflicts, Conflict{
			PlayerID:        playerID,
			Type:            ConflictRotation,
			RotationNumbers: numbers,
		})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Type != conflicts[j].Type {
			return conflicts[i].Type == ConflictStarter
		}
		return conflicts[i].PlayerID < conflicts[j].PlayerID
	})

	return conflicts
}

func appendNumber(numbers []int, number int) []int {
	for _, n := range numbers {
		if n == number {
			return numbers
		}
	}
	return append(numbers, number)
}
