package gameplan

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fieldside/gameday/internal/domain/availability"
	"github.com/fieldside/gameday/internal/domain/roster"
)

var (
	ErrNoStarters        = errors.New("plan requires a starting lineup")
	ErrNoEligiblePlayers = errors.New("plan requires at least one eligible player")
	ErrUnknownStarter    = errors.New("starting lineup references unknown player")
)

// PlanInput is everything the planner needs. The planner is pure: the same
// input always reproduces the same plan, which is what makes recalculation
// safe to invoke repeatedly.
type PlanInput struct {
	GameID    string                 `validate:"required"`
	Players   []roster.Player        `validate:"min=1"`
	Positions []roster.FieldPosition `validate:"min=1"`
	// Starters maps positionID to the player covering it at kickoff.
	Starters     map[string]string                    `validate:"min=1"`
	Availability map[string]availability.Availability `validate:"-"`

	HalfLengthMinutes int `validate:"gt=0"`
	IntervalMinutes   int `validate:"gt=0"`
	SlotsPerHalf      int `validate:"gte=0"`
	// ExistingRotations suppresses re-planning of rotation points that have
	// already passed, so a mid-game recalculation keeps earlier numbering.
	ExistingRotations int `validate:"gte=0"`
	// DriftThresholdSeconds bounds the projected max-min play-time spread a
	// rotation may leave behind; zero defaults to one rotation interval.
	DriftThresholdSeconds int `validate:"gte=0"`
}

type boundary struct {
	number int
	half   int
	minute int
}

// BuildPlan runs the greedy fair-share allocator: at every rotation boundary
// the least-played eligible bench players are swapped in for the most-played
// on-field players until the projected spread drops under the drift
// threshold. Ties break by ascending jersey number, then player id.
func BuildPlan(in PlanInput) (Plan, error) {
	if len(in.Starters) == 0 {
		return Plan{}, ErrNoStarters
	}

	playersByID := make(map[string]roster.Player, len(in.Players))
	for _, p := range in.Players {
		playersByID[p.ID] = p
	}
	for positionID, playerID := range in.Starters {
		if _, ok := playersByID[playerID]; !ok {
			return Plan{}, fmt.Errorf("%w: player=%s position=%s", ErrUnknownStarter, playerID, positionID)
		}
	}

	eligibleAny := false
	for _, p := range in.Players {
		if eligibleAt(in.Availability, p.ID, in.HalfLengthMinutes*2) {
			eligibleAny = true
			break
		}
	}
	if !eligibleAny {
		return Plan{}, ErrNoEligiblePlayers
	}

	threshold := in.DriftThresholdSeconds
	if threshold == 0 {
		threshold = in.IntervalMinutes * 60
	}

	onField := make(map[string]string, len(in.Starters))
	for positionID, playerID := range in.Starters {
		onField[positionID] = playerID
	}

	accumulated := make(map[string]int, len(in.Players))
	for _, p := range in.Players {
		accumulated[p.ID] = 0
	}

	rotations := make([]Rotation, 0, in.SlotsPerHalf*2)
	lastMinute := 0
	for _, b := range boundaries(in.HalfLengthMinutes, in.IntervalMinutes, in.SlotsPerHalf) {
		credit := (b.minute - lastMinute) * 60
		for _, playerID := range onField {
			accumulated[playerID] += credit
		}
		lastMinute = b.minute

		subs := planSwaps(in, b, onField, accumulated, threshold)
		if b.number <= in.ExistingRotations {
			continue
		}
		rotations = append(rotations, Rotation{
			Number:        b.number,
			Half:          b.half,
			GameMinute:    b.minute,
			Substitutions: subs,
		})
	}

	return Plan{
		GameID:          in.GameID,
		IntervalMinutes: in.IntervalMinutes,
		SlotsPerHalf:    in.SlotsPerHalf,
		Rotations:       rotations,
	}, nil
}

func boundaries(halfLengthMinutes, intervalMinutes, slotsPerHalf int) []boundary {
	out := make([]boundary, 0, slotsPerHalf*2)
	number := 0
	for half := 1; half <= 2; half++ {
		base := 0
		if half == 2 {
			base = halfLengthMinutes
		}
		for slot := 1; slot <= slotsPerHalf; slot++ {
			minute := base + slot*intervalMinutes
			if minute >= half*halfLengthMinutes {
				break
			}
			number++
			out = append(out, boundary{number: number, half: half, minute: minute})
		}
	}
	return out
}

// planSwaps mutates onField and accumulated to reflect the chosen swaps and
// returns the substitution list for the boundary.
func planSwaps(in PlanInput, b boundary, onField map[string]string, accumulated map[string]int, threshold int) []PlannedSubstitution {
	subs := make([]PlannedSubstitution, 0, 2)

	for len(subs) < len(onField) {
		bench := benchRanked(in, b.minute, onField, accumulated)
		if len(bench) == 0 {
			break
		}
		field := fieldRanked(in, onField, accumulated)
		if len(field) == 0 {
			break
		}

		incoming := bench[0]
		outgoing := field[0]
		if accumulated[outgoing.playerID]-accumulated[incoming.ID] <= threshold {
			break
		}

		// Soft preference: among on-field players tied at the most minutes,
		// pull the one whose position the incoming player prefers. Fairness
		// already held, so this never costs projected minutes.
		for _, candidate := range field {
			if accumulated[candidate.playerID] != accumulated[outgoing.playerID] {
				break
			}
			if incoming.Prefers(candidate.positionID) {
				outgoing = candidate
				break
			}
		}

		if outgoing.playerID == incoming.ID {
			break
		}

		subs = append(subs, PlannedSubstitution{
			PlayerOutID: outgoing.playerID,
			PlayerInID:  incoming.ID,
			PositionID:  outgoing.positionID,
		})
		onField[outgoing.positionID] = incoming.ID
	}

	return subs
}

type fieldSlot struct {
	positionID string
	playerID   string
}

func benchRanked(in PlanInput, minute int, onField map[string]string, accumulated map[string]int) []roster.Player {
	fielded := make(map[string]struct{}, len(onField))
	for _, playerID := range onField {
		fielded[playerID] = struct{}{}
	}

	bench := make([]roster.Player, 0, len(in.Players))
	for _, p := range in.Players {
		if _, ok := fielded[p.ID]; ok {
			continue
		}
		if !eligibleAt(in.Availability, p.ID, minute) {
			continue
		}
		bench = append(bench, p)
	}

	sort.Slice(bench, func(i, j int) bool {
		if accumulated[bench[i].ID] != accumulated[bench[j].ID] {
			return accumulated[bench[i].ID] < accumulated[bench[j].ID]
		}
		if bench[i].JerseyNumber != bench[j].JerseyNumber {
			return bench[i].JerseyNumber < bench[j].JerseyNumber
		}
		return bench[i].ID < bench[j].ID
	})

	return bench
}

func fieldRanked(in PlanInput, onField map[string]string, accumulated map[string]int) []fieldSlot {
	playersByID := make(map[string]roster.Player, len(in.Players))
	for _, p := range in.Players {
		playersByID[p.ID] = p
	}

	field := make([]fieldSlot, 0, len(onField))
	for positionID, playerID := range onField {
		field = append(field, fieldSlot{positionID: positionID, playerID: playerID})
	}

	sort.Slice(field, func(i, j int) bool {
		if accumulated[field[i].playerID] != accumulated[field[j].playerID] {
			return accumulated[field[i].playerID] > accumulated[field[j].playerID]
		}
		ji := playersByID[field[i].playerID].JerseyNumber
		jj := playersByID[field[j].playerID].JerseyNumber
		if ji != jj {
			return ji < jj
		}
		return field[i].playerID < field[j].playerID
	})

	return field
}

// eligibleAt applies availability to one rotation boundary. Late arrivals
// with an unknown arrival minute stay out of the plan until marked available.
func eligibleAt(avail map[string]availability.Availability, playerID string, minute int) bool {
	record, ok := avail[playerID]
	if !ok {
		return true
	}

	switch record.Status {
	case availability.StatusAbsent, availability.StatusInjured:
		return false
	case availability.StatusLateArrival:
		return record.ExpectedArrivalMinute > 0 && record.ExpectedArrivalMinute <= minute
	default:
		return true
	}
}
