package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")

	// ErrInvalidTransition marks a clock action attempted from the wrong state.
	ErrInvalidTransition = errors.New("invalid clock transition")
	// ErrStaleOperation marks a clock action whose game already moved past the
	// expected state; the ledger is left untouched.
	ErrStaleOperation = errors.New("stale clock operation")
	// ErrNoCurrentOccupant marks a substitution whose target position is empty.
	ErrNoCurrentOccupant = errors.New("no current occupant at position")
	// ErrDuplicateOpenInterval marks an attempted double-start for a player.
	ErrDuplicateOpenInterval = errors.New("player already has an open interval")
	// ErrRecalculationBlocked marks a rotation recalculation with no starting
	// lineup or no eligible players to allocate against.
	ErrRecalculationBlocked = errors.New("rotation recalculation blocked")
)
