package playtime

// Record is one append-only play-time ledger entry: a player's stay at a
// position, measured in game-elapsed seconds. EndSeconds stays nil while the
// player is on the field.
type Record struct {
	ID           string
	GameID       string
	PlayerID     string
	PositionID   string
	Half         int
	StartSeconds int
	EndSeconds   *int
}

// Open reports whether the record still has no end time.
func (r Record) Open() bool {
	return r.EndSeconds == nil
}

// Duration returns the seconds covered by the record. Open records are
// measured against nowSeconds. Never negative.
func (r Record) Duration(nowSeconds int) int {
	end := nowSeconds
	if r.EndSeconds != nil {
		end = *r.EndSeconds
	}

	d := end - r.StartSeconds
	if d < 0 {
		d = 0
	}
	return d
}

// Total sums a player's closed intervals plus the live portion of an open
// one. Monotonically non-decreasing while the player is on the field, flat
// while off it.
func Total(records []Record, playerID string, nowSeconds int) int {
	total := 0
	for _, r := range records {
		if r.PlayerID != playerID {
			continue
		}
		total += r.Duration(nowSeconds)
	}
	return total
}

// OnField reports whether the player currently has an open record.
func OnField(records []Record, playerID string) bool {
	_, ok := OpenRecord(records, playerID)
	return ok
}

// OpenRecord returns the player's open record, if any. A player never holds
// more than one open record at a time.
func OpenRecord(records []Record, playerID string) (Record, bool) {
	for _, r := range records {
		if r.PlayerID == playerID && r.Open() {
			return r, true
		}
	}
	return Record{}, false
}
