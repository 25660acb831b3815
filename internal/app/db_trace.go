package app

import "strings"

// maxSpanQueryLen caps the db.statement attribute so bulk statements cannot
// bloat trace storage.
const maxSpanQueryLen = 512

// compactQuery flattens a multi-line SQL statement to one line for span
// attributes, truncating past the cap.
func compactQuery(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) <= maxSpanQueryLen {
		return compact
	}
	return compact[:maxSpanQueryLen] + "..."
}
