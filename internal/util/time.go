// time.go — Timestamp parsing for query parameters.
package util

import "time"

// ParseTimestamp parses an RFC3339 timestamp, trying RFC3339Nano first
// since it is a superset. Returns the zero time on failure; callers
// decide whether that means "no filter" or "bad input".
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}
