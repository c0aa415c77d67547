// time_test.go — Tests for timestamp parsing.
package util

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-01-15T10:30:00Z", time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2026-01-15T10:30:00.123456789Z", time.Date(2026, 1, 15, 10, 30, 0, 123456789, time.UTC)},
		{"", time.Time{}},
		{"not-a-timestamp", time.Time{}},
		{"2026-01-15", time.Time{}},
	}
	for _, c := range cases {
		if got := ParseTimestamp(c.in); !got.Equal(c.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseTimestampOffset(t *testing.T) {
	t.Parallel()

	got := ParseTimestamp("2026-01-15T10:30:00+05:00")
	want := time.Date(2026, 1, 15, 5, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseTimestamp(offset) = %v, want instant %v", got, want)
	}
}
