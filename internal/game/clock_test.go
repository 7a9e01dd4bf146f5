package game

import "testing"

func TestClockDayHour(t *testing.T) {
	c := Clock(823)
	if c.Day() != 8 || c.Hour() != 23 {
		t.Fatalf("got day=%d hour=%d", c.Day(), c.Hour())
	}
}

func TestClockAdvance(t *testing.T) {
	tests := []struct {
		from  Clock
		delta int
		want  Clock
	}{
		{from: 108, delta: 6, want: 114},
		{from: 817, delta: 6, want: 823},
		{from: 823, delta: 6, want: 908},
		{from: 118, delta: 6, want: 208},
		{from: 113, delta: 4, want: 117},
		{from: 120, delta: 4, want: 208},
	}
	for _, tc := range tests {
		got := tc.from.Advance(tc.delta)
		if got != tc.want {
			t.Fatalf("%d + %dh: got %d want %d", tc.from, tc.delta, got, tc.want)
		}
	}
}

func TestClockString(t *testing.T) {
	if s := Clock(908).String(); s != "day 9 08:00" {
		t.Fatalf("got %q", s)
	}
}
