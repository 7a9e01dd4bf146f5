package game

import "fmt"

// Clock encodes the in-game time as day*100 + hour, hour 0..23.
// Day 1 at 08:00 is Clock(108).
type Clock int

func (c Clock) Day() int  { return int(c) / 100 }
func (c Clock) Hour() int { return int(c) % 100 }

// Advance adds delta hours. Crossing midnight rolls straight to the
// next day at MorningHour; overflow hours beyond 24 are dropped, not
// carried forward.
func (c Clock) Advance(delta int) Clock {
	n := int(c) + delta
	if n%100 >= 24 {
		n = (n/100+1)*100 + MorningHour
	}
	return Clock(n)
}

func (c Clock) String() string {
	return fmt.Sprintf("day %d %02d:00", c.Day(), c.Hour())
}
