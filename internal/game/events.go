package game

import (
	mathrand "math/rand"
)

// EventType names one of the daily adventure outcomes.
type EventType string

const (
	EventNewMember       EventType = "new_member"
	EventAccident        EventType = "accident"
	EventDonation        EventType = "donation"
	EventHitSong         EventType = "hit_song"
	EventInstrumentBreak EventType = "instrument_break"
	EventConcert         EventType = "concert"
)

type adventureEvent struct {
	Type     EventType
	Weight   float64
	Eligible func(*Game) bool // nil means always eligible
}

// adventureCatalog order matters: the weight walk in pickEvent breaks
// falloff in catalog order.
var adventureCatalog = []adventureEvent{
	{Type: EventNewMember, Weight: 0.5},
	{Type: EventAccident, Weight: 0.05, Eligible: func(g *Game) bool { return g.TeamSize > 1 }},
	{Type: EventDonation, Weight: 0.1},
	{Type: EventHitSong, Weight: 0.1, Eligible: func(g *Game) bool { return g.Fame >= HitSongFameFloor }},
	{Type: EventInstrumentBreak, Weight: 0.15, Eligible: func(g *Game) bool { return len(equippedMembers(g)) > 0 }},
	{Type: EventConcert, Weight: 0.1},
}

func eligibleEvents(g *Game) []adventureEvent {
	out := make([]adventureEvent, 0, len(adventureCatalog))
	for _, ev := range adventureCatalog {
		if ev.Eligible == nil || ev.Eligible(g) {
			out = append(out, ev)
		}
	}
	return out
}

// pickEvent draws over the summed weight and walks the candidates,
// subtracting each weight until the remainder goes non-positive.
func pickEvent(events []adventureEvent, rng *mathrand.Rand) adventureEvent {
	total := 0.0
	for _, ev := range events {
		total += ev.Weight
	}
	r := rng.Float64() * total
	for _, ev := range events {
		r -= ev.Weight
		if r <= 0 {
			return ev
		}
	}
	return events[0]
}

func equippedMembers(g *Game) []rosterEntry {
	var out []rosterEntry
	for _, e := range g.members() {
		if e.m.HasItem {
			out = append(out, e)
		}
	}
	return out
}

func filledMateSlots(g *Game) []int {
	var out []int
	for i, m := range g.Mates {
		if m != nil {
			out = append(out, i+1)
		}
	}
	return out
}

// resolveAdventure runs the once-per-day random event. The daily gate
// flips regardless of how the event turns out.
func resolveAdventure(g *Game, rng *mathrand.Rand) (AdventureSummary, error) {
	if g.AdventureDone {
		return AdventureSummary{}, ErrAdventureDone
	}

	ev := pickEvent(eligibleEvents(g), rng)
	sum := AdventureSummary{Event: ev.Type}

	switch ev.Type {
	case EventNewMember:
		// The applicant still has to pass: an independent coin
		// flip, and only if a slot is open.
		if rng.Float64() < 0.5 && g.TeamSize < MaxTeamSize {
			recruit := rollRecruit(rng)
			if _, err := g.addMate(recruit); err == nil {
				sum.Joined = &recruit
				sum.MentalDelta = 10
			} else {
				sum.MentalDelta = -10
			}
		} else {
			sum.MentalDelta = -10
		}

	case EventAccident:
		slots := filledMateSlots(g)
		slot := slots[rng.Intn(len(slots))]
		sum.Departed = g.Mates[slot-1].Name
		g.removeMate(slot)
		sum.MentalDelta = -30

	case EventDonation:
		sum.MoneyDelta = randRange(rng, 50, 100)
		sum.MentalDelta = 10

	case EventHitSong:
		sum.MentalDelta = MentalMax - g.Mental
		sum.FameDelta = 100

	case EventInstrumentBreak:
		equipped := equippedMembers(g)
		e := equipped[rng.Intn(len(equipped))]
		e.m.Power += 20
		e.m.ItemDurability -= 40
		sum.Improved = e.m.Name
		if e.m.ItemDurability <= 0 {
			sum.BrokenItem = e.m.ItemName
			destroyItem(e.m)
		}
		sum.MentalDelta = -20

	case EventConcert:
		sum.MentalDelta = randRange(rng, -20, 20)
		sum.FameDelta = randRange(rng, -30, 30)
	}

	g.Money += sum.MoneyDelta
	before := g.Mental
	g.Mental = clampMental(g.Mental + sum.MentalDelta)
	sum.MentalDelta = g.Mental - before
	beforeFame := g.Fame
	g.Fame = clampFame(g.Fame + sum.FameDelta)
	sum.FameDelta = g.Fame - beforeFame

	g.AdventureDone = true
	g.RecomputeTeamPower()
	sum.TeamPower = g.TeamPower
	return sum, nil
}
