package game

import "fmt"

// MemberAt resolves a roster key to the live member struct. Empty
// teammate slots fail with ErrEmptySlot.
func (g *Game) MemberAt(key MemberKey) (*Member, error) {
	if key.Main {
		return &g.Main, nil
	}
	if key.Slot < 1 || key.Slot > MaxMates {
		return nil, fmt.Errorf("%w: slot %d", ErrInvalidMember, key.Slot)
	}
	m := g.Mates[key.Slot-1]
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySlot, key)
	}
	return m, nil
}

// members returns every filled roster position, main first, with its
// addressing key. Pointers alias the game state.
func (g *Game) members() []rosterEntry {
	out := make([]rosterEntry, 0, MaxTeamSize)
	out = append(out, rosterEntry{MemberKey{Main: true}, &g.Main})
	for i, m := range g.Mates {
		if m != nil {
			out = append(out, rosterEntry{MemberKey{Slot: i + 1}, m})
		}
	}
	return out
}

type rosterEntry struct {
	key MemberKey
	m   *Member
}

// RecomputeTeamPower rederives team size and power from the roster.
// It is never patched incrementally; every resolver that touches a
// contributing field calls this before returning.
func (g *Game) RecomputeTeamPower() {
	size, power := 0, 0
	for _, e := range g.members() {
		size++
		power += e.m.Power
		if e.m.HasItem {
			power += e.m.ItemPower
		}
	}
	g.TeamSize = size
	g.TeamPower = power
}

// addMate fills the first empty slot. ErrTeamFull when all four
// teammate slots are taken.
func (g *Game) addMate(m Member) (MemberKey, error) {
	for i := range g.Mates {
		if g.Mates[i] == nil {
			mate := m
			g.Mates[i] = &mate
			g.RecomputeTeamPower()
			return MemberKey{Slot: i + 1}, nil
		}
	}
	return MemberKey{}, ErrTeamFull
}

// removeMate clears a teammate slot entirely, item included.
func (g *Game) removeMate(slot int) {
	if slot >= 1 && slot <= MaxMates {
		g.Mates[slot-1] = nil
		g.RecomputeTeamPower()
	}
}

// advance moves the clock and applies the day-rollover side effect:
// crossing into a new day re-arms the daily adventure.
func (g *Game) advance(hours int) {
	next := g.Time.Advance(hours)
	if next.Day() > g.Time.Day() {
		g.AdventureDone = false
	}
	g.Time = next
}

// destroyItem clears all item fields in the same logical write that
// zeroed the durability.
func destroyItem(m *Member) {
	m.HasItem = false
	m.ItemName = ""
	m.ItemPower = 0
	m.ItemDurability = 0
}
