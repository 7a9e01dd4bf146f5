package game

import (
	"errors"
	"testing"
)

func testGame() *Game {
	g := &Game{
		Money:  StartingMoney,
		Mental: StartingMental,
		Time:   StartClock,
		Main:   Member{Name: "Joon", Position: "vocals", Power: DefaultMainPower},
	}
	g.RecomputeTeamPower()
	return g
}

func TestMemberAt(t *testing.T) {
	g := testGame()
	m, err := g.MemberAt(MemberKey{Main: true})
	if err != nil || m.Name != "Joon" {
		t.Fatalf("main lookup failed: %v", err)
	}
	if _, err := g.MemberAt(MemberKey{Slot: 1}); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("expected ErrEmptySlot, got %v", err)
	}
	if _, err := g.MemberAt(MemberKey{Slot: 7}); !errors.Is(err, ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember, got %v", err)
	}
}

func TestAddMateFillsFirstEmptySlot(t *testing.T) {
	g := testGame()
	key, err := g.addMate(Member{Name: "Mina", Position: "drums", Power: 25})
	if err != nil {
		t.Fatalf("addMate: %v", err)
	}
	if key.Slot != 1 {
		t.Fatalf("expected slot 1, got %d", key.Slot)
	}
	g.removeMate(1)
	if _, err := g.addMate(Member{Name: "Theo", Position: "bass", Power: 20}); err != nil {
		t.Fatalf("re-add after remove: %v", err)
	}

	for i := 0; i < MaxMates-1; i++ {
		if _, err := g.addMate(Member{Name: "Filler", Position: "guitar", Power: 20}); err != nil {
			t.Fatalf("fill slot: %v", err)
		}
	}
	if _, err := g.addMate(Member{Name: "One Too Many", Position: "keyboard", Power: 20}); !errors.Is(err, ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull, got %v", err)
	}
	if g.TeamSize != MaxTeamSize {
		t.Fatalf("team size %d want %d", g.TeamSize, MaxTeamSize)
	}
}

func TestRecomputeTeamPowerCountsItems(t *testing.T) {
	g := testGame()
	g.Main.HasItem = true
	g.Main.ItemName = "Premium Mic"
	g.Main.ItemPower = 30
	g.Main.ItemDurability = DurabilityMax
	if _, err := g.addMate(Member{Name: "Mina", Position: "drums", Power: 25}); err != nil {
		t.Fatalf("addMate: %v", err)
	}
	g.RecomputeTeamPower()

	want := DefaultMainPower + 30 + 25
	if g.TeamPower != want {
		t.Fatalf("team power %d want %d", g.TeamPower, want)
	}
	if g.TeamSize != 2 {
		t.Fatalf("team size %d want 2", g.TeamSize)
	}
}

func TestAdvanceRolloverResetsAdventure(t *testing.T) {
	g := testGame()
	g.Time = Clock(823)
	g.AdventureDone = true

	g.advance(6)
	if g.Time != Clock(908) {
		t.Fatalf("time %d want 908", g.Time)
	}
	if g.AdventureDone {
		t.Fatalf("expected adventure flag to reset on rollover")
	}

	g.AdventureDone = true
	g.advance(4)
	if !g.AdventureDone {
		t.Fatalf("same-day advance must not reset the adventure flag")
	}
}

func TestDestroyItemClearsAllFields(t *testing.T) {
	m := &Member{Name: "Mina", Power: 25, HasItem: true, ItemName: "Premium Drums", ItemPower: 40, ItemDurability: 3}
	destroyItem(m)
	if m.HasItem || m.ItemName != "" || m.ItemPower != 0 || m.ItemDurability != 0 {
		t.Fatalf("item fields not cleared: %+v", m)
	}
}
