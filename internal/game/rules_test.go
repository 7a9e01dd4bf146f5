package game

import (
	"errors"
	mathrand "math/rand"
	"testing"
)

func testRand() *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(1))
}

func TestResolveWork(t *testing.T) {
	g := testGame()
	g.Time = Clock(108)
	sum, err := resolveWork(g, DefaultClockPolicy, testRand())
	if err != nil {
		t.Fatalf("work: %v", err)
	}
	if sum.MoneyEarned < 30 || sum.MoneyEarned > 50 {
		t.Fatalf("earned %d outside [30,50]", sum.MoneyEarned)
	}
	if sum.MentalLost < 5 || sum.MentalLost > 15 {
		t.Fatalf("lost %d outside [5,15]", sum.MentalLost)
	}
	if g.Money != StartingMoney+sum.MoneyEarned {
		t.Fatalf("money %d", g.Money)
	}
	if g.Time != Clock(114) {
		t.Fatalf("time %d want 114", g.Time)
	}
}

func TestResolveWorkGates(t *testing.T) {
	g := testGame()
	g.Time = Clock(119)
	if _, err := resolveWork(g, DefaultClockPolicy, testRand()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after hours, got %v", err)
	}

	g = testGame()
	g.Time = Clock(118) // closing hour itself is still allowed
	if _, err := resolveWork(g, DefaultClockPolicy, testRand()); err != nil {
		t.Fatalf("work at 18:00 should pass: %v", err)
	}

	g = testGame()
	g.Mental = StrenuousMental - 1
	if _, err := resolveWork(g, DefaultClockPolicy, testRand()); !errors.Is(err, ErrLowMental) {
		t.Fatalf("expected ErrLowMental, got %v", err)
	}
}

func TestResolveRestCapsAtMax(t *testing.T) {
	g := testGame()
	g.Mental = 95
	sum, err := resolveRest(g, testRand())
	if err != nil {
		t.Fatalf("rest: %v", err)
	}
	if sum.MentalGained < 5 || sum.MentalGained > 15 {
		t.Fatalf("gained %d outside [5,15]", sum.MentalGained)
	}
	if g.Mental > MentalMax {
		t.Fatalf("mental %d exceeds cap", g.Mental)
	}
	if g.Time != StartClock.Advance(RestHours) {
		t.Fatalf("time %d", g.Time)
	}
}

func TestResolveRestWorksAtZeroMental(t *testing.T) {
	g := testGame()
	g.Mental = 0
	if _, err := resolveRest(g, testRand()); err != nil {
		t.Fatalf("rest must have no mental gate: %v", err)
	}
	if g.Mental < 5 {
		t.Fatalf("mental %d after rest", g.Mental)
	}
}

func TestResolvePractice(t *testing.T) {
	g := testGame()
	if _, err := g.addMate(Member{Name: "Mina", Position: "drums", Power: 25}); err != nil {
		t.Fatalf("addMate: %v", err)
	}
	sum, err := resolvePractice(g, testRand(), 80)
	if err != nil {
		t.Fatalf("practice: %v", err)
	}
	if len(sum.PowerGains) != 2 {
		t.Fatalf("expected gains for both members, got %v", sum.PowerGains)
	}
	for who, gain := range sum.PowerGains {
		if gain < 80/20 || gain > 80/10 {
			t.Fatalf("%s gain %d outside [4,8]", who, gain)
		}
	}
	// score 80: loss in [max(20-16,5), max(25-16,10)] = [5,10]
	if sum.MentalLost < 5 || sum.MentalLost > 10 {
		t.Fatalf("mental loss %d outside [5,10]", sum.MentalLost)
	}
	if g.Time != StartClock.Advance(PracticeHours) {
		t.Fatalf("time %d", g.Time)
	}
	if sum.TeamPower != g.TeamPower {
		t.Fatalf("summary power %d vs game %d", sum.TeamPower, g.TeamPower)
	}
}

func TestResolvePracticeZeroScore(t *testing.T) {
	g := testGame()
	sum, err := resolvePractice(g, testRand(), -10)
	if err != nil {
		t.Fatalf("practice: %v", err)
	}
	if sum.Score != 0 {
		t.Fatalf("score %d want 0", sum.Score)
	}
	if gain := sum.PowerGains["main"]; gain != 0 {
		t.Fatalf("zero score must give zero gain, got %d", gain)
	}
	if sum.MentalLost < 20 || sum.MentalLost > 25 {
		t.Fatalf("mental loss %d outside [20,25]", sum.MentalLost)
	}
}

func TestResolvePracticeWearsEquipment(t *testing.T) {
	g := testGame()
	g.Main.HasItem = true
	g.Main.ItemName = "Premium Mic"
	g.Main.ItemPower = 30
	g.Main.ItemDurability = 10

	sum, err := resolvePractice(g, testRand(), 50)
	if err != nil {
		t.Fatalf("practice: %v", err)
	}
	if g.Main.HasItem && g.Main.ItemDurability >= 10 {
		t.Fatalf("expected wear, durability %d", g.Main.ItemDurability)
	}
	if !g.Main.HasItem {
		if len(sum.BrokenItems) != 1 || sum.BrokenItems[0] != "Premium Mic" {
			t.Fatalf("broken items %v", sum.BrokenItems)
		}
		if g.TeamPower != DefaultMainPower+sum.PowerGains["main"] {
			t.Fatalf("destroyed item still counted in power %d", g.TeamPower)
		}
	}
}

func TestPerformanceMultiplier(t *testing.T) {
	tests := []struct {
		power, mental, fame int
		want                float64
	}{
		{power: 100, mental: 100, fame: 0, want: 1.2},
		{power: 0, mental: 0, fame: 0, want: 0.15},
		{power: 200, mental: 100, fame: 1000, want: 1.5 * 1.2 * 1.3},
	}
	for _, tc := range tests {
		got := performanceMultiplier(tc.power, tc.mental, tc.fame)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("power=%d mental=%d fame=%d got=%f want=%f", tc.power, tc.mental, tc.fame, got, tc.want)
		}
	}
}

func TestResolvePerform(t *testing.T) {
	g := testGame()
	g.Time = Clock(113)
	venue, ok := VenueByID("busking")
	if !ok {
		t.Fatalf("busking venue missing")
	}
	sum, err := resolvePerform(g, DefaultClockPolicy, testRand(), venue)
	if err != nil {
		t.Fatalf("perform: %v", err)
	}
	if sum.MoneyEarned < 0 {
		t.Fatalf("negative payout %d", sum.MoneyEarned)
	}
	if sum.MentalLost < 10 || sum.MentalLost > 25 {
		t.Fatalf("mental loss %d outside [10,25]", sum.MentalLost)
	}
	if g.Time != Clock(119) {
		t.Fatalf("time %d want 119", g.Time)
	}
}

func TestResolvePerformGates(t *testing.T) {
	venue, _ := VenueByID("busking")

	g := testGame()
	g.Time = Clock(112)
	if _, err := resolvePerform(g, DefaultClockPolicy, testRand(), venue); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed before 13:00, got %v", err)
	}

	g = testGame()
	g.Time = Clock(118)
	if _, err := resolvePerform(g, DefaultClockPolicy, testRand(), venue); err != nil {
		t.Fatalf("perform at 18:00 should pass: %v", err)
	}

	g = testGame()
	g.Time = Clock(114)
	g.Mental = StrenuousMental - 1
	if _, err := resolvePerform(g, DefaultClockPolicy, testRand(), venue); !errors.Is(err, ErrLowMental) {
		t.Fatalf("expected ErrLowMental, got %v", err)
	}

	arena, _ := VenueByID("arena")
	g = testGame()
	g.Time = Clock(114)
	if _, err := resolvePerform(g, DefaultClockPolicy, testRand(), arena); !errors.Is(err, ErrVenueLocked) {
		t.Fatalf("expected ErrVenueLocked, got %v", err)
	}
}

func TestResolvePurchase(t *testing.T) {
	g := testGame()
	g.Time = Clock(110)
	g.Money = 100

	item := Instrument{Name: "Premium Mic", Power: 30}
	sum, err := resolvePurchase(g, DefaultClockPolicy, MemberKey{Main: true}, item)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if sum.Price != 90 {
		t.Fatalf("price %d want 90", sum.Price)
	}
	if g.Money != 10 {
		t.Fatalf("money %d want 10", g.Money)
	}
	if !g.Main.HasItem || g.Main.ItemDurability != DurabilityMax {
		t.Fatalf("item not equipped fresh: %+v", g.Main)
	}
	if g.TeamPower != DefaultMainPower+30 {
		t.Fatalf("team power %d", g.TeamPower)
	}
	if g.Time != Clock(113) {
		t.Fatalf("time %d want 113", g.Time)
	}
}

func TestResolvePurchaseRejections(t *testing.T) {
	g := testGame()
	g.Time = Clock(110)
	g.Money = 50
	// 27 * 3 = 81 > 50
	if _, err := resolvePurchase(g, DefaultClockPolicy, MemberKey{Main: true}, Instrument{Name: "Premium Mic", Power: 27}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if g.Money != 50 || g.Main.HasItem {
		t.Fatalf("failed purchase must not mutate: money=%d item=%v", g.Money, g.Main.HasItem)
	}

	g.Money = 1000
	if _, err := resolvePurchase(g, DefaultClockPolicy, MemberKey{Main: true}, Instrument{Name: "Bootleg Amp", Power: 99}); !errors.Is(err, ErrBadOffer) {
		t.Fatalf("expected ErrBadOffer for out-of-range power, got %v", err)
	}

	if _, err := resolvePurchase(g, DefaultClockPolicy, MemberKey{Slot: 2}, Instrument{Name: "Premium Mic", Power: 30}); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("expected ErrEmptySlot, got %v", err)
	}

	g.Time = Clock(120)
	if _, err := resolvePurchase(g, DefaultClockPolicy, MemberKey{Main: true}, Instrument{Name: "Premium Mic", Power: 30}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after hours, got %v", err)
	}
}

func TestResolveRepair(t *testing.T) {
	g := testGame()
	g.Time = Clock(110)
	g.Money = 200
	g.Main.HasItem = true
	g.Main.ItemName = "Premium Mic"
	g.Main.ItemPower = 30
	g.Main.ItemDurability = 60

	sum, err := resolveRepair(g, DefaultClockPolicy, MemberKey{Main: true})
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if sum.Cost != 100 {
		t.Fatalf("cost %d want 100", sum.Cost)
	}
	if g.Money != 100 {
		t.Fatalf("money %d want 100", g.Money)
	}
	if g.Main.ItemDurability != DurabilityMax {
		t.Fatalf("durability %d", g.Main.ItemDurability)
	}
}

func TestResolveRepairRejections(t *testing.T) {
	g := testGame()
	g.Time = Clock(110)
	if _, err := resolveRepair(g, DefaultClockPolicy, MemberKey{Main: true}); !errors.Is(err, ErrNoItem) {
		t.Fatalf("expected ErrNoItem, got %v", err)
	}

	g.Main.HasItem = true
	g.Main.ItemName = "Premium Mic"
	g.Main.ItemPower = 30
	g.Main.ItemDurability = DurabilityMax
	if _, err := resolveRepair(g, DefaultClockPolicy, MemberKey{Main: true}); !errors.Is(err, ErrItemIntact) {
		t.Fatalf("expected ErrItemIntact, got %v", err)
	}

	g.Main.ItemDurability = 20
	g.Money = 10
	if _, err := resolveRepair(g, DefaultClockPolicy, MemberKey{Main: true}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPurchaseSequenceStopsAtEmptyWallet(t *testing.T) {
	g := testGame()
	g.Time = Clock(810)
	g.Money = 100

	if _, err := resolvePurchase(g, DefaultClockPolicy, MemberKey{Main: true}, Instrument{Name: "Premium Mic", Power: 30}); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if g.Money != 10 {
		t.Fatalf("money %d want 10", g.Money)
	}

	if _, err := resolvePurchase(g, DefaultClockPolicy, MemberKey{Main: true}, Instrument{Name: "Studio Mic", Power: 20}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if g.Money != 10 {
		t.Fatalf("rejected purchase moved money to %d", g.Money)
	}
	if g.Main.ItemName != "Premium Mic" {
		t.Fatalf("rejected purchase replaced item: %q", g.Main.ItemName)
	}
}

// Random action streams must never drive mental outside [0,100], money
// negative, or team power out of sync with the roster.
func TestActionStreamInvariants(t *testing.T) {
	rng := mathrand.New(mathrand.NewSource(99))
	g := testGame()

	for i := 0; i < 2000; i++ {
		switch rng.Intn(7) {
		case 0:
			_, _ = resolveWork(g, DefaultClockPolicy, rng)
		case 1:
			_, _ = resolveRest(g, rng)
		case 2:
			_, _ = resolvePractice(g, rng, rng.Intn(101))
		case 3:
			venue := Venues[rng.Intn(len(Venues))]
			_, _ = resolvePerform(g, DefaultClockPolicy, rng, venue)
		case 4:
			_, _ = resolvePurchase(g, DefaultClockPolicy, MemberKey{Main: true}, Instrument{Name: "Premium Mic", Power: randRange(rng, 20, 50)})
		case 5:
			_, _ = resolveRepair(g, DefaultClockPolicy, MemberKey{Main: true})
		case 6:
			_, _ = resolveAdventure(g, rng)
		}

		if g.Mental < 0 || g.Mental > MentalMax {
			t.Fatalf("step %d: mental %d out of range", i, g.Mental)
		}
		if g.Money < 0 {
			t.Fatalf("step %d: money %d negative", i, g.Money)
		}
		want := 0
		for _, e := range g.members() {
			want += e.m.Power
			if e.m.HasItem {
				want += e.m.ItemPower
			}
		}
		if g.TeamPower != want {
			t.Fatalf("step %d: team power %d want %d", i, g.TeamPower, want)
		}
	}
}

func TestResolveLeaveShop(t *testing.T) {
	g := testGame()
	g.Time = Clock(110)
	got := resolveLeaveShop(g)
	if got != Clock(113) || g.Time != Clock(113) {
		t.Fatalf("time %d want 113", got)
	}
}

func TestShopOffers(t *testing.T) {
	offers := ShopOffers("vocals", testRand())
	if len(offers) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(offers))
	}
	for _, o := range offers {
		if o.Power < offerPowerMin || o.Power > offerPowerMax {
			t.Fatalf("%s power %d outside stock range", o.Name, o.Power)
		}
		if o.Price != o.Power*pricePerPower {
			t.Fatalf("%s price %d not power*%d", o.Name, o.Price, pricePerPower)
		}
	}

	fallback := ShopOffers("kazoo", testRand())
	if len(fallback) != 3 {
		t.Fatalf("fallback offers %d", len(fallback))
	}
}

func TestVenueCatalog(t *testing.T) {
	if len(Venues) != 9 {
		t.Fatalf("catalog has %d venues", len(Venues))
	}
	prev := -1
	for _, v := range Venues {
		if v.MinFame < prev {
			t.Fatalf("catalog not ordered by fame at %s", v.ID)
		}
		prev = v.MinFame
	}

	unlocked := VenuesForFame(40)
	if len(unlocked) != 4 {
		t.Fatalf("fame 40 unlocks %d venues, want 4", len(unlocked))
	}
	if _, ok := VenueByID("arena"); !ok {
		t.Fatalf("arena missing")
	}
	if _, ok := VenueByID("stadium"); ok {
		t.Fatalf("unknown id resolved")
	}
}
