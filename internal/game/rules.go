package game

import (
	"fmt"
	"math"
	mathrand "math/rand"
)

// randRange draws uniformly from [lo, hi] inclusive.
func randRange(rng *mathrand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// All resolvers below follow the same contract: validate every gate
// against the freshly loaded state before touching it, then mutate
// the game in place and report what happened. Magnitudes are always
// rolled here, never taken from the caller.

func resolveWork(g *Game, policy ClockPolicy, rng *mathrand.Rand) (WorkSummary, error) {
	if g.Time.Hour() > policy.WorkCloseHour {
		return WorkSummary{}, fmt.Errorf("%w: part-time work ends at %d:00", ErrClosed, policy.WorkCloseHour)
	}
	if g.Mental < StrenuousMental {
		return WorkSummary{}, fmt.Errorf("%w: need at least %d mental to work", ErrLowMental, StrenuousMental)
	}

	earned := randRange(rng, 30, 50)
	lost := randRange(rng, 5, 15)
	g.Money += earned
	g.Mental = clampMental(g.Mental - lost)
	g.advance(WorkHours)
	return WorkSummary{MoneyEarned: earned, MentalLost: lost, Time: g.Time}, nil
}

func resolveRest(g *Game, rng *mathrand.Rand) (RestSummary, error) {
	// Bounded recovery, not a flat reset to 100. Sleeping past
	// midnight still re-arms the daily adventure via advance.
	gained := randRange(rng, 5, 15)
	g.Mental = clampMental(g.Mental + gained)
	g.advance(RestHours)
	return RestSummary{MentalGained: gained, Time: g.Time}, nil
}

func resolvePractice(g *Game, rng *mathrand.Rand, score int) (PracticeSummary, error) {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	sum := PracticeSummary{Score: score, PowerGains: make(map[string]int)}
	for _, e := range g.members() {
		if e.m.Power <= 0 {
			continue
		}
		gain := randRange(rng, score/20, score/10)
		e.m.Power += gain
		sum.PowerGains[e.key.String()] = gain
	}

	lost := randRange(rng, max(20-score/5, 5), max(25-score/5, 10))
	g.Mental = clampMental(g.Mental - lost)
	sum.MentalLost = lost

	sum.BrokenItems = decayEquipment(g, rng)
	g.RecomputeTeamPower()
	g.advance(PracticeHours)
	sum.TeamPower = g.TeamPower
	sum.Time = g.Time
	return sum, nil
}

func resolvePerform(g *Game, policy ClockPolicy, rng *mathrand.Rand, venue Venue) (PerformSummary, error) {
	hour := g.Time.Hour()
	if hour < policy.PerformOpenHour || hour > policy.PerformCloseHour {
		return PerformSummary{}, fmt.Errorf("%w: performances run %d:00 to %d:00", ErrClosed, policy.PerformOpenHour, policy.PerformCloseHour)
	}
	if g.Mental < StrenuousMental {
		return PerformSummary{}, fmt.Errorf("%w: need at least %d mental to perform", ErrLowMental, StrenuousMental)
	}
	if g.Fame < venue.MinFame {
		return PerformSummary{}, fmt.Errorf("%w: %s needs fame %d", ErrVenueLocked, venue.Name, venue.MinFame)
	}

	mult := performanceMultiplier(g.TeamPower, g.Mental, g.Fame)
	money := int(math.Floor(float64(randRange(rng, venue.BaseMoneyMin, venue.BaseMoneyMax)) * mult))
	fame := int(math.Floor(float64(venue.BaseFame) * mult))
	lost := randRange(rng, 10, 25)

	g.Money += money
	g.Fame += fame
	g.Mental = clampMental(g.Mental - lost)
	broken := decayEquipment(g, rng)
	g.RecomputeTeamPower()
	g.advance(PerformHours)

	return PerformSummary{
		Venue:       venue.Name,
		Multiplier:  mult,
		MoneyEarned: money,
		FameGained:  fame,
		MentalLost:  lost,
		BrokenItems: broken,
		Time:        g.Time,
	}, nil
}

// performanceMultiplier combines team strength, morale and name
// recognition: 0.5-1.5 from power, 0.3-1.2 from mental, 1.0-1.3 from
// fame up to 1000.
func performanceMultiplier(teamPower, mental, fame int) float64 {
	power := 0.5 + float64(teamPower)/200
	morale := 0.3 + 0.9*float64(mental)/100
	bonus := 1 + 0.3*float64(fame)/1000
	return power * morale * bonus
}

func resolvePurchase(g *Game, policy ClockPolicy, key MemberKey, item Instrument) (PurchaseSummary, error) {
	if err := checkShopOpen(g, policy); err != nil {
		return PurchaseSummary{}, err
	}
	if item.Name == "" || item.Power < offerPowerMin || item.Power > offerPowerMax {
		return PurchaseSummary{}, fmt.Errorf("%w: power %d outside shop stock", ErrBadOffer, item.Power)
	}
	m, err := g.MemberAt(key)
	if err != nil {
		return PurchaseSummary{}, err
	}
	price := item.Power * pricePerPower
	if g.Money < price {
		return PurchaseSummary{}, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientFunds, item.Name, price, g.Money)
	}

	g.Money -= price
	m.HasItem = true
	m.ItemName = item.Name
	m.ItemPower = item.Power
	m.ItemDurability = DurabilityMax
	g.RecomputeTeamPower()
	g.advance(ShopHours)

	return PurchaseSummary{
		Member:    key.String(),
		Item:      item.Name,
		ItemPower: item.Power,
		Price:     price,
		TeamPower: g.TeamPower,
		Time:      g.Time,
	}, nil
}

// RepairCost scales with both the missing durability and the item's
// quality.
func RepairCost(itemPower, durability int) int {
	return (DurabilityMax - durability) * itemPower / RepairCostDivisor
}

func resolveRepair(g *Game, policy ClockPolicy, key MemberKey) (RepairSummary, error) {
	if err := checkShopOpen(g, policy); err != nil {
		return RepairSummary{}, err
	}
	m, err := g.MemberAt(key)
	if err != nil {
		return RepairSummary{}, err
	}
	if !m.HasItem {
		return RepairSummary{}, fmt.Errorf("%w: %s", ErrNoItem, key)
	}
	if m.ItemDurability >= DurabilityMax {
		return RepairSummary{}, ErrItemIntact
	}
	cost := RepairCost(m.ItemPower, m.ItemDurability)
	if g.Money < cost {
		return RepairSummary{}, fmt.Errorf("%w: repair costs %d, have %d", ErrInsufficientFunds, cost, g.Money)
	}

	g.Money -= cost
	m.ItemDurability = DurabilityMax
	g.advance(ShopHours)
	return RepairSummary{Member: key.String(), Item: m.ItemName, Cost: cost, Time: g.Time}, nil
}

// resolveLeaveShop books the browsing time when the player walks out
// without buying anything.
func resolveLeaveShop(g *Game) Clock {
	g.advance(ShopHours)
	return g.Time
}

func checkShopOpen(g *Game, policy ClockPolicy) error {
	hour := g.Time.Hour()
	if hour < policy.ShopOpenHour || hour > policy.ShopCloseHour {
		return fmt.Errorf("%w: the shop is open %d:00 to %d:00", ErrClosed, policy.ShopOpenHour, policy.ShopCloseHour)
	}
	return nil
}

// decayEquipment wears every equipped item by 5-15 points. An item
// hitting zero is destroyed in the same pass, never left at a
// negative durability.
func decayEquipment(g *Game, rng *mathrand.Rand) []string {
	var broken []string
	for _, e := range g.members() {
		if !e.m.HasItem {
			continue
		}
		e.m.ItemDurability -= randRange(rng, 5, 15)
		if e.m.ItemDurability <= 0 {
			broken = append(broken, e.m.ItemName)
			destroyItem(e.m)
		}
	}
	return broken
}
