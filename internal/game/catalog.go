package game

import (
	mathrand "math/rand"
)

// Positions a band member can hold. Shop inventory is keyed by these.
var Positions = []string{"vocals", "guitar", "drums", "keyboard", "bass"}

// Venues is the static performance catalog, ordered by the fame
// needed to unlock them.
var Venues = []Venue{
	{
		ID: "busking", Name: "Street Busking",
		MinFame: 0, BaseFame: 10, BaseMoneyMin: 5, BaseMoneyMax: 15,
		Description: "A street show for whoever happens to walk by.",
	},
	{
		ID: "cafe", Name: "Neighborhood Cafe",
		MinFame: 20, BaseFame: 15, BaseMoneyMin: 15, BaseMoneyMax: 30,
		Description: "A small set in a cozy local cafe.",
	},
	{
		ID: "festival", Name: "University Festival",
		MinFame: 30, BaseFame: 20, BaseMoneyMin: 30, BaseMoneyMax: 50,
		Description: "A campus festival stage with a young crowd.",
	},
	{
		ID: "club", Name: "Local Live Club",
		MinFame: 40, BaseFame: 25, BaseMoneyMin: 40, BaseMoneyMax: 70,
		Description: "A live club packed with devoted regulars.",
	},
	{
		ID: "hall", Name: "Downtown Concert Hall",
		MinFame: 60, BaseFame: 30, BaseMoneyMin: 60, BaseMoneyMax: 100,
		Description: "A mid-size hall in the city center.",
	},
	{
		ID: "regional-tv", Name: "Regional Music Show",
		MinFame: 80, BaseFame: 40, BaseMoneyMin: 80, BaseMoneyMax: 150,
		Description: "A slot on regional television.",
	},
	{
		ID: "big-festival", Name: "Major Festival",
		MinFame: 100, BaseFame: 50, BaseMoneyMin: 100, BaseMoneyMax: 200,
		Description: "A huge open-air festival stage.",
	},
	{
		ID: "national-tv", Name: "National Music Broadcast",
		MinFame: 150, BaseFame: 70, BaseMoneyMin: 150, BaseMoneyMax: 300,
		Description: "A nationwide TV music program.",
	},
	{
		ID: "arena", Name: "Arena Tour",
		MinFame: 200, BaseFame: 100, BaseMoneyMin: 200, BaseMoneyMax: 500,
		Description: "A tour through the country's biggest arenas.",
	},
}

// VenueByID looks a venue up in the static catalog.
func VenueByID(id string) (Venue, bool) {
	for _, v := range Venues {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

// VenuesForFame filters the catalog down to what the band has
// unlocked.
func VenuesForFame(fame int) []Venue {
	out := make([]Venue, 0, len(Venues))
	for _, v := range Venues {
		if v.MinFame <= fame {
			out = append(out, v)
		}
	}
	return out
}

var instrumentNames = map[string][]string{
	"vocals":   {"Premium Mic", "Studio Mic", "Wireless Mic"},
	"guitar":   {"Electric Guitar", "Acoustic Guitar", "Custom Guitar"},
	"drums":    {"Electronic Drums", "Acoustic Drums", "Premium Drums"},
	"keyboard": {"Synthesizer", "Digital Piano", "Stage Piano"},
	"bass":     {"Electric Bass", "Acoustic Bass", "Premium Bass"},
}

var fallbackInstrumentNames = []string{"Starter Instrument I", "Starter Instrument II", "Starter Instrument III"}

const (
	offerPowerMin = 20
	offerPowerMax = 50
	pricePerPower = 3
)

// ShopOffers rolls the day's stock for one member's position: a fresh
// power in [20,50] per listed model, priced at power*3.
func ShopOffers(position string, rng *mathrand.Rand) []Instrument {
	names, ok := instrumentNames[position]
	if !ok {
		names = fallbackInstrumentNames
	}
	out := make([]Instrument, 0, len(names))
	for _, name := range names {
		power := randRange(rng, offerPowerMin, offerPowerMax)
		out = append(out, Instrument{Name: name, Power: power, Price: power * pricePerPower})
	}
	return out
}

var recruitFirstNames = []string{
	"Aiden", "Bora", "Chris", "Dana", "Eun", "Felix", "Gina", "Hana",
	"Ian", "Jay", "Kara", "Liam", "Mina", "Noel", "Oscar", "Remy",
	"Sena", "Theo", "Uma", "Yuna",
}

var recruitLastNames = []string{
	"Kang", "Park", "Han", "Seo", "Moon", "Choi", "Lim", "Yoon",
	"Reyes", "Novak", "Silva", "Mori", "Weber", "Laine",
}

// rollRecruit makes up the walk-in applicant for the new-member
// event: random name, random position, power in [20,50].
func rollRecruit(rng *mathrand.Rand) Member {
	return Member{
		Name:     recruitFirstNames[rng.Intn(len(recruitFirstNames))] + " " + recruitLastNames[rng.Intn(len(recruitLastNames))],
		Position: Positions[rng.Intn(len(Positions))],
		Power:    randRange(rng, 20, 50),
	}
}
