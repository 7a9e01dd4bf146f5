package game

// Member is one band character: the main character or a filled
// teammate slot. A nil *Member in Game.Mates means the slot is empty.
type Member struct {
	Name           string `json:"name"`
	Position       string `json:"position"`
	Power          int    `json:"power"`
	Image          string `json:"image,omitempty"`
	HasItem        bool   `json:"has_item"`
	ItemName       string `json:"item_name,omitempty"`
	ItemPower      int    `json:"item_power,omitempty"`
	ItemDurability int    `json:"item_durability,omitempty"`
}

// Game is one playthrough. All mutation goes through the resolvers in
// rules.go and events.go; the service persists the whole row.
type Game struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"owner_id"`
	Money         int               `json:"money"`
	Mental        int               `json:"mental"`
	Fame          int               `json:"fame"`
	Time          Clock             `json:"time"`
	Main          Member            `json:"main"`
	Mates         [MaxMates]*Member `json:"mates"`
	TeamSize      int               `json:"team_size"`
	TeamPower     int               `json:"team_power"`
	AdventureDone bool              `json:"adventure_done"`
	IsActive      bool              `json:"is_active"`
	Revision      int64             `json:"revision"`
}

type StartGameInput struct {
	OwnerID  string
	Name     string
	Position string
	Image    string
	Power    int // 0 means DefaultMainPower
}

type Venue struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MinFame      int    `json:"min_fame"`
	BaseFame     int    `json:"base_fame"`
	BaseMoneyMin int    `json:"base_money_min"`
	BaseMoneyMax int    `json:"base_money_max"`
	Description  string `json:"description"`
}

// Instrument is one shop offer. Offers are generated server side per
// visit; the purchase handler re-derives the price from the power so
// the client cannot name its own price.
type Instrument struct {
	Name  string `json:"name"`
	Power int    `json:"power"`
	Price int    `json:"price"`
}

type WorkSummary struct {
	MoneyEarned int   `json:"money_earned"`
	MentalLost  int   `json:"mental_lost"`
	Time        Clock `json:"time"`
}

type RestSummary struct {
	MentalGained int   `json:"mental_gained"`
	Time         Clock `json:"time"`
}

type PracticeSummary struct {
	Score       int            `json:"score"`
	PowerGains  map[string]int `json:"power_gains"`
	MentalLost  int            `json:"mental_lost"`
	BrokenItems []string       `json:"broken_items,omitempty"`
	TeamPower   int            `json:"team_power"`
	Time        Clock          `json:"time"`
}

type PerformSummary struct {
	Venue       string   `json:"venue"`
	Multiplier  float64  `json:"multiplier"`
	MoneyEarned int      `json:"money_earned"`
	FameGained  int      `json:"fame_gained"`
	MentalLost  int      `json:"mental_lost"`
	BrokenItems []string `json:"broken_items,omitempty"`
	Time        Clock    `json:"time"`
}

type PurchaseSummary struct {
	Member    string `json:"member"`
	Item      string `json:"item"`
	ItemPower int    `json:"item_power"`
	Price     int    `json:"price"`
	TeamPower int    `json:"team_power"`
	Time      Clock  `json:"time"`
}

type RepairSummary struct {
	Member string `json:"member"`
	Item   string `json:"item"`
	Cost   int    `json:"cost"`
	Time   Clock  `json:"time"`
}

type AdventureSummary struct {
	Event       EventType `json:"event"`
	MoneyDelta  int       `json:"money_delta"`
	MentalDelta int       `json:"mental_delta"`
	FameDelta   int       `json:"fame_delta"`
	Joined      *Member   `json:"joined,omitempty"`
	Departed    string    `json:"departed,omitempty"`
	BrokenItem  string    `json:"broken_item,omitempty"`
	Improved    string    `json:"improved,omitempty"`
	TeamPower   int       `json:"team_power"`
}
