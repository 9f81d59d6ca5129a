package game

// Static catalogs. Every function returns a fresh copy so callers may mutate
// the result without touching the seed data.

func defaultBusinesses() []Business {
	return []Business{
		{ID: "lemonade", Name: "Lemonade Stand", BaseCost: 100, BaseRevenue: 10, UnlockCost: 0, Owned: true},
		{ID: "bakery", Name: "Artisan Bakery", BaseCost: 500, BaseRevenue: 50, UnlockCost: 500},
		{ID: "tech_startup", Name: "Tech Startup", BaseCost: 10_000, BaseRevenue: 1_000, UnlockCost: 10_000},
		{ID: "crypto_farm", Name: "Crypto Farm", BaseCost: 1_000_000, BaseRevenue: 8_500, UnlockCost: 1_000_000},
		{ID: "space_agency", Name: "Space Agency", BaseCost: 5e8, BaseRevenue: 120_000, UnlockCost: 5e8},
		{ID: "ai_core", Name: "AI Core", BaseCost: 1e11, BaseRevenue: 5_000_000, UnlockCost: 1e11},
	}
}

func defaultManagers() []Manager {
	return []Manager{
		{ID: "mgr_lemon", Name: "Kid Neighbor", Cost: 1_000, BusinessID: "lemonade", Multiplier: 2, Level: 1, Rarity: RarityCommon,
			Skill: ManagerSkill{Kind: ManagerInstantCash, CooldownSeconds: 60, Value: 30}},
		{ID: "mgr_bakery", Name: "Grandma", Cost: 5_000, BusinessID: "bakery", Multiplier: 3, Level: 1, Rarity: RarityCommon,
			Skill: ManagerSkill{Kind: ManagerGemLuck, CooldownSeconds: 300, Value: 5}},
		{ID: "mgr_tech", Name: "Elon M.", Cost: 50_000, BusinessID: "tech_startup", Multiplier: 10, Level: 1, Rarity: RarityLegendary,
			Skill: ManagerSkill{Kind: ManagerProfitBoost, CooldownSeconds: 600, Value: 2}},
		{ID: "mgr_crypto", Name: "Satoshi", Cost: 5_000_000, BusinessID: "crypto_farm", Multiplier: 8, Level: 1, Rarity: RarityRare,
			Skill: ManagerSkill{Kind: ManagerStockPump, CooldownSeconds: 900, Value: 0.1}},
		{ID: "mgr_space", Name: "Starman", Cost: 2e9, BusinessID: "space_agency", Multiplier: 15, Level: 1, Rarity: RarityLegendary,
			Skill: ManagerSkill{Kind: ManagerInstantCash, CooldownSeconds: 1_800, Value: 600}},
		{ID: "mgr_ai", Name: "Skynet", Cost: 5e11, BusinessID: "ai_core", Multiplier: 20, Level: 1, Rarity: RarityLegendary,
			Skill: ManagerSkill{Kind: ManagerProfitBoost, CooldownSeconds: 3_600, Value: 5}},
	}
}

func defaultResearch() []ResearchItem {
	return []ResearchItem{
		{ID: "res_marketing", Name: "Viral Marketing", BaseCost: 50_000, MaxLevel: 10, MultiplierPerLevel: 0.1},
		{ID: "res_efficiency", Name: "Lean Operations", BaseCost: 250_000, MaxLevel: 5, MultiplierPerLevel: 0.25},
		{ID: "res_ai", Name: "Machine Learning", BaseCost: 1_000_000, MaxLevel: 5, MultiplierPerLevel: 0.5},
		{ID: "res_quantum", Name: "Quantum Computing", BaseCost: 5e7, MaxLevel: 3, MultiplierPerLevel: 1.0},
	}
}

var angelCatalog = []AngelUpgrade{
	{ID: "au_1", Name: "Heavenly Chips", Cost: 10, Effect: AngelProfitMult, Value: 3},
	{ID: "au_2", Name: "Divine Discount", Cost: 50, Effect: AngelCostDisc, Value: 0.1},
	{ID: "au_3", Name: "Angel Wings", Cost: 500, Effect: AngelProfitMult, Value: 5},
	{ID: "au_4", Name: "Time Mastery", Cost: 2_000, Effect: AngelTimeWarp, Value: 0.5},
	{ID: "au_5", Name: "God Mode", Cost: 10_000, Effect: AngelProfitMult, Value: 10},
}

// AngelUpgrades lists the prestige shop.
func AngelUpgrades() []AngelUpgrade {
	return cloneSlice(angelCatalog)
}

func angelByID(id string) (AngelUpgrade, bool) {
	for _, u := range angelCatalog {
		if u.ID == id {
			return u, true
		}
	}
	return AngelUpgrade{}, false
}

func defaultSkills() []CeoSkill {
	return []CeoSkill{
		{ID: "skill_midas", Name: "Midas Touch", MaxLevel: 10, Cost: 1, Effect: SkillTapBonus, ValuePerLevel: 0.5},
		{ID: "skill_negotiator", Name: "Silver Tongue", MaxLevel: 5, Cost: 2, Effect: SkillUpgradeDiscount, ValuePerLevel: 0.05},
		{ID: "skill_manager", Name: "Micro Management", MaxLevel: 10, Cost: 1, Effect: SkillIdleBonus, ValuePerLevel: 0.2},
	}
}

func defaultArtifacts() []Artifact {
	return []Artifact{
		{ID: "art_coin", Name: "Ancient Coin", Effect: ArtifactGlobalMult, Value: 1.5, Rarity: RarityRare},
		{ID: "art_cat", Name: "Lucky Cat", Effect: ArtifactLuckBoost, Value: 0.1, Rarity: RarityMythic},
		{ID: "art_ledger", Name: "Golden Ledger", Effect: ArtifactDiscount, Value: 0.1, Rarity: RarityRare},
		{ID: "art_glove", Name: "Midas Glove", Effect: ArtifactTapBoost, Value: 2, Rarity: RarityCommon},
	}
}

func defaultStocks() []Stock {
	seed := []struct {
		id, symbol, name string
		price, vol       float64
	}{
		{"stk_tech", "TECH", "Tech Giant Inc", 100, 0.05},
		{"stk_mine", "GOLD", "Gold Mines", 50, 0.02},
		{"stk_coin", "DOGE", "Meme Coin", 10, 0.15},
		{"stk_food", "BURGER", "McBurgers", 200, 0.03},
		{"stk_energy", "VOLT", "Future Energy", 75, 0.08},
	}
	out := make([]Stock, 0, len(seed))
	for _, s := range seed {
		history := make([]float64, StockHistory)
		for i := range history {
			history[i] = s.price
		}
		out = append(out, Stock{
			ID:            s.id,
			Symbol:        s.symbol,
			Name:          s.name,
			Price:         s.price,
			PreviousPrice: s.price,
			Volatility:    s.vol,
			History:       history,
			Trend:         TrendStable,
			TrendDuration: 10,
		})
	}
	return out
}

// Synergy multiplies the revenue of its member businesses while all of them
// are owned.
type Synergy struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	BusinessIDs []string `json:"businessIds"`
	Multiplier  float64  `json:"multiplier"`
}

var synergies = []Synergy{
	{ID: "syn_food", Name: "Food Chain", BusinessIDs: []string{"lemonade", "bakery"}, Multiplier: 1.5},
	{ID: "syn_digital_gold", Name: "Digital Gold", BusinessIDs: []string{"tech_startup", "crypto_farm"}, Multiplier: 1.75},
	{ID: "syn_silicon", Name: "Silicon Valley", BusinessIDs: []string{"tech_startup", "ai_core"}, Multiplier: 2},
	{ID: "syn_frontier", Name: "Final Frontier", BusinessIDs: []string{"space_agency", "ai_core"}, Multiplier: 3},
}

// Synergies lists every synergy definition.
func Synergies() []Synergy {
	out := make([]Synergy, len(synergies))
	for i, s := range synergies {
		s.BusinessIDs = cloneSlice(s.BusinessIDs)
		out[i] = s
	}
	return out
}

type eventTemplate struct {
	ID         string
	Name       string
	Multiplier float64
	Duration   int64
	Weight     int
}

var eventCatalog = []eventTemplate{
	{ID: "viral_marketing", Name: "Viral Marketing", Multiplier: 3, Duration: 30, Weight: 30},
	{ID: "market_boom", Name: "Market Boom", Multiplier: 5, Duration: 20, Weight: 20},
	{ID: "investor_visit", Name: "Investor Visit", Multiplier: 2, Duration: 60, Weight: 30},
	{ID: "market_crash", Name: "Market Crash", Multiplier: 0.5, Duration: 15, Weight: 20},
}

const (
	eventMarketBoom  = "market_boom"
	eventMarketCrash = "market_crash"
	eventProfitBoost = "profit_boost"
)

// Achievement is a one-time gem reward unlocked by a stat threshold.
type Achievement struct {
	ID     string
	Name   string
	Reward int64
	done   func(*State) bool
}

var achievements = []Achievement{
	{ID: "tap_100", Name: "Tapper", Reward: 10, done: func(s *State) bool { return s.Stats.TotalTaps >= 100 }},
	{ID: "earn_1m", Name: "Millionaire", Reward: 50, done: func(s *State) bool { return s.LifetimeEarnings >= 1_000_000 }},
	{ID: "investor_1", Name: "Angel Investor", Reward: 100, done: func(s *State) bool { return s.Investors >= 1 }},
}

func achievementByID(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

type missionTemplate struct {
	Type        MissionType
	Description string
	Target      float64
	Reward      int64
}

var missionTemplates = []missionTemplate{
	{Type: MissionTap, Description: "Tap 500 times", Target: 500, Reward: 10},
	{Type: MissionEarn, Description: "Earn $100k by tapping", Target: 100_000, Reward: 15},
	{Type: MissionSpend, Description: "Spend $50k on businesses", Target: 50_000, Reward: 20},
}

var weatherTable = map[Weather]float64{
	WeatherSunny:      1.0,
	WeatherRain:       0.8,
	WeatherStorm:      0.5,
	WeatherGoldenHour: 2.0,
}

var weatherNews = map[Weather]string{
	WeatherSunny:      "Clear skies! Business as usual.",
	WeatherRain:       "Rainy day. Customers are staying home.",
	WeatherStorm:      "Storm warning! Revenue is down.",
	WeatherGoldenHour: "Golden Hour! Profits are doubled!",
}

// DefaultState is the first-run state with every catalog seeded.
func DefaultState(now int64) *State {
	return &State{
		Gems:                StartingGems,
		Businesses:          defaultBusinesses(),
		Managers:            defaultManagers(),
		Research:            defaultResearch(),
		Stocks:              defaultStocks(),
		Portfolio:           map[string]int64{},
		Stats:               Stats{StartTime: now},
		ClaimedAchievements: []string{},
		LastLogin:           now,
		Settings:            Settings{Sfx: true, Haptics: true},
		AngelUpgrades:       []string{},
		Weather:             WeatherSunny,
		NewsTicker:          "Welcome CEO!",
		Ceo:                 Ceo{Level: 1, MaxXP: StartingMaxXP},
		Skills:              defaultSkills(),
		Artifacts:           defaultArtifacts(),
		Missions:            []Mission{},
	}
}
