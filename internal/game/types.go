package game

type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityLegendary Rarity = "Legendary"
	RarityMythic    Rarity = "Mythic"
)

type Weather string

const (
	WeatherSunny      Weather = "SUNNY"
	WeatherRain       Weather = "RAIN"
	WeatherStorm      Weather = "STORM"
	WeatherGoldenHour Weather = "GOLDEN_HOUR"
)

type Trend string

const (
	TrendBull   Trend = "BULL"
	TrendBear   Trend = "BEAR"
	TrendStable Trend = "STABLE"
)

type MissionType string

const (
	MissionTap   MissionType = "TAP"
	MissionEarn  MissionType = "EARN"
	MissionSpend MissionType = "SPEND"
)

// AngelEffect is the effect category of a prestige-shop upgrade.
type AngelEffect string

const (
	AngelProfitMult AngelEffect = "profit_mult"
	AngelCostDisc   AngelEffect = "cost_disc"
	AngelTimeWarp   AngelEffect = "time_warp"
)

// ArtifactEffect is the effect category of an artifact.
type ArtifactEffect string

const (
	ArtifactGlobalMult ArtifactEffect = "global_mult"
	ArtifactLuckBoost  ArtifactEffect = "luck_boost"
	ArtifactDiscount   ArtifactEffect = "discount"
	ArtifactTapBoost   ArtifactEffect = "tap_boost"
)

// SkillEffect is the effect category of a CEO skill.
type SkillEffect string

const (
	SkillTapBonus        SkillEffect = "tap_bonus"
	SkillIdleBonus       SkillEffect = "idle_bonus"
	SkillUpgradeDiscount SkillEffect = "upgrade_discount"
)

// ManagerSkillKind is the active ability a hired manager can trigger.
type ManagerSkillKind string

const (
	ManagerInstantCash ManagerSkillKind = "instant_cash"
	ManagerStockPump   ManagerSkillKind = "stock_pump"
	ManagerGemLuck     ManagerSkillKind = "gem_luck"
	ManagerProfitBoost ManagerSkillKind = "profit_boost"
)

type Business struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	BaseCost    float64 `json:"baseCost"`
	BaseRevenue float64 `json:"baseRevenue"`
	Level       int     `json:"level"`
	UnlockCost  float64 `json:"unlockCost"`
	Owned       bool    `json:"owned"`
}

type ManagerSkill struct {
	Kind            ManagerSkillKind `json:"kind"`
	CooldownSeconds int64            `json:"cooldownSeconds"`
	Value           float64          `json:"value"`
	LastUsed        int64            `json:"lastUsed"`
}

type Manager struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Cost       float64      `json:"cost"`
	BusinessID string       `json:"businessId"`
	Multiplier float64      `json:"multiplier"`
	Hired      bool         `json:"hired"`
	Level      int          `json:"level"`
	Rarity     Rarity       `json:"rarity"`
	Skill      ManagerSkill `json:"skill"`
}

type ResearchItem struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	BaseCost           float64 `json:"baseCost"`
	MaxLevel           int     `json:"maxLevel"`
	MultiplierPerLevel float64 `json:"multiplierPerLevel"`
	CurrentLevel       int     `json:"currentLevel"`
}

type AngelUpgrade struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Cost   int64       `json:"cost"`
	Effect AngelEffect `json:"effectType"`
	Value  float64     `json:"value"`
}

type Artifact struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Owned  bool           `json:"owned"`
	Effect ArtifactEffect `json:"effectType"`
	Value  float64        `json:"value"`
	Rarity Rarity         `json:"rarity"`
}

type CeoSkill struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Level         int         `json:"level"`
	MaxLevel      int         `json:"maxLevel"`
	Cost          int64       `json:"cost"`
	Effect        SkillEffect `json:"effectType"`
	ValuePerLevel float64     `json:"valuePerLevel"`
}

type Ceo struct {
	Level       int   `json:"level"`
	XP          int64 `json:"xp"`
	MaxXP       int64 `json:"maxXp"`
	SkillPoints int64 `json:"skillPoints"`
}

type Stock struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	PreviousPrice float64   `json:"previousPrice"`
	Volatility    float64   `json:"volatility"`
	History       []float64 `json:"history"`
	Trend         Trend     `json:"trend"`
	TrendDuration int       `json:"trendDuration"`
}

type GameEvent struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Duration   int64   `json:"duration"`
	StartTime  int64   `json:"startTime"`
}

// ActiveDecision references a decision template by id. Effects are never
// persisted; they are looked up in the registry on resolution.
type ActiveDecision struct {
	ID string `json:"id"`
}

type Mission struct {
	ID          string      `json:"id"`
	Type        MissionType `json:"type"`
	Description string      `json:"description"`
	Target      float64     `json:"target"`
	Current     float64     `json:"current"`
	Reward      int64       `json:"reward"`
	Completed   bool        `json:"completed"`
	Claimed     bool        `json:"claimed"`
}

type Stats struct {
	TotalTaps        int64   `json:"totalTaps"`
	TotalBizUpgrades int64   `json:"totalBizUpgrades"`
	TotalEarnings    float64 `json:"totalEarnings"`
	StartTime        int64   `json:"startTime"`
}

type Settings struct {
	Sfx     bool `json:"sfx"`
	Haptics bool `json:"haptics"`
}

// State is the full persisted model. Timestamps are unix milliseconds.
type State struct {
	Money               float64          `json:"money"`
	Gems                int64            `json:"gems"`
	Investors           int64            `json:"investors"`
	LifetimeEarnings    float64          `json:"lifetimeEarnings"`
	Businesses          []Business       `json:"businesses"`
	Managers            []Manager        `json:"managers"`
	Research            []ResearchItem   `json:"research"`
	Stocks              []Stock          `json:"stocks"`
	Portfolio           map[string]int64 `json:"portfolio"`
	Stats               Stats            `json:"stats"`
	ClaimedAchievements []string         `json:"claimedAchievements"`
	LastLogin           int64            `json:"lastLogin"`
	LastDailyReward     int64            `json:"lastDailyReward"`
	Settings            Settings         `json:"settings"`
	ActiveEvent         *GameEvent       `json:"activeEvent"`
	ActiveDecision      *ActiveDecision  `json:"activeDecision"`
	AngelUpgrades       []string         `json:"angelUpgrades"`
	Weather             Weather          `json:"weather"`
	NewsTicker          string           `json:"newsTicker"`
	Ceo                 Ceo              `json:"ceo"`
	Skills              []CeoSkill       `json:"skills"`
	Artifacts           []Artifact       `json:"artifacts"`
	Missions            []Mission        `json:"missions"`
	LastMissionRefresh  int64            `json:"lastMissionRefresh"`
	Combo               float64          `json:"combo"`
	MaxCombo            float64          `json:"maxCombo"`
}

// Clone returns a deep copy that shares no slices, maps or pointers with s.
func (s *State) Clone() *State {
	out := *s
	out.Businesses = cloneSlice(s.Businesses)
	out.Managers = cloneSlice(s.Managers)
	out.Research = cloneSlice(s.Research)
	out.Skills = cloneSlice(s.Skills)
	out.Artifacts = cloneSlice(s.Artifacts)
	out.Missions = cloneSlice(s.Missions)
	out.ClaimedAchievements = cloneSlice(s.ClaimedAchievements)
	out.AngelUpgrades = cloneSlice(s.AngelUpgrades)
	out.Stocks = cloneSlice(s.Stocks)
	for i := range out.Stocks {
		out.Stocks[i].History = cloneSlice(s.Stocks[i].History)
	}
	if s.Portfolio != nil {
		out.Portfolio = make(map[string]int64, len(s.Portfolio))
		for k, v := range s.Portfolio {
			out.Portfolio[k] = v
		}
	}
	if s.ActiveEvent != nil {
		ev := *s.ActiveEvent
		out.ActiveEvent = &ev
	}
	if s.ActiveDecision != nil {
		d := *s.ActiveDecision
		out.ActiveDecision = &d
	}
	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
