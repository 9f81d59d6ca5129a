package game

import (
	"errors"
	"math"
	"strconv"
)

const (
	StartingGems  = int64(50)
	BaseTapPower  = 10.0
	ComboStep     = 5.0
	ComboDecay    = 1.0
	MaxCombo      = 100.0
	MaxDiscount   = 0.80
	SummonCost    = int64(100)
	DiscoverCost  = int64(250)
	PrestigeGems  = int64(100)
	DailyGems     = int64(50)
	StartingMaxXP = int64(1000)

	ArtifactFindChance = 0.05
	PenaltyRate        = 0.10

	InvestorDivisor = 10_000.0
	InvestorBonus   = 0.02

	MinStockPrice = 0.1
	MaxStockPrice = 50_000.0
	StockHistory  = 20
	MarketBias    = 0.05

	OfflineMinSeconds = 5.0
	OfflineMaxSeconds = 24 * 60 * 60.0

	dayMillis   = int64(24 * 60 * 60 * 1000)
	toastMillis = int64(3000)
)

var (
	ErrUnknownID             = errors.New("unknown id")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientGems      = errors.New("not enough gems")
	ErrInsufficientInvestors = errors.New("not enough investors")
	ErrInsufficientPoints    = errors.New("not enough skill points")
	ErrInsufficientShares    = errors.New("insufficient shares")
	ErrNotOwned              = errors.New("business not owned")
	ErrAlreadyOwned          = errors.New("already owned")
	ErrMaxLevel              = errors.New("already at max level")
	ErrNotHired              = errors.New("manager not hired")
	ErrOnCooldown            = errors.New("skill on cooldown")
	ErrNoDecision            = errors.New("no active decision")
	ErrInvalidOption         = errors.New("invalid decision option")
	ErrNothingToDiscover     = errors.New("every artifact already discovered")
	ErrNotCompleted          = errors.New("not completed")
	ErrInvalidAmount         = errors.New("amount must be > 0")
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastInfo    ToastKind = "info"
	ToastWarning ToastKind = "warning"
)

// Toast is a transient notification surfaced by the UI for three seconds.
type Toast struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Kind    ToastKind `json:"type"`
	ShownAt int64     `json:"shownAt"`
}

var currencySuffixes = []string{"", "k", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc"}

// FormatCurrency renders large amounts with short suffixes, switching to
// two-letter idle notation (aa, ab, ...) past decillions.
func FormatCurrency(v float64) string {
	if v < 1000 {
		return strconv.FormatFloat(math.Floor(v), 'f', 0, 64)
	}
	idx := int(math.Floor(math.Log10(v) / 3))
	short, _ := strconv.ParseFloat(strconv.FormatFloat(v/math.Pow(1000, float64(idx)), 'g', 3, 64), 64)
	if short >= 1000 {
		idx++
		short /= 1000
	}
	digits := strconv.FormatFloat(short, 'f', -1, 64)
	if idx < len(currencySuffixes) {
		return digits + currencySuffixes[idx]
	}
	offset := idx - len(currencySuffixes)
	return digits + string(rune('a'+offset/26)) + string(rune('a'+offset%26))
}
