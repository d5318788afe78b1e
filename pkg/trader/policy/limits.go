// Package policy provides risk management gates for bet placement.
package policy

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

// RiskLimits defines the risk parameters for bet placement.
type RiskLimits struct {
	// Per-bet limits
	MaxBetFraction decimal.Decimal // Max stake as fraction of bankroll (0-1)
	MinBetAmount   decimal.Decimal // Min single stake
	MaxBetAmount   decimal.Decimal // Max single stake

	// Exposure limits
	MaxOpenExposure  decimal.Decimal // Max total staked across open bets
	MaxBetsPerGame   int             // Max open bets on a single game
	MaxOpenBets      int             // Max concurrent open bets
	MaxExposureRatio decimal.Decimal // Max open exposure as fraction of bankroll (0-1)

	// Daily limits
	MaxDailyLoss decimal.Decimal // Max realized loss per day
	MaxDailyBets int             // Max bets placed per day

	// Cooldown after a losing run
	LossStreakTrigger int           // Consecutive losses that start the cooldown
	Cooldown          time.Duration // How long placement stays blocked

	// Bet type restrictions
	AllowedTypes []bets.BetType // If set, only place these types
}

// DefaultRiskLimits returns conservative default limits.
func DefaultRiskLimits() *RiskLimits {
	return &RiskLimits{
		MaxBetFraction: decimal.NewFromFloat(0.05), // 5% of bankroll per bet
		MinBetAmount:   decimal.NewFromInt(1),
		MaxBetAmount:   decimal.NewFromInt(500),

		MaxOpenExposure:  decimal.NewFromInt(300),
		MaxBetsPerGame:   2,
		MaxOpenBets:      15,
		MaxExposureRatio: decimal.NewFromFloat(0.3), // 30% of bankroll at risk

		MaxDailyLoss: decimal.NewFromInt(100),
		MaxDailyBets: 10,

		LossStreakTrigger: 4,
		Cooldown:          12 * time.Hour,
	}
}

// TightRiskLimits returns very conservative limits for testing.
func TightRiskLimits() *RiskLimits {
	return &RiskLimits{
		MaxBetFraction: decimal.NewFromFloat(0.03),
		MinBetAmount:   decimal.NewFromInt(1),
		MaxBetAmount:   decimal.NewFromInt(50),

		MaxOpenExposure:  decimal.NewFromInt(100),
		MaxBetsPerGame:   1,
		MaxOpenBets:      3,
		MaxExposureRatio: decimal.NewFromFloat(0.1),

		MaxDailyLoss: decimal.NewFromInt(25),
		MaxDailyBets: 3,

		LossStreakTrigger: 2,
		Cooldown:          24 * time.Hour,
	}
}

// Engine enforces risk limits and tracks placement state.
type Engine struct {
	limits *RiskLimits

	mu           sync.RWMutex
	openPerGame  map[string]int // game id -> open bets
	openBets     int
	openExposure decimal.Decimal
	dailyLoss    decimal.Decimal
	dailyBets    int
	lossStreak   int
	cooldownFrom time.Time
	lastBetDay   int // Day of year

	now func() time.Time
}

// NewEngine creates a policy engine with the given limits.
func NewEngine(limits *RiskLimits) *Engine {
	if limits == nil {
		limits = DefaultRiskLimits()
	}
	return &Engine{
		limits:       limits,
		openPerGame:  make(map[string]int),
		openExposure: decimal.Zero,
		dailyLoss:    decimal.Zero,
		lastBetDay:   time.Now().YearDay(),
		now:          time.Now,
	}
}

// CheckBet validates a sized bet against the limits. A nil error means
// the bet may be placed; otherwise the error is the veto reason.
func (e *Engine) CheckBet(b bets.ActiveBet, bankroll decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetDailyIfNeeded()

	if err := e.checkTypeAllowed(b.Type); err != nil {
		return err
	}

	if b.Amount.LessThan(e.limits.MinBetAmount) {
		return fmt.Errorf("stake $%s below min $%s", b.Amount, e.limits.MinBetAmount)
	}
	if b.Amount.GreaterThan(e.limits.MaxBetAmount) {
		return fmt.Errorf("stake $%s exceeds max $%s", b.Amount, e.limits.MaxBetAmount)
	}
	if bankroll.IsPositive() {
		fraction := b.Amount.Div(bankroll)
		if fraction.GreaterThan(e.limits.MaxBetFraction) {
			return fmt.Errorf("stake is %.1f%% of bankroll, max %.1f%%",
				fraction.Mul(decimal.NewFromInt(100)).InexactFloat64(),
				e.limits.MaxBetFraction.Mul(decimal.NewFromInt(100)).InexactFloat64())
		}
	}

	if e.openBets >= e.limits.MaxOpenBets {
		return fmt.Errorf("too many open bets: %d >= %d", e.openBets, e.limits.MaxOpenBets)
	}
	if e.openPerGame[b.GameID] >= e.limits.MaxBetsPerGame {
		return fmt.Errorf("already holding %d bets on game %s", e.openPerGame[b.GameID], b.GameID)
	}

	newExposure := e.openExposure.Add(b.Amount)
	if newExposure.GreaterThan(e.limits.MaxOpenExposure) {
		return fmt.Errorf("open exposure would exceed limit: $%s > $%s", newExposure, e.limits.MaxOpenExposure)
	}
	if bankroll.IsPositive() && !e.limits.MaxExposureRatio.IsZero() {
		if newExposure.Div(bankroll).GreaterThan(e.limits.MaxExposureRatio) {
			return fmt.Errorf("open exposure would exceed %.0f%% of bankroll",
				e.limits.MaxExposureRatio.Mul(decimal.NewFromInt(100)).InexactFloat64())
		}
	}

	if e.dailyBets >= e.limits.MaxDailyBets {
		return fmt.Errorf("daily bet limit reached: %d", e.limits.MaxDailyBets)
	}
	if e.dailyLoss.GreaterThan(e.limits.MaxDailyLoss) {
		return fmt.Errorf("daily loss limit exceeded: $%s", e.dailyLoss)
	}

	if !e.cooldownFrom.IsZero() && e.now().Sub(e.cooldownFrom) < e.limits.Cooldown {
		remaining := e.limits.Cooldown - e.now().Sub(e.cooldownFrom)
		return fmt.Errorf("in cooldown after %d straight losses, %v remaining",
			e.limits.LossStreakTrigger, remaining.Round(time.Second))
	}

	return nil
}

// RecordPlacement records a bet being placed.
func (e *Engine) RecordPlacement(b bets.ActiveBet) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetDailyIfNeeded()
	e.openBets++
	e.openPerGame[b.GameID]++
	e.openExposure = e.openExposure.Add(b.Amount)
	e.dailyBets++
}

// RecordSettlement records a bet settling and updates the loss streak.
func (e *Engine) RecordSettlement(c bets.CompletedBet) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetDailyIfNeeded()
	e.closeBet(c.ActiveBet)

	switch c.Result {
	case bets.ResultLoss:
		e.dailyLoss = e.dailyLoss.Add(c.ProfitLoss.Abs())
		e.lossStreak++
		if e.lossStreak >= e.limits.LossStreakTrigger && e.cooldownFrom.IsZero() {
			e.cooldownFrom = e.now()
		}
	case bets.ResultWin:
		e.lossStreak = 0
		e.cooldownFrom = time.Time{}
	}
}

// RecordEarlyExit records an open bet being abandoned before the game.
func (e *Engine) RecordEarlyExit(b bets.ActiveBet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeBet(b)
}

func (e *Engine) closeBet(b bets.ActiveBet) {
	if e.openBets > 0 {
		e.openBets--
	}
	if e.openPerGame[b.GameID] > 0 {
		e.openPerGame[b.GameID]--
		if e.openPerGame[b.GameID] == 0 {
			delete(e.openPerGame, b.GameID)
		}
	}
	e.openExposure = e.openExposure.Sub(b.Amount)
	if e.openExposure.IsNegative() {
		e.openExposure = decimal.Zero
	}
}

// OpenExposure returns the tracked total stake across open bets.
func (e *Engine) OpenExposure() decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.openExposure
}

// DailyStats returns the day's realized loss and bet count.
func (e *Engine) DailyStats() (loss decimal.Decimal, placed int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dailyLoss, e.dailyBets
}

// --- Internal helpers ---

func (e *Engine) resetDailyIfNeeded() {
	now := e.now()
	if e.lastBetDay != now.YearDay() {
		e.dailyLoss = decimal.Zero
		e.dailyBets = 0
		e.lastBetDay = now.YearDay()
	}
}

func (e *Engine) checkTypeAllowed(t bets.BetType) error {
	if len(e.limits.AllowedTypes) == 0 {
		return nil
	}
	for _, allowed := range e.limits.AllowedTypes {
		if t == allowed {
			return nil
		}
	}
	return fmt.Errorf("bet type %s is not in allowed list", t)
}

// Status is a summary of the current policy state.
type Status struct {
	OpenBets       int    `json:"open_bets"`
	MaxOpenBets    int    `json:"max_open_bets"`
	OpenExposure   string `json:"open_exposure"`
	MaxExposure    string `json:"max_exposure"`
	DailyLoss      string `json:"daily_loss"`
	MaxDailyLoss   string `json:"max_daily_loss"`
	DailyBets      int    `json:"daily_bets"`
	MaxDailyBets   int    `json:"max_daily_bets"`
	LossStreak     int    `json:"loss_streak"`
	InCooldown     bool   `json:"in_cooldown"`
	CooldownRemain string `json:"cooldown_remaining,omitempty"`
}

// CurrentStatus returns the current policy state.
func (e *Engine) CurrentStatus() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := Status{
		OpenBets:     e.openBets,
		MaxOpenBets:  e.limits.MaxOpenBets,
		OpenExposure: e.openExposure.String(),
		MaxExposure:  e.limits.MaxOpenExposure.String(),
		DailyLoss:    e.dailyLoss.String(),
		MaxDailyLoss: e.limits.MaxDailyLoss.String(),
		DailyBets:    e.dailyBets,
		MaxDailyBets: e.limits.MaxDailyBets,
		LossStreak:   e.lossStreak,
	}
	if !e.cooldownFrom.IsZero() && e.now().Sub(e.cooldownFrom) < e.limits.Cooldown {
		status.InCooldown = true
		status.CooldownRemain = (e.limits.Cooldown - e.now().Sub(e.cooldownFrom)).Round(time.Second).String()
	}
	return status
}
