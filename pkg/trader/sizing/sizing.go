// Package sizing computes stake amounts with fractional Kelly and a
// flat bankroll cap.
package sizing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/courtside/courtside-agents/pkg/polymarket/odds"
	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

// Config holds the sizing knobs. Zero values mean "use the default".
type Config struct {
	// KellyMultiplier scales the full Kelly fraction. 0.5 is half
	// Kelly.
	KellyMultiplier float64
	// MaxBankrollFraction caps any single stake as a fraction of the
	// available bankroll. Also the fallback stake when Kelly cannot
	// be computed.
	MaxBankrollFraction float64
	// OracleClipRatio limits an externally suggested amount to this
	// multiple of the half-Kelly stake.
	OracleClipRatio float64
}

// DefaultConfig returns the standard half-Kelly setup with a 3% cap.
func DefaultConfig() Config {
	return Config{
		KellyMultiplier:     0.5,
		MaxBankrollFraction: 0.03,
		OracleClipRatio:     1.2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.KellyMultiplier <= 0 {
		c.KellyMultiplier = d.KellyMultiplier
	}
	if c.MaxBankrollFraction <= 0 {
		c.MaxBankrollFraction = d.MaxBankrollFraction
	}
	if c.OracleClipRatio <= 0 {
		c.OracleClipRatio = d.OracleClipRatio
	}
	return c
}

// WinProbability maps a confidence tier to the assumed win probability
// used in the Kelly criterion.
func WinProbability(c bets.Confidence) float64 {
	switch c {
	case bets.ConfidenceHigh:
		return 0.65
	case bets.ConfidenceLow:
		return 0.54
	default:
		return 0.57
	}
}

// KellyFraction returns the full-Kelly fraction f* = (b*p - q) / b for
// the given American odds and win probability. Negative values mean no
// edge and come back as 0.
func KellyFraction(americanOdds int, p float64) float64 {
	b := odds.AmericanToDecimal(americanOdds) - 1
	if b <= 0 {
		return 0
	}
	q := 1 - p
	f := (b*p - q) / b
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

// Sizer turns unsized bets into stakes against a bankroll snapshot.
type Sizer struct {
	cfg Config
}

// New returns a Sizer. Unset config fields fall back to defaults.
func New(cfg Config) *Sizer {
	return &Sizer{cfg: cfg.withDefaults()}
}

// HalfKellyAmount returns the scaled Kelly stake for a bet at the given
// odds and confidence, capped at MaxBankrollFraction of the available
// bankroll. A non-positive Kelly fraction sizes to zero.
func (s *Sizer) HalfKellyAmount(americanOdds int, confidence bets.Confidence, available decimal.Decimal) decimal.Decimal {
	if !available.IsPositive() {
		return decimal.Zero
	}
	f := KellyFraction(americanOdds, WinProbability(confidence))
	if f == 0 {
		return decimal.Zero
	}
	stake := available.Mul(decimal.NewFromFloat(f * s.cfg.KellyMultiplier)).Round(2)
	cap := s.maxStake(available)
	if stake.GreaterThan(cap) {
		return cap
	}
	return stake
}

// ClipAmount bounds an externally suggested stake. The suggestion may
// exceed the half-Kelly stake by at most OracleClipRatio, and never
// exceeds the bankroll cap.
func (s *Sizer) ClipAmount(suggested decimal.Decimal, americanOdds int, confidence bets.Confidence, available decimal.Decimal) decimal.Decimal {
	if !suggested.IsPositive() || !available.IsPositive() {
		return decimal.Zero
	}
	f := KellyFraction(americanOdds, WinProbability(confidence))
	ceiling := s.maxStake(available)
	if f > 0 {
		kelly := available.Mul(decimal.NewFromFloat(f * s.cfg.KellyMultiplier))
		clipped := kelly.Mul(decimal.NewFromFloat(s.cfg.OracleClipRatio)).Round(2)
		if clipped.LessThan(ceiling) {
			ceiling = clipped
		}
	}
	if suggested.GreaterThan(ceiling) {
		return ceiling
	}
	return suggested.Round(2)
}

func (s *Sizer) maxStake(available decimal.Decimal) decimal.Decimal {
	return available.Mul(decimal.NewFromFloat(s.cfg.MaxBankrollFraction)).Round(2)
}

// SkippedBet records a bet the batch declined to size, with the reason.
type SkippedBet struct {
	Bet    bets.ActiveBet
	Reason string
}

// BatchResult is the outcome of sizing a slate against one bankroll
// snapshot.
type BatchResult struct {
	Sized   []bets.ActiveBet
	Skipped []SkippedBet
	// Committed is the total staked across the sized bets.
	Committed decimal.Decimal
}

// SizeBatch sizes a slate of bets against a single bankroll snapshot.
// Every stake is computed from the same starting amount so the slate
// is reproducible, but the running total is not allowed to exceed the
// snapshot. Bets with no Kelly edge, or that no longer fit, are
// skipped with a reason rather than resized.
func (s *Sizer) SizeBatch(slate []bets.ActiveBet, available decimal.Decimal) BatchResult {
	res := BatchResult{Committed: decimal.Zero}
	for _, bet := range slate {
		if !available.IsPositive() {
			res.Skipped = append(res.Skipped, SkippedBet{Bet: bet, Reason: "no bankroll available"})
			continue
		}
		amount := s.HalfKellyAmount(bet.OddsPrice, bet.Confidence, available)
		if !amount.IsPositive() {
			res.Skipped = append(res.Skipped, SkippedBet{Bet: bet, Reason: "no Kelly edge at these odds"})
			continue
		}
		if res.Committed.Add(amount).GreaterThan(available) {
			res.Skipped = append(res.Skipped, SkippedBet{Bet: bet, Reason: "stake would exceed bankroll snapshot"})
			continue
		}
		bet.Amount = amount
		res.Sized = append(res.Sized, bet)
		res.Committed = res.Committed.Add(amount)
	}
	return res
}
