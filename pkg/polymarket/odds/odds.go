// Package odds converts between American odds, decimal odds, implied
// probabilities and Polymarket share prices.
package odds

import "math"

// FallbackAmerican is used when a share price is unusable (outside the
// open interval). -110 is the standard vig line.
const FallbackAmerican = -110

// AmericanToDecimal converts American odds to decimal payout odds.
// -110 pays 1.909..., +150 pays 2.5.
func AmericanToDecimal(american int) float64 {
	if american == 0 {
		american = FallbackAmerican
	}
	if american < 0 {
		return 1 + 100/math.Abs(float64(american))
	}
	return 1 + float64(american)/100
}

// AmericanToImpliedProbability returns the break-even win probability
// at the given odds.
func AmericanToImpliedProbability(american int) float64 {
	if american == 0 {
		american = FallbackAmerican
	}
	if american < 0 {
		a := math.Abs(float64(american))
		return a / (a + 100)
	}
	return 100 / (float64(american) + 100)
}

// PolyPriceToAmerican converts a Polymarket share price in (0,1) to the
// nearest American odds. Prices at or outside the boundary fall back to
// -110; within the interval the conversion is the inverse (modulo
// integer rounding) of AmericanToImpliedProbability.
func PolyPriceToAmerican(price float64) int {
	if price <= 0 || price >= 1 {
		return FallbackAmerican
	}
	switch {
	case price == 0.5:
		return 100
	case price > 0.5:
		return -int(math.Round(price / (1 - price) * 100))
	default:
		return int(math.Round((1 - price) / price * 100))
	}
}
