package odds

import (
	"math"
	"testing"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"standard vig", -110, 1.9090909090909092},
		{"even", 100, 2.0},
		{"underdog", 150, 2.5},
		{"heavy favorite", -400, 1.25},
		{"zero falls back", 0, 1.9090909090909092},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmericanToDecimal(tt.american); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AmericanToDecimal(%d) = %v, want %v", tt.american, got, tt.want)
			}
		})
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"standard vig", -110, 110.0 / 210.0},
		{"even", 100, 0.5},
		{"underdog", 200, 100.0 / 300.0},
		{"favorite", -200, 200.0 / 300.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmericanToImpliedProbability(tt.american); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AmericanToImpliedProbability(%d) = %v, want %v", tt.american, got, tt.want)
			}
		})
	}
}

func TestPolyPriceToAmerican(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int
	}{
		{"coin flip", 0.5, 100},
		{"favorite", 0.6, -150},
		{"underdog", 0.4, 150},
		{"heavy favorite", 0.8, -400},
		{"zero falls back", 0.0, FallbackAmerican},
		{"one falls back", 1.0, FallbackAmerican},
		{"negative falls back", -0.2, FallbackAmerican},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolyPriceToAmerican(tt.price); got != tt.want {
				t.Errorf("PolyPriceToAmerican(%v) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}

func TestPriceOddsRoundTrip(t *testing.T) {
	// Price -> American -> implied probability must land within a cent
	// of the original, away from the fallback boundary.
	for price := 0.05; price < 0.96; price += 0.01 {
		american := PolyPriceToAmerican(price)
		implied := AmericanToImpliedProbability(american)
		if math.Abs(implied-price) > 0.01 {
			t.Errorf("round trip %v -> %d -> %v drifted more than 0.01", price, american, implied)
		}
	}
}
