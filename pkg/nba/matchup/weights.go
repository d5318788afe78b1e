package matchup

import "math"

// DecayWeights returns n exponential-decay weights, newest entry first,
// normalized to sum to 1. halfLife is the number of entries over which
// a weight halves.
func DecayWeights(n int, halfLife float64) []float64 {
	if n <= 0 {
		return nil
	}
	if halfLife <= 0 {
		halfLife = RecentGameHalfLife
	}
	weights := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		weights[i] = math.Exp(-math.Ln2 * float64(i) / halfLife)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// seasonGameWeights assigns one normalized weight per game in a
// multi-season head-to-head series. A game's raw weight is
// decay^(currentSeason-season) split evenly across that season's games,
// so a lone recent meeting outweighs a lone old one but a busy old
// season is not over-counted game by game.
func seasonGameWeights(games []H2HGame, currentSeason int, decay float64) []float64 {
	if len(games) == 0 {
		return nil
	}
	if decay <= 0 || decay > 1 {
		decay = SeasonDecay
	}

	perSeason := make(map[int]int)
	for _, g := range games {
		perSeason[g.Season]++
	}

	weights := make([]float64, len(games))
	sum := 0.0
	for i, g := range games {
		age := currentSeason - g.Season
		if age < 0 {
			age = 0
		}
		w := math.Pow(decay, float64(age)) / float64(perSeason[g.Season])
		weights[i] = w
		sum += w
	}
	if sum == 0 {
		return nil
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

func round1(v float64) float64 { return math.RoundToEven(v*10) / 10 }
func round2(v float64) float64 { return math.RoundToEven(v*100) / 100 }
func round3(v float64) float64 { return math.RoundToEven(v*1000) / 1000 }
