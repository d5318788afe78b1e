package matchup

import (
	"math"

	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

// TotalsAnalysis is the over/under projection for a matchup.
type TotalsAnalysis struct {
	CurrentTotal       float64 `json:"current_total"`
	ExpectedTotal      float64 `json:"expected_total"`
	LeagueAvgTotal     float64 `json:"league_avg_total"`
	H2HWeight          float64 `json:"h2h_weight"`
	PaceAdjustedTotal  float64 `json:"pace_adjusted_total"`
	DefenseFactor      float64 `json:"defense_factor"`
	MarginVolatility   float64 `json:"margin_volatility"`
	H2HTotalVariance   float64 `json:"h2h_total_variance"`
	RecentScoringTrend float64 `json:"recent_scoring_trend"`
}

// stddev is the sample standard deviation, 0 below two observations.
func stddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(n-1))
}

// ComputeTotalsAnalysis blends both teams' season scoring with the
// head-to-head baseline, then regresses partway toward a dynamic league
// average so small samples do not dominate.
//
// The dynamic league average is the mean of both teams' own implied
// game totals (ppg + opp_ppg), clamped to a sane band; outside the band
// the fixed league default takes over. With H2H history the blend leans
// harder on the series average (weight 0.4) than on the fallback
// baseline (0.2).
func ComputeTotalsAnalysis(team1, team2 *TeamSnapshot, summary *H2HSummary, h2hGames []H2HGame, team1Recent, team2Recent []stats.RecentGame) *TotalsAnalysis {
	currentTotal := team1.PPG + team2.PPG

	leagueAvg := round1(((team1.PPG + team1.OppPPG) + (team2.PPG + team2.OppPPG)) / 2)
	if leagueAvg < LeagueAvgTotalMin || leagueAvg > LeagueAvgTotalMax {
		leagueAvg = DefaultLeagueAvgTotal
	}

	// Without H2H history the blend baseline is the dynamic league
	// average, not the fixed default.
	h2hAvg := leagueAvg
	weight := FallbackBlendWeight
	if summary != nil {
		h2hAvg = summary.AvgTotalPoints
		weight = H2HBlendWeight
	}
	expected := round1(currentTotal*(1-weight) + h2hAvg*weight)
	expected = round1(expected - (expected-leagueAvg)*RegressionFactor)

	ta := &TotalsAnalysis{
		CurrentTotal:      round1(currentTotal),
		ExpectedTotal:     expected,
		LeagueAvgTotal:    leagueAvg,
		H2HWeight:         weight,
		PaceAdjustedTotal: round1((team1.Pace + team2.Pace) / 2 * (team1.ORtg + team2.ORtg) / 100),
		DefenseFactor:     round1((team1.DRtg + team2.DRtg) / 2),
	}

	var margins, totals []float64
	for _, g := range h2hGames {
		margins = append(margins, float64(g.margin()))
		totals = append(totals, float64(g.total()))
	}
	ta.MarginVolatility = round1(stddev(margins))
	ta.H2HTotalVariance = round1(stddev(totals))

	// Per-team recent scoring versus season baseline, summed. Using the
	// combined game totals here would double-count opponent scoring.
	if len(team1Recent) > 0 && len(team2Recent) > 0 {
		ta.RecentScoringTrend = round1(recentAvgScore(team1Recent) + recentAvgScore(team2Recent) - currentTotal)
	}
	return ta
}

func recentAvgScore(recent []stats.RecentGame) float64 {
	var sum float64
	var n int
	for _, g := range recent {
		if score, ok := g.TeamScore(); ok {
			sum += float64(score)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
