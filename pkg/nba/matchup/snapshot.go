package matchup

import (
	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

// TeamSnapshot is the canonical per-team analytical unit for one
// matchup: current-season record, per-game averages, rating/pace
// estimates and recency-weighted form. Every field has a defined
// default, so a snapshot builds even with no upstream data.
type TeamSnapshot struct {
	Name           string  `json:"name"`
	Record         string  `json:"record"`
	ConferenceRank int     `json:"conference_rank"`
	Games          int     `json:"games"`

	PPG        float64 `json:"ppg"`
	OppPPG     float64 `json:"opp_ppg"`
	Pace       float64 `json:"pace"`
	NetRating  float64 `json:"net_rating"`
	ORtg       float64 `json:"ortg"`
	DRtg       float64 `json:"drtg"`
	FGP        float64 `json:"fgp"`
	TPP        float64 `json:"tpp"`
	RPG        float64 `json:"rpg"`
	APG        float64 `json:"apg"`
	TOPG       float64 `json:"topg"`
	Disruption float64 `json:"disruption"`

	LastTenRecord      string  `json:"last_ten"`
	LastTenPct         float64 `json:"last_ten_pct"`
	HomeRecord         string  `json:"home_record"`
	AwayRecord         string  `json:"away_record"`
	HomeWinPct         float64 `json:"home_win_pct"`
	AwayWinPct         float64 `json:"away_win_pct"`
	HomeCourtAdvantage float64 `json:"home_court_advantage"`

	RecentPPG            float64 `json:"recent_ppg"`
	RecentMargin         float64 `json:"recent_margin"`
	SOS                  float64 `json:"sos"`
	SOSAdjustedNetRating float64 `json:"sos_adjusted_net_rating"`
}

// BuildTeamSnapshot combines a team's standing, season stats and recent
// games into one snapshot. Either standing or teamStats may be nil;
// missing inputs resolve to documented defaults (pace 100.0, record
// "N/A") and the builder never fails.
//
// Ratings are estimated from net rating around a league-average
// efficiency baseline: ortg = eff + net/2 and drtg = eff - net/2, so
// ortg - drtg always reproduces the net rating. Opponent scoring is
// implied from the model as drtg * pace / 100.
// recentHalfLife tunes the recency weighting; zero or negative falls
// back to the package default.
func BuildTeamSnapshot(name string, standing *stats.SeasonStanding, teamStats *stats.ProcessedTeamStats, recentGames []stats.RecentGame, leagueAvgEfficiency, recentHalfLife float64) *TeamSnapshot {
	if leagueAvgEfficiency <= 0 {
		leagueAvgEfficiency = DefaultLeagueAvgEfficiency
	}

	snap := &TeamSnapshot{
		Name:          name,
		Record:        standing.Record(),
		LastTenRecord: standing.LastTenRecord(),
		HomeRecord:    standing.HomeRecord(),
		AwayRecord:    standing.AwayRecord(),
		Pace:          DefaultPace,
		SOS:           0.5,
	}
	if standing != nil {
		snap.ConferenceRank = standing.ConferenceRank
		snap.LastTenPct = standing.LastTenPct
		snap.HomeWinPct = standing.HomeWinPct
		snap.AwayWinPct = standing.AwayWinPct
		snap.HomeCourtAdvantage = standing.HomeCourtAdvantage
	}
	if teamStats != nil {
		snap.Games = teamStats.Games
		snap.PPG = teamStats.PPG
		snap.NetRating = teamStats.NetRating
		snap.FGP = teamStats.FGP
		snap.TPP = teamStats.TPP
		snap.RPG = teamStats.RPG
		snap.APG = teamStats.APG
		snap.TOPG = teamStats.TOPG
		snap.Disruption = teamStats.Disruption
		if teamStats.Pace > 0 {
			snap.Pace = teamStats.Pace
		}
	}

	snap.ORtg = round1(leagueAvgEfficiency + snap.NetRating/2)
	snap.DRtg = round1(leagueAvgEfficiency - snap.NetRating/2)
	snap.OppPPG = round1(snap.DRtg * snap.Pace / 100)
	snap.SOSAdjustedNetRating = snap.NetRating

	if len(recentGames) > 0 {
		weights := DecayWeights(len(recentGames), recentHalfLife)
		var weightedPPG, weightedMargin float64
		for i, g := range recentGames {
			if score, ok := g.TeamScore(); ok {
				weightedPPG += weights[i] * float64(score)
			}
			weightedMargin += weights[i] * float64(g.Margin)
		}
		snap.RecentPPG = round1(weightedPPG)
		snap.RecentMargin = round1(weightedMargin)

		var sosSum float64
		var sosCount int
		for _, g := range recentGames {
			if g.VsWinPct > 0 {
				sosSum += g.VsWinPct
				sosCount++
			}
		}
		if sosCount > 0 {
			snap.SOS = round3(sosSum / float64(sosCount))
		}
		snap.SOSAdjustedNetRating = round2(snap.NetRating + (snap.SOS-0.5)*10)
	}

	return snap
}
