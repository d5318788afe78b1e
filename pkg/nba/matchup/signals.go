package matchup

import (
	"fmt"
	"math"

	"github.com/courtside/courtside-agents/pkg/nba/injury"
)

// SignalInputs collects everything the rule list evaluates. Team1 is
// the home team. Any pointer may be nil; rules that lack their evidence
// simply do not fire.
type SignalInputs struct {
	Team1, Team2     *TeamSnapshot
	Edges            Edges
	Schedule         ScheduleContext
	Injuries         *injury.Impact
	Patterns         *H2HPatterns
	Recent           *RecentH2H
	Summary          *H2HSummary
	Quarters         *QuarterAnalysis
	MatchupStats     *H2HMatchupStats
	Totals           *TotalsAnalysis
	Players1, Players2 *TeamPlayers
}

// GenerateSignals runs the rule list. Rules are independent, not
// mutually exclusive; each contributes at most one string when its
// trigger condition is met.
func GenerateSignals(in SignalInputs) []string {
	var signals []string
	add := func(format string, args ...interface{}) {
		signals = append(signals, fmt.Sprintf(format, args...))
	}
	t1, t2 := in.Team1, in.Team2

	// Fatigue and rest.
	for _, side := range []struct {
		team  *TeamSnapshot
		sched TeamSchedule
	}{{t1, in.Schedule.Team1}, {t2, in.Schedule.Team2}} {
		switch {
		case side.sched.DaysRest == 0:
			add("%s playing second game today", side.team.Name)
		case side.sched.DaysRest == BackToBackThreshold:
			add("%s on back-to-back (fatigue factor)", side.team.Name)
		}
	}
	r1, r2 := in.Schedule.Team1.DaysRest, in.Schedule.Team2.DaysRest
	if r1 >= 0 && r2 >= 0 {
		switch {
		case r1-r2 >= RestAdvantageThreshold:
			add("%s rest advantage (%d days vs %d days)", t1.Name, r1, r2)
		case r2-r1 >= RestAdvantageThreshold:
			add("%s rest advantage (%d days vs %d days)", t2.Name, r2, r1)
		}
	}

	// Injuries and roster availability.
	if in.Injuries != nil {
		for _, side := range []struct {
			team   *TeamSnapshot
			impact injury.TeamImpact
		}{{t1, in.Injuries.Team1}, {t2, in.Injuries.Team2}} {
			for i, p := range side.impact.Players {
				if i == 2 {
					break
				}
				add("%s injury concern: %s (%.1f PPG, %s)", side.team.Name, p.Name, p.PPG, p.Status)
			}
			if side.impact.MissingPPG > 0 && side.team.PPG > 0 {
				pct := round1(side.impact.MissingPPG / side.team.PPG * 100)
				add("%s missing %.1f%% of offense", side.team.Name, pct)
			}
		}
	}
	for _, side := range []struct {
		team    *TeamSnapshot
		players *TeamPlayers
	}{{t1, in.Players1}, {t2, in.Players2}} {
		if side.players != nil && side.players.StarDependency > StarDependencyThreshold && !side.players.FullStrength {
			add("%s star-dependent offense (%.1f%% of scoring) with availability concerns",
				side.team.Name, side.players.StarDependency)
		}
	}

	// Streaks and form.
	for _, side := range []struct {
		team  *TeamSnapshot
		sched TeamSchedule
	}{{t1, in.Schedule.Team1}, {t2, in.Schedule.Team2}} {
		var n int
		var result byte
		if _, err := fmt.Sscanf(side.sched.Streak, "W%d", &n); err == nil {
			result = 'W'
		} else if _, err := fmt.Sscanf(side.sched.Streak, "L%d", &n); err == nil {
			result = 'L'
		}
		if n >= StreakThreshold {
			if result == 'W' {
				add("%s won %d straight", side.team.Name, n)
			} else {
				add("%s lost %d straight", side.team.Name, n)
			}
		}
	}
	for _, team := range []*TeamSnapshot{t1, t2} {
		switch {
		case team.LastTenPct >= FormHotThreshold:
			add("%s hot form (L10: %s)", team.Name, team.LastTenRecord)
		case team.LastTenPct <= FormColdThreshold && team.LastTenRecord != "N/A":
			add("%s struggling (L10: %s)", team.Name, team.LastTenRecord)
		}
	}

	// Venue splits. Team1 hosts.
	switch {
	case t1.HomeWinPct > HomeStrongThreshold:
		add("%s strong at home (%s)", t1.Name, t1.HomeRecord)
	case t1.HomeWinPct < HomeWeakThreshold && t1.HomeRecord != "N/A":
		add("%s struggling at home (%s)", t1.Name, t1.HomeRecord)
	}
	switch {
	case t2.AwayWinPct > AwayStrongThreshold:
		add("%s solid on road (%s)", t2.Name, t2.AwayRecord)
	case t2.AwayWinPct < AwayWeakThreshold && t2.AwayRecord != "N/A":
		add("%s poor on road (%s)", t2.Name, t2.AwayRecord)
	}

	// Statistical edges.
	if math.Abs(in.Edges.PPG) >= PPGEdgeThreshold {
		team := t1
		if in.Edges.PPG < 0 {
			team = t2
		}
		add("%s +%.1f PPG edge", team.Name, math.Abs(in.Edges.PPG))
	}
	if math.Abs(in.Edges.NetRating) >= NetRatingEdgeThreshold {
		team := t1
		if in.Edges.NetRating < 0 {
			team = t2
		}
		add("%s significantly better net rating (+%.1f)", team.Name, math.Abs(in.Edges.NetRating))
	}
	if diff := t1.SOS - t2.SOS; math.Abs(diff) > SOSEdgeThreshold {
		team, other := t1, t2
		if diff < 0 {
			team, other = t2, t1
		}
		add("%s faced tougher schedule (SOS %.3f vs %.3f)", team.Name, team.SOS, other.SOS)
	}

	// Head-to-head.
	if in.Recent == nil {
		add("No recent H2H history - projections based on current season stats only")
	} else if in.Recent.Games >= 3 {
		switch {
		case in.Recent.Team1Wins-in.Recent.Team2Wins >= 2:
			add("%s won %d of last %d meetings", t1.Name, in.Recent.Team1Wins, in.Recent.Games)
		case in.Recent.Team2Wins-in.Recent.Team1Wins >= 2:
			add("%s won %d of last %d meetings", t2.Name, in.Recent.Team2Wins, in.Recent.Games)
		}
	}
	if in.Summary != nil && in.Summary.RecentTrend != "balanced" {
		team := t1
		if in.Summary.RecentTrend == "team2_hot" {
			team = t2
		}
		add("%s won 4+ of last 5 H2H meetings", team.Name)
	}
	if in.Patterns != nil {
		switch {
		case in.Patterns.HighScoringPct > HighScoringThreshold:
			add("High-scoring matchup historically (%.0f%% of meetings over %d)",
				in.Patterns.HighScoringPct*100, HighScoringTotal)
		case in.Patterns.HighScoringPct < LowScoringThreshold:
			add("Low-scoring matchup historically (%.0f%% of meetings over %d)",
				in.Patterns.HighScoringPct*100, HighScoringTotal)
		}
		if in.Patterns.CloseGamePct > CloseGameThreshold {
			add("Competitive series (%.0f%% decided by %d or less)",
				in.Patterns.CloseGamePct*100, CloseGameMargin)
		}
	}

	// Quarter tendencies.
	if q := in.Quarters; q != nil {
		if diff := q.Team1Q1Avg - q.Team2Q1Avg; math.Abs(diff) >= QuarterDiffThreshold {
			team := t1
			if diff < 0 {
				team = t2
			}
			add("%s starts faster (Q1 %.1f vs %.1f)", team.Name,
				math.Max(q.Team1Q1Avg, q.Team2Q1Avg), math.Min(q.Team1Q1Avg, q.Team2Q1Avg))
		}
		if diff := q.Team1Q4Avg - q.Team2Q4Avg; math.Abs(diff) >= QuarterDiffThreshold {
			team := t1
			if diff < 0 {
				team = t2
			}
			add("%s stronger closer (Q4 %.1f vs %.1f)", team.Name,
				math.Max(q.Team1Q4Avg, q.Team2Q4Avg), math.Min(q.Team1Q4Avg, q.Team2Q4Avg))
		}
		if q.HalftimeLeaderWins >= HalftimeLeaderThreshold {
			add("Halftime leader wins %.0f%% of meetings", q.HalftimeLeaderWins*100)
		}
		if diff := q.AvgFirstHalf - q.AvgSecondHalf; diff >= HalfScoringDiffThreshold {
			add("Series front-loaded (%.1f first half vs %.1f second)", q.AvgFirstHalf, q.AvgSecondHalf)
		} else if -diff >= HalfScoringDiffThreshold {
			add("Series back-loaded (%.1f second half vs %.1f first)", q.AvgSecondHalf, q.AvgFirstHalf)
		}
	}

	// H2H box-score tendencies versus season baselines.
	if ms := in.MatchupStats; ms != nil {
		for _, side := range []struct {
			team *TeamSnapshot
			h2h  H2HTeamAverages
		}{{t1, ms.Team1}, {t2, ms.Team2}} {
			if side.team.FGP > 0 {
				if diff := side.h2h.FGP - side.team.FGP; diff >= FGPDiffThreshold {
					add("%s shoots better in this matchup (+%.1f%% FG)", side.team.Name, diff)
				} else if -diff >= FGPDiffThreshold {
					add("%s shoots worse in this matchup (-%.1f%% FG)", side.team.Name, -diff)
				}
			}
			if side.team.TPP > 0 && side.h2h.TPP-side.team.TPP >= TPPDiffThreshold {
				add("%s hits more threes in this matchup (+%.1f%%)", side.team.Name, side.h2h.TPP-side.team.TPP)
			}
			if side.team.TOPG > 0 && side.h2h.Turnovers-side.team.TOPG >= TOVDiffThreshold {
				add("%s turns it over more in this matchup (+%.1f)", side.team.Name, side.h2h.Turnovers-side.team.TOPG)
			}
			if side.team.RPG > 0 && side.h2h.Rebounds-side.team.RPG >= REBDiffThreshold {
				add("%s rebounds better in this matchup (+%.1f)", side.team.Name, side.h2h.Rebounds-side.team.RPG)
			}
		}
	}

	// Totals leans.
	if ta := in.Totals; ta != nil {
		combined := in.Edges.CombinedPace
		switch {
		case combined > FastPaceThreshold:
			add("Fast pace matchup (%.1f possessions) - lean OVER", combined)
		case combined < SlowPaceThreshold && combined > 0:
			add("Slow pace matchup (%.1f possessions) - lean UNDER", combined)
		}
		if math.Abs(ta.RecentScoringTrend) > ScoringTrendThreshold {
			direction := "above"
			if ta.RecentScoringTrend < 0 {
				direction = "below"
			}
			add("Teams trending %s season scoring (%+.1f)", direction, ta.RecentScoringTrend)
		}
		if ta.H2HTotalVariance > H2HVarianceThreshold {
			add("High variance series (±%.1f std dev on totals)", ta.H2HTotalVariance)
		}
	}

	// Per-team scoring regression, recent weighted scoring vs season
	// baseline. Combined game totals would conflate both offenses.
	for _, team := range []*TeamSnapshot{t1, t2} {
		if team.RecentPPG == 0 || team.PPG == 0 {
			continue
		}
		diff := team.RecentPPG - team.PPG
		switch {
		case diff > ScoringRegressionThreshold:
			add("%s scoring %.1f above season average - regression likely", team.Name, diff)
		case diff < -ScoringRegressionThreshold:
			add("%s scoring %.1f below season average - bounce-back likely", team.Name, -diff)
		}
	}

	return signals
}
