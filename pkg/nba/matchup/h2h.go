package matchup

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

func recordString(wins, losses int) string {
	return fmt.Sprintf("%d-%d", wins, losses)
}

// H2HTeamLine is one side's box-score detail for a historical meeting.
// Not every meeting carries this detail.
type H2HTeamLine struct {
	FGP        float64
	TPP        float64
	Rebounds   float64
	Assists    float64
	Turnovers  float64
	Disruption float64
}

// H2HGame is one prior meeting between the two teams. Winner and
// PointDiff are computed at ingestion and treated as source of truth.
type H2HGame struct {
	Season        int
	Date          string
	HomeName      string
	VisitorName   string
	HomePoints    int
	VisitorPoints int
	Winner        string
	PointDiff     int

	HomeLine     *H2HTeamLine
	VisitorLine  *H2HTeamLine
	HomeQuarters []int // points per quarter, length 4 when present
	VisitorQuarters []int
}

// H2HResults maps season year to that season's meetings.
type H2HResults map[int][]H2HGame

// NewH2HGame derives winner and point differential from a finished raw
// game record. ok is false for games that are not usable H2H evidence.
func NewH2HGame(raw stats.RawGame) (H2HGame, bool) {
	homeScore, err1 := strconv.Atoi(strings.TrimSpace(raw.HomeScore))
	visitorScore, err2 := strconv.Atoi(strings.TrimSpace(raw.VisitorScore))
	if raw.StatusShort != 3 || err1 != nil || err2 != nil {
		return H2HGame{}, false
	}
	winner := raw.HomeName
	if visitorScore > homeScore {
		winner = raw.VisitorName
	}
	return H2HGame{
		Season:        raw.Season,
		Date:          stats.GameDate(raw.Date),
		HomeName:      raw.HomeName,
		VisitorName:   raw.VisitorName,
		HomePoints:    homeScore,
		VisitorPoints: visitorScore,
		Winner:        winner,
		PointDiff:     homeScore - visitorScore,
	}, true
}

// flatten returns every meeting ordered newest season first, and within
// a season newest date first.
func (r H2HResults) flatten() []H2HGame {
	var games []H2HGame
	for _, seasonGames := range r {
		games = append(games, seasonGames...)
	}
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Season != games[j].Season {
			return games[i].Season > games[j].Season
		}
		return games[i].Date > games[j].Date
	})
	return games
}

func (r H2HResults) latestSeason() int {
	latest := 0
	for season := range r {
		if season > latest {
			latest = season
		}
	}
	return latest
}

func (g H2HGame) total() int { return g.HomePoints + g.VisitorPoints }

func (g H2HGame) margin() int {
	return int(math.Abs(float64(g.PointDiff)))
}

func sameTeam(a, b string) bool { return strings.EqualFold(a, b) }

// H2HPatterns summarizes scoring and competitiveness tendencies across
// the series, recency-weighted by season.
type H2HPatterns struct {
	AvgTotal       float64 `json:"avg_total"`
	HomeWinPct     float64 `json:"home_win_pct"`
	HighScoringPct float64 `json:"high_scoring_pct"`
	CloseGamePct   float64 `json:"close_game_pct"`
}

// ComputeH2HPatterns aggregates the full series. Returns nil when there
// is no head-to-head history at all, so "no data" stays distinguishable
// from a computed zero. decay tunes the per-season weight falloff; zero
// falls back to the package default.
func ComputeH2HPatterns(results H2HResults, decay float64) *H2HPatterns {
	games := results.flatten()
	if len(games) == 0 {
		return nil
	}
	weights := seasonGameWeights(games, results.latestSeason(), decay)

	var avgTotal, homeWin, highScoring, closeGame float64
	for i, g := range games {
		w := weights[i]
		avgTotal += w * float64(g.total())
		if g.PointDiff > 0 {
			homeWin += w
		}
		if g.total() > HighScoringTotal {
			highScoring += w
		}
		if g.margin() <= CloseGameMargin {
			closeGame += w
		}
	}
	return &H2HPatterns{
		AvgTotal:       round1(avgTotal),
		HomeWinPct:     round3(homeWin),
		HighScoringPct: round2(highScoring),
		CloseGamePct:   round2(closeGame),
	}
}

// RecentH2H is a hard two-season window over the series: the current
// and immediately prior season only, unweighted.
type RecentH2H struct {
	Games              int    `json:"games"`
	Team1Wins          int    `json:"team1_wins"`
	Team2Wins          int    `json:"team2_wins"`
	HomeTeamHomeWins   int    `json:"home_team_home_wins"`
	HomeTeamHomeLosses int    `json:"home_team_home_losses"`
	HomeTeamHomeRecord string `json:"home_team_home_record"`
}

// ComputeRecentH2H counts wins over the current and prior season, plus
// the designated home team's home record within this pairing. The
// window anchors on currentSeason (the actual season being analyzed,
// not the newest meeting on record), so a pairing whose last meeting is
// older than that returns nil rather than promoting stale games.
// currentSeason 0 falls back to the newest season in the data.
func ComputeRecentH2H(results H2HResults, team1, team2, homeTeam string, currentSeason int) *RecentH2H {
	current := currentSeason
	if current == 0 {
		current = results.latestSeason()
	}
	if current == 0 || len(results[current]) == 0 {
		return nil
	}

	recent := &RecentH2H{}
	for _, season := range []int{current, current - 1} {
		for _, g := range results[season] {
			recent.Games++
			switch {
			case sameTeam(g.Winner, team1):
				recent.Team1Wins++
			case sameTeam(g.Winner, team2):
				recent.Team2Wins++
			}
			if sameTeam(g.HomeName, homeTeam) {
				if sameTeam(g.Winner, homeTeam) {
					recent.HomeTeamHomeWins++
				} else {
					recent.HomeTeamHomeLosses++
				}
			}
		}
	}
	if recent.Games == 0 {
		return nil
	}
	recent.HomeTeamHomeRecord = recordString(recent.HomeTeamHomeWins, recent.HomeTeamHomeLosses)
	return recent
}

// H2HTeamAverages holds one team's recency-weighted box-score averages
// within the series.
type H2HTeamAverages struct {
	FGP        float64 `json:"fgp"`
	TPP        float64 `json:"tpp"`
	Rebounds   float64 `json:"rebounds"`
	Assists    float64 `json:"assists"`
	Turnovers  float64 `json:"turnovers"`
	Disruption float64 `json:"disruption"`
}

// H2HMatchupStats pairs both teams' weighted averages.
type H2HMatchupStats struct {
	Team1 H2HTeamAverages `json:"team1"`
	Team2 H2HTeamAverages `json:"team2"`
}

// ComputeH2HMatchupStats weights each side's box-score lines across the
// series, resolving which historical side belongs to which team by name.
// Returns nil when no meeting carries box-score detail.
func ComputeH2HMatchupStats(results H2HResults, team1, team2 string, decay float64) *H2HMatchupStats {
	games := results.flatten()
	var detailed []H2HGame
	for _, g := range games {
		if g.HomeLine != nil && g.VisitorLine != nil {
			detailed = append(detailed, g)
		}
	}
	if len(detailed) == 0 {
		return nil
	}
	weights := seasonGameWeights(detailed, results.latestSeason(), decay)

	var t1, t2 H2HTeamAverages
	for i, g := range detailed {
		w := weights[i]
		line1, line2 := g.HomeLine, g.VisitorLine
		if sameTeam(g.VisitorName, team1) {
			line1, line2 = g.VisitorLine, g.HomeLine
		}
		accumulate(&t1, line1, w)
		accumulate(&t2, line2, w)
	}
	roundAverages(&t1)
	roundAverages(&t2)
	return &H2HMatchupStats{Team1: t1, Team2: t2}
}

func accumulate(dst *H2HTeamAverages, line *H2HTeamLine, w float64) {
	dst.FGP += w * line.FGP
	dst.TPP += w * line.TPP
	dst.Rebounds += w * line.Rebounds
	dst.Assists += w * line.Assists
	dst.Turnovers += w * line.Turnovers
	dst.Disruption += w * line.Disruption
}

func roundAverages(a *H2HTeamAverages) {
	a.FGP = round1(a.FGP)
	a.TPP = round1(a.TPP)
	a.Rebounds = round1(a.Rebounds)
	a.Assists = round1(a.Assists)
	a.Turnovers = round1(a.Turnovers)
	a.Disruption = round1(a.Disruption)
}

// H2HSummary is the all-time view of the series with recency-weighted
// scoring averages and a recent-trend verdict over the last five
// meetings.
type H2HSummary struct {
	TotalGames       int     `json:"total_games"`
	Team1WinsAllTime int     `json:"team1_wins_all_time"`
	Team2WinsAllTime int     `json:"team2_wins_all_time"`
	Team1WinPct      float64 `json:"team1_win_pct"`
	Team1HomeWins    int     `json:"team1_home_wins"`
	Team1HomeLosses  int     `json:"team1_home_losses"`
	Team1AwayWins    int     `json:"team1_away_wins"`
	Team1AwayLosses  int     `json:"team1_away_losses"`
	AvgPointDiff     float64 `json:"avg_point_diff"`
	Team1AvgPoints   float64 `json:"team1_avg_points"`
	Team2AvgPoints   float64 `json:"team2_avg_points"`
	AvgTotalPoints   float64 `json:"avg_total_points"`
	LastFiveGames    []H2HGame `json:"last_5_games"`
	RecentTrend      string  `json:"recent_trend"` // "team1_hot", "team2_hot", "balanced"
	CloseGames       int     `json:"close_games"`
	Blowouts         int     `json:"blowouts"`
}

// ComputeH2HSummary aggregates the full series from team1's perspective.
// Averages are recency-weighted; counts are raw. Returns nil with no
// history.
func ComputeH2HSummary(results H2HResults, team1, team2 string, decay float64) *H2HSummary {
	games := results.flatten()
	if len(games) == 0 {
		return nil
	}
	weights := seasonGameWeights(games, results.latestSeason(), decay)

	s := &H2HSummary{TotalGames: len(games), RecentTrend: "balanced"}
	for i, g := range games {
		w := weights[i]

		team1Home := sameTeam(g.HomeName, team1)
		team1Points, team2Points := g.HomePoints, g.VisitorPoints
		if !team1Home {
			team1Points, team2Points = g.VisitorPoints, g.HomePoints
		}

		team1Won := sameTeam(g.Winner, team1)
		if team1Won {
			s.Team1WinsAllTime++
		} else {
			s.Team2WinsAllTime++
		}
		if team1Home {
			if team1Won {
				s.Team1HomeWins++
			} else {
				s.Team1HomeLosses++
			}
		} else {
			if team1Won {
				s.Team1AwayWins++
			} else {
				s.Team1AwayLosses++
			}
		}

		s.AvgPointDiff += w * float64(team1Points-team2Points)
		s.Team1AvgPoints += w * float64(team1Points)
		s.Team2AvgPoints += w * float64(team2Points)
		s.AvgTotalPoints += w * float64(g.total())

		if g.margin() <= CloseGameMargin {
			s.CloseGames++
		}
		if g.margin() >= BlowoutMargin {
			s.Blowouts++
		}
	}
	s.Team1WinPct = round3(float64(s.Team1WinsAllTime) / float64(s.TotalGames))
	s.AvgPointDiff = round1(s.AvgPointDiff)
	s.Team1AvgPoints = round1(s.Team1AvgPoints)
	s.Team2AvgPoints = round1(s.Team2AvgPoints)
	s.AvgTotalPoints = round1(s.AvgTotalPoints)

	last := games
	if len(last) > 5 {
		last = last[:5]
	}
	s.LastFiveGames = last
	team1Recent := 0
	for _, g := range last {
		if sameTeam(g.Winner, team1) {
			team1Recent++
		}
	}
	if len(last) == 5 {
		switch {
		case team1Recent >= 4:
			s.RecentTrend = "team1_hot"
		case team1Recent <= 1:
			s.RecentTrend = "team2_hot"
		}
	}
	return s
}

// QuarterAnalysis captures period-by-period tendencies in the series,
// recency-weighted, from linescore detail where present.
type QuarterAnalysis struct {
	Team1Q1Avg          float64 `json:"team1_q1_avg"`
	Team2Q1Avg          float64 `json:"team2_q1_avg"`
	Team1Q4Avg          float64 `json:"team1_q4_avg"`
	Team2Q4Avg          float64 `json:"team2_q4_avg"`
	HalftimeLeaderWins  float64 `json:"halftime_leader_wins_pct"`
	AvgFirstHalf        float64 `json:"avg_first_half"`
	AvgSecondHalf       float64 `json:"avg_second_half"`
}

// ComputeQuarterAnalysis aggregates quarter scoring across meetings that
// carry full linescores. Returns nil when none do.
func ComputeQuarterAnalysis(results H2HResults, team1 string, decay float64) *QuarterAnalysis {
	games := results.flatten()
	var scored []H2HGame
	for _, g := range games {
		if len(g.HomeQuarters) == 4 && len(g.VisitorQuarters) == 4 {
			scored = append(scored, g)
		}
	}
	if len(scored) == 0 {
		return nil
	}
	weights := seasonGameWeights(scored, results.latestSeason(), decay)

	qa := &QuarterAnalysis{}
	var leaderDecided, leaderWon float64
	for i, g := range scored {
		w := weights[i]
		team1Q, team2Q := g.HomeQuarters, g.VisitorQuarters
		if sameTeam(g.VisitorName, team1) {
			team1Q, team2Q = g.VisitorQuarters, g.HomeQuarters
		}

		qa.Team1Q1Avg += w * float64(team1Q[0])
		qa.Team2Q1Avg += w * float64(team2Q[0])
		qa.Team1Q4Avg += w * float64(team1Q[3])
		qa.Team2Q4Avg += w * float64(team2Q[3])

		firstHalf := team1Q[0] + team1Q[1] + team2Q[0] + team2Q[1]
		secondHalf := team1Q[2] + team1Q[3] + team2Q[2] + team2Q[3]
		qa.AvgFirstHalf += w * float64(firstHalf)
		qa.AvgSecondHalf += w * float64(secondHalf)

		homeHalf := g.HomeQuarters[0] + g.HomeQuarters[1]
		visitorHalf := g.VisitorQuarters[0] + g.VisitorQuarters[1]
		if homeHalf != visitorHalf {
			leaderDecided += w
			halftimeLeader := g.HomeName
			if visitorHalf > homeHalf {
				halftimeLeader = g.VisitorName
			}
			if sameTeam(g.Winner, halftimeLeader) {
				leaderWon += w
			}
		}
	}
	qa.Team1Q1Avg = round1(qa.Team1Q1Avg)
	qa.Team2Q1Avg = round1(qa.Team2Q1Avg)
	qa.Team1Q4Avg = round1(qa.Team1Q4Avg)
	qa.Team2Q4Avg = round1(qa.Team2Q4Avg)
	qa.AvgFirstHalf = round1(qa.AvgFirstHalf)
	qa.AvgSecondHalf = round1(qa.AvgSecondHalf)
	if leaderDecided > 0 {
		qa.HalftimeLeaderWins = round2(leaderWon / leaderDecided)
	}
	return qa
}
