package matchup

import (
	"testing"

	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

func twoSeasonSeries() H2HResults {
	return H2HResults{
		2024: {
			{Season: 2024, Date: "2024-12-01", HomeName: "Boston Celtics", VisitorName: "Miami Heat",
				HomePoints: 120, VisitorPoints: 115, Winner: "Boston Celtics", PointDiff: 5},
		},
		2023: {
			{Season: 2023, Date: "2023-11-15", HomeName: "Miami Heat", VisitorName: "Boston Celtics",
				HomePoints: 95, VisitorPoints: 90, Winner: "Miami Heat", PointDiff: 5},
		},
	}
}

func TestSeasonGameWeights(t *testing.T) {
	games := twoSeasonSeries().flatten()
	weights := seasonGameWeights(games, 2024, SeasonDecay)
	if len(weights) != 2 {
		t.Fatalf("expected 2 weights, got %d", len(weights))
	}
	// 1.0 and 0.6 normalized: 0.625 / 0.375.
	if !within(weights[0], 0.625, 1e-9) || !within(weights[1], 0.375, 1e-9) {
		t.Errorf("weights = %v, want [0.625 0.375]", weights)
	}
}

func TestComputeH2HPatternsWeightedAverage(t *testing.T) {
	p := ComputeH2HPatterns(twoSeasonSeries(), 0)
	if p == nil {
		t.Fatal("expected patterns, got nil")
	}
	// 0.625*235 + 0.375*185 = 216.25.
	if !within(p.AvgTotal, 216.25, 0.06) {
		t.Errorf("AvgTotal = %v, want ~216.2", p.AvgTotal)
	}
	// Both meetings were won by the home side.
	if p.HomeWinPct != 1.0 {
		t.Errorf("HomeWinPct = %v, want 1.0", p.HomeWinPct)
	}
	// 235 > 220 in the recent game only, so the recent game's weight.
	if !within(p.HighScoringPct, 0.625, 0.006) {
		t.Errorf("HighScoringPct = %v, want ~0.62", p.HighScoringPct)
	}
	// Both margins were 5.
	if p.CloseGamePct != 1.0 {
		t.Errorf("CloseGamePct = %v, want 1.0", p.CloseGamePct)
	}
}

func TestComputeH2HPatternsNoData(t *testing.T) {
	if got := ComputeH2HPatterns(nil, 0); got != nil {
		t.Errorf("ComputeH2HPatterns(nil) = %+v, want nil", got)
	}
	if got := ComputeH2HPatterns(H2HResults{}, 0); got != nil {
		t.Errorf("ComputeH2HPatterns(empty) = %+v, want nil", got)
	}
}

func TestComputeRecentH2H(t *testing.T) {
	recent := ComputeRecentH2H(twoSeasonSeries(), "Boston Celtics", "Miami Heat", "Boston Celtics", 0)
	if recent == nil {
		t.Fatal("expected recent H2H, got nil")
	}
	if recent.Games != 2 || recent.Team1Wins != 1 || recent.Team2Wins != 1 {
		t.Errorf("recent = %+v, want 2 games split 1-1", recent)
	}
	if recent.HomeTeamHomeRecord != "1-0" {
		t.Errorf("HomeTeamHomeRecord = %q, want 1-0", recent.HomeTeamHomeRecord)
	}
}

func TestComputeRecentH2HRequiresCurrentSeason(t *testing.T) {
	// History exists but the pairing has no current-season meeting.
	series := H2HResults{
		2024: nil,
		2022: {
			{Season: 2022, Date: "2022-11-15", HomeName: "Miami Heat", VisitorName: "Boston Celtics",
				HomePoints: 95, VisitorPoints: 90, Winner: "Miami Heat", PointDiff: 5},
		},
	}
	if got := ComputeRecentH2H(series, "Boston Celtics", "Miami Heat", "Boston Celtics", 0); got != nil {
		t.Errorf("expected nil without a current-season meeting, got %+v", got)
	}
}

func TestComputeRecentH2HStalePairing(t *testing.T) {
	// The anchor season is ahead of every meeting in the data, so the
	// window is empty even though older history exists.
	if got := ComputeRecentH2H(twoSeasonSeries(), "Boston Celtics", "Miami Heat", "Boston Celtics", 2027); got != nil {
		t.Errorf("expected nil for a stale pairing, got %+v", got)
	}
}

func TestComputeH2HPatternsCustomDecay(t *testing.T) {
	// Decay 1.0 weights both seasons equally: (235+185)/2 = 210.
	p := ComputeH2HPatterns(twoSeasonSeries(), 1.0)
	if p == nil {
		t.Fatal("expected patterns, got nil")
	}
	if !within(p.AvgTotal, 210.0, 0.06) {
		t.Errorf("AvgTotal = %v, want ~210", p.AvgTotal)
	}
}

func TestComputeH2HSummary(t *testing.T) {
	s := ComputeH2HSummary(twoSeasonSeries(), "Boston Celtics", "Miami Heat", 0)
	if s == nil {
		t.Fatal("expected summary, got nil")
	}
	if s.TotalGames != 2 || s.Team1WinsAllTime != 1 || s.Team2WinsAllTime != 1 {
		t.Errorf("summary counts wrong: %+v", s)
	}
	if s.Team1WinPct != 0.5 {
		t.Errorf("Team1WinPct = %v, want 0.5", s.Team1WinPct)
	}
	if s.Team1HomeWins != 1 || s.Team1AwayLosses != 1 {
		t.Errorf("venue splits wrong: %+v", s)
	}
	if !within(s.AvgTotalPoints, 216.25, 0.06) {
		t.Errorf("AvgTotalPoints = %v, want ~216.2", s.AvgTotalPoints)
	}
	// Team1 points: home 120 weighted 0.625, away 90 weighted 0.375 = 108.75.
	if !within(s.Team1AvgPoints, 108.75, 0.06) {
		t.Errorf("Team1AvgPoints = %v, want ~108.8", s.Team1AvgPoints)
	}
	if s.CloseGames != 2 || s.Blowouts != 0 {
		t.Errorf("close/blowout counts = %d/%d, want 2/0", s.CloseGames, s.Blowouts)
	}
	if s.RecentTrend != "balanced" {
		t.Errorf("RecentTrend = %q, want balanced (fewer than 5 games)", s.RecentTrend)
	}
}

func TestComputeH2HSummaryRecentTrend(t *testing.T) {
	series := H2HResults{2024: nil}
	for i := 0; i < 5; i++ {
		winner := "Boston Celtics"
		if i == 4 {
			winner = "Miami Heat"
		}
		series[2024] = append(series[2024], H2HGame{
			Season: 2024, Date: "2024-12-0" + string(rune('1'+i)),
			HomeName: "Boston Celtics", VisitorName: "Miami Heat",
			HomePoints: 110, VisitorPoints: 100, Winner: winner, PointDiff: 10,
		})
	}
	s := ComputeH2HSummary(series, "Boston Celtics", "Miami Heat", 0)
	if s.RecentTrend != "team1_hot" {
		t.Errorf("RecentTrend = %q, want team1_hot", s.RecentTrend)
	}
}

func TestComputeH2HMatchupStats(t *testing.T) {
	line := func(fgp, tov float64) *H2HTeamLine {
		return &H2HTeamLine{FGP: fgp, TPP: 35, Rebounds: 44, Assists: 25, Turnovers: tov, Disruption: 12}
	}
	series := H2HResults{
		2024: {
			{Season: 2024, Date: "2024-12-01", HomeName: "Boston Celtics", VisitorName: "Miami Heat",
				HomePoints: 120, VisitorPoints: 115, Winner: "Boston Celtics", PointDiff: 5,
				HomeLine: line(50, 12), VisitorLine: line(44, 16)},
			// No box-score detail, must be excluded.
			{Season: 2024, Date: "2024-11-01", HomeName: "Miami Heat", VisitorName: "Boston Celtics",
				HomePoints: 100, VisitorPoints: 98, Winner: "Miami Heat", PointDiff: 2},
		},
	}
	ms := ComputeH2HMatchupStats(series, "Boston Celtics", "Miami Heat", 0)
	if ms == nil {
		t.Fatal("expected matchup stats, got nil")
	}
	if ms.Team1.FGP != 50.0 || ms.Team2.FGP != 44.0 {
		t.Errorf("FGP = %v/%v, want 50/44", ms.Team1.FGP, ms.Team2.FGP)
	}
	if ms.Team1.Turnovers != 12.0 || ms.Team2.Turnovers != 16.0 {
		t.Errorf("turnovers = %v/%v, want 12/16", ms.Team1.Turnovers, ms.Team2.Turnovers)
	}

	// A series with no box-score detail anywhere is nil, not zeros.
	bare := H2HResults{2024: {series[2024][1]}}
	if got := ComputeH2HMatchupStats(bare, "Boston Celtics", "Miami Heat", 0); got != nil {
		t.Errorf("expected nil without box scores, got %+v", got)
	}
}

func TestComputeQuarterAnalysis(t *testing.T) {
	series := H2HResults{
		2024: {
			{Season: 2024, Date: "2024-12-01", HomeName: "Boston Celtics", VisitorName: "Miami Heat",
				HomePoints: 120, VisitorPoints: 110, Winner: "Boston Celtics", PointDiff: 10,
				HomeQuarters: []int{35, 30, 28, 27}, VisitorQuarters: []int{25, 28, 29, 28}},
		},
	}
	qa := ComputeQuarterAnalysis(series, "Boston Celtics", 0)
	if qa == nil {
		t.Fatal("expected quarter analysis, got nil")
	}
	if qa.Team1Q1Avg != 35.0 || qa.Team2Q1Avg != 25.0 {
		t.Errorf("Q1 averages = %v/%v, want 35/25", qa.Team1Q1Avg, qa.Team2Q1Avg)
	}
	// Halftime 65-53, leader won.
	if qa.HalftimeLeaderWins != 1.0 {
		t.Errorf("HalftimeLeaderWins = %v, want 1.0", qa.HalftimeLeaderWins)
	}
	if qa.AvgFirstHalf != 118.0 || qa.AvgSecondHalf != 112.0 {
		t.Errorf("half averages = %v/%v, want 118/112", qa.AvgFirstHalf, qa.AvgSecondHalf)
	}

	if got := ComputeQuarterAnalysis(H2HResults{}, "Boston Celtics", 0); got != nil {
		t.Errorf("expected nil without linescores, got %+v", got)
	}
}

func TestNewH2HGame(t *testing.T) {
	g, ok := NewH2HGame(stats.RawGame{
		Season: 2024, Date: "2024-12-01T00:00:00Z", StatusShort: 3,
		HomeName: "Boston Celtics", VisitorName: "Miami Heat",
		HomeScore: "112", VisitorScore: "118",
	})
	if !ok {
		t.Fatal("expected usable game")
	}
	if g.Winner != "Miami Heat" || g.PointDiff != -6 {
		t.Errorf("winner/diff = %q/%d, want Miami Heat/-6", g.Winner, g.PointDiff)
	}
	if g.Date != "2024-12-01" {
		t.Errorf("date = %q, want 2024-12-01", g.Date)
	}

	if _, ok := NewH2HGame(stats.RawGame{StatusShort: 2}); ok {
		t.Error("unfinished game must not be usable")
	}
	if _, ok := NewH2HGame(stats.RawGame{StatusShort: 3, HomeScore: "x", VisitorScore: "100"}); ok {
		t.Error("invalid score must not be usable")
	}
}
