package matchup

import (
	"github.com/courtside/courtside-agents/pkg/nba/injury"
	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

// H2HBlock groups every head-to-head aggregate. It is attached to an
// analysis only when all of them could be computed; partial H2H evidence
// is dropped rather than presented as complete.
type H2HBlock struct {
	Summary      *H2HSummary      `json:"summary"`
	Patterns     *H2HPatterns     `json:"patterns"`
	Recent       *RecentH2H       `json:"recent"`
	Quarters     *QuarterAnalysis `json:"quarters"`
	MatchupStats *H2HMatchupStats `json:"matchup_stats"`
}

// TeamContext is everything the analysis needs about one side.
type TeamContext struct {
	Name        string
	Standing    *stats.SeasonStanding
	Stats       *stats.ProcessedTeamStats
	Players     []stats.ProcessedPlayerStats
	RecentGames []stats.RecentGame
}

// Analysis is the complete matchup object handed to the recommendation
// oracle and the dashboard.
type Analysis struct {
	Matchup  string        `json:"matchup"`
	Date     string        `json:"date"`
	GameID   string        `json:"game_id,omitempty"`
	Team1    *TeamSnapshot `json:"team1"`
	Team2    *TeamSnapshot `json:"team2"`
	Schedule ScheduleContext `json:"schedule"`
	Players1 *TeamPlayers  `json:"team1_players"`
	Players2 *TeamPlayers  `json:"team2_players"`
	Injuries *injury.Impact `json:"injuries,omitempty"`
	H2H      *H2HBlock     `json:"h2h,omitempty"`
	Totals   *TotalsAnalysis `json:"totals_analysis"`
	Edges    Edges         `json:"comparison"`
	Signals  []string      `json:"signals"`
}

// Input carries the raw material for one matchup analysis. Team1 is the
// home team. Any optional part may be missing; the analysis always
// builds.
type Input struct {
	GameID              string
	Date                string // "YYYY-MM-DD"
	Team1, Team2        TeamContext
	H2H                 H2HResults
	Injuries            []injury.Report
	LeagueAvgEfficiency float64
	RotationSize        int

	// Season anchors the recent-H2H window on the season actually being
	// analyzed. Zero falls back to the newest season in the H2H data.
	Season int
	// Calibration knobs; zero values use the package defaults.
	SeasonDecay       float64
	RecentHalfLife    float64
	ReplacementFactor float64
}

// BuildMatchupAnalysis runs the whole deterministic pipeline for one
// game.
func BuildMatchupAnalysis(in Input) *Analysis {
	t1 := BuildTeamSnapshot(in.Team1.Name, in.Team1.Standing, in.Team1.Stats, in.Team1.RecentGames, in.LeagueAvgEfficiency, in.RecentHalfLife)
	t2 := BuildTeamSnapshot(in.Team2.Name, in.Team2.Standing, in.Team2.Stats, in.Team2.RecentGames, in.LeagueAvgEfficiency, in.RecentHalfLife)
	edges := ComputeEdges(t1, t2)
	schedule := ComputeScheduleContext(in.Team1.RecentGames, in.Team2.RecentGames, in.Date)

	players1 := BuildTeamPlayers(in.Team1.Players, t1.PPG, t1.Games, in.RotationSize)
	players2 := BuildTeamPlayers(in.Team2.Players, t2.PPG, t2.Games, in.RotationSize)

	var rotation1, rotation2 []stats.ProcessedPlayerStats
	if players1 != nil {
		rotation1 = players1.Rotation
	}
	if players2 != nil {
		rotation2 = players2.Rotation
	}
	impact := injury.ComputeImpact(in.Injuries, in.Team1.Name, in.Team2.Name, rotation1, rotation2, in.ReplacementFactor)

	summary := ComputeH2HSummary(in.H2H, in.Team1.Name, in.Team2.Name, in.SeasonDecay)
	patterns := ComputeH2HPatterns(in.H2H, in.SeasonDecay)
	recent := ComputeRecentH2H(in.H2H, in.Team1.Name, in.Team2.Name, in.Team1.Name, in.Season)
	quarters := ComputeQuarterAnalysis(in.H2H, in.Team1.Name, in.SeasonDecay)
	matchupStats := ComputeH2HMatchupStats(in.H2H, in.Team1.Name, in.Team2.Name, in.SeasonDecay)

	var h2hBlock *H2HBlock
	if summary != nil && patterns != nil && recent != nil {
		h2hBlock = &H2HBlock{
			Summary:      summary,
			Patterns:     patterns,
			Recent:       recent,
			Quarters:     quarters,
			MatchupStats: matchupStats,
		}
	}

	totals := ComputeTotalsAnalysis(t1, t2, summary, in.H2H.flatten(), in.Team1.RecentGames, in.Team2.RecentGames)
	if impact != nil {
		impact.InjuryAdjustedTotal = round1(totals.ExpectedTotal - impact.TotalReduction)
	}

	signals := GenerateSignals(SignalInputs{
		Team1:        t1,
		Team2:        t2,
		Edges:        edges,
		Schedule:     schedule,
		Injuries:     impact,
		Patterns:     patterns,
		Recent:       recent,
		Summary:      summary,
		Quarters:     quarters,
		MatchupStats: matchupStats,
		Totals:       totals,
		Players1:     players1,
		Players2:     players2,
	})

	return &Analysis{
		Matchup:  in.Team2.Name + " @ " + in.Team1.Name,
		Date:     in.Date,
		GameID:   in.GameID,
		Team1:    t1,
		Team2:    t2,
		Schedule: schedule,
		Players1: players1,
		Players2: players2,
		Injuries: impact,
		H2H:      h2hBlock,
		Totals:   totals,
		Edges:    edges,
		Signals:  signals,
	}
}
