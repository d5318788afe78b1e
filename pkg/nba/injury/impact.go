// Package injury estimates the scoring cost of missing players by
// cross-referencing free-text injury reports against each team's
// rotation.
package injury

import (
	"math"
	"strings"

	"github.com/courtside/courtside-agents/pkg/nba/names"
	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

// ReplacementFactor models how much of a missing player's production a
// bench replacement recovers.
const ReplacementFactor = 0.55

// Report is one extracted injury fact.
type Report struct {
	Team   string `json:"team"`
	Player string `json:"player"`
	Status string `json:"status"` // "out", "doubtful", ...
}

// MatchedPlayer is a rotation player confirmed missing.
type MatchedPlayer struct {
	Name   string  `json:"name"`
	PPG    float64 `json:"ppg"`
	Status string  `json:"status"`
}

// TeamImpact is one side's injury cost.
type TeamImpact struct {
	Players         []MatchedPlayer `json:"players"`
	MissingPPG      float64         `json:"missing_ppg"`
	AdjustedPPGLoss float64         `json:"adjusted_ppg_loss"`
}

// Impact is the matchup-level injury picture. InjuryAdjustedTotal is
// filled in by the analysis builder once an expected total exists.
type Impact struct {
	Team1               TeamImpact `json:"team1"`
	Team2               TeamImpact `json:"team2"`
	TotalReduction      float64    `json:"total_reduction"`
	MissingPPGDiff      float64    `json:"missing_ppg_diff"`
	InjuryAdjustedTotal float64    `json:"injury_adjusted_total,omitempty"`
}

func round1(v float64) float64 { return math.RoundToEven(v*10) / 10 }

func sidelined(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == "out" || s == "doubtful"
}

func matchTeamReports(reports []Report, team string, rotation []stats.ProcessedPlayerStats, replacement float64) TeamImpact {
	var impact TeamImpact
	for _, r := range reports {
		if !sidelined(r.Status) || !names.MatchTeam(r.Team, team) {
			continue
		}
		for _, p := range rotation {
			if names.Match(r.Player, p.Name) {
				impact.Players = append(impact.Players, MatchedPlayer{
					Name:   p.Name,
					PPG:    p.PPG,
					Status: strings.ToLower(strings.TrimSpace(r.Status)),
				})
				impact.MissingPPG += p.PPG
				break
			}
		}
	}
	impact.MissingPPG = round1(impact.MissingPPG)
	impact.AdjustedPPGLoss = round1(impact.MissingPPG * (1 - replacement))
	return impact
}

// ComputeImpact links injury reports to both rotations. Unmatched
// reports contribute nothing. Returns nil only when no report matched a
// rotation player on either team; one matched side is enough to return
// an Impact with the other side at zero. replacementFactor tunes how
// much missing production the bench recovers; zero or negative falls
// back to the package default.
func ComputeImpact(reports []Report, team1, team2 string, team1Rotation, team2Rotation []stats.ProcessedPlayerStats, replacementFactor float64) *Impact {
	if replacementFactor <= 0 {
		replacementFactor = ReplacementFactor
	}
	t1 := matchTeamReports(reports, team1, team1Rotation, replacementFactor)
	t2 := matchTeamReports(reports, team2, team2Rotation, replacementFactor)
	if len(t1.Players) == 0 && len(t2.Players) == 0 {
		return nil
	}
	return &Impact{
		Team1:          t1,
		Team2:          t2,
		TotalReduction: round1(t1.AdjustedPPGLoss + t2.AdjustedPPGLoss),
		MissingPPGDiff: round1(t2.AdjustedPPGLoss - t1.AdjustedPPGLoss),
	}
}
