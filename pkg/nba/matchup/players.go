package matchup

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

// TeamPlayers is the rotation-level view of a team: who plays, who
// scores, and how concentrated the production is.
type TeamPlayers struct {
	Rotation             []stats.ProcessedPlayerStats `json:"rotation"`
	AvailabilityConcerns []string                     `json:"availability_concerns"`
	FullStrength         bool                         `json:"full_strength"`
	TopScorers           string                       `json:"top_scorers"`
	Playmaker            string                       `json:"playmaker"`
	HotHand              string                       `json:"hot_hand"`
	StarDependency       float64                      `json:"star_dependency"`
	DepthScore           float64                      `json:"depth_score"`
	DepthRating          string                       `json:"depth_rating"`
	BenchScoring         float64                      `json:"bench_scoring"`
}

// BuildTeamPlayers analyzes a team's processed player list. The rotation
// is the top rotationSize players by minutes; a player appearing in
// under 70% of team games raises an availability concern. Returns nil
// when there are no players to analyze.
func BuildTeamPlayers(players []stats.ProcessedPlayerStats, teamPPG float64, teamGames, rotationSize int) *TeamPlayers {
	if len(players) == 0 {
		return nil
	}
	if rotationSize <= 0 {
		rotationSize = DefaultRotationSize
	}

	byMinutes := make([]stats.ProcessedPlayerStats, len(players))
	copy(byMinutes, players)
	sort.SliceStable(byMinutes, func(i, j int) bool {
		return byMinutes[i].MPG > byMinutes[j].MPG
	})
	rotation := byMinutes
	if len(rotation) > rotationSize {
		rotation = rotation[:rotationSize]
	}

	tp := &TeamPlayers{Rotation: rotation}
	limited := make(map[int]bool)
	for _, p := range rotation {
		if teamGames > 0 && float64(p.Games)/float64(teamGames) < AvailabilityThreshold {
			tp.AvailabilityConcerns = append(tp.AvailabilityConcerns,
				fmt.Sprintf("%s (%d/%d games)", p.Name, p.Games, teamGames))
			limited[p.PlayerID] = true
		}
	}
	tp.FullStrength = len(tp.AvailabilityConcerns) == 0

	byScoring := make([]stats.ProcessedPlayerStats, len(rotation))
	copy(byScoring, rotation)
	sort.SliceStable(byScoring, func(i, j int) bool {
		return byScoring[i].PPG > byScoring[j].PPG
	})
	var scorers []string
	for i, p := range byScoring {
		if i == 3 {
			break
		}
		scorers = append(scorers, fmt.Sprintf("%s %.1f", p.LastName, p.PPG))
	}
	tp.TopScorers = strings.Join(scorers, ", ")

	if teamPPG > 0 {
		tp.StarDependency = round1(byScoring[0].PPG / teamPPG * 100)
	}

	playmaker := rotation[0]
	for _, p := range rotation[1:] {
		if p.APG > playmaker.APG {
			playmaker = p
		}
	}
	tp.Playmaker = fmt.Sprintf("%s %.1f apg", playmaker.LastName, playmaker.APG)
	if limited[playmaker.PlayerID] {
		tp.Playmaker += " (limited)"
	}

	hot := rotation[0]
	for _, p := range rotation[1:] {
		if p.PlusMinus > hot.PlusMinus {
			hot = p
		}
	}
	tp.HotHand = fmt.Sprintf("%s %+.1f", hot.LastName, hot.PlusMinus)

	var sum, sumSq float64
	for _, p := range rotation {
		sum += p.MPG
	}
	mean := sum / float64(len(rotation))
	for _, p := range rotation {
		sumSq += (p.MPG - mean) * (p.MPG - mean)
	}
	tp.DepthScore = round1(math.Sqrt(sumSq / float64(len(rotation))))
	if tp.DepthScore < DepthScoreBalanced {
		tp.DepthRating = "balanced"
	} else {
		tp.DepthRating = "star-dependent"
	}

	var bench float64
	for i, p := range byMinutes {
		if i >= 5 {
			bench += p.PPG
		}
	}
	tp.BenchScoring = round1(bench)

	return tp
}
