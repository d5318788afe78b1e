package matchup

import (
	"strings"
	"testing"

	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

func rotationFixture() []stats.ProcessedPlayerStats {
	return []stats.ProcessedPlayerStats{
		{PlayerID: 1, Name: "Jayson Tatum", LastName: "Tatum", Games: 45, MPG: 36.5, PPG: 28.0, APG: 4.8, PlusMinus: 6.2},
		{PlayerID: 2, Name: "Jaylen Brown", LastName: "Brown", Games: 44, MPG: 34.0, PPG: 24.5, APG: 3.5, PlusMinus: 4.1},
		{PlayerID: 3, Name: "Derrick White", LastName: "White", Games: 46, MPG: 32.0, PPG: 16.0, APG: 5.2, PlusMinus: 5.0},
		{PlayerID: 4, Name: "Jrue Holiday", LastName: "Holiday", Games: 25, MPG: 30.0, PPG: 12.5, APG: 4.9, PlusMinus: 3.0},
		{PlayerID: 5, Name: "Al Horford", LastName: "Horford", Games: 40, MPG: 27.0, PPG: 8.5, APG: 2.1, PlusMinus: 2.2},
		{PlayerID: 6, Name: "Payton Pritchard", LastName: "Pritchard", Games: 47, MPG: 24.0, PPG: 11.0, APG: 3.0, PlusMinus: 1.5},
		{PlayerID: 7, Name: "Sam Hauser", LastName: "Hauser", Games: 47, MPG: 18.0, PPG: 7.0, APG: 1.0, PlusMinus: 0.5},
	}
}

func TestBuildTeamPlayers(t *testing.T) {
	tp := BuildTeamPlayers(rotationFixture(), 110.0, 47, 6)
	if tp == nil {
		t.Fatal("expected analysis, got nil")
	}
	if len(tp.Rotation) != 6 {
		t.Fatalf("rotation size = %d, want 6", len(tp.Rotation))
	}
	// Holiday played 25 of 47 games (53%).
	if len(tp.AvailabilityConcerns) != 1 || !strings.Contains(tp.AvailabilityConcerns[0], "Jrue Holiday (25/47 games)") {
		t.Errorf("availability concerns = %v", tp.AvailabilityConcerns)
	}
	if tp.FullStrength {
		t.Error("FullStrength should be false with an availability concern")
	}
	if tp.TopScorers != "Tatum 28.0, Brown 24.5, White 16.0" {
		t.Errorf("TopScorers = %q", tp.TopScorers)
	}
	if !strings.HasPrefix(tp.Playmaker, "White 5.2 apg") {
		t.Errorf("Playmaker = %q, want Derrick White", tp.Playmaker)
	}
	if tp.HotHand != "Tatum +6.2" {
		t.Errorf("HotHand = %q, want Tatum +6.2", tp.HotHand)
	}
	// 28.0 / 110.0 = 25.5% of team scoring.
	if tp.StarDependency != 25.5 {
		t.Errorf("StarDependency = %v, want 25.5", tp.StarDependency)
	}
	// Only Pritchard sits outside the top five by minutes here.
	if tp.BenchScoring != 18.0 {
		t.Errorf("BenchScoring = %v, want 18.0", tp.BenchScoring)
	}
	if tp.DepthRating != "balanced" {
		t.Errorf("DepthRating = %q, want balanced", tp.DepthRating)
	}
}

func TestBuildTeamPlayersLimitedPlaymaker(t *testing.T) {
	players := rotationFixture()
	// Make the injured player the assist leader.
	players[3].APG = 7.5
	tp := BuildTeamPlayers(players, 110.0, 47, 6)
	if !strings.HasSuffix(tp.Playmaker, "(limited)") {
		t.Errorf("Playmaker = %q, want limited annotation", tp.Playmaker)
	}
}

func TestBuildTeamPlayersEmpty(t *testing.T) {
	if got := BuildTeamPlayers(nil, 110.0, 47, 6); got != nil {
		t.Errorf("expected nil for empty players, got %+v", got)
	}
}

func TestBuildTeamPlayersStarDependent(t *testing.T) {
	players := []stats.ProcessedPlayerStats{
		{PlayerID: 1, Name: "Star Player", LastName: "Player", Games: 47, MPG: 38.0, PPG: 34.0, APG: 6.0},
		{PlayerID: 2, Name: "Role One", LastName: "One", Games: 47, MPG: 20.0, PPG: 9.0},
		{PlayerID: 3, Name: "Role Two", LastName: "Two", Games: 47, MPG: 19.0, PPG: 8.0},
	}
	tp := BuildTeamPlayers(players, 105.0, 47, 6)
	if tp.DepthRating != "star-dependent" {
		t.Errorf("DepthRating = %q, want star-dependent (minutes std %v)", tp.DepthRating, tp.DepthScore)
	}
	if tp.StarDependency <= StarDependencyThreshold {
		t.Errorf("StarDependency = %v, want above %v", tp.StarDependency, StarDependencyThreshold)
	}
}
