package workflow

import (
	"context"

	"github.com/courtside/courtside-agents/pkg/nba/injury"
	"github.com/courtside/courtside-agents/pkg/nba/matchup"
	"github.com/courtside/courtside-agents/pkg/nba/stats"
	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

// StatsProvider serves the schedule and the raw statistics feeds. The
// workflow transforms raw records itself so that the provider stays a
// thin fetch layer.
type StatsProvider interface {
	// Slate returns every game on the given date, "YYYY-MM-DD".
	Slate(ctx context.Context, date string) ([]stats.RawGame, error)
	// Standings returns the season standings keyed by team name.
	Standings(ctx context.Context, season int) (map[string]stats.SeasonStanding, error)
	// TeamStats returns a team's season aggregates.
	TeamStats(ctx context.Context, team string, season int) (*stats.RawTeamStats, error)
	// PlayerLines returns per-game player box lines for a team.
	PlayerLines(ctx context.Context, team string, season int) ([]stats.RawPlayerGameLine, error)
	// TeamGames returns a team's games for a season, finished or not.
	TeamGames(ctx context.Context, team string, season int) ([]stats.RawGame, error)
}

// InjuryProvider serves current injury reports for a team.
type InjuryProvider interface {
	Reports(ctx context.Context, team string) ([]injury.Report, error)
}

// H2HProvider serves head-to-head games between two teams, grouped by
// season.
type H2HProvider interface {
	HeadToHead(ctx context.Context, team1, team2 string, seasons []int) (matchup.H2HResults, error)
}

// OddsProvider returns the market share price in (0,1) for a pick.
// Prices outside the interval fall back to the standard -110 line
// downstream.
type OddsProvider interface {
	MarketPrice(ctx context.Context, gameID string, betType bets.BetType, pick string) (float64, error)
}

// OrderPlacer submits an approved, sized bet to an execution venue.
// The paper path uses NoopPlacer.
type OrderPlacer interface {
	Place(ctx context.Context, bet bets.ActiveBet) error
}

// NoopPlacer accepts every order without forwarding it anywhere.
type NoopPlacer struct{}

// Place implements OrderPlacer.
func (NoopPlacer) Place(context.Context, bets.ActiveBet) error { return nil }
