package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside/courtside-agents/pkg/nba/matchup"
	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

type apiGame struct {
	ID     int `json:"id"`
	Season int `json:"season"`
	Date   struct {
		Start string `json:"start"`
	} `json:"date"`
	Status struct {
		Short int `json:"short"`
	} `json:"status"`
	Teams struct {
		Home     apiTeam `json:"home"`
		Visitors apiTeam `json:"visitors"`
	} `json:"teams"`
	Scores struct {
		Home     apiScore `json:"home"`
		Visitors apiScore `json:"visitors"`
	} `json:"scores"`
}

// apiScore tolerates the feed's mixed score encoding: integers for
// finished games, null or "--" before tip-off.
type apiScore struct {
	Points any `json:"points"`
}

func (s apiScore) String() string {
	switch v := s.Points.(type) {
	case nil:
		return ""
	case float64:
		return strconv.Itoa(int(v))
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (g apiGame) raw() stats.RawGame {
	return stats.RawGame{
		ID:           g.ID,
		Date:         g.Date.Start,
		Season:       g.Season,
		StatusShort:  g.Status.Short,
		HomeName:     g.Teams.Home.Name,
		VisitorName:  g.Teams.Visitors.Name,
		HomeScore:    g.Scores.Home.String(),
		VisitorScore: g.Scores.Visitors.String(),
	}
}

// Slate returns every game on the date, "YYYY-MM-DD".
func (c *Client) Slate(ctx context.Context, date string) ([]stats.RawGame, error) {
	var games []apiGame
	endpoint := fmt.Sprintf("games?league=standard&season=%d&date=%s", c.season, date)
	if err := c.get(ctx, endpoint, &games); err != nil {
		return nil, fmt.Errorf("fetching slate: %w", err)
	}
	out := make([]stats.RawGame, 0, len(games))
	for _, g := range games {
		out = append(out, g.raw())
	}
	return out, nil
}

// TeamGames returns all of a team's games for a season.
func (c *Client) TeamGames(ctx context.Context, team string, season int) ([]stats.RawGame, error) {
	id, err := c.teamID(ctx, team)
	if err != nil {
		return nil, err
	}
	var games []apiGame
	endpoint := fmt.Sprintf("games?team=%d&season=%d", id, season)
	if err := c.get(ctx, endpoint, &games); err != nil {
		return nil, fmt.Errorf("fetching games for %s: %w", team, err)
	}
	out := make([]stats.RawGame, 0, len(games))
	for _, g := range games {
		out = append(out, g.raw())
	}
	return out, nil
}

// HeadToHead returns the finished games between two teams for the
// requested seasons, grouped by season.
func (c *Client) HeadToHead(ctx context.Context, team1, team2 string, seasons []int) (matchup.H2HResults, error) {
	id1, err := c.teamID(ctx, team1)
	if err != nil {
		return nil, err
	}
	id2, err := c.teamID(ctx, team2)
	if err != nil {
		return nil, err
	}

	var games []apiGame
	endpoint := fmt.Sprintf("games?h2h=%d-%d", id1, id2)
	if err := c.get(ctx, endpoint, &games); err != nil {
		return nil, fmt.Errorf("fetching h2h %s/%s: %w", team1, team2, err)
	}

	wanted := make(map[int]bool, len(seasons))
	for _, s := range seasons {
		wanted[s] = true
	}

	results := make(matchup.H2HResults)
	for _, g := range games {
		if !wanted[g.Season] {
			continue
		}
		h2h, ok := matchup.NewH2HGame(g.raw())
		if !ok {
			continue
		}
		results[g.Season] = append(results[g.Season], h2h)
	}
	return results, nil
}

type apiStanding struct {
	Season int `json:"season"`
	Team   struct {
		Name string `json:"name"`
	} `json:"team"`
	Conference struct {
		Rank int `json:"rank"`
	} `json:"conference"`
	Win  apiRecordSide `json:"win"`
	Loss apiRecordSide `json:"loss"`
}

type apiRecordSide struct {
	Home    int `json:"home"`
	Away    int `json:"away"`
	Total   int `json:"total"`
	LastTen int `json:"lastTen"`
}

// Standings returns the season standings keyed by team name.
func (c *Client) Standings(ctx context.Context, season int) (map[string]stats.SeasonStanding, error) {
	var entries []apiStanding
	endpoint := fmt.Sprintf("standings?league=standard&season=%d", season)
	if err := c.get(ctx, endpoint, &entries); err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}

	standings := make(map[string]stats.SeasonStanding, len(entries))
	for _, e := range entries {
		if e.Team.Name == "" {
			continue
		}
		standings[e.Team.Name] = stats.ProcessStanding(stats.RawStanding{
			Season:         e.Season,
			Wins:           e.Win.Total,
			Losses:         e.Loss.Total,
			ConferenceRank: e.Conference.Rank,
			HomeWins:       e.Win.Home,
			HomeLosses:     e.Loss.Home,
			AwayWins:       e.Win.Away,
			AwayLosses:     e.Loss.Away,
			LastTenWins:    e.Win.LastTen,
			LastTenLosses:  e.Loss.LastTen,
		})
	}
	return standings, nil
}

type apiTeamStats struct {
	Games     int    `json:"games"`
	Points    int    `json:"points"`
	FGA       int    `json:"fga"`
	FTA       int    `json:"fta"`
	FGP       string `json:"fgp"`
	TPP       string `json:"tpp"`
	TotReb    int    `json:"totReb"`
	OffReb    int    `json:"offReb"`
	Assists   int    `json:"assists"`
	Steals    int    `json:"steals"`
	Blocks    int    `json:"blocks"`
	Turnovers int    `json:"turnovers"`
	PlusMinus int    `json:"plusMinus"`
}

// TeamStats returns a team's season-total line.
func (c *Client) TeamStats(ctx context.Context, team string, season int) (*stats.RawTeamStats, error) {
	id, err := c.teamID(ctx, team)
	if err != nil {
		return nil, err
	}
	var lines []apiTeamStats
	endpoint := fmt.Sprintf("teams/statistics?id=%d&season=%d", id, season)
	if err := c.get(ctx, endpoint, &lines); err != nil {
		return nil, fmt.Errorf("fetching team stats for %s: %w", team, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no statistics for %s in %d", team, season)
	}
	l := lines[0]
	return &stats.RawTeamStats{
		Games:     l.Games,
		Points:    l.Points,
		FGA:       l.FGA,
		FTA:       l.FTA,
		FGP:       l.FGP,
		TPP:       l.TPP,
		TotReb:    l.TotReb,
		OffReb:    l.OffReb,
		Assists:   l.Assists,
		Steals:    l.Steals,
		Blocks:    l.Blocks,
		Turnovers: l.Turnovers,
		PlusMinus: l.PlusMinus,
	}, nil
}

type apiPlayerLine struct {
	Player struct {
		ID        int    `json:"id"`
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
	} `json:"player"`
	Min       string `json:"min"`
	Points    int    `json:"points"`
	TotReb    int    `json:"totReb"`
	OffReb    int    `json:"offReb"`
	DefReb    int    `json:"defReb"`
	Assists   int    `json:"assists"`
	Steals    int    `json:"steals"`
	Blocks    int    `json:"blocks"`
	Turnovers int    `json:"turnovers"`
	FGM       int    `json:"fgm"`
	FGA       int    `json:"fga"`
	TPM       int    `json:"tpm"`
	TPA       int    `json:"tpa"`
	FTM       int    `json:"ftm"`
	FTA       int    `json:"fta"`
	PlusMinus string `json:"plusMinus"`
}

// PlayerLines returns per-game player box lines for a team.
func (c *Client) PlayerLines(ctx context.Context, team string, season int) ([]stats.RawPlayerGameLine, error) {
	id, err := c.teamID(ctx, team)
	if err != nil {
		return nil, err
	}
	var lines []apiPlayerLine
	endpoint := fmt.Sprintf("players/statistics?team=%d&season=%d", id, season)
	if err := c.get(ctx, endpoint, &lines); err != nil {
		return nil, fmt.Errorf("fetching player lines for %s: %w", team, err)
	}

	out := make([]stats.RawPlayerGameLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, stats.RawPlayerGameLine{
			PlayerID:  l.Player.ID,
			FirstName: strings.TrimSpace(l.Player.Firstname),
			LastName:  strings.TrimSpace(l.Player.Lastname),
			Min:       l.Min,
			Points:    l.Points,
			TotReb:    l.TotReb,
			OffReb:    l.OffReb,
			DefReb:    l.DefReb,
			Assists:   l.Assists,
			Steals:    l.Steals,
			Blocks:    l.Blocks,
			Turnovers: l.Turnovers,
			FGM:       l.FGM,
			FGA:       l.FGA,
			TPM:       l.TPM,
			TPA:       l.TPA,
			FTM:       l.FTM,
			FTA:       l.FTA,
			PlusMinus: l.PlusMinus,
		})
	}
	return out, nil
}
