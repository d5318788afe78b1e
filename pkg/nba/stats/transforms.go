package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	gameStatusFinished = 3

	// DefaultRecentGamesLimit bounds the recent-game log kept per team.
	DefaultRecentGamesLimit = 10
)

// ParseMinutes converts a "MM:SS" clock string into fractional minutes.
// Missing, "--", and malformed values all parse to 0; a bare "30" is
// treated as whole minutes.
func ParseMinutes(raw string) float64 {
	if raw == "" || raw == "--" {
		return 0.0
	}
	parts := strings.Split(raw, ":")
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0.0
	}
	seconds := 0
	if len(parts) > 1 {
		seconds, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0.0
		}
	}
	return float64(minutes) + float64(seconds)/60.0
}

// parsePlusMinus reads provider plus-minus strings like "+12", "-5" or "--".
func parsePlusMinus(raw string) float64 {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "+"))
	if raw == "" || raw == "--" {
		return 0.0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// parsePct reads percentage strings like "47.3", defaulting absent values
// to zero.
func parsePct(raw string) float64 {
	if raw == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0.0
	}
	return v
}

func round1(v float64) float64 { return math.RoundToEven(v*10) / 10 }
func round2(v float64) float64 { return math.RoundToEven(v*100) / 100 }
func round3(v float64) float64 { return math.RoundToEven(v*1000) / 1000 }

// ProcessTeamStats turns a raw season-total line into per-game averages.
// Pace estimates possessions per game as FGA + 0.44*FTA + TOV - OREB.
// A zero or missing game count defaults to 1 so no ratio divides by zero.
func ProcessTeamStats(raw RawTeamStats) ProcessedTeamStats {
	games := raw.Games
	if games <= 0 {
		games = 1
	}
	g := float64(games)
	return ProcessedTeamStats{
		Games:      raw.Games,
		PPG:        round1(float64(raw.Points) / g),
		Pace:       round1((float64(raw.FGA) + 0.44*float64(raw.FTA) + float64(raw.Turnovers) - float64(raw.OffReb)) / g),
		NetRating:  round2(float64(raw.PlusMinus) / g),
		FGP:        parsePct(raw.FGP),
		TPP:        parsePct(raw.TPP),
		RPG:        round1(float64(raw.TotReb) / g),
		APG:        round1(float64(raw.Assists) / g),
		TOPG:       round1(float64(raw.Turnovers) / g),
		Disruption: round1((float64(raw.Steals) + float64(raw.Blocks)) / g),
	}
}

type playerTotals struct {
	name      string
	lastName  string
	games     int
	minutes   float64
	points    int
	rebounds  int
	assists   int
	steals    int
	blocks    int
	fgm       int
	fga       int
	tpm       int
	tpa       int
	plusMinus float64
}

// ProcessPlayerStatistics aggregates raw per-game lines into per-player
// averages. Players below minGames are dropped, the remainder sorted by
// minutes per game descending and truncated to topN. Zero-attempt
// shooting splits are 0.0, never a division error.
func ProcessPlayerStatistics(lines []RawPlayerGameLine, topN, minGames int) []ProcessedPlayerStats {
	totals := make(map[int]*playerTotals)
	var order []int
	for _, line := range lines {
		t, ok := totals[line.PlayerID]
		if !ok {
			t = &playerTotals{
				name:     strings.TrimSpace(line.FirstName + " " + line.LastName),
				lastName: line.LastName,
			}
			totals[line.PlayerID] = t
			order = append(order, line.PlayerID)
		}
		t.games++
		t.minutes += ParseMinutes(line.Min)
		t.points += line.Points
		t.rebounds += line.TotReb
		t.assists += line.Assists
		t.steals += line.Steals
		t.blocks += line.Blocks
		t.fgm += line.FGM
		t.fga += line.FGA
		t.tpm += line.TPM
		t.tpa += line.TPA
		t.plusMinus += parsePlusMinus(line.PlusMinus)
	}

	var players []ProcessedPlayerStats
	for _, id := range order {
		t := totals[id]
		if t.games < minGames {
			continue
		}
		g := float64(t.games)
		fgp := 0.0
		if t.fga > 0 {
			fgp = round1(float64(t.fgm) / float64(t.fga) * 100)
		}
		tpp := 0.0
		if t.tpa > 0 {
			tpp = round1(float64(t.tpm) / float64(t.tpa) * 100)
		}
		players = append(players, ProcessedPlayerStats{
			PlayerID:   id,
			Name:       t.name,
			LastName:   t.lastName,
			Games:      t.games,
			MPG:        round1(t.minutes / g),
			PPG:        round1(float64(t.points) / g),
			RPG:        round1(float64(t.rebounds) / g),
			APG:        round1(float64(t.assists) / g),
			Disruption: round1((float64(t.steals) + float64(t.blocks)) / g),
			FGP:        fgp,
			TPP:        tpp,
			PlusMinus:  round1(t.plusMinus / g),
		})
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].MPG > players[j].MPG
	})
	if topN > 0 && len(players) > topN {
		players = players[:topN]
	}
	return players
}

// ProcessStanding derives the standing ratios once at ingestion.
func ProcessStanding(raw RawStanding) SeasonStanding {
	s := SeasonStanding{
		Season:         raw.Season,
		Wins:           raw.Wins,
		Losses:         raw.Losses,
		ConferenceRank: raw.ConferenceRank,
		HomeWins:       raw.HomeWins,
		HomeLosses:     raw.HomeLosses,
		AwayWins:       raw.AwayWins,
		AwayLosses:     raw.AwayLosses,
		LastTenWins:    raw.LastTenWins,
		LastTenLosses:  raw.LastTenLosses,
	}
	if total := raw.Wins + raw.Losses; total > 0 {
		s.WinPct = round3(float64(raw.Wins) / float64(total))
	}
	if home := raw.HomeWins + raw.HomeLosses; home > 0 {
		s.HomeWinPct = round3(float64(raw.HomeWins) / float64(home))
	}
	if away := raw.AwayWins + raw.AwayLosses; away > 0 {
		s.AwayWinPct = round3(float64(raw.AwayWins) / float64(away))
	}
	s.LastTenPct = round2(float64(raw.LastTenWins) / 10.0)
	s.HomeCourtAdvantage = round3(s.HomeWinPct - s.AwayWinPct)
	return s
}

// Record formats the standing as "W-L", or "N/A" for a nil standing.
func (s *SeasonStanding) Record() string {
	if s == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d-%d", s.Wins, s.Losses)
}

// HomeRecord formats the home split as "W-L".
func (s *SeasonStanding) HomeRecord() string {
	if s == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d-%d", s.HomeWins, s.HomeLosses)
}

// AwayRecord formats the road split as "W-L".
func (s *SeasonStanding) AwayRecord() string {
	if s == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d-%d", s.AwayWins, s.AwayLosses)
}

// LastTenRecord formats the last-10 split as "W-L".
func (s *SeasonStanding) LastTenRecord() string {
	if s == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d-%d", s.LastTenWins, s.LastTenLosses)
}

// GameDate strips any time suffix, leaving "YYYY-MM-DD".
func GameDate(raw string) string {
	if i := strings.Index(raw, "T"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// BuildRecentGames converts a team's raw schedule into its recent-game
// log: finished games with valid integer scores only, newest first,
// truncated to limit. Opponent record and win percentage are attached
// from standings when available.
func BuildRecentGames(team string, games []RawGame, standings map[string]SeasonStanding, limit int) []RecentGame {
	if limit <= 0 {
		limit = DefaultRecentGamesLimit
	}
	var recent []RecentGame
	for _, g := range games {
		if g.StatusShort != gameStatusFinished {
			continue
		}
		homeScore, err1 := strconv.Atoi(strings.TrimSpace(g.HomeScore))
		awayScore, err2 := strconv.Atoi(strings.TrimSpace(g.VisitorScore))
		if err1 != nil || err2 != nil {
			continue
		}

		var opponent string
		var teamScore, oppScore int
		var home bool
		switch {
		case strings.EqualFold(g.HomeName, team):
			opponent, teamScore, oppScore, home = g.VisitorName, homeScore, awayScore, true
		case strings.EqualFold(g.VisitorName, team):
			opponent, teamScore, oppScore, home = g.HomeName, awayScore, homeScore, false
		default:
			continue
		}

		result := "L"
		if teamScore > oppScore {
			result = "W"
		}
		rg := RecentGame{
			Vs:       opponent,
			VsRecord: "N/A",
			Result:   result,
			Score:    fmt.Sprintf("%d-%d", teamScore, oppScore),
			Home:     home,
			Margin:   teamScore - oppScore,
			Date:     GameDate(g.Date),
		}
		if st, ok := standings[opponent]; ok {
			rg.VsRecord = fmt.Sprintf("%d-%d", st.Wins, st.Losses)
			rg.VsWinPct = st.WinPct
		}
		recent = append(recent, rg)
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// TeamScore reads the team's own points from a RecentGame score string.
func (g RecentGame) TeamScore() (int, bool) {
	parts := strings.SplitN(g.Score, "-", 2)
	if len(parts) == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	return v, true
}
