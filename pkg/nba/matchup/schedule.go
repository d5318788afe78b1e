package matchup

import (
	"fmt"
	"time"

	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

// TeamSchedule is one team's schedule context heading into a game.
type TeamSchedule struct {
	DaysRest                int     `json:"days_rest"`
	Streak                  string  `json:"streak"` // "W3", "L2", "N/A"
	GamesLast7Days          int     `json:"games_last_7_days"`
	QualityWins             int     `json:"quality_wins"`
	QualityLosses           int     `json:"quality_losses"`
	RecentOpponentAvgWinPct float64 `json:"recent_opponent_avg_win_pct"`
}

// ScheduleContext pairs both teams' schedule situations.
type ScheduleContext struct {
	Team1 TeamSchedule `json:"team1"`
	Team2 TeamSchedule `json:"team2"`
}

const dateLayout = "2006-01-02"

// ComputeDaysRest counts whole days between a team's most recent game
// and the target date. Returns -1 when either date is unusable, which
// downstream treats as "unknown rest".
func ComputeDaysRest(lastGameDate, targetDate string) int {
	last, err := time.Parse(dateLayout, stats.GameDate(lastGameDate))
	if err != nil {
		return -1
	}
	target, err := time.Parse(dateLayout, stats.GameDate(targetDate))
	if err != nil {
		return -1
	}
	return int(target.Sub(last).Hours() / 24)
}

// ComputeStreak counts how many of the leading (most recent) games share
// the same result. Returns the count and the shared result.
func ComputeStreak(recent []stats.RecentGame) (int, string) {
	if len(recent) == 0 {
		return 0, ""
	}
	result := recent[0].Result
	n := 0
	for _, g := range recent {
		if g.Result != result {
			break
		}
		n++
	}
	return n, result
}

// ComputeGamesLastNDays counts completed games within the n days before
// the target date.
func ComputeGamesLastNDays(recent []stats.RecentGame, targetDate string, n int) int {
	if n <= 0 {
		n = 7
	}
	target, err := time.Parse(dateLayout, stats.GameDate(targetDate))
	if err != nil {
		return 0
	}
	cutoff := target.AddDate(0, 0, -n)
	count := 0
	for _, g := range recent {
		d, err := time.Parse(dateLayout, g.Date)
		if err != nil {
			continue
		}
		if !d.Before(cutoff) && d.Before(target) {
			count++
		}
	}
	return count
}

// ComputeTeamSchedule derives one team's schedule context from its
// recent-game log. Quality wins/losses are results against opponents at
// or above .500.
func ComputeTeamSchedule(recent []stats.RecentGame, targetDate string) TeamSchedule {
	sched := TeamSchedule{DaysRest: -1, Streak: "N/A"}
	if len(recent) == 0 {
		return sched
	}

	sched.DaysRest = ComputeDaysRest(recent[0].Date, targetDate)
	if n, result := ComputeStreak(recent); n > 0 {
		sched.Streak = fmt.Sprintf("%s%d", result, n)
	}
	sched.GamesLast7Days = ComputeGamesLastNDays(recent, targetDate, 7)

	var oppSum float64
	var oppCount int
	for _, g := range recent {
		if g.VsWinPct >= 0.5 {
			if g.Result == "W" {
				sched.QualityWins++
			} else {
				sched.QualityLosses++
			}
		}
		if g.VsWinPct > 0 {
			oppSum += g.VsWinPct
			oppCount++
		}
	}
	if oppCount > 0 {
		sched.RecentOpponentAvgWinPct = round3(oppSum / float64(oppCount))
	}
	return sched
}

// ComputeScheduleContext builds both teams' contexts for a game date.
func ComputeScheduleContext(team1Recent, team2Recent []stats.RecentGame, targetDate string) ScheduleContext {
	return ScheduleContext{
		Team1: ComputeTeamSchedule(team1Recent, targetDate),
		Team2: ComputeTeamSchedule(team2Recent, targetDate),
	}
}
