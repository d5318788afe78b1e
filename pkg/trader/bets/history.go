package bets

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GroupPerformance aggregates settled bets sharing a grouping key.
type GroupPerformance struct {
	Key     string          `json:"key"`
	Bets    int             `json:"bets"`
	Wins    int             `json:"wins"`
	Losses  int             `json:"losses"`
	Pushes  int             `json:"pushes"`
	WinRate float64         `json:"win_rate"`
	Profit  decimal.Decimal `json:"profit"`
}

// HistorySummary is the performance report over a set of settled bets.
type HistorySummary struct {
	TotalBets     int                `json:"total_bets"`
	Wins          int                `json:"wins"`
	Losses        int                `json:"losses"`
	Pushes        int                `json:"pushes"`
	WinRate       float64            `json:"win_rate"`
	TotalStaked   decimal.Decimal    `json:"total_staked"`
	TotalProfit   decimal.Decimal    `json:"total_profit"`
	ROI           float64            `json:"roi"`
	CurrentStreak int                `json:"current_streak"`
	ByConfidence  []GroupPerformance `json:"by_confidence"`
	ByEdge        []GroupPerformance `json:"by_edge"`
	ByType        []GroupPerformance `json:"by_type"`
}

// SummarizeHistory computes aggregate performance from settled bets.
// Pushes and early exits count toward volume but not the win rate
// denominator. The streak is positive for consecutive wins and
// negative for consecutive losses, most recent first.
func SummarizeHistory(completed []CompletedBet) HistorySummary {
	s := HistorySummary{
		TotalStaked: decimal.Zero,
		TotalProfit: decimal.Zero,
	}
	byConf := map[string]*GroupPerformance{}
	byEdge := map[string]*GroupPerformance{}
	byType := map[string]*GroupPerformance{}

	for _, b := range completed {
		s.TotalBets++
		s.TotalStaked = s.TotalStaked.Add(b.Amount)
		s.TotalProfit = s.TotalProfit.Add(b.ProfitLoss)
		switch b.Result {
		case ResultWin:
			s.Wins++
		case ResultLoss:
			s.Losses++
		default:
			s.Pushes++
		}
		accumulate(byConf, string(b.Confidence), b)
		if b.PrimaryEdge != "" {
			accumulate(byEdge, b.PrimaryEdge, b)
		}
		accumulate(byType, b.Type.String(), b)
	}

	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	if s.TotalStaked.IsPositive() {
		roi, _ := s.TotalProfit.Div(s.TotalStaked).Float64()
		s.ROI = roi
	}
	s.CurrentStreak = currentStreak(completed)
	s.ByConfidence = sortedGroups(byConf)
	s.ByEdge = sortedGroups(byEdge)
	s.ByType = sortedGroups(byType)
	return s
}

func accumulate(groups map[string]*GroupPerformance, key string, b CompletedBet) {
	g := groups[key]
	if g == nil {
		g = &GroupPerformance{Key: key, Profit: decimal.Zero}
		groups[key] = g
	}
	g.Bets++
	g.Profit = g.Profit.Add(b.ProfitLoss)
	switch b.Result {
	case ResultWin:
		g.Wins++
	case ResultLoss:
		g.Losses++
	default:
		g.Pushes++
	}
	if decided := g.Wins + g.Losses; decided > 0 {
		g.WinRate = float64(g.Wins) / float64(decided)
	}
}

func sortedGroups(groups map[string]*GroupPerformance) []GroupPerformance {
	out := make([]GroupPerformance, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bets != out[j].Bets {
			return out[i].Bets > out[j].Bets
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// currentStreak walks from the most recent settled bet backwards,
// skipping pushes, until the run of wins or losses breaks.
func currentStreak(completed []CompletedBet) int {
	ordered := make([]CompletedBet, len(completed))
	copy(ordered, completed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	streak := 0
	var dir Result
	for _, b := range ordered {
		if b.Result != ResultWin && b.Result != ResultLoss {
			continue
		}
		if dir == "" {
			dir = b.Result
		}
		if b.Result != dir {
			break
		}
		streak++
	}
	if dir == ResultLoss {
		return -streak
	}
	return streak
}
