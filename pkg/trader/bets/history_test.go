package bets

import (
	"testing"
	"time"
)

func settled(daysAgo int, betType BetType, confidence Confidence, edge string, result Result, amount, profit string) CompletedBet {
	b := NewActiveBet("g", "Miami Heat @ Boston Celtics", betType, "Celtics", 0, confidence, "2025-01-15")
	b.Amount = dec(amount)
	b.CreatedAt = time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	b.PrimaryEdge = edge
	return CompletedBet{
		ActiveBet:  b,
		Result:     result,
		ProfitLoss: dec(profit),
	}
}

func TestSummarizeHistory(t *testing.T) {
	history := []CompletedBet{
		settled(5, Moneyline, ConfidenceHigh, "net_rating", ResultWin, "100", "90.91"),
		settled(4, Spread, ConfidenceMedium, "rest", ResultLoss, "50", "-50"),
		settled(3, Total, ConfidenceMedium, "pace", ResultPush, "50", "0"),
		settled(2, Spread, ConfidenceMedium, "net_rating", ResultWin, "50", "45.45"),
		settled(1, Moneyline, ConfidenceLow, "net_rating", ResultWin, "25", "22.73"),
	}

	s := SummarizeHistory(history)

	if s.TotalBets != 5 {
		t.Fatalf("total = %d", s.TotalBets)
	}
	if s.Wins != 3 || s.Losses != 1 || s.Pushes != 1 {
		t.Fatalf("w/l/p = %d/%d/%d", s.Wins, s.Losses, s.Pushes)
	}
	if s.WinRate != 0.75 {
		t.Fatalf("win rate = %v, want 0.75 (pushes excluded)", s.WinRate)
	}
	if !s.TotalStaked.Equal(dec("275")) {
		t.Fatalf("staked = %s", s.TotalStaked)
	}
	if !s.TotalProfit.Equal(dec("109.09")) {
		t.Fatalf("profit = %s", s.TotalProfit)
	}
	if s.ROI < 0.396 || s.ROI > 0.397 {
		t.Fatalf("roi = %v", s.ROI)
	}
	// Most recent two are wins, then a push (skipped), then a win.
	if s.CurrentStreak != 3 {
		t.Fatalf("streak = %d, want 3", s.CurrentStreak)
	}

	if len(s.ByEdge) == 0 || s.ByEdge[0].Key != "net_rating" || s.ByEdge[0].Bets != 3 {
		t.Fatalf("by edge = %+v", s.ByEdge)
	}
	if s.ByEdge[0].WinRate != 1.0 {
		t.Fatalf("net_rating win rate = %v", s.ByEdge[0].WinRate)
	}
	if len(s.ByConfidence) == 0 || s.ByConfidence[0].Key != "medium" || s.ByConfidence[0].Bets != 3 {
		t.Fatalf("by confidence = %+v", s.ByConfidence)
	}
}

func TestSummarizeHistoryLosingStreak(t *testing.T) {
	history := []CompletedBet{
		settled(3, Moneyline, ConfidenceMedium, "rest", ResultWin, "50", "45.45"),
		settled(2, Spread, ConfidenceMedium, "rest", ResultLoss, "50", "-50"),
		settled(1, Spread, ConfidenceMedium, "rest", ResultLoss, "50", "-50"),
	}
	s := SummarizeHistory(history)
	if s.CurrentStreak != -2 {
		t.Fatalf("streak = %d, want -2", s.CurrentStreak)
	}
}

func TestSummarizeHistoryEmpty(t *testing.T) {
	s := SummarizeHistory(nil)
	if s.TotalBets != 0 || s.WinRate != 0 || s.ROI != 0 || s.CurrentStreak != 0 {
		t.Fatalf("empty summary = %+v", s)
	}
}
