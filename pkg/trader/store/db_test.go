package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "bets.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sizedBet(date, pick string, amount string) bets.ActiveBet {
	b := bets.NewActiveBet("g-100", "Miami Heat @ Boston Celtics", bets.Moneyline, pick, 0, bets.ConfidenceMedium, date)
	b.Amount = dec(amount)
	b.OddsPrice = -110
	b.PrimaryEdge = "net_rating"
	return b
}

func TestInsertAndQueryActive(t *testing.T) {
	s := testStore(t)
	b := sizedBet("2025-01-15", "Celtics", "30")
	if err := s.InsertActive(b); err != nil {
		t.Fatal(err)
	}

	got, err := s.ActiveBets()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("active bets = %d, want 1", len(got))
	}
	if got[0].ID != b.ID || got[0].Pick != "Celtics" || !got[0].Amount.Equal(dec("30")) {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
	if got[0].Type != bets.Moneyline || got[0].Confidence != bets.ConfidenceMedium {
		t.Fatalf("enum round trip mismatch: %+v", got[0])
	}

	byDate, err := s.ActiveBetsByDate("2025-01-15")
	if err != nil {
		t.Fatal(err)
	}
	if len(byDate) != 1 {
		t.Fatalf("by date = %d, want 1", len(byDate))
	}
	empty, err := s.ActiveBetsByDate("2025-01-16")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("by other date = %d, want 0", len(empty))
	}
}

func TestSettleMovesBet(t *testing.T) {
	s := testStore(t)
	b := sizedBet("2025-01-15", "Celtics", "30")
	if err := s.InsertActive(b); err != nil {
		t.Fatal(err)
	}

	completed, err := bets.Evaluate(b, bets.GameOutcome{
		HomeTeam: "Boston Celtics", AwayTeam: "Miami Heat", HomeScore: 112, AwayScore: 104,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Settle(completed); err != nil {
		t.Fatal(err)
	}

	active, err := s.ActiveBets()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Fatalf("active after settle = %d, want 0", len(active))
	}

	history, err := s.CompletedBets(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("completed = %d, want 1", len(history))
	}
	if history[0].Result != bets.ResultWin {
		t.Fatalf("result = %s", history[0].Result)
	}
	if !history[0].ProfitLoss.Equal(dec("27.27")) {
		t.Fatalf("profit = %s, want 27.27", history[0].ProfitLoss)
	}

	// Settling the same bet twice fails.
	if err := s.Settle(completed); err == nil {
		t.Fatal("expected error settling a missing active bet")
	}
}

func TestDeleteActive(t *testing.T) {
	s := testStore(t)
	b := sizedBet("2025-01-15", "Celtics", "30")
	if err := s.InsertActive(b); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteActive(b.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteActive(b.ID); err == nil {
		t.Fatal("expected error for missing bet")
	}
}

func TestExposureAndPnL(t *testing.T) {
	s := testStore(t)
	b1 := sizedBet("2025-01-15", "Celtics", "30")
	b2 := sizedBet("2025-01-15", "Heat", "17.50")
	if err := s.InsertActive(b1); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertActive(b2); err != nil {
		t.Fatal(err)
	}

	exposure, err := s.OpenExposure()
	if err != nil {
		t.Fatal(err)
	}
	if !exposure.Equal(dec("47.50")) {
		t.Fatalf("exposure = %s, want 47.50", exposure)
	}

	completed, err := bets.Evaluate(b1, bets.GameOutcome{
		HomeTeam: "Boston Celtics", AwayTeam: "Miami Heat", HomeScore: 100, AwayScore: 110,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Settle(completed); err != nil {
		t.Fatal(err)
	}

	pnl, err := s.DollarPnL()
	if err != nil {
		t.Fatal(err)
	}
	if !pnl.Equal(dec("-30")) {
		t.Fatalf("pnl = %s, want -30", pnl)
	}
	exposure, err = s.OpenExposure()
	if err != nil {
		t.Fatal(err)
	}
	if !exposure.Equal(dec("17.50")) {
		t.Fatalf("exposure = %s, want 17.50", exposure)
	}
}

func TestBankrollFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankroll.json")

	l, err := LoadBankroll(path)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Available().Equal(DefaultStartingBankroll) {
		t.Fatalf("fresh bankroll = %s", l.Available())
	}

	if err := l.Debit("2025-01-15", "bet-1", dec("30"), "Celtics ML"); err != nil {
		t.Fatal(err)
	}
	if err := SaveBankroll(path, l.Snapshot()); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadBankroll(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Available().Equal(dec("970")) {
		t.Fatalf("reloaded = %s, want 970", reloaded.Available())
	}
	if len(reloaded.Snapshot().Transactions) != 1 {
		t.Fatalf("transactions = %d", len(reloaded.Snapshot().Transactions))
	}
}
