package paper

import (
	"testing"

	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

func paperBet(gameID string, betType bets.BetType, pick string, line float64, confidence bets.Confidence) bets.ActiveBet {
	return bets.NewActiveBet(gameID, "Miami Heat @ Boston Celtics", betType, pick, line, confidence, "2025-01-15")
}

func celticsWin() bets.GameOutcome {
	return bets.GameOutcome{HomeTeam: "Boston Celtics", AwayTeam: "Miami Heat", HomeScore: 112, AwayScore: 104}
}

func TestRecordUsesConfidenceUnits(t *testing.T) {
	b := NewBook()
	tr := b.Record(paperBet("g1", bets.Moneyline, "Celtics", 0, bets.ConfidenceHigh), "policy veto")
	if tr.Units != 2.0 {
		t.Fatalf("units = %v, want 2.0", tr.Units)
	}
	if tr.Reason != "policy veto" {
		t.Fatalf("reason = %q", tr.Reason)
	}
	if len(b.Open()) != 1 {
		t.Fatalf("open = %d", len(b.Open()))
	}
}

func TestSettleGame(t *testing.T) {
	b := NewBook()
	b.Record(paperBet("g1", bets.Moneyline, "Celtics", 0, bets.ConfidenceMedium), "no edge")
	b.Record(paperBet("g1", bets.Total, "under", 219.5, bets.ConfidenceLow), "no edge")
	b.Record(paperBet("g2", bets.Moneyline, "Lakers", 0, bets.ConfidenceMedium), "no edge")

	done, err := b.SettleGame("g1", celticsWin())
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 2 {
		t.Fatalf("settled %d trades, want 2", len(done))
	}
	// g2 stays open.
	if len(b.Open()) != 1 {
		t.Fatalf("open = %d, want 1", len(b.Open()))
	}

	for _, tr := range done {
		switch tr.Type {
		case bets.Moneyline:
			if tr.Result != bets.ResultWin {
				t.Fatalf("moneyline result = %s", tr.Result)
			}
			// 1 unit at the default -110 returns 0.909 units.
			if tr.UnitsPnL < 0.90 || tr.UnitsPnL > 0.92 {
				t.Fatalf("moneyline pnl = %v", tr.UnitsPnL)
			}
		case bets.Total:
			// Total was 216, under 219.5 hits at 0.5 units staked.
			if tr.Result != bets.ResultWin {
				t.Fatalf("total result = %s", tr.Result)
			}
			if tr.UnitsPnL < 0.45 || tr.UnitsPnL > 0.46 {
				t.Fatalf("total pnl = %v", tr.UnitsPnL)
			}
		}
	}
}

func TestUnitsPnL(t *testing.T) {
	cases := []struct {
		name   string
		units  float64
		odds   int
		result bets.Result
		want   float64
	}{
		{"loss", 2.0, -110, bets.ResultLoss, -2.0},
		{"push", 1.0, -110, bets.ResultPush, 0},
		{"plus money win", 1.0, 150, bets.ResultWin, 1.5},
		{"zero odds default", 1.0, 0, bets.ResultWin, 100.0 / 110.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := unitsPnL(tc.units, tc.odds, tc.result)
			if got < tc.want-1e-9 || got > tc.want+1e-9 {
				t.Fatalf("pnl = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSummaryVerdict(t *testing.T) {
	b := NewBook()

	// Below the sample floor there is no verdict.
	b.Record(paperBet("g1", bets.Moneyline, "Celtics", 0, bets.ConfidenceMedium), "no edge")
	if _, err := b.SettleGame("g1", celticsWin()); err != nil {
		t.Fatal(err)
	}
	if got := b.Summary().Verdict; got != "insufficient sample" {
		t.Fatalf("verdict = %q", got)
	}

	// Drive the settled count past the floor with winners.
	for i := 0; i < MinSettledForVerdict; i++ {
		gameID := "w" + string(rune('a'+i))
		b.Record(paperBet(gameID, bets.Moneyline, "Celtics", 0, bets.ConfidenceMedium), "no edge")
		if _, err := b.SettleGame(gameID, celticsWin()); err != nil {
			t.Fatal(err)
		}
	}

	s := b.Summary()
	if s.SettledTrades != MinSettledForVerdict+1 {
		t.Fatalf("settled = %d", s.SettledTrades)
	}
	if s.WinRate != 1.0 {
		t.Fatalf("win rate = %v", s.WinRate)
	}
	if s.Verdict != "promising" {
		t.Fatalf("verdict = %q", s.Verdict)
	}
}

func TestVerdictUnderperforming(t *testing.T) {
	s := Stats{SettledTrades: 20, Wins: 8, Losses: 12, WinRate: 0.4, UnitsPnL: -4}
	if got := verdict(s); got != "underperforming" {
		t.Fatalf("verdict = %q", got)
	}
	s = Stats{SettledTrades: 20, Wins: 10, Losses: 10, WinRate: 0.5, UnitsPnL: -0.5}
	if got := verdict(s); got != "inconclusive" {
		t.Fatalf("verdict = %q", got)
	}
}
