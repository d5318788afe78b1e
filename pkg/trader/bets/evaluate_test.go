package bets

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculatePayout(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		odds   int
		result Result
		want   string
	}{
		{"negative odds win", "110", -110, ResultWin, "210"},
		{"positive odds win", "100", 150, ResultWin, "250"},
		{"even odds win", "50", 100, ResultWin, "100"},
		{"zero odds fallback", "30", 0, ResultWin, "57.27"},
		{"loss", "100", -110, ResultLoss, "0"},
		{"push returns stake", "75", -110, ResultPush, "75"},
		{"early exit returns stake", "75", 140, ResultEarlyExit, "75"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculatePayout(dec(tc.amount), tc.odds, tc.result)
			if !got.Equal(dec(tc.want)) {
				t.Fatalf("payout = %s, want %s", got, tc.want)
			}
		})
	}
}

func finishedGame() GameOutcome {
	return GameOutcome{
		HomeTeam:  "Boston Celtics",
		AwayTeam:  "Miami Heat",
		HomeScore: 112,
		AwayScore: 104,
	}
}

func TestEvaluateMoneyline(t *testing.T) {
	outcome := finishedGame()

	bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", Moneyline, "Celtics", 0, ConfidenceMedium, "2025-01-15")
	bet.Amount = dec("50")
	bet.OddsPrice = -150

	completed, err := Evaluate(bet, outcome)
	if err != nil {
		t.Fatal(err)
	}
	if completed.Result != ResultWin {
		t.Fatalf("result = %s, want win", completed.Result)
	}
	if completed.Winner != "Boston Celtics" {
		t.Fatalf("winner = %q", completed.Winner)
	}
	if completed.FinalScore != "112-104" {
		t.Fatalf("final score = %q", completed.FinalScore)
	}
	if completed.ActualMargin != 8 {
		t.Fatalf("margin = %d", completed.ActualMargin)
	}
	// 50 * 100/150 = 33.33 profit
	if !completed.ProfitLoss.Equal(dec("33.33")) {
		t.Fatalf("profit = %s, want 33.33", completed.ProfitLoss)
	}

	bet.Pick = "Heat"
	completed, err = Evaluate(bet, outcome)
	if err != nil {
		t.Fatal(err)
	}
	if completed.Result != ResultLoss {
		t.Fatalf("result = %s, want loss", completed.Result)
	}
	if !completed.ProfitLoss.Equal(dec("-50")) {
		t.Fatalf("profit = %s, want -50", completed.ProfitLoss)
	}
}

func TestEvaluateSpread(t *testing.T) {
	outcome := finishedGame() // Celtics by 8

	cases := []struct {
		name string
		pick string
		line float64
		want Result
	}{
		{"favorite covers", "Celtics", -6.5, ResultWin},
		{"favorite fails to cover", "Celtics", -9.5, ResultLoss},
		{"underdog covers", "Heat", 9.5, ResultWin},
		{"underdog does not cover", "Heat", 6.5, ResultLoss},
		{"exact line pushes", "Celtics", -8, ResultPush},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", Spread, tc.pick, tc.line, ConfidenceLow, "2025-01-15")
			bet.Amount = dec("20")
			completed, err := Evaluate(bet, outcome)
			if err != nil {
				t.Fatal(err)
			}
			if completed.Result != tc.want {
				t.Fatalf("result = %s, want %s", completed.Result, tc.want)
			}
		})
	}

	bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", Spread, "Lakers", -3, ConfidenceLow, "2025-01-15")
	if _, err := Evaluate(bet, outcome); err == nil {
		t.Fatal("expected error for pick matching neither team")
	}
}

func TestEvaluateSpreadPushReturnsStake(t *testing.T) {
	bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", Spread, "Celtics", -8, ConfidenceMedium, "2025-01-15")
	bet.Amount = dec("40")
	bet.OddsPrice = -110

	completed, err := Evaluate(bet, finishedGame())
	if err != nil {
		t.Fatal(err)
	}
	if completed.Result != ResultPush {
		t.Fatalf("result = %s, want push", completed.Result)
	}
	if !completed.ProfitLoss.IsZero() {
		t.Fatalf("push profit = %s, want 0", completed.ProfitLoss)
	}
}

func TestEvaluateTotal(t *testing.T) {
	outcome := finishedGame() // total 216

	cases := []struct {
		name string
		pick string
		line float64
		want Result
	}{
		{"over hits", "over", 212.5, ResultWin},
		{"over misses", "over", 219.5, ResultLoss},
		{"under hits", "under", 219.5, ResultWin},
		{"under misses", "under", 212.5, ResultLoss},
		{"exact total pushes", "over", 216, ResultPush},
		{"case insensitive pick", "OVER", 212.5, ResultWin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", Total, tc.pick, tc.line, ConfidenceMedium, "2025-01-15")
			bet.Amount = dec("25")
			completed, err := Evaluate(bet, outcome)
			if err != nil {
				t.Fatal(err)
			}
			if completed.Result != tc.want {
				t.Fatalf("result = %s, want %s", completed.Result, tc.want)
			}
		})
	}
}

func TestEvaluateRejectsPlayerProp(t *testing.T) {
	bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", PlayerProp, "Tatum over 27.5 points", 27.5, ConfidenceHigh, "2025-01-15")
	if _, err := Evaluate(bet, finishedGame()); err == nil {
		t.Fatal("expected error routing props to EvaluateProp")
	}
}

func TestEvaluateProp(t *testing.T) {
	line := PropStatLine{Points: 30, Rebounds: 8, Assists: 5}

	cases := []struct {
		name string
		pick string
		line float64
		want Result
	}{
		{"points over hits", "Tatum over 27.5 points", 27.5, ResultWin},
		{"points under misses", "Tatum under 27.5 points", 27.5, ResultLoss},
		{"rebounds over misses", "Tatum over 9.5 rebounds", 9.5, ResultLoss},
		{"assists exact pushes", "Tatum over 5 assists", 5, ResultPush},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", PlayerProp, tc.pick, tc.line, ConfidenceMedium, "2025-01-15")
			bet.Amount = dec("10")
			completed, err := EvaluateProp(bet, line, finishedGame())
			if err != nil {
				t.Fatal(err)
			}
			if completed.Result != tc.want {
				t.Fatalf("result = %s, want %s", completed.Result, tc.want)
			}
		})
	}

	bet := NewActiveBet("g1", "Miami Heat @ Boston Celtics", PlayerProp, "Tatum over 1.5 steals", 1.5, ConfidenceMedium, "2025-01-15")
	if _, err := EvaluateProp(bet, line, finishedGame()); err == nil {
		t.Fatal("expected error for unknown stat")
	}
}

func TestTeamMatches(t *testing.T) {
	cases := []struct {
		pick, team string
		want       bool
	}{
		{"Celtics", "Boston Celtics", true},
		{"boston celtics", "Boston Celtics", true},
		{"Boston Celtics", "Celtics", true},
		{"Heat", "Boston Celtics", false},
		{"", "Boston Celtics", false},
	}
	for _, tc := range cases {
		if got := teamMatches(tc.pick, tc.team); got != tc.want {
			t.Errorf("teamMatches(%q, %q) = %v, want %v", tc.pick, tc.team, got, tc.want)
		}
	}
}
