package bets

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// GameOutcome is a finished game's final state.
type GameOutcome struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
}

// Winner returns the winning team's name.
func (o GameOutcome) Winner() string {
	if o.AwayScore > o.HomeScore {
		return o.AwayTeam
	}
	return o.HomeTeam
}

// Total is the combined final score.
func (o GameOutcome) Total() int { return o.HomeScore + o.AwayScore }

func (o GameOutcome) scoreFor(team string) (own, opp int, ok bool) {
	switch {
	case teamMatches(team, o.HomeTeam):
		return o.HomeScore, o.AwayScore, true
	case teamMatches(team, o.AwayTeam):
		return o.AwayScore, o.HomeScore, true
	}
	return 0, 0, false
}

func teamMatches(pick, team string) bool {
	p := strings.ToLower(strings.TrimSpace(pick))
	t := strings.ToLower(strings.TrimSpace(team))
	if p == "" || t == "" {
		return false
	}
	return p == t || strings.Contains(t, p) || strings.Contains(p, t)
}

// CalculatePayout returns the total amount returned to the bankroll for
// a settled stake: stake back on a push, zero on a loss, stake plus
// winnings on a win. Odds of 0 are treated as the standard -110.
func CalculatePayout(amount decimal.Decimal, americanOdds int, result Result) decimal.Decimal {
	switch result {
	case ResultPush, ResultEarlyExit:
		return amount
	case ResultLoss:
		return decimal.Zero
	}
	if americanOdds == 0 {
		americanOdds = -110
	}
	if americanOdds < 0 {
		// amount * (1 + 100/|odds|)
		abs := decimal.NewFromInt(int64(-americanOdds))
		return amount.Add(amount.Mul(decimal.NewFromInt(100)).Div(abs)).Round(2)
	}
	return amount.Add(amount.Mul(decimal.NewFromInt(int64(americanOdds))).Div(decimal.NewFromInt(100))).Round(2)
}

// Evaluate settles a bet against a final score. The spread convention
// follows the bet slip: the pick's final margin plus the line decides,
// with an exact zero as a push.
func Evaluate(bet ActiveBet, outcome GameOutcome) (CompletedBet, error) {
	completed := CompletedBet{
		ActiveBet:    bet,
		Winner:       outcome.Winner(),
		FinalScore:   fmt.Sprintf("%d-%d", outcome.HomeScore, outcome.AwayScore),
		ActualTotal:  outcome.Total(),
		ActualMargin: outcome.HomeScore - outcome.AwayScore,
	}

	switch bet.Type {
	case Moneyline:
		if teamMatches(bet.Pick, outcome.Winner()) {
			completed.Result = ResultWin
		} else {
			completed.Result = ResultLoss
		}

	case Spread:
		own, opp, ok := outcome.scoreFor(bet.Pick)
		if !ok {
			return completed, fmt.Errorf("spread pick %q matches neither team in %s vs %s", bet.Pick, outcome.HomeTeam, outcome.AwayTeam)
		}
		adjusted := float64(own-opp) + bet.Line
		switch {
		case adjusted > 0:
			completed.Result = ResultWin
		case adjusted < 0:
			completed.Result = ResultLoss
		default:
			completed.Result = ResultPush
		}

	case Total:
		total := float64(outcome.Total())
		over := strings.EqualFold(strings.TrimSpace(bet.Pick), "over")
		switch {
		case total == bet.Line:
			completed.Result = ResultPush
		case (total > bet.Line) == over:
			completed.Result = ResultWin
		default:
			completed.Result = ResultLoss
		}

	case PlayerProp:
		return completed, fmt.Errorf("player props settle via EvaluateProp")

	default:
		return completed, fmt.Errorf("unknown bet type %v", bet.Type)
	}

	completed.ProfitLoss = CalculatePayout(bet.Amount, bet.OddsPrice, completed.Result).Sub(bet.Amount)
	return completed, nil
}

// PropStatLine holds a player's final counting stats for prop
// settlement.
type PropStatLine struct {
	Points   int
	Rebounds int
	Assists  int
}

// PropStat selects the stat a prop pick references. Picks look like
// "Tatum over 27.5 points".
func (l PropStatLine) PropStat(pick string) (float64, bool) {
	p := strings.ToLower(pick)
	switch {
	case strings.Contains(p, "point"):
		return float64(l.Points), true
	case strings.Contains(p, "rebound"):
		return float64(l.Rebounds), true
	case strings.Contains(p, "assist"):
		return float64(l.Assists), true
	}
	return 0, false
}

// EvaluateProp settles a player prop against the player's final line.
func EvaluateProp(bet ActiveBet, line PropStatLine, outcome GameOutcome) (CompletedBet, error) {
	completed := CompletedBet{
		ActiveBet:   bet,
		Winner:      outcome.Winner(),
		FinalScore:  fmt.Sprintf("%d-%d", outcome.HomeScore, outcome.AwayScore),
		ActualTotal: outcome.Total(),
	}
	if bet.Type != PlayerProp {
		return completed, fmt.Errorf("EvaluateProp called on %v bet", bet.Type)
	}
	actual, ok := line.PropStat(bet.Pick)
	if !ok {
		return completed, fmt.Errorf("prop pick %q names no known stat", bet.Pick)
	}
	over := strings.Contains(strings.ToLower(bet.Pick), "over")
	switch {
	case actual == bet.Line:
		completed.Result = ResultPush
	case (actual > bet.Line) == over:
		completed.Result = ResultWin
	default:
		completed.Result = ResultLoss
	}
	completed.ProfitLoss = CalculatePayout(bet.Amount, bet.OddsPrice, completed.Result).Sub(bet.Amount)
	return completed, nil
}
