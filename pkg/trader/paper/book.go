// Package paper runs a shadow book of unit-sized trades for picks the
// real bankroll declined, so the strategy keeps accumulating a sample.
package paper

import (
	"fmt"
	"sync"
	"time"

	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

// MinSettledForVerdict is the sample size required before the book
// renders a strategy verdict.
const MinSettledForVerdict = 15

// Trade is one shadow trade, sized in units rather than dollars.
type Trade struct {
	ID         string          `json:"id"`
	GameID     string          `json:"game_id"`
	Matchup    string          `json:"matchup"`
	Type       bets.BetType    `json:"bet_type"`
	Pick       string          `json:"pick"`
	Line       float64         `json:"line"`
	Confidence bets.Confidence `json:"confidence"`
	Units      float64         `json:"units"`
	OddsPrice  int             `json:"odds_price"`
	// Reason records why the pick went to paper instead of the
	// bankroll.
	Reason    string       `json:"reason"`
	Date      string       `json:"date"`
	CreatedAt time.Time    `json:"created_at"`
	Settled   bool         `json:"settled"`
	Result    bets.Result  `json:"result,omitempty"`
	UnitsPnL  float64      `json:"units_pnl"`
	SettledAt time.Time    `json:"settled_at,omitempty"`
}

// Book is the concurrency-safe shadow book.
type Book struct {
	mu      sync.RWMutex
	open    map[string]*Trade // trade id -> trade
	settled []Trade
}

// NewBook returns an empty shadow book.
func NewBook() *Book {
	return &Book{open: make(map[string]*Trade)}
}

// Record enters a declined pick into the book at its confidence-tier
// unit size. Zero odds settle at the standard -110.
func (b *Book) Record(bet bets.ActiveBet, reason string) Trade {
	t := Trade{
		ID:         bet.ID,
		GameID:     bet.GameID,
		Matchup:    bet.Matchup,
		Type:       bet.Type,
		Pick:       bet.Pick,
		Line:       bet.Line,
		Confidence: bet.Confidence,
		Units:      bet.Confidence.Units(),
		OddsPrice:  bet.OddsPrice,
		Reason:     reason,
		Date:       bet.Date,
		CreatedAt:  time.Now().UTC(),
	}
	b.mu.Lock()
	b.open[t.ID] = &t
	b.mu.Unlock()
	return t
}

// Open returns the unsettled trades.
func (b *Book) Open() []Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Trade, 0, len(b.open))
	for _, t := range b.open {
		out = append(out, *t)
	}
	return out
}

// Settled returns the settled trades.
func (b *Book) Settled() []Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Trade, len(b.settled))
	copy(out, b.settled)
	return out
}

// SettleGame settles every open trade on a game against its final
// outcome, using the same evaluation rules as real bets. Returns the
// trades settled by this call.
func (b *Book) SettleGame(gameID string, outcome bets.GameOutcome) ([]Trade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var done []Trade
	for id, t := range b.open {
		if t.GameID != gameID {
			continue
		}
		stub := bets.ActiveBet{
			ID:      t.ID,
			GameID:  t.GameID,
			Matchup: t.Matchup,
			Type:    t.Type,
			Pick:    t.Pick,
			Line:    t.Line,
		}
		completed, err := bets.Evaluate(stub, outcome)
		if err != nil {
			return done, fmt.Errorf("settling paper trade %s: %w", id, err)
		}
		t.Settled = true
		t.Result = completed.Result
		t.UnitsPnL = unitsPnL(t.Units, t.OddsPrice, completed.Result)
		t.SettledAt = time.Now().UTC()
		b.settled = append(b.settled, *t)
		done = append(done, *t)
		delete(b.open, id)
	}
	return done, nil
}

func unitsPnL(units float64, americanOdds int, result bets.Result) float64 {
	switch result {
	case bets.ResultLoss:
		return -units
	case bets.ResultWin:
		if americanOdds == 0 {
			americanOdds = -110
		}
		if americanOdds < 0 {
			return units * 100 / float64(-americanOdds)
		}
		return units * float64(americanOdds) / 100
	}
	return 0
}

// Stats summarizes the settled side of the book.
type Stats struct {
	OpenTrades    int     `json:"open_trades"`
	SettledTrades int     `json:"settled_trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	WinRate       float64 `json:"win_rate"`
	UnitsPnL      float64 `json:"units_pnl"`
	Verdict       string  `json:"verdict"`
}

// Summary computes the book's performance and, with a large enough
// settled sample, a verdict on the strategy.
func (b *Book) Summary() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Stats{OpenTrades: len(b.open), SettledTrades: len(b.settled)}
	for _, t := range b.settled {
		s.UnitsPnL += t.UnitsPnL
		switch t.Result {
		case bets.ResultWin:
			s.Wins++
		case bets.ResultLoss:
			s.Losses++
		default:
			s.Pushes++
		}
	}
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	s.Verdict = verdict(s)
	return s
}

// The break-even win rate at -110 is 52.38%, so "promising" demands
// clearance above it.
func verdict(s Stats) string {
	if s.SettledTrades < MinSettledForVerdict {
		return "insufficient sample"
	}
	switch {
	case s.WinRate >= 0.55 && s.UnitsPnL > 0:
		return "promising"
	case s.WinRate < 0.50:
		return "underperforming"
	default:
		return "inconclusive"
	}
}
