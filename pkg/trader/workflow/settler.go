package workflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/courtside-agents/pkg/trader/bets"
	"github.com/courtside/courtside-agents/pkg/trader/metrics"
)

// Settler resolves finished games: open bets are evaluated against
// final scores, payouts credited to the ledger and paper trades
// settled at the same outcomes.
type Settler struct {
	cfg  *Config
	deps Deps
}

// NewSettler builds a settler sharing the analyzer's wiring.
func NewSettler(cfg *Config, deps Deps) *Settler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Settler{cfg: cfg, deps: deps.withDefaults()}
}

// SettleResult summarizes one settlement pass.
type SettleResult struct {
	Date         string              `json:"date"`
	Final        int                 `json:"final_games"`
	Settled      []bets.CompletedBet `json:"settled,omitempty"`
	PaperSettled int                 `json:"paper_settled"`
}

// Run settles every open bet whose game finished on the date.
func (s *Settler) Run(ctx context.Context, date string) (*SettleResult, error) {
	runStart := time.Now()
	res := &SettleResult{Date: date}

	games, err := s.deps.Stats.Slate(ctx, date)
	if err != nil {
		s.deps.Metrics.RecordProviderError("stats")
		s.deps.Metrics.RecordWorkflow("settle", "error", time.Since(runStart).Seconds())
		return nil, fmt.Errorf("fetching results for %s: %w", date, err)
	}

	outcomes := make(map[string]bets.GameOutcome)
	for _, g := range games {
		if g.StatusShort != 3 { // finished per the provider
			continue
		}
		home, err1 := strconv.Atoi(strings.TrimSpace(g.HomeScore))
		away, err2 := strconv.Atoi(strings.TrimSpace(g.VisitorScore))
		if err1 != nil || err2 != nil {
			continue
		}
		outcomes[strconv.Itoa(g.ID)] = bets.GameOutcome{
			HomeTeam:  g.HomeName,
			AwayTeam:  g.VisitorName,
			HomeScore: home,
			AwayScore: away,
		}
	}
	res.Final = len(outcomes)
	if len(outcomes) == 0 {
		s.deps.Metrics.RecordWorkflow("settle", "ok", time.Since(runStart).Seconds())
		return res, nil
	}

	if s.deps.Store != nil {
		active, err := s.deps.Store.ActiveBets()
		if err != nil {
			s.deps.Metrics.RecordWorkflow("settle", "error", time.Since(runStart).Seconds())
			return res, fmt.Errorf("loading open bets: %w", err)
		}
		for _, b := range active {
			outcome, ok := outcomes[b.GameID]
			if !ok {
				continue
			}
			completed, err := s.settleBet(date, b, outcome)
			if err != nil {
				log.Printf("[settler] %s %s: %v", b.Matchup, b.Pick, err)
				continue
			}
			res.Settled = append(res.Settled, completed)
		}
	}

	for id, outcome := range outcomes {
		trades, err := s.deps.Paper.SettleGame(id, outcome)
		if err != nil {
			log.Printf("[settler] paper game %s: %v", id, err)
			continue
		}
		res.PaperSettled += len(trades)
		if s.deps.Hub != nil {
			for _, t := range trades {
				s.deps.Hub.BroadcastPaperTrade(t)
			}
		}
	}
	s.deps.Metrics.UpdatePaperBook(s.deps.Paper.Summary().UnitsPnL)

	persistBankroll(s.cfg.BankrollPath, s.deps.Ledger)
	publishBankroll(s.deps)
	s.deps.Metrics.RecordWorkflow("settle", "ok", time.Since(runStart).Seconds())
	return res, nil
}

// settleBet moves one bet to completed, credits the payout and fans
// the result out to policy, metrics and the stream.
func (s *Settler) settleBet(date string, b bets.ActiveBet, outcome bets.GameOutcome) (bets.CompletedBet, error) {
	completed, err := bets.Evaluate(b, outcome)
	if err != nil {
		return completed, err
	}
	if err := s.deps.Store.Settle(completed); err != nil {
		return completed, fmt.Errorf("recording settlement: %w", err)
	}

	payout := bets.CalculatePayout(completed.Amount, completed.OddsPrice, completed.Result)
	if s.deps.Ledger != nil {
		desc := fmt.Sprintf("%s %s %s", completed.Type, completed.Pick, completed.Result)
		if err := s.deps.Ledger.Credit(date, completed.ID, payout, desc); err != nil {
			log.Printf("[settler] crediting %s: %v", completed.ID, err)
		}
	}
	if s.deps.Policy != nil {
		s.deps.Policy.RecordSettlement(completed)
	}
	s.deps.Metrics.RecordSettlement(completed.Type.String(), string(completed.Result),
		metrics.DecimalToFloat64(completed.ProfitLoss))
	if s.deps.Hub != nil {
		s.deps.Hub.BroadcastBetSettled(completed)
	}
	return completed, nil
}
