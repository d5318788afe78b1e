// Package workflow coordinates the daily betting pipeline: fetch the
// slate, build matchup analyses, consult the recommendation oracle,
// size stakes, apply risk policy and record the results.
package workflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/courtside/courtside-agents/pkg/nba/matchup"
	"github.com/courtside/courtside-agents/pkg/nba/stats"
	"github.com/courtside/courtside-agents/pkg/polymarket/odds"
	"github.com/courtside/courtside-agents/pkg/trader/bets"
	"github.com/courtside/courtside-agents/pkg/trader/ledger"
	"github.com/courtside/courtside-agents/pkg/trader/metrics"
	"github.com/courtside/courtside-agents/pkg/trader/oracle"
	"github.com/courtside/courtside-agents/pkg/trader/paper"
	"github.com/courtside/courtside-agents/pkg/trader/policy"
	"github.com/courtside/courtside-agents/pkg/trader/sizing"
	"github.com/courtside/courtside-agents/pkg/trader/store"
	"github.com/courtside/courtside-agents/pkg/trader/streaming"
)

// Config tunes the analyzer's fetch and analysis behavior.
type Config struct {
	// Season is the API season year, e.g. 2024 for 2024-25.
	Season int
	// Fanout bounds how many games are analyzed concurrently.
	Fanout int
	// RequestsPerSec throttles provider calls across all workers.
	RequestsPerSec float64
	// LeagueAvgEfficiency feeds the snapshot builder. Zero falls back
	// to the league default.
	LeagueAvgEfficiency float64
	// RotationSize is how many players count as the rotation for
	// injury impact.
	RotationSize int
	// PlayerPool is how many players per team are processed.
	PlayerPool int
	// MinPlayerGames filters out small player samples.
	MinPlayerGames int
	// RecentGamesLimit bounds the recent-form window.
	RecentGamesLimit int
	// H2HSeasonsBack is how many seasons of head-to-head evidence to
	// request, including the current one.
	H2HSeasonsBack int
	// SeasonDecay, RecentGameHalfLife and ReplacementFactor are the
	// model calibration knobs; zero values use the model defaults.
	SeasonDecay        float64
	RecentGameHalfLife float64
	ReplacementFactor  float64
	// BankrollPath, when set, persists the ledger after every run.
	BankrollPath string
}

// DefaultConfig returns the standard analyzer tuning.
func DefaultConfig() *Config {
	return &Config{
		Fanout:           4,
		RequestsPerSec:   5,
		RotationSize:     6,
		PlayerPool:       10,
		MinPlayerGames:   5,
		RecentGamesLimit: 10,
		H2HSeasonsBack:   2,
	}
}

// Deps wires the providers and engine components into a workflow. Only
// the providers and the ledger are required; everything else gets a
// working default.
type Deps struct {
	Stats    StatsProvider
	Injuries InjuryProvider
	H2H      H2HProvider
	Odds     OddsProvider
	Placer   OrderPlacer

	Recommender oracle.Recommender
	OracleSizer oracle.Sizer
	Sizer       *sizing.Sizer
	Policy      *policy.Engine
	Ledger      *ledger.Ledger
	Store       *store.Store
	Paper       *paper.Book
	Hub         *streaming.Hub
	Metrics     *metrics.BettingMetrics
}

func (d Deps) withDefaults() Deps {
	if d.Placer == nil {
		d.Placer = NoopPlacer{}
	}
	if d.Recommender == nil {
		d.Recommender = oracle.NewRuleBased()
	}
	if d.Sizer == nil {
		d.Sizer = sizing.New(sizing.DefaultConfig())
	}
	if d.Paper == nil {
		d.Paper = paper.NewBook()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Default()
	}
	return d
}

// Analyzer runs one slate end to end: analyses, recommendations,
// sizing, policy, placement.
type Analyzer struct {
	cfg     *Config
	deps    Deps
	limiter *rate.Limiter
}

// NewAnalyzer builds an analyzer. cfg may be nil for defaults.
func NewAnalyzer(cfg *Config, deps Deps) *Analyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Fanout <= 0 {
		cfg.Fanout = 4
	}
	a := &Analyzer{cfg: cfg, deps: deps.withDefaults()}
	if cfg.RequestsPerSec > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Fanout)
	}
	return a
}

// SlateResult summarizes one analyzer run.
type SlateResult struct {
	Date            string                  `json:"date"`
	Games           int                     `json:"games"`
	Analyses        []*matchup.Analysis     `json:"analyses,omitempty"`
	Recommendations []oracle.Recommendation `json:"recommendations,omitempty"`
	Placed          []bets.ActiveBet        `json:"placed,omitempty"`
	Paper           []paper.Trade           `json:"paper,omitempty"`
	Vetoed          int                     `json:"vetoed"`
}

// RunSlate analyzes every game on the date and places the bets that
// survive sizing and policy. Declined picks go to the paper book.
func (a *Analyzer) RunSlate(ctx context.Context, date string) (*SlateResult, error) {
	runStart := time.Now()
	res := &SlateResult{Date: date}

	stageStart := time.Now()
	games, err := a.deps.Stats.Slate(ctx, date)
	if err != nil {
		a.deps.Metrics.RecordProviderError("stats")
		a.deps.Metrics.RecordWorkflow("analyze", "error", time.Since(runStart).Seconds())
		return nil, fmt.Errorf("fetching slate for %s: %w", date, err)
	}
	games = pending(games)
	res.Games = len(games)
	a.deps.Metrics.UpdateSlate(len(games))
	if len(games) == 0 {
		a.deps.Metrics.RecordWorkflow("analyze", "ok", time.Since(runStart).Seconds())
		return res, nil
	}

	standings, err := a.deps.Stats.Standings(ctx, a.cfg.Season)
	if err != nil {
		a.deps.Metrics.RecordProviderError("stats")
		log.Printf("[analyzer] standings unavailable for season %d: %v", a.cfg.Season, err)
	}
	a.deps.Metrics.RecordStage("discovery", time.Since(stageStart).Seconds())

	stageStart = time.Now()
	res.Analyses = a.analyzeGames(ctx, date, games, standings)
	a.deps.Metrics.RecordStage("analysis", time.Since(stageStart).Seconds())

	stageStart = time.Now()
	for _, analysis := range res.Analyses {
		if a.deps.Hub != nil {
			a.deps.Hub.BroadcastAnalysis(analysis)
			for _, s := range analysis.Signals {
				a.deps.Hub.BroadcastSignal(analysis.Matchup, s)
			}
		}
		recs, err := a.deps.Recommender.Recommend(ctx, analysis)
		if err != nil {
			log.Printf("[analyzer] recommend %s: %v", analysis.Matchup, err)
			continue
		}
		res.Recommendations = append(res.Recommendations, recs...)
	}
	a.deps.Metrics.RecordStage("recommend", time.Since(stageStart).Seconds())
	if len(res.Recommendations) == 0 {
		a.deps.Metrics.RecordWorkflow("analyze", "ok", time.Since(runStart).Seconds())
		return res, nil
	}

	stageStart = time.Now()
	slate, err := a.priceSlate(ctx, date, res.Recommendations)
	if err != nil {
		a.deps.Metrics.RecordWorkflow("analyze", "error", time.Since(runStart).Seconds())
		return res, err
	}
	snapshot := a.deps.Ledger.Available()
	batch := a.sizeSlate(ctx, res.Recommendations, slate, snapshot)
	a.deps.Metrics.RecordStage("sizing", time.Since(stageStart).Seconds())

	stageStart = time.Now()
	a.placeBatch(ctx, date, snapshot, batch, res)
	a.deps.Metrics.RecordStage("placement", time.Since(stageStart).Seconds())

	persistBankroll(a.cfg.BankrollPath, a.deps.Ledger)
	publishBankroll(a.deps)
	a.deps.Metrics.RecordWorkflow("analyze", "ok", time.Since(runStart).Seconds())
	return res, nil
}

// pending filters out games that already finished.
func pending(games []stats.RawGame) []stats.RawGame {
	out := games[:0]
	for _, g := range games {
		if g.StatusShort == 3 { // finished per the provider
			continue
		}
		out = append(out, g)
	}
	return out
}

func (a *Analyzer) analyzeGames(ctx context.Context, date string, games []stats.RawGame, standings map[string]stats.SeasonStanding) []*matchup.Analysis {
	sem := make(chan struct{}, a.cfg.Fanout)
	slots := make([]*matchup.Analysis, len(games))
	var wg sync.WaitGroup
	for i, g := range games {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, g stats.RawGame) {
			defer wg.Done()
			defer func() { <-sem }()
			start := time.Now()
			analysis, err := a.analyzeGame(ctx, date, g, standings)
			if err != nil {
				log.Printf("[analyzer] %s at %s: %v", g.VisitorName, g.HomeName, err)
				a.deps.Metrics.RecordAnalysis("error", time.Since(start).Seconds(), 0)
				return
			}
			a.deps.Metrics.RecordAnalysis("ok", time.Since(start).Seconds(), len(analysis.Signals))
			slots[i] = analysis
		}(i, g)
	}
	wg.Wait()

	analyses := make([]*matchup.Analysis, 0, len(games))
	for _, analysis := range slots {
		if analysis != nil {
			analyses = append(analyses, analysis)
		}
	}
	return analyses
}

func (a *Analyzer) analyzeGame(ctx context.Context, date string, game stats.RawGame, standings map[string]stats.SeasonStanding) (*matchup.Analysis, error) {
	home, err := a.teamContext(ctx, game.HomeName, standings)
	if err != nil {
		return nil, err
	}
	away, err := a.teamContext(ctx, game.VisitorName, standings)
	if err != nil {
		return nil, err
	}

	in := matchup.Input{
		GameID:              strconv.Itoa(game.ID),
		Date:                date,
		Team1:               home,
		Team2:               away,
		LeagueAvgEfficiency: a.cfg.LeagueAvgEfficiency,
		RotationSize:        a.cfg.RotationSize,
		Season:              a.cfg.Season,
		SeasonDecay:         a.cfg.SeasonDecay,
		RecentHalfLife:      a.cfg.RecentGameHalfLife,
		ReplacementFactor:   a.cfg.ReplacementFactor,
	}

	if a.deps.H2H != nil {
		if err := a.wait(ctx); err != nil {
			return nil, err
		}
		h2h, err := a.deps.H2H.HeadToHead(ctx, game.HomeName, game.VisitorName, a.h2hSeasons())
		if err != nil {
			a.deps.Metrics.RecordProviderError("h2h")
			log.Printf("[analyzer] h2h %s/%s: %v", game.HomeName, game.VisitorName, err)
		} else {
			in.H2H = h2h
		}
	}

	if a.deps.Injuries != nil {
		for _, team := range []string{game.HomeName, game.VisitorName} {
			if err := a.wait(ctx); err != nil {
				return nil, err
			}
			reports, err := a.deps.Injuries.Reports(ctx, team)
			if err != nil {
				a.deps.Metrics.RecordProviderError("injuries")
				log.Printf("[analyzer] injuries %s: %v", team, err)
				continue
			}
			in.Injuries = append(in.Injuries, reports...)
		}
	}

	return matchup.BuildMatchupAnalysis(in), nil
}

// teamContext fetches one side's raw material. A missing statistics
// feed fails the game; thinner feeds degrade to partial evidence.
func (a *Analyzer) teamContext(ctx context.Context, team string, standings map[string]stats.SeasonStanding) (matchup.TeamContext, error) {
	tc := matchup.TeamContext{Name: team}
	if s, ok := standings[team]; ok {
		tc.Standing = &s
	}

	if err := a.wait(ctx); err != nil {
		return tc, err
	}
	raw, err := a.deps.Stats.TeamStats(ctx, team, a.cfg.Season)
	if err != nil {
		a.deps.Metrics.RecordProviderError("stats")
		return tc, fmt.Errorf("team stats for %s: %w", team, err)
	}
	if raw != nil {
		processed := stats.ProcessTeamStats(*raw)
		tc.Stats = &processed
	}

	if err := a.wait(ctx); err != nil {
		return tc, err
	}
	lines, err := a.deps.Stats.PlayerLines(ctx, team, a.cfg.Season)
	if err != nil {
		a.deps.Metrics.RecordProviderError("stats")
		log.Printf("[analyzer] player lines %s: %v", team, err)
	} else {
		tc.Players = stats.ProcessPlayerStatistics(lines, a.cfg.PlayerPool, a.cfg.MinPlayerGames)
	}

	if err := a.wait(ctx); err != nil {
		return tc, err
	}
	teamGames, err := a.deps.Stats.TeamGames(ctx, team, a.cfg.Season)
	if err != nil {
		a.deps.Metrics.RecordProviderError("stats")
		log.Printf("[analyzer] games %s: %v", team, err)
	} else {
		tc.RecentGames = stats.BuildRecentGames(team, teamGames, standings, a.cfg.RecentGamesLimit)
	}

	return tc, nil
}

func (a *Analyzer) h2hSeasons() []int {
	back := a.cfg.H2HSeasonsBack
	if back <= 0 {
		back = 2
	}
	seasons := make([]int, 0, back)
	for i := 0; i < back; i++ {
		seasons = append(seasons, a.cfg.Season-i)
	}
	return seasons
}

// priceSlate turns recommendations into unsized bets, filling odds
// from the market where a price is available.
func (a *Analyzer) priceSlate(ctx context.Context, date string, recs []oracle.Recommendation) ([]bets.ActiveBet, error) {
	slate := make([]bets.ActiveBet, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		var price float64
		if a.deps.Odds != nil {
			if err := a.wait(ctx); err != nil {
				return nil, err
			}
			p, err := a.deps.Odds.MarketPrice(ctx, rec.GameID, rec.Type, rec.Pick)
			if err != nil {
				a.deps.Metrics.RecordProviderError("odds")
				log.Printf("[analyzer] odds %s %s: %v", rec.Matchup, rec.Pick, err)
			} else if p > 0 && p < 1 {
				price = p
				rec.OddsPrice = odds.PolyPriceToAmerican(p)
			}
		}
		b := rec.ToBet(date)
		b.PolyPrice = price
		slate = append(slate, b)
	}
	return slate, nil
}

// sizeSlate sizes the slate against a single bankroll snapshot. When
// an oracle sizer is wired it prices each bet, falling back to pure
// half-Kelly on error; otherwise the whole slate sizes through the
// Kelly engine directly.
func (a *Analyzer) sizeSlate(ctx context.Context, recs []oracle.Recommendation, slate []bets.ActiveBet, available decimal.Decimal) sizing.BatchResult {
	if a.deps.OracleSizer == nil {
		return a.deps.Sizer.SizeBatch(slate, available)
	}

	res := sizing.BatchResult{Committed: decimal.Zero}
	for i, bet := range slate {
		if !available.IsPositive() {
			res.Skipped = append(res.Skipped, sizing.SkippedBet{Bet: bet, Reason: "no bankroll available"})
			continue
		}
		amount, err := a.deps.OracleSizer.Size(ctx, recs[i], available)
		if err != nil {
			log.Printf("[analyzer] oracle sizing %s: %v", bet.Matchup, err)
			amount = a.deps.Sizer.HalfKellyAmount(bet.OddsPrice, bet.Confidence, available)
		}
		if !amount.IsPositive() {
			res.Skipped = append(res.Skipped, sizing.SkippedBet{Bet: bet, Reason: "no Kelly edge at these odds"})
			continue
		}
		if res.Committed.Add(amount).GreaterThan(available) {
			res.Skipped = append(res.Skipped, sizing.SkippedBet{Bet: bet, Reason: "stake would exceed bankroll snapshot"})
			continue
		}
		bet.Amount = amount
		res.Sized = append(res.Sized, bet)
		res.Committed = res.Committed.Add(amount)
	}
	return res
}

// placeBatch gates sized bets through policy, commits the survivors'
// stakes as one ledger batch and records them. Everything declined
// lands in the paper book with its reason.
func (a *Analyzer) placeBatch(ctx context.Context, date string, snapshot decimal.Decimal, batch sizing.BatchResult, res *SlateResult) {
	approved := make([]bets.ActiveBet, 0, len(batch.Sized))
	for _, b := range batch.Sized {
		if a.deps.Policy != nil {
			if err := a.deps.Policy.CheckBet(b, snapshot); err != nil {
				a.deps.Metrics.RecordPolicyVeto(err.Error())
				res.Paper = append(res.Paper, a.paperRecord(b, err.Error()))
				res.Vetoed++
				continue
			}
		}
		approved = append(approved, b)
	}

	if len(approved) > 0 {
		txs := make([]ledger.Transaction, 0, len(approved))
		for _, b := range approved {
			txs = append(txs, ledger.Transaction{
				Date:        date,
				Type:        ledger.TxBet,
				Amount:      b.Amount.Neg(),
				BetID:       b.ID,
				Description: fmt.Sprintf("%s %s", b.Type, b.Pick),
			})
		}
		if err := a.deps.Ledger.Commit(txs); err != nil {
			log.Printf("[analyzer] ledger commit: %v", err)
			for _, b := range approved {
				res.Paper = append(res.Paper, a.paperRecord(b, "ledger: "+err.Error()))
			}
			approved = nil
		}
	}

	for _, b := range approved {
		if err := a.deps.Placer.Place(ctx, b); err != nil {
			// The stake is already committed; the bet stands as
			// unfilled until the next run retries placement upstream.
			a.deps.Metrics.RecordProviderError("placer")
			log.Printf("[analyzer] place %s %s: %v", b.Matchup, b.Pick, err)
		}
		if a.deps.Store != nil {
			if err := a.deps.Store.InsertActive(b); err != nil {
				log.Printf("[analyzer] store %s: %v", b.ID, err)
			}
		}
		if a.deps.Policy != nil {
			a.deps.Policy.RecordPlacement(b)
		}
		a.deps.Metrics.RecordBet(b.Type.String(), string(b.Confidence),
			metrics.DecimalToFloat64(b.Amount), metrics.DecimalToFloat64(a.deps.Ledger.Available()))
		if a.deps.Hub != nil {
			a.deps.Hub.BroadcastBetSized(b)
		}
		res.Placed = append(res.Placed, b)
	}

	for _, sk := range batch.Skipped {
		res.Paper = append(res.Paper, a.paperRecord(sk.Bet, sk.Reason))
	}
}

func (a *Analyzer) paperRecord(b bets.ActiveBet, reason string) paper.Trade {
	t := a.deps.Paper.Record(b, reason)
	a.deps.Metrics.RecordPaperTrade(reason)
	if a.deps.Hub != nil {
		a.deps.Hub.BroadcastPaperTrade(t)
	}
	return t
}

// persistBankroll saves the ledger snapshot when a path is configured.
func persistBankroll(path string, l *ledger.Ledger) {
	if path == "" || l == nil {
		return
	}
	if err := store.SaveBankroll(path, l.Snapshot()); err != nil {
		log.Printf("[workflow] saving bankroll: %v", err)
	}
}

// publishBankroll pushes the current balance and exposure to metrics
// and the stream.
func publishBankroll(d Deps) {
	balance := d.Ledger.Available()
	exposure := decimal.Zero
	openBets := 0
	if d.Store != nil {
		if e, err := d.Store.OpenExposure(); err == nil {
			exposure = e
		}
		if active, err := d.Store.ActiveBets(); err == nil {
			openBets = len(active)
		}
	} else if d.Policy != nil {
		exposure = d.Policy.OpenExposure()
	}

	dailyPnL := 0.0
	if d.Policy != nil {
		status := d.Policy.CurrentStatus()
		if d.Store == nil {
			openBets = status.OpenBets
		}
		loss, _ := d.Policy.DailyStats()
		dailyPnL = -metrics.DecimalToFloat64(loss)
		d.Metrics.UpdatePolicy(status.InCooldown, status.DailyBets)
	}
	d.Metrics.UpdateBankroll(metrics.DecimalToFloat64(balance),
		metrics.DecimalToFloat64(exposure), dailyPnL, openBets)
	if d.Hub != nil {
		d.Hub.BroadcastBankroll(balance.StringFixed(2), exposure.StringFixed(2))
	}
}

func (a *Analyzer) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}
