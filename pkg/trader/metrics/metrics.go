// Package metrics provides Prometheus metrics for the betting engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// BettingMetrics collects and exposes betting-related Prometheus metrics.
type BettingMetrics struct {
	registry *prometheus.Registry

	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	SignalsTotal     *prometheus.CounterVec
	GamesOnSlate     *prometheus.GaugeVec

	// Bet metrics
	BetsTotal    *prometheus.CounterVec
	BetStake     *prometheus.HistogramVec
	KellyStakePct *prometheus.HistogramVec
	OpenBets     *prometheus.GaugeVec

	// Settlement metrics
	SettlementsTotal *prometheus.CounterVec
	RealizedPnL      *prometheus.CounterVec

	// Bankroll metrics
	BankrollBalance *prometheus.GaugeVec
	OpenExposure    *prometheus.GaugeVec
	DailyPnL        *prometheus.GaugeVec

	// Policy metrics
	PolicyVetoes   *prometheus.CounterVec
	CooldownActive *prometheus.GaugeVec
	DailyBetsUsed  *prometheus.GaugeVec

	// Paper book metrics
	PaperTradesTotal *prometheus.CounterVec
	PaperUnitsPnL    *prometheus.GaugeVec

	// Workflow metrics
	WorkflowRuns     *prometheus.CounterVec
	WorkflowDuration *prometheus.HistogramVec
	StageLatency     *prometheus.HistogramVec
	ProviderErrors   *prometheus.CounterVec
}

// NewBettingMetrics creates a new betting metrics collector.
func NewBettingMetrics() *BettingMetrics {
	registry := prometheus.NewRegistry()

	bm := &BettingMetrics{
		registry: registry,

		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_analyses_total",
				Help: "Total number of matchup analyses produced",
			},
			[]string{"status"},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_analysis_duration_seconds",
				Help:    "Time to assemble one matchup analysis",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{},
		),
		SignalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_signals_total",
				Help: "Total number of betting signals generated",
			},
			[]string{},
		),
		GamesOnSlate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_games_on_slate",
				Help: "Number of games on the current slate",
			},
			[]string{},
		),

		BetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_bets_total",
				Help: "Total number of bets placed",
			},
			[]string{"bet_type", "confidence"},
		),
		BetStake: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_bet_stake_usd",
				Help:    "Bet stake in USD",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"confidence"},
		),
		KellyStakePct: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_kelly_stake_pct",
				Help:    "Stake as a fraction of bankroll",
				Buckets: prometheus.LinearBuckets(0, 0.005, 11), // 0 to 5%
			},
			[]string{"confidence"},
		),
		OpenBets: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_open_bets",
				Help: "Current number of open bets",
			},
			[]string{},
		),

		SettlementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_settlements_total",
				Help: "Total number of settled bets",
			},
			[]string{"bet_type", "result"},
		),
		RealizedPnL: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_realized_pnl_usd",
				Help: "Realized P&L in USD (can be negative)",
			},
			[]string{"bet_type"},
		),

		BankrollBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_bankroll_usd",
				Help: "Current bankroll balance in USD",
			},
			[]string{},
		),
		OpenExposure: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_open_exposure_usd",
				Help: "Total stake across open bets in USD",
			},
			[]string{},
		),
		DailyPnL: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_daily_pnl_usd",
				Help: "Today's P&L in USD",
			},
			[]string{},
		),

		PolicyVetoes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_policy_vetoes_total",
				Help: "Total number of bets vetoed by policy",
			},
			[]string{"reason"},
		),
		CooldownActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_cooldown_active",
				Help: "Whether the loss cooldown is active (1=yes, 0=no)",
			},
			[]string{},
		),
		DailyBetsUsed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_daily_bets_used",
				Help: "Number of bets placed today",
			},
			[]string{},
		),

		PaperTradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_paper_trades_total",
				Help: "Total number of paper trades recorded",
			},
			[]string{"reason"},
		),
		PaperUnitsPnL: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "courtside_paper_units_pnl",
				Help: "Cumulative paper book P&L in units",
			},
			[]string{},
		),

		WorkflowRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_workflow_runs_total",
				Help: "Total number of workflow runs",
			},
			[]string{"workflow", "status"},
		),
		WorkflowDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_workflow_duration_seconds",
				Help:    "Total workflow run duration",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~400s
			},
			[]string{"workflow"},
		),
		StageLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_stage_latency_seconds",
				Help:    "Individual stage latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"stage"},
		),
		ProviderErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_provider_errors_total",
				Help: "Total number of data provider errors",
			},
			[]string{"provider"},
		),
	}

	bm.registerAll()
	return bm
}

func (bm *BettingMetrics) registerAll() {
	bm.registry.MustRegister(
		bm.AnalysesTotal,
		bm.AnalysisDuration,
		bm.SignalsTotal,
		bm.GamesOnSlate,
		bm.BetsTotal,
		bm.BetStake,
		bm.KellyStakePct,
		bm.OpenBets,
		bm.SettlementsTotal,
		bm.RealizedPnL,
		bm.BankrollBalance,
		bm.OpenExposure,
		bm.DailyPnL,
		bm.PolicyVetoes,
		bm.CooldownActive,
		bm.DailyBetsUsed,
		bm.PaperTradesTotal,
		bm.PaperUnitsPnL,
		bm.WorkflowRuns,
		bm.WorkflowDuration,
		bm.StageLatency,
		bm.ProviderErrors,
	)
}

// Registry returns the prometheus registry.
func (bm *BettingMetrics) Registry() *prometheus.Registry {
	return bm.registry
}

// --- Helper methods for recording metrics ---

// RecordAnalysis records a matchup analysis run.
func (bm *BettingMetrics) RecordAnalysis(status string, durationSec float64, signals int) {
	bm.AnalysesTotal.WithLabelValues(status).Inc()
	if durationSec > 0 {
		bm.AnalysisDuration.WithLabelValues().Observe(durationSec)
	}
	if signals > 0 {
		bm.SignalsTotal.WithLabelValues().Add(float64(signals))
	}
}

// RecordBet records a bet placement.
func (bm *BettingMetrics) RecordBet(betType, confidence string, stakeUSD, bankrollUSD float64) {
	bm.BetsTotal.WithLabelValues(betType, confidence).Inc()
	if stakeUSD > 0 {
		bm.BetStake.WithLabelValues(confidence).Observe(stakeUSD)
	}
	if bankrollUSD > 0 {
		bm.KellyStakePct.WithLabelValues(confidence).Observe(stakeUSD / bankrollUSD)
	}
}

// RecordSettlement records a settled bet.
func (bm *BettingMetrics) RecordSettlement(betType, result string, pnlUSD float64) {
	bm.SettlementsTotal.WithLabelValues(betType, result).Inc()
	bm.RealizedPnL.WithLabelValues(betType).Add(pnlUSD)
}

// UpdateBankroll updates bankroll gauges.
func (bm *BettingMetrics) UpdateBankroll(balance, exposure, dailyPnL float64, openBets int) {
	bm.BankrollBalance.WithLabelValues().Set(balance)
	bm.OpenExposure.WithLabelValues().Set(exposure)
	bm.DailyPnL.WithLabelValues().Set(dailyPnL)
	bm.OpenBets.WithLabelValues().Set(float64(openBets))
}

// RecordPolicyVeto records a vetoed bet.
func (bm *BettingMetrics) RecordPolicyVeto(reason string) {
	bm.PolicyVetoes.WithLabelValues(reason).Inc()
}

// UpdatePolicy updates policy gauges.
func (bm *BettingMetrics) UpdatePolicy(cooldownActive bool, dailyBets int) {
	if cooldownActive {
		bm.CooldownActive.WithLabelValues().Set(1)
	} else {
		bm.CooldownActive.WithLabelValues().Set(0)
	}
	bm.DailyBetsUsed.WithLabelValues().Set(float64(dailyBets))
}

// RecordPaperTrade records a trade entering the shadow book.
func (bm *BettingMetrics) RecordPaperTrade(reason string) {
	bm.PaperTradesTotal.WithLabelValues(reason).Inc()
}

// UpdatePaperBook updates the paper book P&L gauge.
func (bm *BettingMetrics) UpdatePaperBook(unitsPnL float64) {
	bm.PaperUnitsPnL.WithLabelValues().Set(unitsPnL)
}

// RecordWorkflow records a workflow run.
func (bm *BettingMetrics) RecordWorkflow(workflow, status string, durationSec float64) {
	bm.WorkflowRuns.WithLabelValues(workflow, status).Inc()
	if durationSec > 0 {
		bm.WorkflowDuration.WithLabelValues(workflow).Observe(durationSec)
	}
}

// RecordStage records a stage execution.
func (bm *BettingMetrics) RecordStage(stage string, durationSec float64) {
	bm.StageLatency.WithLabelValues(stage).Observe(durationSec)
}

// RecordProviderError records a data provider failure.
func (bm *BettingMetrics) RecordProviderError(provider string) {
	bm.ProviderErrors.WithLabelValues(provider).Inc()
}

// UpdateSlate updates the slate size gauge.
func (bm *BettingMetrics) UpdateSlate(games int) {
	bm.GamesOnSlate.WithLabelValues().Set(float64(games))
}

// --- Decimal helpers ---

// DecimalToFloat64 safely converts decimal.Decimal to float64 for metrics.
func DecimalToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Global instance for convenience
var defaultMetrics *BettingMetrics
var once sync.Once

// Default returns the default global metrics instance.
func Default() *BettingMetrics {
	once.Do(func() {
		defaultMetrics = NewBettingMetrics()
	})
	return defaultMetrics
}
