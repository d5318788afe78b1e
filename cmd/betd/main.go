// courtside-betd is the NBA betting engine daemon.
// It analyzes each day's slate, sizes stakes with fractional Kelly and
// settles finished games against the bankroll ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside/courtside-agents/pkg/api"
	"github.com/courtside/courtside-agents/pkg/cache"
	"github.com/courtside/courtside-agents/pkg/config"
	"github.com/courtside/courtside-agents/pkg/nba/provider"
	"github.com/courtside/courtside-agents/pkg/polymarket/gamma"
	"github.com/courtside/courtside-agents/pkg/polymarket/markets"
	"github.com/courtside/courtside-agents/pkg/trader/ledger"
	"github.com/courtside/courtside-agents/pkg/trader/metrics"
	"github.com/courtside/courtside-agents/pkg/trader/oracle"
	"github.com/courtside/courtside-agents/pkg/trader/paper"
	"github.com/courtside/courtside-agents/pkg/trader/policy"
	"github.com/courtside/courtside-agents/pkg/trader/sizing"
	"github.com/courtside/courtside-agents/pkg/trader/store"
	"github.com/courtside/courtside-agents/pkg/trader/streaming"
	"github.com/courtside/courtside-agents/pkg/trader/workflow"
)

var (
	// Flags
	configPath = flag.String("config", "", "Path to YAML config file (optional)")
	httpAddr   = flag.String("http", "", "HTTP server address (overrides config)")
	tight      = flag.Bool("tight", false, "Use tight risk limits")
	once       = flag.Bool("once", false, "Run one analyze and settle pass, then exit")
	date       = flag.String("date", "", "Slate date YYYY-MM-DD for -once (default today)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("Starting Courtside Betting Engine")

	// Context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	engine, err := newEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer engine.store.Close()

	if *once {
		if err := engine.runOnce(ctx); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
		return
	}

	// Start HTTP server
	go engine.startHTTP(cfg.HTTPAddr)

	// Start the analyze/settle loops
	if err := engine.runner.Start(ctx); err != nil {
		log.Fatalf("Failed to start runner: %v", err)
	}

	log.Printf("Engine running (season=%d, http=%s)", cfg.Season, cfg.HTTPAddr)
	log.Printf("WebSocket streaming available at ws://%s/ws", cfg.HTTPAddr)
	log.Println("Press Ctrl+C to stop")

	// Wait for signal
	<-sigCh
	log.Println("Shutting down...")

	// Graceful shutdown
	engine.runner.Stop()
	cancel()

	engine.logFinalStats()
	log.Println("Goodbye!")
}

type bettingEngine struct {
	store        *store.Store
	ledger       *ledger.Ledger
	policyEngine *policy.Engine
	paperBook    *paper.Book
	analyzer     *workflow.Analyzer
	settler      *workflow.Settler
	runner       *workflow.Runner
	metrics      *metrics.BettingMetrics
	streamHub    *streaming.Hub
}

func newEngine(ctx context.Context, cfg config.Config) (*bettingEngine, error) {
	engine := &bettingEngine{
		metrics:   metrics.NewBettingMetrics(),
		streamHub: streaming.NewHub(),
	}

	// Start streaming hub
	go engine.streamHub.Run()

	if cfg.NBAAPIKey == "" {
		return nil, fmt.Errorf("NBA_API_KEY not set")
	}
	statsClient := provider.NewClient(cfg.NBAAPIKey, cfg.Season,
		provider.WithRateLimit(cfg.Workflow.RequestsPerSec, cfg.Workflow.Fanout))

	// League efficiency is expensive to compute, so it goes through a
	// long-lived cache.
	var cacheStore cache.Cache
	if cfg.RedisURL != "" {
		redis, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		cacheStore = redis
		log.Println("Using Redis cache")
	} else {
		cacheStore = cache.NewMemory()
		log.Println("No Redis URL configured - using in-memory cache")
	}
	leagueAvg := statsClient.LeagueAvgEfficiency(ctx, cfg.Season, cacheStore, cfg.Model.LeagueAvgCacheTTL.Std())
	log.Printf("League average efficiency: %.1f", leagueAvg)

	// Persistence
	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening bet store: %w", err)
	}
	engine.store = st

	engine.ledger, err = store.LoadBankroll(cfg.BankrollPath)
	if err != nil {
		return nil, fmt.Errorf("loading bankroll: %w", err)
	}
	log.Printf("Bankroll: $%s available", engine.ledger.Available().StringFixed(2))

	// Risk policy, rebuilt from any bets still open in the store
	limits := policy.DefaultRiskLimits()
	if *tight {
		limits = policy.TightRiskLimits()
	}
	engine.policyEngine = policy.NewEngine(limits)

	active, err := st.ActiveBets()
	if err != nil {
		return nil, fmt.Errorf("loading active bets: %w", err)
	}
	for _, b := range active {
		engine.policyEngine.RecordPlacement(b)
	}
	if len(active) > 0 {
		log.Printf("Restored %d open bets into risk policy", len(active))
	}

	engine.paperBook = paper.NewBook()

	// Sizing and recommendations
	sizer := sizing.New(sizing.Config{
		KellyMultiplier:     cfg.Sizing.KellyMultiplier,
		MaxBankrollFraction: cfg.Sizing.MaxBankrollFraction,
		OracleClipRatio:     cfg.Sizing.OracleClipRatio,
	})

	// Live moneyline prices from the prediction-market venue
	oddsProvider := markets.NewProvider(gamma.NewClient(), 5*time.Minute)

	wcfg := workflow.DefaultConfig()
	wcfg.Season = cfg.Season
	wcfg.Fanout = cfg.Workflow.Fanout
	wcfg.RequestsPerSec = cfg.Workflow.RequestsPerSec
	wcfg.LeagueAvgEfficiency = leagueAvg
	wcfg.RotationSize = cfg.Model.RotationSize
	wcfg.SeasonDecay = cfg.Model.SeasonDecay
	wcfg.RecentGameHalfLife = cfg.Model.RecentGameHalfLife
	wcfg.ReplacementFactor = cfg.Model.ReplacementFactor
	wcfg.BankrollPath = cfg.BankrollPath

	deps := workflow.Deps{
		Stats:       statsClient,
		Injuries:    statsClient,
		H2H:         statsClient,
		Odds:        oddsProvider,
		Recommender: oracle.NewRuleBased(),
		OracleSizer: oracle.NewKellySizer(sizer),
		Sizer:       sizer,
		Policy:      engine.policyEngine,
		Ledger:      engine.ledger,
		Store:       st,
		Paper:       engine.paperBook,
		Hub:         engine.streamHub,
		Metrics:     engine.metrics,
	}

	engine.analyzer = workflow.NewAnalyzer(wcfg, deps)
	engine.settler = workflow.NewSettler(wcfg, deps)
	engine.runner = workflow.NewRunner(engine.analyzer, engine.settler,
		cfg.Workflow.AnalyzeInterval.Std(), cfg.Workflow.SettleInterval.Std())

	return engine, nil
}

// runOnce settles yesterday's leftovers first so today's sizing sees
// the updated bankroll.
func (e *bettingEngine) runOnce(ctx context.Context) error {
	day := *date
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}

	settled, err := e.settler.Run(ctx, day)
	if err != nil {
		log.Printf("[WARN] Settle pass failed: %v", err)
	} else {
		log.Printf("Settled %d bets, %d paper trades", len(settled.Settled), settled.PaperSettled)
	}

	res, err := e.analyzer.RunSlate(ctx, day)
	if err != nil {
		return err
	}
	log.Printf("Slate %s: %d games, %d recommendations, %d placed, %d paper, %d vetoed",
		res.Date, res.Games, len(res.Recommendations), len(res.Placed), len(res.Paper), res.Vetoed)
	for _, b := range res.Placed {
		log.Printf("[BET] %s %s %s $%s @ %+d", b.Matchup, b.Type, b.Pick, b.Amount.StringFixed(2), b.OddsPrice)
	}
	e.logFinalStats()
	return nil
}

func (e *bettingEngine) startHTTP(addr string) {
	srv := api.NewServer(e.store, e.ledger, e.paperBook, e.policyEngine, e.streamHub, e.metrics)

	server := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("HTTP server listening on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("HTTP server error: %v", err)
	}
}

func (e *bettingEngine) logFinalStats() {
	stats := e.paperBook.Summary()
	log.Printf("Paper book: %d settled, win rate %.1f%%, %+.2f units (%s)",
		stats.SettledTrades, stats.WinRate*100, stats.UnitsPnL, stats.Verdict)
	log.Printf("Bankroll: $%s available", e.ledger.Available().StringFixed(2))
}
