package workflow

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Runner drives the analyzer and settler on their own tickers.
type Runner struct {
	analyzer *Analyzer
	settler  *Settler

	analyzeEvery time.Duration
	settleEvery  time.Duration
	// today supplies the slate date and is injectable for tests.
	today func() string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewRunner wires the two workflows into a background loop.
// Non-positive intervals fall back to 30m analysis and 10m settlement.
func NewRunner(analyzer *Analyzer, settler *Settler, analyzeEvery, settleEvery time.Duration) *Runner {
	if analyzeEvery <= 0 {
		analyzeEvery = 30 * time.Minute
	}
	if settleEvery <= 0 {
		settleEvery = 10 * time.Minute
	}
	return &Runner{
		analyzer:     analyzer,
		settler:      settler,
		analyzeEvery: analyzeEvery,
		settleEvery:  settleEvery,
		today: func() string {
			return time.Now().UTC().Format("2006-01-02")
		},
		stopCh: make(chan struct{}),
	}
}

// Start kicks off an immediate slate run and the background loops.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("runner already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	if _, err := r.analyzer.RunSlate(ctx, r.today()); err != nil {
		log.Printf("[workflow] initial slate run: %v", err)
	}

	go r.analyzeLoop(ctx)
	go r.settleLoop(ctx)
	return nil
}

// Stop halts the background loops.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		close(r.stopCh)
		r.running = false
	}
}

// IsRunning reports whether the loops are live.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) analyzeLoop(ctx context.Context) {
	ticker := time.NewTicker(r.analyzeEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			if _, err := r.analyzer.RunSlate(ctx, r.today()); err != nil {
				log.Printf("[workflow] slate run: %v", err)
			}
		}
	}
}

func (r *Runner) settleLoop(ctx context.Context) {
	ticker := time.NewTicker(r.settleEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			if _, err := r.settler.Run(ctx, r.today()); err != nil {
				log.Printf("[workflow] settlement run: %v", err)
			}
		}
	}
}
