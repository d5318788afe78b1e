// Package api exposes the engine's state as a read-only JSON API.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courtside/courtside-agents/pkg/trader/bets"
	"github.com/courtside/courtside-agents/pkg/trader/ledger"
	"github.com/courtside/courtside-agents/pkg/trader/metrics"
	"github.com/courtside/courtside-agents/pkg/trader/paper"
	"github.com/courtside/courtside-agents/pkg/trader/policy"
	"github.com/courtside/courtside-agents/pkg/trader/store"
	"github.com/courtside/courtside-agents/pkg/trader/streaming"
)

// Server serves engine state. Every endpoint is read-only; mutation
// happens only through the workflows.
type Server struct {
	store   *store.Store
	ledger  *ledger.Ledger
	paper   *paper.Book
	policy  *policy.Engine
	hub     *streaming.Hub
	metrics *metrics.BettingMetrics
}

// NewServer wires the components the API reads from. Any of them may
// be nil; the corresponding endpoints then return 503.
func NewServer(st *store.Store, l *ledger.Ledger, book *paper.Book, eng *policy.Engine, hub *streaming.Hub, m *metrics.BettingMetrics) *Server {
	return &Server{store: st, ledger: l, paper: book, policy: eng, hub: hub, metrics: m}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/bankroll", s.handleBankroll)
		r.Get("/bets/active", s.handleActiveBets)
		r.Get("/bets/history", s.handleHistory)
		r.Get("/paper", s.handlePaper)
		r.Get("/policy", s.handlePolicy)
	})

	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}
	if s.hub != nil {
		r.Get("/ws", s.hub.ServeWS)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBankroll(w http.ResponseWriter, _ *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "ledger not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Snapshot())
}

func (s *Server) handleActiveBets(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store not configured")
		return
	}
	active, err := s.store.ActiveBets()
	if err != nil {
		log.Printf("[api] active bets: %v", err)
		writeError(w, http.StatusInternalServerError, "loading active bets")
		return
	}
	if active == nil {
		active = []bets.ActiveBet{}
	}
	writeJSON(w, http.StatusOK, active)
}

// handleHistory returns settled bets plus the aggregate summary.
// ?limit=N bounds the bet list; the summary always covers everything.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store not configured")
		return
	}
	completed, err := s.store.CompletedBets(0)
	if err != nil {
		log.Printf("[api] history: %v", err)
		writeError(w, http.StatusInternalServerError, "loading history")
		return
	}
	summary := bets.SummarizeHistory(completed)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}
	if limit > 0 && len(completed) > limit {
		completed = completed[:limit]
	}
	if completed == nil {
		completed = []bets.CompletedBet{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"bets":    completed,
	})
}

func (s *Server) handlePaper(w http.ResponseWriter, _ *http.Request) {
	if s.paper == nil {
		writeError(w, http.StatusServiceUnavailable, "paper book not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": s.paper.Summary(),
		"open":    s.paper.Open(),
		"settled": s.paper.Settled(),
	})
}

func (s *Server) handlePolicy(w http.ResponseWriter, _ *http.Request) {
	if s.policy == nil {
		writeError(w, http.StatusServiceUnavailable, "policy not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.policy.CurrentStatus())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
