// Package markets quotes prediction-market prices for NBA picks.
package markets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/courtside/courtside-agents/pkg/nba/names"
	"github.com/courtside/courtside-agents/pkg/polymarket/gamma"
	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

// ErrNoMarket means no tradeable market lists the pick. Callers fall
// back to the standard vig line.
var ErrNoMarket = errors.New("no tradeable market for pick")

// Lister is the slice of the markets API the provider needs.
type Lister interface {
	ListMarkets(ctx context.Context, filter *gamma.MarketsFilter) ([]gamma.Market, error)
}

// Provider resolves moneyline picks to live share prices. The market
// list is cached briefly so one slate does not refetch per pick.
type Provider struct {
	client Lister
	ttl    time.Duration
	limit  int

	mu        sync.Mutex
	markets   []gamma.Market
	fetchedAt time.Time
	now       func() time.Time
}

// NewProvider wraps a markets API client. A non-positive ttl defaults
// to five minutes.
func NewProvider(client Lister, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Provider{
		client: client,
		ttl:    ttl,
		limit:  500,
		now:    time.Now,
	}
}

// MarketPrice returns the share price in (0,1) for a pick. Only
// moneyline markets are listed per team; derivative picks have no
// venue market and return ErrNoMarket.
func (p *Provider) MarketPrice(ctx context.Context, _ string, betType bets.BetType, pick string) (float64, error) {
	if betType != bets.Moneyline {
		return 0, ErrNoMarket
	}

	listed, err := p.list(ctx)
	if err != nil {
		return 0, err
	}
	for i := range listed {
		m := &listed[i]
		if !m.IsTradeable() || !strings.HasPrefix(m.Slug, "nba-") {
			continue
		}
		price, ok := outcomePriceFor(m, pick)
		if !ok {
			continue
		}
		if price <= 0 || price >= 1 {
			continue
		}
		return price, nil
	}
	return 0, ErrNoMarket
}

func (p *Provider) list(ctx context.Context) ([]gamma.Market, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.markets != nil && p.now().Sub(p.fetchedAt) < p.ttl {
		return p.markets, nil
	}

	listed, err := p.client.ListMarkets(ctx, &gamma.MarketsFilter{
		Active: gamma.BoolPtr(true),
		Closed: gamma.BoolPtr(false),
		Limit:  p.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing markets: %w", err)
	}
	p.markets = listed
	p.fetchedAt = p.now()
	return listed, nil
}

// outcomePriceFor matches a team pick against a market's outcomes.
// Outcomes carry short team names ("Celtics"), picks full ones
// ("Boston Celtics").
func outcomePriceFor(m *gamma.Market, pick string) (float64, bool) {
	outcomes := m.Outcomes()
	prices := m.OutcomePrices()
	if len(outcomes) == 0 || len(outcomes) != len(prices) {
		return 0, false
	}
	for i, outcome := range outcomes {
		if !names.MatchTeam(outcome, pick) {
			continue
		}
		price, err := strconv.ParseFloat(prices[i], 64)
		if err != nil {
			return 0, false
		}
		return price, true
	}
	return 0, false
}
