package markets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtside/courtside-agents/pkg/polymarket/gamma"
	"github.com/courtside/courtside-agents/pkg/trader/bets"
)

type fakeLister struct {
	markets []gamma.Market
	err     error
	calls   int
}

func (f *fakeLister) ListMarkets(_ context.Context, _ *gamma.MarketsFilter) ([]gamma.Market, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.markets, nil
}

func nbaMarket(slug string, outcomes, prices string) gamma.Market {
	return gamma.Market{
		Slug:             slug,
		Active:           true,
		AcceptingOrders:  true,
		OutcomesRaw:      outcomes,
		OutcomePricesRaw: prices,
	}
}

func TestMarketPriceMoneyline(t *testing.T) {
	lister := &fakeLister{markets: []gamma.Market{
		nbaMarket("epl-arsenal-chelsea", `["Arsenal","Chelsea"]`, `["0.40","0.60"]`),
		nbaMarket("nba-bos-mia-2025-01-20", `["Celtics","Heat"]`, `["0.62","0.38"]`),
	}}
	p := NewProvider(lister, time.Minute)

	price, err := p.MarketPrice(context.Background(), "101", bets.Moneyline, "Boston Celtics")
	if err != nil {
		t.Fatalf("MarketPrice: %v", err)
	}
	if price != 0.62 {
		t.Errorf("price = %v, want 0.62", price)
	}

	price, err = p.MarketPrice(context.Background(), "101", bets.Moneyline, "Miami Heat")
	if err != nil {
		t.Fatalf("MarketPrice: %v", err)
	}
	if price != 0.38 {
		t.Errorf("price = %v, want 0.38", price)
	}
}

func TestMarketPriceSkipsUntradeable(t *testing.T) {
	closed := nbaMarket("nba-bos-mia-2025-01-20", `["Celtics","Heat"]`, `["0.62","0.38"]`)
	closed.Closed = true
	lister := &fakeLister{markets: []gamma.Market{closed}}
	p := NewProvider(lister, time.Minute)

	if _, err := p.MarketPrice(context.Background(), "101", bets.Moneyline, "Boston Celtics"); !errors.Is(err, ErrNoMarket) {
		t.Errorf("err = %v, want ErrNoMarket", err)
	}
}

func TestMarketPriceNonMoneyline(t *testing.T) {
	lister := &fakeLister{}
	p := NewProvider(lister, time.Minute)

	if _, err := p.MarketPrice(context.Background(), "101", bets.Total, "under 219.5"); !errors.Is(err, ErrNoMarket) {
		t.Errorf("err = %v, want ErrNoMarket", err)
	}
	if lister.calls != 0 {
		t.Errorf("lister calls = %d, want 0", lister.calls)
	}
}

func TestMarketPriceUnknownTeam(t *testing.T) {
	lister := &fakeLister{markets: []gamma.Market{
		nbaMarket("nba-bos-mia-2025-01-20", `["Celtics","Heat"]`, `["0.62","0.38"]`),
	}}
	p := NewProvider(lister, time.Minute)

	if _, err := p.MarketPrice(context.Background(), "101", bets.Moneyline, "Denver Nuggets"); !errors.Is(err, ErrNoMarket) {
		t.Errorf("err = %v, want ErrNoMarket", err)
	}
}

func TestMarketPriceRejectsDegeneratePrices(t *testing.T) {
	lister := &fakeLister{markets: []gamma.Market{
		nbaMarket("nba-bos-mia-2025-01-20", `["Celtics","Heat"]`, `["1","0"]`),
	}}
	p := NewProvider(lister, time.Minute)

	if _, err := p.MarketPrice(context.Background(), "101", bets.Moneyline, "Boston Celtics"); !errors.Is(err, ErrNoMarket) {
		t.Errorf("err = %v, want ErrNoMarket", err)
	}
}

func TestListCaching(t *testing.T) {
	lister := &fakeLister{markets: []gamma.Market{
		nbaMarket("nba-bos-mia-2025-01-20", `["Celtics","Heat"]`, `["0.62","0.38"]`),
	}}
	p := NewProvider(lister, time.Minute)
	current := time.Unix(1737331200, 0)
	p.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if _, err := p.MarketPrice(context.Background(), "101", bets.Moneyline, "Boston Celtics"); err != nil {
			t.Fatalf("MarketPrice: %v", err)
		}
	}
	if lister.calls != 1 {
		t.Errorf("lister calls = %d, want 1", lister.calls)
	}

	current = current.Add(2 * time.Minute)
	if _, err := p.MarketPrice(context.Background(), "101", bets.Moneyline, "Boston Celtics"); err != nil {
		t.Fatalf("MarketPrice: %v", err)
	}
	if lister.calls != 2 {
		t.Errorf("lister calls = %d, want 2", lister.calls)
	}
}

func TestListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("gateway timeout")}
	p := NewProvider(lister, time.Minute)

	if _, err := p.MarketPrice(context.Background(), "101", bets.Moneyline, "Boston Celtics"); err == nil {
		t.Fatal("expected error")
	}
}
