package oracle

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/courtside/courtside-agents/pkg/nba/injury"
	"github.com/courtside/courtside-agents/pkg/nba/matchup"
	"github.com/courtside/courtside-agents/pkg/trader/bets"
	"github.com/courtside/courtside-agents/pkg/trader/sizing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func analysisFixture(adjustedNet float64) *matchup.Analysis {
	return &matchup.Analysis{
		GameID:  "g1",
		Matchup: "Miami Heat @ Boston Celtics",
		Team1:   &matchup.TeamSnapshot{Name: "Boston Celtics", PPG: 118.0},
		Team2:   &matchup.TeamSnapshot{Name: "Miami Heat", PPG: 110.0},
		Edges:   matchup.Edges{AdjustedNetRating: adjustedNet, CombinedPace: 100.0},
	}
}

func TestRecommendSidePick(t *testing.T) {
	r := NewRuleBased()

	cases := []struct {
		name        string
		adjustedNet float64
		wantPick    string
		wantConf    bets.Confidence
		wantNone    bool
	}{
		// Home court adds 2.0 to the home side's edge.
		{"strong home edge", 7.0, "Boston Celtics", bets.ConfidenceHigh, false},
		{"medium home edge", 3.5, "Boston Celtics", bets.ConfidenceMedium, false},
		{"thin home edge", 1.5, "Boston Celtics", bets.ConfidenceLow, false},
		{"road edge must clear home court", -4.0, "", "", true},
		{"strong road edge", -12.0, "Miami Heat", bets.ConfidenceHigh, false},
		{"no edge", 0.5, "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := r.Recommend(context.Background(), analysisFixture(tc.adjustedNet))
			if err != nil {
				t.Fatal(err)
			}
			if tc.wantNone {
				if len(recs) != 0 {
					t.Fatalf("recs = %+v, want none", recs)
				}
				return
			}
			if len(recs) != 1 {
				t.Fatalf("recs = %d, want 1", len(recs))
			}
			if recs[0].Pick != tc.wantPick {
				t.Fatalf("pick = %q, want %q", recs[0].Pick, tc.wantPick)
			}
			if recs[0].Confidence != tc.wantConf {
				t.Fatalf("confidence = %s, want %s", recs[0].Confidence, tc.wantConf)
			}
			if recs[0].Type != bets.Moneyline || recs[0].PrimaryEdge != "net_rating" {
				t.Fatalf("rec = %+v", recs[0])
			}
		})
	}
}

func TestRecommendInjuryDemotesConfidence(t *testing.T) {
	r := NewRuleBased()
	a := analysisFixture(7.0)
	// Celtics missing 20 of 118 PPG, past the 15% demotion line.
	a.Injuries = &injury.Impact{Team1: injury.TeamImpact{MissingPPG: 20.0}}

	recs, err := r.Recommend(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Confidence != bets.ConfidenceMedium {
		t.Fatalf("recs = %+v, want demoted to medium", recs)
	}
}

func TestRecommendTotalsLean(t *testing.T) {
	r := NewRuleBased()

	a := analysisFixture(0)
	a.Totals = &matchup.TotalsAnalysis{ExpectedTotal: 231.5, RecentScoringTrend: 3.0}
	a.Edges.CombinedPace = 106.0

	recs, err := r.Recommend(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("recs = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Type != bets.Total || rec.Pick != "over" || rec.Line != 231.5 {
		t.Fatalf("rec = %+v", rec)
	}
	// Fast combined pace promotes to medium.
	if rec.Confidence != bets.ConfidenceMedium {
		t.Fatalf("confidence = %s", rec.Confidence)
	}

	a.Totals = &matchup.TotalsAnalysis{ExpectedTotal: 205.0, RecentScoringTrend: -2.0}
	a.Edges.CombinedPace = 100.0
	recs, err = r.Recommend(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Pick != "under" || recs[0].Confidence != bets.ConfidenceLow {
		t.Fatalf("recs = %+v", recs)
	}

	// A mid-range projection leans nowhere.
	a.Totals = &matchup.TotalsAnalysis{ExpectedTotal: 215.0}
	recs, err = r.Recommend(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("recs = %+v, want none", recs)
	}
}

func TestRecommendRejectsNilAnalysis(t *testing.T) {
	r := NewRuleBased()
	if _, err := r.Recommend(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestKellySizer(t *testing.T) {
	k := NewKellySizer(sizing.New(sizing.Config{}))
	rec := Recommendation{OddsPrice: -110, Confidence: bets.ConfidenceMedium}

	got, err := k.Size(context.Background(), rec, dec("1000"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("30")) {
		t.Fatalf("stake = %s, want 30 (capped)", got)
	}
}

func TestClippedSizer(t *testing.T) {
	c := &ClippedSizer{Sizing: sizing.New(sizing.Config{MaxBankrollFraction: 0.5})}
	rec := Recommendation{OddsPrice: -110, Confidence: bets.ConfidenceMedium, SuggestedAmount: dec("100")}

	got, err := c.Size(context.Background(), rec, dec("1000"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("58.2")) {
		t.Fatalf("clipped = %s, want 58.2", got)
	}

	// No suggestion falls back to half-Kelly.
	rec.SuggestedAmount = decimal.Zero
	got, err = c.Size(context.Background(), rec, dec("1000"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("48.5")) {
		t.Fatalf("fallback = %s, want 48.5", got)
	}
}

func TestToBet(t *testing.T) {
	rec := Recommendation{
		GameID:      "g1",
		Matchup:     "Miami Heat @ Boston Celtics",
		Type:        bets.Moneyline,
		Pick:        "Boston Celtics",
		Confidence:  bets.ConfidenceHigh,
		Reasoning:   "edge",
		PrimaryEdge: "net_rating",
		OddsPrice:   -150,
	}
	b := rec.ToBet("2025-01-15")
	if b.GameID != "g1" || b.OddsPrice != -150 || b.Units != 2.0 || b.Date != "2025-01-15" {
		t.Fatalf("bet = %+v", b)
	}
}
