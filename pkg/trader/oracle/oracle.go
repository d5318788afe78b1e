// Package oracle turns matchup analyses into bet recommendations. The
// recommender boundary is an interface so a model-backed implementation
// can replace the rule-based one without touching the workflow.
package oracle

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/courtside/courtside-agents/pkg/nba/matchup"
	"github.com/courtside/courtside-agents/pkg/trader/bets"
	"github.com/courtside/courtside-agents/pkg/trader/sizing"
)

// Recommendation is one suggested wager on a game.
type Recommendation struct {
	GameID      string          `json:"game_id"`
	Matchup     string          `json:"matchup"`
	Type        bets.BetType    `json:"bet_type"`
	Pick        string          `json:"pick"`
	Line        float64         `json:"line"`
	Confidence  bets.Confidence `json:"confidence"`
	Reasoning   string          `json:"reasoning"`
	PrimaryEdge string          `json:"primary_edge"`
	OddsPrice   int             `json:"odds_price"`
	// SuggestedAmount is optional. Zero means the recommender leaves
	// sizing entirely to the sizer.
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
}

// Recommender proposes wagers from a finished analysis.
type Recommender interface {
	Recommend(ctx context.Context, analysis *matchup.Analysis) ([]Recommendation, error)
}

// Sizer prices a recommendation against the available bankroll.
type Sizer interface {
	Size(ctx context.Context, rec Recommendation, available decimal.Decimal) (decimal.Decimal, error)
}

// RuleBased recommends from the computed edges alone. Thresholds are
// in net-rating points.
type RuleBased struct {
	// MinEdge is the minimum adjusted net-rating gap (home court
	// included) to recommend a side.
	MinEdge float64
	// MediumEdge and HighEdge promote confidence tiers.
	MediumEdge float64
	HighEdge   float64
	// HomeCourtBump is added to the home side's composite edge.
	HomeCourtBump float64
	// OverTotal and UnderTotal bound the projected-total leans.
	OverTotal  float64
	UnderTotal float64
}

// NewRuleBased returns the standard thresholds.
func NewRuleBased() *RuleBased {
	return &RuleBased{
		MinEdge:       3.0,
		MediumEdge:    5.0,
		HighEdge:      8.0,
		HomeCourtBump: 2.0,
		OverTotal:     matchup.HighScoringTotal,
		UnderTotal:    210.0,
	}
}

// Recommend derives at most one side pick and one totals lean per game.
func (r *RuleBased) Recommend(_ context.Context, analysis *matchup.Analysis) ([]Recommendation, error) {
	if analysis == nil || analysis.Team1 == nil || analysis.Team2 == nil {
		return nil, fmt.Errorf("analysis missing team snapshots")
	}

	var recs []Recommendation
	if side := r.sidePick(analysis); side != nil {
		recs = append(recs, *side)
	}
	if total := r.totalsLean(analysis); total != nil {
		recs = append(recs, *total)
	}
	return recs, nil
}

func (r *RuleBased) sidePick(a *matchup.Analysis) *Recommendation {
	// Team1 is the home team; the composite edge is from its
	// perspective.
	edge := a.Edges.AdjustedNetRating + r.HomeCourtBump

	pick, pickedTeam := a.Team1.Name, a.Team1
	magnitude := edge
	if edge < 0 {
		pick, pickedTeam = a.Team2.Name, a.Team2
		magnitude = -edge
	}
	if magnitude < r.MinEdge {
		return nil
	}

	confidence := bets.ConfidenceLow
	switch {
	case magnitude >= r.HighEdge:
		confidence = bets.ConfidenceHigh
	case magnitude >= r.MediumEdge:
		confidence = bets.ConfidenceMedium
	}

	// A side missing a big share of its offense does not deserve the
	// raw-numbers conviction.
	if a.Injuries != nil && confidence != bets.ConfidenceLow {
		impact := a.Injuries.Team1
		if pickedTeam == a.Team2 {
			impact = a.Injuries.Team2
		}
		if pickedTeam.PPG > 0 && impact.MissingPPG/pickedTeam.PPG > 0.15 {
			confidence = demote(confidence)
		}
	}

	return &Recommendation{
		GameID:      a.GameID,
		Matchup:     a.Matchup,
		Type:        bets.Moneyline,
		Pick:        pick,
		Confidence:  confidence,
		Reasoning:   fmt.Sprintf("%s holds a %.1f-point adjusted net rating edge", pick, magnitude),
		PrimaryEdge: "net_rating",
	}
}

func (r *RuleBased) totalsLean(a *matchup.Analysis) *Recommendation {
	t := a.Totals
	if t == nil {
		return nil
	}

	var pick string
	switch {
	case t.ExpectedTotal >= r.OverTotal && t.RecentScoringTrend >= 0:
		pick = "over"
	case t.ExpectedTotal <= r.UnderTotal && t.RecentScoringTrend <= 0:
		pick = "under"
	default:
		return nil
	}

	confidence := bets.ConfidenceLow
	if (pick == "over" && a.Edges.CombinedPace > matchup.FastPaceThreshold) ||
		(pick == "under" && a.Edges.CombinedPace < matchup.SlowPaceThreshold) {
		confidence = bets.ConfidenceMedium
	}

	return &Recommendation{
		GameID:      a.GameID,
		Matchup:     a.Matchup,
		Type:        bets.Total,
		Pick:        pick,
		Line:        t.ExpectedTotal,
		Confidence:  confidence,
		Reasoning:   fmt.Sprintf("projected total %.1f with recent trend %+.1f", t.ExpectedTotal, t.RecentScoringTrend),
		PrimaryEdge: "pace",
	}
}

func demote(c bets.Confidence) bets.Confidence {
	switch c {
	case bets.ConfidenceHigh:
		return bets.ConfidenceMedium
	default:
		return bets.ConfidenceLow
	}
}

// KellySizer is the default Sizer: pure half-Kelly from the confidence
// tier, ignoring any suggested amount.
type KellySizer struct {
	Sizing *sizing.Sizer
}

// NewKellySizer wraps a sizing engine as the fallback Sizer.
func NewKellySizer(s *sizing.Sizer) *KellySizer {
	return &KellySizer{Sizing: s}
}

// Size returns the half-Kelly stake for the recommendation.
func (k *KellySizer) Size(_ context.Context, rec Recommendation, available decimal.Decimal) (decimal.Decimal, error) {
	return k.Sizing.HalfKellyAmount(rec.OddsPrice, rec.Confidence, available), nil
}

// ClippedSizer honors a recommendation's suggested amount but bounds it
// by the sizing engine's clip, and falls back to half-Kelly when no
// amount was suggested.
type ClippedSizer struct {
	Sizing *sizing.Sizer
}

// Size applies the clip to the suggested amount.
func (c *ClippedSizer) Size(_ context.Context, rec Recommendation, available decimal.Decimal) (decimal.Decimal, error) {
	if !rec.SuggestedAmount.IsPositive() {
		return c.Sizing.HalfKellyAmount(rec.OddsPrice, rec.Confidence, available), nil
	}
	return c.Sizing.ClipAmount(rec.SuggestedAmount, rec.OddsPrice, rec.Confidence, available), nil
}

// ToBet converts a recommendation into an unsized active bet.
func (rec Recommendation) ToBet(date string) bets.ActiveBet {
	b := bets.NewActiveBet(rec.GameID, rec.Matchup, rec.Type, rec.Pick, rec.Line, rec.Confidence, date)
	b.Reasoning = rec.Reasoning
	b.PrimaryEdge = rec.PrimaryEdge
	b.OddsPrice = rec.OddsPrice
	return b
}
