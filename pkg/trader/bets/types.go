// Package bets defines the wager entity, its lifecycle and the
// settlement math.
package bets

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetType is a closed enumeration of supported wager types. Adding a
// type forces every switch over it to be revisited.
type BetType int

const (
	Moneyline BetType = iota
	Spread
	Total
	PlayerProp
)

func (t BetType) String() string {
	switch t {
	case Moneyline:
		return "moneyline"
	case Spread:
		return "spread"
	case Total:
		return "total"
	case PlayerProp:
		return "player_prop"
	}
	return fmt.Sprintf("BetType(%d)", int(t))
}

// ParseBetType reads the persisted form of a bet type.
func ParseBetType(s string) (BetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "moneyline":
		return Moneyline, nil
	case "spread":
		return Spread, nil
	case "total":
		return Total, nil
	case "player_prop", "prop":
		return PlayerProp, nil
	}
	return 0, fmt.Errorf("unknown bet type %q", s)
}

// MarshalJSON persists the string form.
func (t BetType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON reads the string form.
func (t *BetType) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBetType(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Confidence is the oracle's categorical conviction in a pick.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Units maps confidence to the fixed unit multiplier used by the paper
// book and reporting.
func (c Confidence) Units() float64 {
	switch c {
	case ConfidenceLow:
		return 0.5
	case ConfidenceHigh:
		return 2.0
	default:
		return 1.0
	}
}

// Result is a settled bet's outcome.
type Result string

const (
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
	ResultPush      Result = "push"
	ResultEarlyExit Result = "early_exit"
)

// ActiveBet is a proposed or placed wager. The sizing engine is the
// sole writer of Amount and OddsPrice.
type ActiveBet struct {
	ID          string          `json:"id"`
	GameID      string          `json:"game_id"`
	Matchup     string          `json:"matchup"`
	Type        BetType         `json:"bet_type"`
	Pick        string          `json:"pick"`
	Line        float64         `json:"line"`
	Confidence  Confidence      `json:"confidence"`
	Units       float64         `json:"units"`
	Reasoning   string          `json:"reasoning"`
	PrimaryEdge string          `json:"primary_edge"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	Amount      decimal.Decimal `json:"amount"`
	OddsPrice   int             `json:"odds_price"`
	PolyPrice   float64         `json:"poly_price,omitempty"`
}

// NewActiveBet creates an unsized bet for a game date.
func NewActiveBet(gameID, matchupName string, betType BetType, pick string, line float64, confidence Confidence, date string) ActiveBet {
	return ActiveBet{
		ID:         uuid.NewString(),
		GameID:     gameID,
		Matchup:    matchupName,
		Type:       betType,
		Pick:       pick,
		Line:       line,
		Confidence: confidence,
		Units:      confidence.Units(),
		Date:       date,
		CreatedAt:  time.Now().UTC(),
	}
}

// CompletedBet is a settled wager. The settlement workflow is the sole
// writer of Result and ProfitLoss.
type CompletedBet struct {
	ActiveBet
	Result       Result          `json:"result"`
	Winner       string          `json:"winner,omitempty"`
	FinalScore   string          `json:"final_score,omitempty"`
	ActualTotal  int             `json:"actual_total,omitempty"`
	ActualMargin int             `json:"actual_margin,omitempty"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`
}
