package gamma

import (
	"encoding/json"
	"strconv"
	"time"
)

// Market is one binary market in the venue catalog. Outcomes and
// prices arrive as JSON arrays encoded inside strings, so they are
// kept raw and decoded on demand.
type Market struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Slug     string `json:"slug"`

	Active          bool `json:"active"`
	Closed          bool `json:"closed"`
	Archived        bool `json:"archived"`
	AcceptingOrders bool `json:"acceptingOrders"`

	OutcomesRaw      string `json:"outcomes"`
	OutcomePricesRaw string `json:"outcomePrices"`

	Liquidity  JSONFloat `json:"liquidity"`
	Volume     JSONFloat `json:"volume"`
	Volume24hr JSONFloat `json:"volume24hr"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// IsTradeable reports whether orders can currently be placed.
func (m *Market) IsTradeable() bool {
	return m.Active && !m.Closed && !m.Archived && m.AcceptingOrders
}

// Outcomes decodes the outcome labels. A malformed payload decodes to
// nil, which callers treat the same as an empty market.
func (m *Market) Outcomes() []string {
	var outcomes []string
	if m.OutcomesRaw == "" {
		return outcomes
	}
	json.Unmarshal([]byte(m.OutcomesRaw), &outcomes)
	return outcomes
}

// OutcomePrices decodes the per-outcome share prices, index-aligned
// with Outcomes.
func (m *Market) OutcomePrices() []string {
	var prices []string
	if m.OutcomePricesRaw == "" {
		return prices
	}
	json.Unmarshal([]byte(m.OutcomePricesRaw), &prices)
	return prices
}

// MarketsFilter narrows a catalog listing. Nil booleans are omitted
// from the query.
type MarketsFilter struct {
	Active *bool
	Closed *bool
	Slug   string
	Limit  int
	Offset int
}

// BoolPtr returns a pointer to b, for filter fields.
func BoolPtr(b bool) *bool {
	return &b
}

// JSONFloat decodes a number that the API serves as either a JSON
// number or a quoted string.
type JSONFloat float64

func (j *JSONFloat) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*j = JSONFloat(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*j = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*j = JSONFloat(f)
	return nil
}

// Float64 returns the plain float form.
func (j JSONFloat) Float64() float64 {
	return float64(j)
}
