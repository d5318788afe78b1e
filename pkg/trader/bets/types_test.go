package bets

import (
	"encoding/json"
	"testing"
)

func TestBetTypeRoundTrip(t *testing.T) {
	for _, bt := range []BetType{Moneyline, Spread, Total, PlayerProp} {
		parsed, err := ParseBetType(bt.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != bt {
			t.Fatalf("round trip %v -> %v", bt, parsed)
		}
	}
	if _, err := ParseBetType("parlay"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestBetTypeJSON(t *testing.T) {
	raw, err := json.Marshal(Spread)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `"spread"` {
		t.Fatalf("marshal = %s", raw)
	}
	var bt BetType
	if err := json.Unmarshal([]byte(`"player_prop"`), &bt); err != nil {
		t.Fatal(err)
	}
	if bt != PlayerProp {
		t.Fatalf("unmarshal = %v", bt)
	}
}

func TestConfidenceUnits(t *testing.T) {
	cases := []struct {
		c    Confidence
		want float64
	}{
		{ConfidenceLow, 0.5},
		{ConfidenceMedium, 1.0},
		{ConfidenceHigh, 2.0},
		{Confidence("unknown"), 1.0},
	}
	for _, tc := range cases {
		if got := tc.c.Units(); got != tc.want {
			t.Errorf("Units(%s) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestNewActiveBet(t *testing.T) {
	b := NewActiveBet("g42", "Miami Heat @ Boston Celtics", Moneyline, "Celtics", 0, ConfidenceHigh, "2025-01-15")
	if b.ID == "" {
		t.Fatal("missing id")
	}
	if b.Units != 2.0 {
		t.Fatalf("units = %v", b.Units)
	}
	if !b.Amount.IsZero() {
		t.Fatalf("unsized bet has amount %s", b.Amount)
	}
}
