package matchup

// Edges quantifies team1's advantage over team2 on each metric. The
// sign convention is team1-relative everywhere: a positive value always
// reads as "favors team1", which is why the turnover edge is computed
// as team2's turnovers minus team1's.
type Edges struct {
	PPG               float64 `json:"ppg"`
	NetRating         float64 `json:"net_rating"`
	Form              float64 `json:"form"`
	Turnovers         float64 `json:"turnovers"`
	Rebounds          float64 `json:"rebounds"`
	FGP               float64 `json:"fgp"`
	ThreePtPct        float64 `json:"three_pt_pct"`
	Pace              float64 `json:"pace"`
	CombinedPace      float64 `json:"combined_pace"`
	WeightedForm      float64 `json:"weighted_form"`
	AdjustedNetRating float64 `json:"adjusted_net_rating"`
}

// ComputeEdges compares two snapshots field by field.
func ComputeEdges(team1, team2 *TeamSnapshot) Edges {
	return Edges{
		PPG:               round1(team1.PPG - team2.PPG),
		NetRating:         round2(team1.NetRating - team2.NetRating),
		Form:              round2(team1.LastTenPct - team2.LastTenPct),
		Turnovers:         round1(team2.TOPG - team1.TOPG),
		Rebounds:          round1(team1.RPG - team2.RPG),
		FGP:               round1(team1.FGP - team2.FGP),
		ThreePtPct:        round1(team1.TPP - team2.TPP),
		Pace:              round1(team1.Pace - team2.Pace),
		CombinedPace:      round1((team1.Pace + team2.Pace) / 2),
		WeightedForm:      round1(team1.RecentMargin - team2.RecentMargin),
		AdjustedNetRating: round2(team1.SOSAdjustedNetRating - team2.SOSAdjustedNetRating),
	}
}
