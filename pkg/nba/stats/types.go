package stats

// RawPlayerGameLine is one player's box-score line for a single game,
// as delivered by the stats provider. String fields keep the provider's
// formatting ("MM:SS" minutes, "+12"/"--" plus-minus).
type RawPlayerGameLine struct {
	PlayerID  int
	FirstName string
	LastName  string
	Min       string
	Points    int
	TotReb    int
	OffReb    int
	DefReb    int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	FGM       int
	FGA       int
	TPM       int
	TPA       int
	FTM       int
	FTA       int
	PlusMinus string
}

// ProcessedPlayerStats is a player's per-game averages over a qualifying
// window of games.
type ProcessedPlayerStats struct {
	PlayerID   int     `json:"player_id"`
	Name       string  `json:"name"`
	LastName   string  `json:"last_name"`
	Games      int     `json:"games"`
	MPG        float64 `json:"mpg"`
	PPG        float64 `json:"ppg"`
	RPG        float64 `json:"rpg"`
	APG        float64 `json:"apg"`
	Disruption float64 `json:"disruption"`
	FGP        float64 `json:"fgp"`
	TPP        float64 `json:"tpp"`
	PlusMinus  float64 `json:"plus_minus"`
}

// RawTeamStats is a team's season-total line from the stats provider.
// Percentage fields arrive as strings and may be empty.
type RawTeamStats struct {
	Games     int
	Points    int
	FGA       int
	FTA       int
	FGP       string
	TPP       string
	TotReb    int
	OffReb    int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	PlusMinus int
}

// ProcessedTeamStats holds a team's per-game season averages plus the
// derived pace and net rating.
type ProcessedTeamStats struct {
	Games      int     `json:"games"`
	PPG        float64 `json:"ppg"`
	Pace       float64 `json:"pace"`
	NetRating  float64 `json:"net_rating"`
	FGP        float64 `json:"fgp"`
	TPP        float64 `json:"tpp"`
	RPG        float64 `json:"rpg"`
	APG        float64 `json:"apg"`
	TOPG       float64 `json:"topg"`
	Disruption float64 `json:"disruption"`
}

// RawStanding is a team's standings line from the provider.
type RawStanding struct {
	Season         int
	Wins           int
	Losses         int
	ConferenceRank int
	HomeWins       int
	HomeLosses     int
	AwayWins       int
	AwayLosses     int
	LastTenWins    int
	LastTenLosses  int
}

// SeasonStanding carries the raw standings counts alongside ratios that
// are derived once at ingestion and never recomputed downstream.
type SeasonStanding struct {
	Season             int     `json:"season"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	ConferenceRank     int     `json:"conference_rank"`
	HomeWins           int     `json:"home_wins"`
	HomeLosses         int     `json:"home_losses"`
	AwayWins           int     `json:"away_wins"`
	AwayLosses         int     `json:"away_losses"`
	LastTenWins        int     `json:"last_ten_wins"`
	LastTenLosses      int     `json:"last_ten_losses"`
	WinPct             float64 `json:"win_pct"`
	HomeWinPct         float64 `json:"home_win_pct"`
	AwayWinPct         float64 `json:"away_win_pct"`
	LastTenPct         float64 `json:"last_ten_pct"`
	HomeCourtAdvantage float64 `json:"home_court_advantage"`
}

// RawGame is one game record from the provider's schedule feed. Scores
// come through as strings and are validated during processing.
type RawGame struct {
	ID           int
	Date         string // may carry a time suffix, e.g. "2025-01-12T00:30:00Z"
	Season       int
	StatusShort  int // 3 == finished
	HomeName     string
	VisitorName  string
	HomeScore    string
	VisitorScore string
}

// RecentGame is one completed game seen from a single team's
// perspective.
type RecentGame struct {
	Vs       string  `json:"vs"`
	VsRecord string  `json:"vs_record"`
	VsWinPct float64 `json:"vs_win_pct"`
	Result   string  `json:"result"` // "W" or "L"
	Score    string  `json:"score"`  // "120-110", team's points first
	Home     bool    `json:"home"`
	Margin   int     `json:"margin"`
	Date     string  `json:"date"` // "YYYY-MM-DD"
}
