package matchup

// League baselines.
const (
	DefaultLeagueAvgEfficiency = 113.5
	DefaultLeagueAvgTotal      = 225.0
	LeagueAvgTotalMin          = 180.0
	LeagueAvgTotalMax          = 240.0

	// DefaultPace is the snapshot pace when no season stats exist.
	DefaultPace = 100.0
)

// Recency weighting.
const (
	// RecentGameHalfLife is the exponential half-life, in games, applied
	// to a team's recent-game log.
	RecentGameHalfLife = 3.0

	// SeasonDecay is the per-prior-season weight decay applied to
	// head-to-head history.
	SeasonDecay = 0.6
)

// Totals projection.
const (
	RegressionFactor    = 0.15
	H2HBlendWeight      = 0.4
	FallbackBlendWeight = 0.2
)

// Signal trigger thresholds.
const (
	BackToBackThreshold        = 1
	RestAdvantageThreshold     = 2
	StarDependencyThreshold    = 22.0
	AvailabilityThreshold      = 0.7
	StreakThreshold            = 3
	FormHotThreshold           = 0.7
	FormColdThreshold          = 0.3
	HomeStrongThreshold        = 0.6
	HomeWeakThreshold          = 0.4
	AwayStrongThreshold        = 0.55
	AwayWeakThreshold          = 0.35
	PPGEdgeThreshold           = 3.0
	NetRatingEdgeThreshold     = 3.0
	SOSEdgeThreshold           = 0.05
	HighScoringThreshold       = 0.6
	LowScoringThreshold        = 0.3
	CloseGameThreshold         = 0.4
	FastPaceThreshold          = 105.0
	SlowPaceThreshold          = 98.0
	ScoringTrendThreshold      = 5.0
	ScoringRegressionThreshold = 5.0
	H2HVarianceThreshold       = 15.0
	QuarterDiffThreshold       = 2.0
	HalftimeLeaderThreshold    = 0.65
	HalfScoringDiffThreshold   = 3.0
	FGPDiffThreshold           = 3.0
	TPPDiffThreshold           = 4.0
	TOVDiffThreshold           = 2.0
	REBDiffThreshold           = 3.0

	// Combined score above which a head-to-head meeting counts as
	// high scoring, and margin at or under which it counts as close.
	HighScoringTotal = 220
	CloseGameMargin  = 5
	BlowoutMargin    = 15
)

// Rotation analysis.
const (
	DefaultRotationSize = 6
	DepthScoreBalanced  = 5.0
)
