package provider

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/courtside/courtside-agents/pkg/cache"
	"github.com/courtside/courtside-agents/pkg/nba/matchup"
	"github.com/courtside/courtside-agents/pkg/nba/stats"
)

// LeagueAvgEfficiency computes the league-average offensive rating,
// (ppg / pace) * 100, across every franchise. The figure moves slowly,
// so it is cached under a season-scoped key. Any failure falls back to
// the historical default rather than erroring the pipeline.
func (c *Client) LeagueAvgEfficiency(ctx context.Context, season int, store cache.Cache, ttl time.Duration) float64 {
	key := fmt.Sprintf("league_avg_efficiency:%d", season)
	if store != nil {
		if v, err := cache.GetFloat64(ctx, store, key); err == nil {
			return v
		}
	}

	table, err := c.teams(ctx)
	if err != nil {
		log.Printf("[provider] league efficiency: %v", err)
		return matchup.DefaultLeagueAvgEfficiency
	}

	var sum float64
	var n int
	for name := range table {
		raw, err := c.TeamStats(ctx, name, season)
		if err != nil {
			log.Printf("[provider] league efficiency %s: %v", name, err)
			continue
		}
		processed := stats.ProcessTeamStats(*raw)
		if processed.Pace <= 0 {
			continue
		}
		sum += processed.PPG / processed.Pace * 100
		n++
	}
	if n == 0 {
		return matchup.DefaultLeagueAvgEfficiency
	}

	efficiency := math.RoundToEven(sum/float64(n)*10) / 10
	if store != nil {
		if err := cache.SetFloat64(ctx, store, key, efficiency, ttl); err != nil {
			log.Printf("[provider] caching league efficiency: %v", err)
		}
	}
	return efficiency
}
