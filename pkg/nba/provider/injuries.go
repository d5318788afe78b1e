package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/courtside/courtside-agents/pkg/nba/injury"
)

// injuryRecord is one row from the injuries feed.
type injuryRecord struct {
	Date   string `json:"date"`
	Team   string `json:"team"`
	Player string `json:"player"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Reports returns today's injury reports for one team. The feed is
// per-date, so the day's list is fetched once and filtered per call.
func (c *Client) Reports(ctx context.Context, team string) ([]injury.Report, error) {
	date := time.Now().UTC().Format("2006-01-02")
	records, err := c.injuriesForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	var reports []injury.Report
	for _, r := range records {
		if !strings.EqualFold(r.Team, team) {
			continue
		}
		reports = append(reports, injury.Report{
			Team:   r.Team,
			Player: r.Player,
			Status: r.Status,
		})
	}
	return reports, nil
}

func (c *Client) injuriesForDate(ctx context.Context, date string) ([]injuryRecord, error) {
	c.injMu.Lock()
	defer c.injMu.Unlock()
	if c.injDate == date {
		return c.injReports, nil
	}

	body, err := c.fetch(ctx, c.injuriesURL+"/injuries/nba/"+date, injuriesHost)
	if err != nil {
		return nil, fmt.Errorf("fetching injuries for %s: %w", date, err)
	}
	var records []injuryRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding injuries: %w", err)
	}

	c.injDate = date
	c.injReports = records
	return records, nil
}
