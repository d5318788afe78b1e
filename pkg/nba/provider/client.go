// Package provider fetches NBA schedule, statistics and injury data
// and adapts it to the engine's raw types.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the stats API base URL.
	DefaultBaseURL = "https://v2.nba.api-sports.io"
	// DefaultInjuriesBaseURL is the injuries feed base URL.
	DefaultInjuriesBaseURL = "https://nba-injuries-reports.p.rapidapi.com"

	statsHost    = "v2.nba.api-sports.io"
	injuriesHost = "nba-injuries-reports.p.rapidapi.com"

	defaultRateLimit = 5.0
	defaultBurst     = 5
)

// Client is the stats and injuries API client.
type Client struct {
	baseURL     string
	injuriesURL string
	apiKey      string
	season      int
	httpClient  *http.Client
	limiter     *rate.Limiter

	mu      sync.Mutex
	teamIDs map[string]int // lowercased team name -> id

	injMu      sync.Mutex
	injDate    string
	injReports []injuryRecord
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom stats base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithInjuriesBaseURL sets a custom injuries base URL.
func WithInjuriesBaseURL(url string) Option {
	return func(c *Client) { c.injuriesURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithRateLimit sets custom rate limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a provider client for one season.
func NewClient(apiKey string, season int, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		injuriesURL: DefaultInjuriesBaseURL,
		apiKey:      apiKey,
		season:      season,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		teamIDs: make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the stats API's standard response wrapper.
type envelope struct {
	Response json.RawMessage `json:"response"`
}

// get fetches a stats endpoint and unmarshals the response array.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	body, err := c.fetch(ctx, c.baseURL+"/"+endpoint, statsHost)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	if len(env.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url, host string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

type apiTeam struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	NBAFranchise bool   `json:"nbaFranchise"`
	AllStar      bool   `json:"allStar"`
}

// teams loads and caches the franchise name-to-id table.
func (c *Client) teams(ctx context.Context) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.teamIDs) > 0 {
		return c.teamIDs, nil
	}

	var all []apiTeam
	if err := c.get(ctx, "teams", &all); err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}
	for _, t := range all {
		if !t.NBAFranchise || t.AllStar {
			continue
		}
		c.teamIDs[strings.ToLower(t.Name)] = t.ID
	}
	if len(c.teamIDs) == 0 {
		return nil, fmt.Errorf("no franchise teams in response")
	}
	return c.teamIDs, nil
}

// teamID resolves a team name, tolerating partial names.
func (c *Client) teamID(ctx context.Context, name string) (int, error) {
	table, err := c.teams(ctx)
	if err != nil {
		return 0, err
	}
	key := strings.ToLower(name)
	if id, ok := table[key]; ok {
		return id, nil
	}
	for full, id := range table {
		if strings.Contains(full, key) || strings.Contains(key, full) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown team %q", name)
}
