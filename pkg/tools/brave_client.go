package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/comigor/react-go/internal/config"
)

// SearchResult is one organic web hit.
type SearchResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// braveResponse is the subset of the Brave Search response we read.
type braveResponse struct {
	Web struct {
		Results []SearchResult `json:"results"`
	} `json:"web"`
}

// StatusError reports a non-200 reply from the search API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// BraveClient is a client for the Brave Search API
type BraveClient struct {
	cfg    config.SearchConfig
	client *http.Client
}

// NewBraveClient creates a new BraveClient
func NewBraveClient(cfg config.SearchConfig) *BraveClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultSearchBaseURL
	}
	return &BraveClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// WebSearch fetches at most count web results for query.
func (c *BraveClient) WebSearch(ctx context.Context, query string, count int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	endpoint := fmt.Sprintf("%s/web/search?%s", strings.TrimRight(c.cfg.BaseURL, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Subscription-Token", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var body braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := body.Web.Results
	if len(results) > count {
		results = results[:count]
	}
	return results, nil
}
