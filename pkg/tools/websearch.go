package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/comigor/react-go/internal/config"
	"github.com/comigor/react-go/internal/logger"
)

const (
	// WebSearchName is the action name the model uses to request a search.
	WebSearchName = "web_search"

	// ResultCount is how many hits are requested and rendered.
	ResultCount = 3

	NoResults = "No results found"
)

// WebSearchTool searches the web via Brave and renders the top hits as text
type WebSearchTool struct {
	client *BraveClient
}

// NewWebSearchTool creates a new WebSearchTool
func NewWebSearchTool(cfg config.SearchConfig) *WebSearchTool {
	return &WebSearchTool{client: NewBraveClient(cfg)}
}

// Name returns the name of the tool
func (t *WebSearchTool) Name() string { return WebSearchName }

// Description returns the description of the tool
func (t *WebSearchTool) Description() string {
	return "Search the web for current information. Returns the top 3 results with title, description and URL."
}

// Run runs the tool. args is the raw query.
func (t *WebSearchTool) Run(ctx context.Context, args string) (string, error) {
	return t.Search(ctx, args).Text, nil
}

// Search runs a single query. Errors become observation text.
func (t *WebSearchTool) Search(ctx context.Context, query string) Observation {
	logger.L.Debug("web search", "query", query)

	results, err := t.client.WebSearch(ctx, query, ResultCount)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			logger.L.Warn("web search rejected", "query", query, "status", statusErr.StatusCode)
			return Observation{Text: fmt.Sprintf("Search error: %d", statusErr.StatusCode), Failed: true}
		}
		logger.L.Warn("web search failed", "query", query, "error", err)
		return Observation{Text: fmt.Sprintf("Search failed: %v", err), Failed: true}
	}

	logger.L.Debug("web search done", "query", query, "results", len(results))
	return Observation{Text: FormatResults(results)}
}

// FormatResults renders hits as a 1-based numbered list.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return NoResults
	}
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("%d. %s\n   %s\n   URL: %s", i+1, r.Title, plainText(r.Description), r.URL))
	}
	return strings.Join(blocks, "\n")
}

// plainText turns Brave's inline-HTML snippets (<strong>, &amp;) into markdown.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		logger.L.Debug("snippet conversion failed", "error", err)
		return s
	}
	return strings.TrimSpace(md)
}
