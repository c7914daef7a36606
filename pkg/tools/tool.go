package tools

import "context"

// Tool is the interface for tools exposed outside the ReAct loop (e.g. over MCP)
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, args string) (string, error)
}

// Observation is what a tool hands back to the model. Failures are encoded in
// Text too, so callers always have something to show the model; Failed only
// marks that Text describes an error.
type Observation struct {
	Text   string
	Failed bool
}

// Searcher runs one web search. It never returns an error.
type Searcher interface {
	Search(ctx context.Context, query string) Observation
}
