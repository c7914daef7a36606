// Package server exposes the agent over plain HTTP: the request body is the
// query and the response body is the answer.
package server

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/comigor/react-go/internal/agent"
	"github.com/comigor/react-go/internal/logger"
)

// Asker answers one query.
type Asker interface {
	Process(ctx context.Context, query string) (agent.Result, error)
}

// NewHandler returns the inference mux.
func NewHandler(asker Asker) http.Handler {
	mux := http.NewServeMux()

	// main inference endpoint
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			logger.L.Error("read body error", "err", err)
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(string(body))
		if query == "" {
			http.Error(w, "empty query", http.StatusBadRequest)
			return
		}
		logger.L.Info("inference request", "query", query)

		res, err := asker.Process(r.Context(), query)
		if err != nil {
			logger.L.Error("process error", "err", err, "query", query)
			http.Error(w, "failed to process request", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-React-Outcome", string(res.Outcome))
		_, _ = w.Write([]byte(res.Answer))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
