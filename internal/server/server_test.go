package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/react-go/internal/agent"
)

type askerFunc func(ctx context.Context, query string) (agent.Result, error)

func (f askerFunc) Process(ctx context.Context, query string) (agent.Result, error) {
	return f(ctx, query)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_Answer(t *testing.T) {
	var got string
	h := NewHandler(askerFunc(func(_ context.Context, q string) (agent.Result, error) {
		got = q
		return agent.Result{Answer: "4", Outcome: agent.OutcomeDone}, nil
	}))

	rec := do(t, h, http.MethodPost, "/", "  What is 2 + 2?\n")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "What is 2 + 2?", got)
	body, _ := io.ReadAll(rec.Body)
	require.Equal(t, "4", string(body))
	require.Equal(t, "done", rec.Header().Get("X-React-Outcome"))
}

func TestHandler_Errors(t *testing.T) {
	h := NewHandler(askerFunc(func(context.Context, string) (agent.Result, error) {
		return agent.Result{}, errors.New("boom")
	}))

	require.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodPost, "/", "q").Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/", "   ").Code)
	require.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/", "").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
}
