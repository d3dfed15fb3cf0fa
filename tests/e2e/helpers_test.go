//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	memoryrepo "github.com/uAvicii/0718/internal/adapter/postgres/memory"
	profilerepo "github.com/uAvicii/0718/internal/adapter/postgres/profile"
	"github.com/uAvicii/0718/internal/adapter/postgres/testhelper"
	"github.com/uAvicii/0718/internal/adapter/resilient"
	"github.com/uAvicii/0718/internal/app"
	"github.com/uAvicii/0718/internal/app/seeder"
	"github.com/uAvicii/0718/internal/config"
	"github.com/uAvicii/0718/internal/metrics"
	"github.com/uAvicii/0718/internal/service/memory"
	"github.com/uAvicii/0718/internal/transport/middleware"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	Store  *memory.Store
	logger *slog.Logger
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func testConfig() *config.Config {
	return &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PATCH,DELETE,OPTIONS",
			AllowedHeaders: "Content-Type,X-Request-Id",
		},
		RateLimit: config.RateLimitConfig{Disabled: true},
		Metrics:   config.MetricsConfig{Path: "/metrics"},
		Resilience: config.ResilienceConfig{
			OpTimeout:          5 * time.Second,
			MaxRetries:         1,
			InitialBackoff:     10 * time.Millisecond,
			MaxBackoff:         50 * time.Millisecond,
			BreakerFailures:    5,
			BreakerOpenTimeout: time.Second,
		},
	}
}

// setupTestServer empties the database, seeds the bundled sample collection
// and serves the full application stack. Tests in this package share one
// container, so they must not run in parallel.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	pool := testhelper.SetupTestDB(t)
	testhelper.ResetMemories(t, pool)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	f, err := seeder.Default()
	require.NoError(t, err)
	_, err = app.Seed(ctx, logger, pool, f, seeder.Options{})
	require.NoError(t, err)

	ts := &testServer{Pool: pool, logger: logger}
	ts.Store = ts.newStore(t)

	cfg := testConfig()
	limiter := middleware.NewRateLimiter(0)
	t.Cleanup(limiter.Stop)

	srv := httptest.NewServer(app.NewRouter(cfg, logger, pool, ts.Store, metrics.NewCollector(), limiter))
	t.Cleanup(srv.Close)

	ts.URL = srv.URL
	ts.Client = srv.Client()
	return ts
}

// newStore builds and initializes a store over the test database, the way
// the server does on startup.
func (ts *testServer) newStore(t *testing.T) *memory.Store {
	t.Helper()

	guard := resilient.NewGuard("postgres", testConfig().Resilience, ts.logger, nil)
	store := memory.NewStore(ts.logger,
		guard.Memories(memoryrepo.New(ts.Pool)),
		guard.Profiles(profilerepo.New(ts.Pool)),
	)
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (ts *testServer) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// memoryJSON mirrors the memory response body.
type memoryJSON struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Mood     *string  `json:"mood"`
	Location *string  `json:"location"`
	Tags     []string `json:"tags"`
	People   []string `json:"people"`
	Images   []string `json:"images"`
}

type errorJSON struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func titles(items []memoryJSON) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.Title
	}
	return out
}
