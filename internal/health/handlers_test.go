package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/genesis-wellness/storefront-api/internal/health"
)

type fakeChecker struct {
	redisErr error
	catalog  bool
}

func (f fakeChecker) PingRedis(context.Context, time.Duration) error { return f.redisErr }
func (f fakeChecker) CatalogLoaded() bool                            { return f.catalog }

func TestLive(t *testing.T) {
	resp := httptest.NewRecorder()
	health.Handler{}.Live(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "ok", resp.Body.String())
}

func TestReadyOK(t *testing.T) {
	health.SetReady(true)
	t.Cleanup(func() { health.SetReady(true) })

	handler := health.Handler{Checker: fakeChecker{catalog: true}}
	resp := httptest.NewRecorder()
	handler.Ready(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"redis":"ok","catalog":"ok"}`, resp.Body.String())
}

func TestReadyRedisDown(t *testing.T) {
	health.SetReady(true)
	t.Cleanup(func() { health.SetReady(true) })

	handler := health.Handler{Checker: fakeChecker{redisErr: errors.New("dial refused"), catalog: true}}
	resp := httptest.NewRecorder()
	handler.Ready(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestReadyCatalogMissing(t *testing.T) {
	health.SetReady(true)
	t.Cleanup(func() { health.SetReady(true) })

	handler := health.Handler{Checker: fakeChecker{catalog: false}}
	resp := httptest.NewRecorder()
	handler.Ready(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestReadinessAfterShutdown(t *testing.T) {
	handler := health.Handler{Checker: fakeChecker{catalog: true}}
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	health.SetReady(true)
	resp := httptest.NewRecorder()
	handler.Ready(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	health.SetReady(false)
	resp2 := httptest.NewRecorder()
	handler.Ready(resp2, req)
	require.Equal(t, http.StatusServiceUnavailable, resp2.Code)

	health.SetReady(true)
}
