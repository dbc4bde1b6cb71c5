package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveESPNRequest("players", "ok", 20*time.Millisecond)
	m.ObserveESPNRequest("players", "ok", 10*time.Millisecond)
	m.ObserveESPNRequest("settings", "error", time.Millisecond)
	m.ObserveCacheLookup("league_settings", "hit")
	m.ObserveAnalysis(12)

	body := scrape(t, m)
	assert.Contains(t, body, `espn_ffl_espn_requests_total{endpoint="players",outcome="ok"} 2`)
	assert.Contains(t, body, `espn_ffl_espn_requests_total{endpoint="settings",outcome="error"} 1`)
	assert.Contains(t, body, `espn_ffl_cache_lookups_total{kind="league_settings",status="hit"} 1`)
	assert.Contains(t, body, `espn_ffl_projection_analysis_runs_total 1`)
	assert.Contains(t, body, `espn_ffl_projection_players_analyzed_total 12`)
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New(WithNamespace("test_ns"))
	m.ObserveHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)

	assert.Contains(t, scrape(t, m), `test_ns_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}

func TestSeparateInstancesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
