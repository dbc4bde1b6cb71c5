package server

import (
	"context"
	"encoding/json"
	"errors"
	"espn-ffl/internal/config"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/metrics"
	"espn-ffl/internal/projection"
	"espn-ffl/internal/service"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	got     service.ProjectionParams
	results []projection.AdjustmentResult
	err     error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, p service.ProjectionParams) ([]projection.AdjustmentResult, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	req := projection.Request{Season: p.Season, Week: p.Week, BiasStrength: p.BiasStrength}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return f.results, nil
}

func newTestServer(a Analyzer) *httptest.Server {
	cfg := &config.Config{LeagueID: "123"}
	s := NewProjectionServer(a, cfg, metrics.New(), zerolog.Nop())
	return httptest.NewServer(s.Handler())
}

func TestProjectionsOK(t *testing.T) {
	fa := &fakeAnalyzer{results: []projection.AdjustmentResult{{
		PlayerID:        1,
		Name:            "Alpha",
		Position:        "RB",
		ESPNProjection:  21.2,
		BiasAdjustment:  4.19,
		EstimatedPoints: 25.39,
		Confidence:      0.9,
		Reasoning:       "ESPN underestimates",
	}}}
	ts := newTestServer(fa)
	defer ts.Close()

	resp, err := http.Get(ts.URL + ProjectionsPath + "?season=2024&week=4&bias_strength=0.5&position=flex&player_name=alpha&roster_status=fa")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var got []projection.AdjustmentResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)

	assert.Equal(t, "123", fa.got.LeagueID)
	assert.Equal(t, 2024, fa.got.Season)
	assert.Equal(t, 4, fa.got.Week)
	assert.Equal(t, 0.5, fa.got.BiasStrength)
	assert.Equal(t, []domain.Position{domain.PositionFLEX}, fa.got.Positions)
	assert.Equal(t, []string{"alpha"}, fa.got.Names)
	require.NotNil(t, fa.got.Status.Roster)
	assert.Equal(t, domain.FilterFA, *fa.got.Status.Roster)
}

func TestProjectionsEmptyIsArray(t *testing.T) {
	ts := newTestServer(&fakeAnalyzer{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + ProjectionsPath + "?week=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

func TestProjectionsBadRequest(t *testing.T) {
	ts := newTestServer(&fakeAnalyzer{})
	defer ts.Close()

	for _, query := range []string{
		"?week=abc",
		"?week=0",
		"?week=3&bias_strength=-0.5",
		"?week=3&position=P",
		"?week=3&injury_status=sick",
	} {
		resp, err := http.Get(ts.URL + ProjectionsPath + query)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestProjectionsUpstreamFailure(t *testing.T) {
	ts := newTestServer(&fakeAnalyzer{err: errors.New("espn down")})
	defer ts.Close()

	resp, err := http.Get(ts.URL + ProjectionsPath + "?week=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "espn down", body.Error)
	assert.Equal(t, resp.Header.Get("X-Request-ID"), body.RequestID)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(&fakeAnalyzer{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}
