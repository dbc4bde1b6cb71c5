package server

import (
	"context"
	"encoding/json"
	"errors"
	"espn-ffl/internal/config"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/metrics"
	"espn-ffl/internal/middleware"
	"espn-ffl/internal/projection"
	"espn-ffl/internal/service"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const ProjectionsPath = "/api/v1/projections"

type Analyzer interface {
	Analyze(ctx context.Context, p service.ProjectionParams) ([]projection.AdjustmentResult, error)
}

type ProjectionServer struct {
	analyzer Analyzer
	cfg      *config.Config
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewProjectionServer(analyzer Analyzer, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *ProjectionServer {
	return &ProjectionServer{analyzer: analyzer, cfg: cfg, metrics: m, logger: logger}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *ProjectionServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+ProjectionsPath, s.handleProjections)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return middleware.RequestID(s.logger, s.metrics)(c.Handler(mux))
}

func (s *ProjectionServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *ProjectionServer) handleProjections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	params, err := s.parseParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	results, err := s.analyzer.Analyze(ctx, params)
	switch {
	case errors.Is(err, projection.ErrInvalidStrength), errors.Is(err, projection.ErrInvalidWeek):
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("projection analysis failed")
		s.writeError(w, r, http.StatusBadGateway, err)
		return
	}

	if results == nil {
		results = []projection.AdjustmentResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *ProjectionServer) parseParams(q url.Values) (service.ProjectionParams, error) {
	p := service.ProjectionParams{
		Season:       constants.DefaultSeason,
		Week:         constants.DefaultWeek,
		BiasStrength: constants.DefaultBiasStrength,
		Names:        q["player_name"],
		Refresh:      q.Get("refresh") == "true",
	}

	leagueID, err := s.cfg.ResolveLeagueID(q.Get("league_id"))
	if err != nil {
		return p, err
	}
	p.LeagueID = leagueID

	if v := q.Get("season"); v != "" {
		if p.Season, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("invalid season %q", v)
		}
	}
	if v := q.Get("week"); v != "" {
		if p.Week, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("invalid week %q", v)
		}
	}
	if v := q.Get("bias_strength"); v != "" {
		if p.BiasStrength, err = strconv.ParseFloat(v, 64); err != nil {
			return p, fmt.Errorf("invalid bias_strength %q", v)
		}
	}

	if p.Positions, err = domain.ParsePositions(q["position"]); err != nil {
		return p, err
	}

	teamID := 0
	if v := q.Get("team_id"); v != "" {
		if teamID, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("invalid team_id %q", v)
		}
	}
	if p.Status, err = domain.ParseStatusFilters(q.Get("injury_status"), q.Get("roster_status"), q.Get("team"), teamID); err != nil {
		return p, err
	}
	return p, nil
}

func (s *ProjectionServer) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: middleware.GetRequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
