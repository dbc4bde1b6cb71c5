package service

import (
	"context"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/filter"
	"espn-ffl/internal/metrics"
	"espn-ffl/internal/projection"
	"espn-ffl/internal/repository"
	"time"

	"github.com/rs/zerolog"
)

type ProjectionParams struct {
	LeagueID     string
	Season       int
	Week         int
	Names        []string
	Positions    []domain.Position
	Status       domain.StatusFilters
	BiasStrength float64
	Refresh      bool
}

type ProjectionService struct {
	data    *PlayerDataService
	league  *LeagueService
	stats   *repository.WeeklyStatsRepository
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewProjectionService(
	data *PlayerDataService,
	league *LeagueService,
	stats *repository.WeeklyStatsRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ProjectionService {
	return &ProjectionService{data: data, league: league, stats: stats, metrics: m, logger: logger}
}

// Analyze fetches the target week's ESPN projections, narrows the players
// to the league's positions and the requested filters, loads their stored
// history and runs the bias correction.
func (s *ProjectionService) Analyze(ctx context.Context, p ProjectionParams) ([]projection.AdjustmentResult, error) {
	req := projection.Request{Season: p.Season, Week: p.Week, BiasStrength: p.BiasStrength}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	wf, err := s.data.fetch(ctx, FetchParams{
		LeagueID:  p.LeagueID,
		Season:    p.Season,
		Week:      p.Week,
		Source:    domain.SourceProjected,
		Names:     p.Names,
		Positions: p.Positions,
	})
	if err != nil {
		return nil, err
	}

	allowed := wf.settings.AllowedPositions()
	points := make([]domain.PlayerPoints, 0, len(wf.players))
	hasProjection := make(map[int64]bool, len(wf.players))
	for _, fp := range wf.players {
		if allowed != nil && !filter.MatchesPosition(domain.Position(fp.points.Position), allowed) {
			continue
		}
		points = append(points, fp.points)
		hasProjection[fp.points.PlayerID] = fp.hasStats
	}

	if !p.Status.Empty() {
		points, err = s.data.applyStatus(ctx, p.LeagueID, p.Season, p.Week, points, p.Status, p.Refresh)
		if err != nil {
			return nil, err
		}
	}

	ids := make([]int64, 0, len(points))
	for _, pt := range points {
		ids = append(ids, pt.PlayerID)
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	history, err := s.stats.HistoryForPlayers(dbCtx, p.Season, p.Week, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]projection.Candidate, 0, len(points))
	for _, pt := range points {
		c := projection.Candidate{
			PlayerID: pt.PlayerID,
			Name:     pt.Name,
			Position: pt.Position,
			Team:     pt.ProTeam,
			History:  history[pt.PlayerID],
		}
		if hasProjection[pt.PlayerID] {
			value := pt.Points
			c.Projection = &value
		} else if len(c.History) == 0 {
			// Neither a projection nor a season record: not a relevant player.
			continue
		}
		candidates = append(candidates, c)
	}

	results, err := projection.Analyze(ctx, candidates, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveAnalysis(len(candidates))

	s.logger.Info().
		Int("season", p.Season).
		Int("week", p.Week).
		Float64("bias_strength", p.BiasStrength).
		Int("candidates", len(candidates)).
		Dur("took", time.Since(start)).
		Msg("projection analysis complete")
	return results, nil
}
