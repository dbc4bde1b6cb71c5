package service

import (
	"context"
	"espn-ffl/internal/api"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/filter"
	"espn-ffl/internal/repository"
	"espn-ffl/internal/scoring"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type FetchParams struct {
	LeagueID  string
	Season    int
	Week      int
	Source    domain.StatSource
	Names     []string
	Positions []domain.Position
}

type PlayerDataParams struct {
	FetchParams
	Status           domain.StatusFilters
	Refresh          bool
	RefreshPositions bool
	ClearDB          bool
}

type fetchedPlayer struct {
	points   domain.PlayerPoints
	hasStats bool
}

type weekFetch struct {
	settings *api.LeagueSettings
	players  []fetchedPlayer
}

type PlayerDataService struct {
	espn     ESPN
	league   *LeagueService
	players  *repository.PlayerRepository
	stats    *repository.WeeklyStatsRepository
	fetchLog *repository.FetchLogRepository
	logger   zerolog.Logger
}

func NewPlayerDataService(
	espn ESPN,
	league *LeagueService,
	players *repository.PlayerRepository,
	stats *repository.WeeklyStatsRepository,
	fetchLog *repository.FetchLogRepository,
	logger zerolog.Logger,
) *PlayerDataService {
	return &PlayerDataService{
		espn:     espn,
		league:   league,
		players:  players,
		stats:    stats,
		fetchLog: fetchLog,
		logger:   logger,
	}
}

// Get returns points for one week, using stored rows when the week was
// already fetched and no name or position filter asks for a narrower query.
func (s *PlayerDataService) Get(ctx context.Context, p PlayerDataParams) ([]domain.PlayerPoints, error) {
	if p.ClearDB {
		if err := s.stats.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	var points []domain.PlayerPoints
	if !p.Refresh && !p.RefreshPositions && len(p.Names) == 0 && len(p.Positions) == 0 {
		dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		defer cancel()

		ok, err := s.stats.HasDataForWeek(dbCtx, p.Season, p.Week, p.Source)
		if err != nil {
			return nil, err
		}
		if ok {
			points, err = s.stats.CachedPlayerPoints(dbCtx, p.Season, p.Week, p.Source)
			if err != nil {
				return nil, err
			}
			s.logger.Info().
				Int("season", p.Season).
				Int("week", p.Week).
				Str("source", string(p.Source)).
				Int("players", len(points)).
				Msg("using stored player points")
		}
	}

	if points == nil {
		var err error
		points, err = s.FetchWeek(ctx, p.FetchParams)
		if err != nil {
			return nil, err
		}
	}

	if !p.Status.Empty() {
		var err error
		points, err = s.applyStatus(ctx, p.LeagueID, p.Season, p.Week, points, p.Status, p.Refresh)
		if err != nil {
			return nil, err
		}
	}

	sortPoints(points)
	return points, nil
}

// FetchWeek pulls players from ESPN, scores them for the week and source,
// persists the result and logs the fetch.
func (s *PlayerDataService) FetchWeek(ctx context.Context, p FetchParams) ([]domain.PlayerPoints, error) {
	wf, err := s.fetch(ctx, p)
	if err != nil {
		return nil, err
	}

	points := make([]domain.PlayerPoints, 0, len(wf.players))
	for _, fp := range wf.players {
		if fp.hasStats {
			points = append(points, fp.points)
		}
	}
	return points, nil
}

func (s *PlayerDataService) fetch(ctx context.Context, p FetchParams) (*weekFetch, error) {
	var (
		settings *api.LeagueSettings
		players  []api.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, _, err = s.league.Settings(gctx, p.Season, p.LeagueID, false)
		return err
	})
	g.Go(func() error {
		apiCtx, cancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
		defer cancel()

		var err error
		players, err = s.espn.GetPlayers(apiCtx, api.PlayersQuery{
			LeagueID:  p.LeagueID,
			Season:    p.Season,
			Week:      p.Week,
			Names:     p.Names,
			Positions: p.Positions,
			Limit:     constants.DefaultPlayerLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch players: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := scoring.BuildIndex(settings)
	selected := filter.Players(players, p.Names, p.Positions)

	wf := &weekFetch{settings: settings, players: make([]fetchedPlayer, 0, len(selected))}
	var (
		rows  []domain.Player
		stats []domain.WeeklyStats
	)
	for _, pl := range selected {
		position := "UNKNOWN"
		if pos, ok := pl.Position(); ok {
			position = pos.String()
		}
		id := pl.NormalizedID()
		pts, ok := idx.PlayerPoints(pl, p.Season, p.Week, p.Source)

		wf.players = append(wf.players, fetchedPlayer{
			points: domain.PlayerPoints{
				PlayerID:     id,
				Name:         pl.DisplayName(),
				Position:     position,
				ProTeam:      domain.ProTeamAbbrev(pl.ProTeamID),
				Week:         p.Week,
				Projected:    p.Source == domain.SourceProjected,
				Points:       pts,
				Active:       pl.Active,
				Injured:      pl.Injured,
				InjuryStatus: pl.InjuryStatus,
			},
			hasStats: ok,
		})

		rows = append(rows, domain.Player{PlayerID: id, Name: pl.DisplayName(), Position: position, Team: domain.ProTeamAbbrev(pl.ProTeamID)})
		if !ok {
			continue
		}
		row := domain.WeeklyStats{PlayerID: id, Season: p.Season, Week: p.Week}
		value := pts
		if p.Source == domain.SourceProjected {
			row.ProjectedPoints = &value
		} else {
			row.ActualPoints = &value
		}
		stats = append(stats, row)
	}

	if err := s.persist(ctx, p, rows, stats); err != nil {
		return nil, err
	}
	return wf, nil
}

func (s *PlayerDataService) persist(ctx context.Context, p FetchParams, rows []domain.Player, stats []domain.WeeklyStats) error {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.players.UpsertBatch(dbCtx, rows); err != nil {
		return fmt.Errorf("failed to store players: %w", err)
	}
	if err := s.stats.MergeBatch(dbCtx, stats); err != nil {
		return fmt.Errorf("failed to store weekly stats: %w", err)
	}

	entry, err := s.fetchLog.Record(dbCtx, domain.FetchLog{
		Season:      p.Season,
		Week:        p.Week,
		Source:      p.Source,
		PlayerCount: len(stats),
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("fetch_id", entry.ID).
		Int("season", p.Season).
		Int("week", p.Week).
		Str("source", string(p.Source)).
		Int("players", len(rows)).
		Int("scored", len(stats)).
		Msg("week fetched and stored")
	return nil
}

func (s *PlayerDataService) applyStatus(ctx context.Context, leagueID string, season, week int, points []domain.PlayerPoints, f domain.StatusFilters, refresh bool) ([]domain.PlayerPoints, error) {
	league, _, err := s.league.Rosters(ctx, season, leagueID, &week, refresh)
	if err != nil {
		return nil, err
	}
	league.ApplyRoster(points)
	return filter.ApplyStatus(points, f), nil
}

func sortPoints(points []domain.PlayerPoints) {
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Points != points[j].Points {
			return points[i].Points > points[j].Points
		}
		return points[i].Name < points[j].Name
	})
}
