package service

import (
	"context"
	"encoding/json"
	"espn-ffl/internal/api"
	"espn-ffl/internal/cache"
	"espn-ffl/internal/constants"
	"fmt"

	"github.com/rs/zerolog"
)

// ESPN is the subset of the ESPN client the services depend on.
type ESPN interface {
	GetLeagueSettings(ctx context.Context, season int, leagueID string) (*api.LeagueSettings, []byte, error)
	GetLeagueRosters(ctx context.Context, season int, leagueID string, week *int) (*api.LeagueData, error)
	GetPlayers(ctx context.Context, q api.PlayersQuery) ([]api.Player, error)
}

type LeagueService struct {
	espn   ESPN
	cache  *cache.Store
	logger zerolog.Logger
}

func NewLeagueService(espn ESPN, store *cache.Store, logger zerolog.Logger) *LeagueService {
	return &LeagueService{espn: espn, cache: store, logger: logger}
}

func (s *LeagueService) SettingsPath(season int, leagueID string) string {
	return s.cache.Path(cache.LeagueSettingsKey(season, leagueID))
}

// Settings loads league settings cache-first. An unreadable cached copy is
// replaced by a fresh fetch.
func (s *LeagueService) Settings(ctx context.Context, season int, leagueID string, refresh bool) (*api.LeagueSettings, cache.Status, error) {
	key := cache.LeagueSettingsKey(season, leagueID)
	fetch := func(ctx context.Context) ([]byte, error) {
		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer cancel()

		_, raw, err := s.espn.GetLeagueSettings(apiCtx, season, leagueID)
		return raw, err
	}

	data, status, err := s.cache.Load(ctx, cache.KindLeagueSettings, key, refresh, fetch)
	if err != nil {
		return nil, status, fmt.Errorf("failed to load league settings: %w", err)
	}

	settings, err := api.ParseLeagueSettings(data)
	if err != nil && status == cache.StatusHit {
		s.logger.Warn().Err(err).Str("file", key).Msg("cached league settings unreadable, refetching")
		return s.Settings(ctx, season, leagueID, true)
	}
	if err != nil {
		return nil, status, err
	}

	s.logger.Debug().
		Int("season", season).
		Str("league_id", leagueID).
		Str("cache", string(status)).
		Int("scoring_items", len(settings.ScoringSettings.ScoringItems)).
		Msg("league settings loaded")
	return settings, status, nil
}

func (s *LeagueService) Rosters(ctx context.Context, season int, leagueID string, week *int, refresh bool) (*api.LeagueData, cache.Status, error) {
	key := cache.RosterKey(season, leagueID, week)
	fetch := func(ctx context.Context) ([]byte, error) {
		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer cancel()

		league, err := s.espn.GetLeagueRosters(apiCtx, season, leagueID, week)
		if err != nil {
			return nil, err
		}
		return json.Marshal(league)
	}

	data, status, err := s.cache.Load(ctx, cache.KindRoster, key, refresh, fetch)
	if err != nil {
		return nil, status, fmt.Errorf("failed to load rosters: %w", err)
	}

	var league api.LeagueData
	if err := json.Unmarshal(data, &league); err != nil {
		if status == cache.StatusHit {
			s.logger.Warn().Err(err).Str("file", key).Msg("cached roster unreadable, refetching")
			return s.Rosters(ctx, season, leagueID, week, true)
		}
		return nil, status, fmt.Errorf("failed to decode rosters: %w", err)
	}

	s.logger.Debug().
		Int("season", season).
		Str("league_id", leagueID).
		Str("cache", string(status)).
		Int("teams", len(league.Teams)).
		Msg("rosters loaded")
	return &league, status, nil
}
