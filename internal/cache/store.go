package cache

import (
	"context"
	"errors"
	"espn-ffl/internal/config"
	"espn-ffl/internal/metrics"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type Status string

const (
	StatusHit       Status = "hit"
	StatusMiss      Status = "miss"
	StatusRefreshed Status = "refreshed"
)

const (
	KindLeagueSettings = "league_settings"
	KindRoster         = "roster"
)

type Fetcher func(ctx context.Context) ([]byte, error)

// Store keeps ESPN payloads as JSON files under one directory.
type Store struct {
	dir     string
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewStore(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *Store {
	return &Store{
		dir:     cfg.CacheDir,
		metrics: m,
		logger:  logger.With().Str("component", "file_cache").Logger(),
	}
}

func LeagueSettingsKey(season int, leagueID string) string {
	return fmt.Sprintf("league-settings_%d_%s.json", season, leagueID)
}

func RosterKey(season int, leagueID string, week *int) string {
	if week == nil {
		return fmt.Sprintf("roster_%d_%s.json", season, leagueID)
	}
	return fmt.Sprintf("roster_%d_%s_w%d.json", season, leagueID, *week)
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Read returns ok=false without error when the file does not exist.
func (s *Store) Read(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache file %s: %w", name, err)
	}
	return data, true, nil
}

func (s *Store) Write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := s.Path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// Load returns the cached payload unless refresh is set or the file is
// missing, in which case fetch is called and its result stored. A failed
// write is logged but does not fail the load.
func (s *Store) Load(ctx context.Context, kind, name string, refresh bool, fetch Fetcher) ([]byte, Status, error) {
	if !refresh {
		data, ok, err := s.Read(name)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("ignoring unreadable cache file")
		}
		if ok {
			s.observe(kind, StatusHit)
			return data, StatusHit, nil
		}
	}

	status := StatusMiss
	if refresh {
		status = StatusRefreshed
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, status, err
	}
	if err := s.Write(name, data); err != nil {
		s.logger.Warn().Err(err).Str("file", name).Msg("failed to write cache file")
	}

	s.observe(kind, status)
	s.logger.Debug().Str("file", name).Str("status", string(status)).Msg("cache populated")
	return data, status, nil
}

func (s *Store) observe(kind string, status Status) {
	if s.metrics != nil {
		s.metrics.ObserveCacheLookup(kind, string(status))
	}
}
