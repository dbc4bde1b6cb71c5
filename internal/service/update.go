package service

import (
	"context"
	"errors"
	"espn-ffl/internal/domain"
	"espn-ffl/internal/repository"
	"fmt"

	"github.com/rs/zerolog"
)

var ErrInvalidWeekRange = errors.New("through week must be at least 1")

type UpdateSummary struct {
	Weeks          int
	ActualRows     int
	ProjectedRows  int
	PlayersInStore int
}

type UpdateService struct {
	data    *PlayerDataService
	players *repository.PlayerRepository
	logger  zerolog.Logger
}

func NewUpdateService(data *PlayerDataService, players *repository.PlayerRepository, logger zerolog.Logger) *UpdateService {
	return &UpdateService{data: data, players: players, logger: logger}
}

// UpdateAll refetches actual then projected points for weeks 1..throughWeek.
func (s *UpdateService) UpdateAll(ctx context.Context, leagueID string, season, throughWeek int) (*UpdateSummary, error) {
	if throughWeek < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWeekRange, throughWeek)
	}

	summary := &UpdateSummary{}
	for week := 1; week <= throughWeek; week++ {
		for _, source := range []domain.StatSource{domain.SourceActual, domain.SourceProjected} {
			points, err := s.data.FetchWeek(ctx, FetchParams{
				LeagueID: leagueID,
				Season:   season,
				Week:     week,
				Source:   source,
			})
			if err != nil {
				return summary, fmt.Errorf("failed to update week %d %s: %w", week, source, err)
			}
			if source == domain.SourceActual {
				summary.ActualRows += len(points)
			} else {
				summary.ProjectedRows += len(points)
			}
		}
		summary.Weeks++
		s.logger.Info().Int("season", season).Int("week", week).Msg("week updated")
	}

	n, err := s.players.Count(ctx)
	if err != nil {
		return summary, err
	}
	summary.PlayersInStore = n
	return summary, nil
}
