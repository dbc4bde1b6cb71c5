package fx

import (
	"espn-ffl/internal/api"
	"espn-ffl/internal/cache"
	"espn-ffl/internal/config"
	"espn-ffl/internal/database"
	"espn-ffl/internal/logger"
	"espn-ffl/internal/metrics"
	"espn-ffl/internal/repository"
	"espn-ffl/internal/server"
	"espn-ffl/internal/service"

	"go.uber.org/fx"
)

func ProvideESPN(client *api.ESPNClient) service.ESPN {
	return client
}

func ProvideAnalyzer(svc *service.ProjectionService) server.Analyzer {
	return svc
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewWeeklyStatsRepository),
	fx.Provide(repository.NewFetchLogRepository),
	// espn client + file cache
	fx.Provide(api.NewESPNClient),
	fx.Provide(ProvideESPN),
	fx.Provide(cache.NewStore),
	// svc
	fx.Provide(service.NewLeagueService),
	fx.Provide(service.NewPlayerDataService),
	fx.Provide(service.NewProjectionService),
	fx.Provide(service.NewUpdateService),
	fx.Provide(ProvideAnalyzer),
	// server
	fx.Provide(server.NewProjectionServer),
)
