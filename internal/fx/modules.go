package fx

import (
	"hltv-tracker/internal/config"
	"hltv-tracker/internal/database"
	"hltv-tracker/internal/logger"
	"hltv-tracker/internal/repository"
	"hltv-tracker/internal/scrape"
	"hltv-tracker/internal/server"
	"hltv-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideTrackerServer(playerSvc *service.PlayerService, matchSvc *service.MatchService, log zerolog.Logger) *server.TrackerServer {
	return server.NewTrackerServer(playerSvc, matchSvc, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(repository.NewMatchRepository),
	// scraper
	fx.Provide(scrape.NewClient),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	// server
	fx.Provide(ProvideTrackerServer),
)
