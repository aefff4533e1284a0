package service

import (
	"context"
	"errors"
	"time"

	"hltv-tracker/internal/constants"
	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/repository"
	"hltv-tracker/internal/retry"
	"hltv-tracker/internal/scrape"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PlayerService serves player stat records, from the cache when they
// are fresh enough and from a live scrape otherwise.
//
// A player that does not exist and a scrape that exhausted its
// retries both come back as a nil record with no error; the log
// severities differ (warning vs error) so operators can tell one from
// the other.
type PlayerService struct {
	scraper   *scrape.Client
	players   *repository.PlayerRepository
	snapshots *repository.SnapshotRepository
	logger    zerolog.Logger
}

func NewPlayerService(
	scraper *scrape.Client,
	players *repository.PlayerRepository,
	snapshots *repository.SnapshotRepository,
	logger zerolog.Logger,
) *PlayerService {
	return &PlayerService{
		scraper:   scraper,
		players:   players,
		snapshots: snapshots,
		logger:    logger,
	}
}

// GetStats returns the player and their stat record under f.
func (s *PlayerService) GetStats(ctx context.Context, name string, f scrape.Filter, refresh bool) (*domain.Player, domain.StatRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	query := f.Format()
	s.logger.Info().Str("name", name).Str("filter_query", query).Bool("refresh", refresh).Msg("getting player stats")

	player, err := s.players.GetByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	var ident *domain.PlayerIdentity
	if player != nil {
		// the id/slug were discovered on a previous run; no need to
		// search again
		ident = &domain.PlayerIdentity{ID: player.ID, Slug: player.Slug}

		shouldRefresh, err := s.players.ShouldRefresh(ctx, player.ID, constants.StatsRefreshTTL)
		if err != nil {
			return nil, nil, err
		}
		if !shouldRefresh && !refresh {
			cached, err := s.snapshots.Get(ctx, player.ID, query)
			if err != nil {
				return nil, nil, err
			}
			if cached != nil {
				s.logger.Info().Str("player_id", player.ID).Msg("returning cached stats")
				return player, cached, nil
			}
		}
	}

	resolved, record, err := s.scraper.FetchPlayerStats(ctx, name, ident, f)
	if errors.Is(err, scrape.ErrPlayerNotFound) {
		s.logger.Warn().Str("name", name).Msg("player not found")
		return nil, nil, nil
	}
	if errors.Is(err, retry.ErrExhausted) {
		s.logger.Error().Str("name", name).Msg("stats scrape exhausted retries, returning empty result")
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	player = &domain.Player{ID: resolved.ID, Slug: resolved.Slug, Name: name}
	if err := s.players.Upsert(ctx, player); err != nil {
		return nil, nil, err
	}
	if err := s.snapshots.Upsert(ctx, player.ID, query, record); err != nil {
		return nil, nil, err
	}

	s.markFetched(player.ID)

	s.logger.Info().Str("player_id", player.ID).Msg("player stats scraped")
	return player, record, nil
}

// markFetched stamps the player's last fetch time in the background,
// slightly delayed so immediate follow-up requests reuse the cache
// window consistently.
func (s *PlayerService) markFetched(playerID string) {
	g := new(errgroup.Group)
	g.Go(func() error {
		time.Sleep(constants.LastFetchDelay)
		return s.players.SetLastFetchAt(context.Background(), playerID, time.Now())
	})

	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Warn().Err(err).Str("player_id", playerID).Msg("failed to set last fetch at")
		}
	}()
}
