package service

import (
	"context"
	"errors"

	"hltv-tracker/internal/constants"
	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/repository"
	"hltv-tracker/internal/retry"
	"hltv-tracker/internal/scrape"

	"github.com/rs/zerolog"
)

// MatchService serves a player's match-history references, crawling
// the paginated list when the cache is stale or empty.
type MatchService struct {
	scraper *scrape.Client
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewMatchService(
	scraper *scrape.Client,
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	logger zerolog.Logger,
) *MatchService {
	return &MatchService{
		scraper: scraper,
		players: players,
		matches: matches,
		logger:  logger,
	}
}

// GetMatches returns the full filtered match history for name. The
// same soft-failure shape as stats applies: not-found and exhausted
// both yield an empty list, distinguished only in the logs.
func (s *MatchService) GetMatches(ctx context.Context, name string, f scrape.Filter, refresh bool) ([]domain.MatchReference, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	query := f.Format()
	s.logger.Info().Str("name", name).Str("filter_query", query).Bool("refresh", refresh).Msg("getting match history")

	player, err := s.players.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	var ident *domain.PlayerIdentity
	if player != nil {
		ident = &domain.PlayerIdentity{ID: player.ID, Slug: player.Slug}

		shouldRefresh, err := s.players.ShouldRefresh(ctx, player.ID, constants.MatchesRefreshTTL)
		if err != nil {
			return nil, err
		}
		if !shouldRefresh && !refresh {
			has, err := s.matches.Has(ctx, player.ID, query)
			if err != nil {
				return nil, err
			}
			if has {
				s.logger.Info().Str("player_id", player.ID).Msg("returning cached matches")
				return s.matches.Get(ctx, player.ID, query)
			}
		}
	}

	resolved, refs, err := s.scraper.FetchMatchReferences(ctx, name, ident, f)
	if errors.Is(err, scrape.ErrPlayerNotFound) {
		s.logger.Warn().Str("name", name).Msg("player not found")
		return nil, nil
	}
	if errors.Is(err, retry.ErrExhausted) {
		s.logger.Error().Str("name", name).Msg("match crawl exhausted retries, returning empty result")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if player == nil {
		player = &domain.Player{ID: resolved.ID, Slug: resolved.Slug, Name: name}
		if err := s.players.Upsert(ctx, player); err != nil {
			return nil, err
		}
	}
	for i := range refs {
		refs[i].FilterQuery = query
	}
	if err := s.matches.Replace(ctx, player.ID, query, refs); err != nil {
		return nil, err
	}

	s.logger.Info().Str("player_id", player.ID).Int("count", len(refs)).Msg("match history crawled")
	return refs, nil
}
