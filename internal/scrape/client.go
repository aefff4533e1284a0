// Package scrape is the resilient scraping orchestrator: identity
// discovery, declarative stat extraction and paginated match-history
// crawling, every page fetch wrapped by the same retry policy, all
// riding on one browser session per logical query.
package scrape

import (
	"context"
	"fmt"
	"time"

	"hltv-tracker/internal/browser"
	"hltv-tracker/internal/config"
	"hltv-tracker/internal/constants"
	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/retry"

	"github.com/rs/zerolog"
)

// Client runs scrapes against the target site. It is safe to share:
// every call opens its own single-threaded browser session and
// releases it on every exit path.
type Client struct {
	baseURL      string
	browserOpts  browser.Options
	maxRetries   int
	baseWait     time.Duration
	statFields   StatLocators
	matchList    MatchListLocators
	searchResult SearchLocators
	logger       zerolog.Logger
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		browserOpts: browser.Options{
			LoadStrategy: cfg.LoadStrategy,
			Headless:     cfg.Headless,
		},
		maxRetries:   cfg.MaxRetries,
		baseWait:     cfg.BaseWait,
		statFields:   DefaultStatLocators(),
		matchList:    DefaultMatchListLocators(),
		searchResult: DefaultSearchLocators(),
		logger:       logger,
	}
}

// FetchPlayerStats resolves the player (unless ident is already
// known) and extracts the summary stat record under f.
func (c *Client) FetchPlayerStats(ctx context.Context, name string, ident *domain.PlayerIdentity, f Filter) (domain.PlayerIdentity, domain.StatRecord, error) {
	sess, err := browser.Open(c.browserOpts, c.logger)
	if err != nil {
		return domain.PlayerIdentity{}, nil, err
	}
	defer sess.Close()

	policy := c.newPolicy()

	resolved, err := c.resolve(ctx, sess, policy, name, ident)
	if err != nil {
		return domain.PlayerIdentity{}, nil, err
	}

	query := f.Format()
	statsURL := fmt.Sprintf("%s/stats/players/%s/%s", c.baseURL, resolved.ID, resolved.Slug)
	if query != "" {
		statsURL += "?" + query
	}

	extractor := NewExtractor(sess, c.logger)
	record, err := retry.Do(policy, "player stats", func() (domain.StatRecord, error) {
		return extractor.Extract(ctx, statsURL, c.statFields)
	})
	if err != nil {
		return resolved, nil, err
	}
	return resolved, record, nil
}

// FetchMatchReferences resolves the player (unless ident is already
// known) and crawls the full filtered match history.
func (c *Client) FetchMatchReferences(ctx context.Context, name string, ident *domain.PlayerIdentity, f Filter) (domain.PlayerIdentity, []domain.MatchReference, error) {
	sess, err := browser.Open(c.browserOpts, c.logger)
	if err != nil {
		return domain.PlayerIdentity{}, nil, err
	}
	defer sess.Close()

	policy := c.newPolicy()

	resolved, err := c.resolve(ctx, sess, policy, name, ident)
	if err != nil {
		return domain.PlayerIdentity{}, nil, err
	}

	listURL := fmt.Sprintf("%s/stats/players/matches/%s/%s", c.baseURL, resolved.ID, resolved.Slug)
	crawler := NewCrawler(sess, policy, c.matchList, constants.MatchPageSize, c.logger)

	refs, err := crawler.Collect(ctx, listURL, f.Format())
	if err != nil {
		return resolved, nil, err
	}
	for i := range refs {
		refs[i].PlayerID = resolved.ID
	}
	return resolved, refs, nil
}

func (c *Client) newPolicy() *retry.Policy {
	return retry.New(c.maxRetries, c.baseWait, c.logger)
}

func (c *Client) resolve(ctx context.Context, sess *browser.Session, policy *retry.Policy, name string, ident *domain.PlayerIdentity) (domain.PlayerIdentity, error) {
	if ident != nil && ident.ID != "" && ident.Slug != "" {
		return *ident, nil
	}
	finder := NewFinder(sess, policy, c.baseURL, c.searchResult, c.logger)
	return finder.Resolve(ctx, name)
}
