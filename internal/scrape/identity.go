package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"hltv-tracker/internal/browser"
	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/retry"

	"github.com/rs/zerolog"
)

// ErrPlayerNotFound reports that the search results rendered but held
// no player profile link. It is distinct from exhaustion: the lookup
// worked, the player does not exist.
var ErrPlayerNotFound = errors.New("player not found")

var playerLinkPattern = regexp.MustCompile(`^/player/(\d+)/([^/?#]+)`)

// Finder discovers a player's id and slug from the search page.
type Finder struct {
	session  PageSession
	policy   *retry.Policy
	baseURL  string
	locators SearchLocators
	logger   zerolog.Logger
}

func NewFinder(session PageSession, policy *retry.Policy, baseURL string, locators SearchLocators, logger zerolog.Logger) *Finder {
	return &Finder{
		session:  session,
		policy:   policy,
		baseURL:  baseURL,
		locators: locators,
		logger:   logger,
	}
}

// Resolve searches for name and parses the id/slug pair out of the
// first profile link. The whole search fetch runs under the retry
// policy; a missing link on an otherwise rendered results page is a
// definitive ErrPlayerNotFound, not a retryable failure.
func (f *Finder) Resolve(ctx context.Context, name string) (domain.PlayerIdentity, error) {
	searchURL := fmt.Sprintf("%s/search?query=%s", f.baseURL, url.QueryEscape(name))

	ident, err := retry.Do(f.policy, "player search", func() (domain.PlayerIdentity, error) {
		if err := f.session.Navigate(ctx, searchURL); err != nil {
			return domain.PlayerIdentity{}, err
		}
		if _, err := f.session.Find(f.locators.Container); err != nil {
			return domain.PlayerIdentity{}, fmt.Errorf("search results container: %w", err)
		}

		link, err := f.session.Find(f.locators.PlayerLink)
		if errors.Is(err, browser.ErrNotFound) {
			// results rendered, no such player; signalled as an empty
			// identity so the policy does not burn retries on it
			return domain.PlayerIdentity{}, nil
		}
		if err != nil {
			return domain.PlayerIdentity{}, err
		}

		href, ok := link.Attr("href")
		if !ok {
			return domain.PlayerIdentity{}, errors.New("player link has no href")
		}
		return parsePlayerLink(href)
	})
	if err != nil {
		return domain.PlayerIdentity{}, err
	}

	if ident.ID == "" {
		f.logger.Warn().Str("name", name).Msg("no player matched the search")
		return domain.PlayerIdentity{}, ErrPlayerNotFound
	}

	f.logger.Info().
		Str("name", name).
		Str("player_id", ident.ID).
		Str("slug", ident.Slug).
		Msg("player resolved")
	return ident, nil
}

func parsePlayerLink(href string) (domain.PlayerIdentity, error) {
	groups := playerLinkPattern.FindStringSubmatch(href)
	if len(groups) < 3 {
		return domain.PlayerIdentity{}, fmt.Errorf("unexpected player link %q", href)
	}
	return domain.PlayerIdentity{ID: groups[1], Slug: groups[2]}, nil
}
