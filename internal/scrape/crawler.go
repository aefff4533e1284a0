package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hltv-tracker/internal/browser"
	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/retry"

	"github.com/rs/zerolog"
)

// Crawler collects a player's full match history by walking the
// paginated list at increasing offsets until a short or empty page
// signals exhaustion.
type Crawler struct {
	session  PageSession
	policy   *retry.Policy
	locators MatchListLocators
	pageSize int
	logger   zerolog.Logger
}

func NewCrawler(session PageSession, policy *retry.Policy, locators MatchListLocators, pageSize int, logger zerolog.Logger) *Crawler {
	return &Crawler{
		session:  session,
		policy:   policy,
		locators: locators,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Collect walks the match list at baseURL filtered by query. Each
// page fetch runs as one unit under the retry policy: a transient
// failure mid-page restarts the whole page from the same offset,
// never mid-row. A result count that is an exact multiple of the page
// size costs one extra fetch that comes back empty before the crawl
// halts; that is intended.
func (c *Crawler) Collect(ctx context.Context, baseURL, query string) ([]domain.MatchReference, error) {
	var collected []domain.MatchReference
	offset := 0

	for {
		url := pageURL(baseURL, query, offset)

		refs, err := retry.Do(c.policy, "match history page", func() ([]domain.MatchReference, error) {
			return c.fetchPage(ctx, url, query, offset)
		})
		if err != nil {
			return nil, fmt.Errorf("collect matches at offset %d: %w", offset, err)
		}

		c.logger.Info().
			Int("offset", offset).
			Int("rows", len(refs)).
			Int("total", len(collected)+len(refs)).
			Msg("match page collected")

		collected = append(collected, refs...)

		if len(refs) < c.pageSize {
			// a short page (including an empty one) means no further
			// pages exist
			return collected, nil
		}
		offset += c.pageSize
	}
}

// fetchPage loads one page and probes row positions 1..pageSize in
// order. Rows are contiguous; the first position that fails to
// resolve ends the page.
func (c *Crawler) fetchPage(ctx context.Context, url, query string, offset int) ([]domain.MatchReference, error) {
	if err := c.session.Navigate(ctx, url); err != nil {
		return nil, err
	}

	if _, err := c.session.Find(c.locators.Container); err != nil {
		return nil, fmt.Errorf("results container: %w", err)
	}

	var refs []domain.MatchReference
	for position := 1; position <= c.pageSize; position++ {
		row, err := c.session.FindIndexed(c.locators.Row, position)
		if errors.Is(err, browser.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}

		href, ok := row.Attr("href")
		if !ok {
			return nil, fmt.Errorf("match row %d has no href", position)
		}
		refs = append(refs, domain.MatchReference{
			FilterQuery: query,
			Position:    offset + position - 1,
			URL:         href,
		})
	}

	return refs, nil
}

// pageURL appends the offset (omitted when zero) and the filter query
// string to the list URL.
func pageURL(base, query string, offset int) string {
	var params []string
	if offset > 0 {
		params = append(params, fmt.Sprintf("offset=%d", offset))
	}
	if query != "" {
		params = append(params, query)
	}
	if len(params) == 0 {
		return base
	}
	return base + "?" + strings.Join(params, "&")
}
