package scrape

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hltv-tracker/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// PageSession is the slice of the browser session the scraping layer
// needs. *browser.Session implements it.
type PageSession interface {
	Navigate(ctx context.Context, url string) error
	Find(selector string) (*goquery.Selection, error)
	FindIndexed(template string, index int) (*goquery.Selection, error)
	Location() string
}

// Extractor turns a rendered page into a structured record through a
// declarative field→locator mapping. It carries no retry logic of its
// own; callers wrap Extract in a retry.Policy.
type Extractor struct {
	session PageSession
	logger  zerolog.Logger
}

func NewExtractor(session PageSession, logger zerolog.Logger) *Extractor {
	return &Extractor{session: session, logger: logger}
}

// Extract navigates to url and resolves every locator in fields.
// Extraction is atomic: if any locator fails to resolve the whole
// extraction fails and no partial record is returned.
func (e *Extractor) Extract(ctx context.Context, url string, fields StatLocators) (domain.StatRecord, error) {
	if err := e.session.Navigate(ctx, url); err != nil {
		return nil, err
	}

	names := make([]domain.StatField, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	record := make(domain.StatRecord, len(fields))
	for _, name := range names {
		sel, err := e.session.Find(fields[name])
		if err != nil {
			return nil, fmt.Errorf("extract %q: %w", name, err)
		}
		record[name] = firstLine(sel.Text())
	}

	e.logger.Debug().Str("url", url).Int("fields", len(record)).Msg("stats extracted")
	return record, nil
}

// firstLine keeps the element text up to its first line break; stat
// values sometimes render with multi-line tooltips or sub-labels
// appended.
func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
