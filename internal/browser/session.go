// Package browser owns the page-rendering resource the scraper runs
// on: one HTTP client per session, carrying a cookie jar and the
// cloudflare bypass transport, plus the most recently rendered
// document. A Session is not safe for concurrent use; concurrent
// queries each take their own Session.
package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"sync"

	"hltv-tracker/internal/config"
	"hltv-tracker/internal/constants"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrNotFound marks a locator that resolved to no element on the
// current document. Depending on context this is either a retryable
// failure (element not rendered, or we were served a challenge page)
// or the expected end-of-page signal during pagination.
var ErrNotFound = errors.New("element not found")

const (
	headlessUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) HeadlessChrome/123.0.0.0 Safari/537.36"
	desktopUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

type Options struct {
	LoadStrategy config.LoadStrategy
	Headless     bool
}

// Session holds exactly one rendering resource for its lifetime.
type Session struct {
	client    *resty.Client
	logger    zerolog.Logger
	closeOnce sync.Once

	// state of the last successful navigation
	doc      *goquery.Document
	location string
}

// Open builds a ready-to-use session. Failures here are configuration
// or environment problems and are never retried.
func Open(opts Options, logger zerolog.Logger) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	if opts.Headless {
		client.SetHeader("user-agent", headlessUserAgent)
	} else {
		client.SetHeader("user-agent", desktopUserAgent)
	}

	switch opts.LoadStrategy {
	case config.LoadFull:
		client.SetTimeout(constants.NavigationTimeoutFull)
	default:
		client.SetTimeout(constants.NavigationTimeoutEager)
	}

	logger.Debug().
		Bool("headless", opts.Headless).
		Str("load_strategy", string(opts.LoadStrategy)).
		Msg("browser session opened")

	return &Session{client: client, logger: logger}, nil
}

// Navigate loads url and renders it into the session's current
// document. It does not guarantee the target content is present;
// callers must assert on a specific locator before reading.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.doc = nil
	s.location = ""

	res, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if res.StatusCode() >= 400 {
		return fmt.Errorf("navigate %s: status %d", url, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return fmt.Errorf("parse %s: %w", url, err)
	}

	s.doc = doc
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		s.location = raw.Request.URL.String()
	} else {
		s.location = url
	}

	s.logger.Debug().Str("url", url).Str("location", s.location).Msg("navigated")
	return nil
}

// Find resolves a single element on the current document.
func (s *Session) Find(selector string) (*goquery.Selection, error) {
	if s.doc == nil {
		return nil, errors.New("no document loaded")
	}
	sel := s.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%q: %w", selector, ErrNotFound)
	}
	return sel.First(), nil
}

// FindIndexed resolves the positional row pattern used by pagination:
// template must contain one %d verb for the 1-based position.
func (s *Session) FindIndexed(template string, index int) (*goquery.Selection, error) {
	return s.Find(fmt.Sprintf(template, index))
}

// Location reports the URL of the last navigation after redirects.
// Identity discovery reads ids and slugs out of it.
func (s *Session) Location() string {
	return s.location
}

// Close releases the rendering resource. It is safe to call on every
// exit path; only the first call does anything.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.client.GetClient().CloseIdleConnections()
		s.doc = nil
		s.logger.Debug().Msg("browser session closed")
	})
}
