package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hltv-tracker/internal/browser"
	"hltv-tracker/internal/config"
	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/retry"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *browser.Session {
	t.Helper()
	s, err := browser.Open(browser.Options{LoadStrategy: config.LoadEager, Headless: true}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func instantPolicy(maxRetries int) *retry.Policy {
	return retry.New(maxRetries, time.Millisecond, zerolog.Nop()).
		WithSleep(func(time.Duration) {})
}

const statsPage = `<html><body>
	<div class="summary">
		<div class="rt"><span class="val">1.15
some tooltip text</span></div>
		<div class="dpr"><span class="val"> 0.61 </span></div>
		<div class="kast"><span class="val">73.2%</span></div>
	</div>
</body></html>`

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statsPage)
	}))
	defer srv.Close()

	sess := newSession(t)
	e := NewExtractor(sess, zerolog.Nop())

	record, err := e.Extract(context.Background(), srv.URL, StatLocators{
		domain.FieldRating: "div.rt span.val",
		domain.FieldDPR:    "div.dpr span.val",
		domain.FieldKAST:   "div.kast span.val",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatRecord{
		domain.FieldRating: "1.15",
		domain.FieldDPR:    "0.61",
		domain.FieldKAST:   "73.2%",
	}, record, "values keep only the content up to the first line break, trimmed")
}

func TestExtractIsAtomic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statsPage)
	}))
	defer srv.Close()

	sess := newSession(t)
	e := NewExtractor(sess, zerolog.Nop())

	record, err := e.Extract(context.Background(), srv.URL, StatLocators{
		domain.FieldRating: "div.rt span.val",
		domain.FieldADR:    "div.adr span.val", // absent from the page
		domain.FieldKAST:   "div.kast span.val",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrNotFound)
	assert.Nil(t, record, "one missing locator fails the whole extraction, no partial record")
}

func TestExtractNavigationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sess := newSession(t)
	e := NewExtractor(sess, zerolog.Nop())

	_, err := e.Extract(context.Background(), srv.URL, StatLocators{
		domain.FieldRating: "div.rt span.val",
	})
	assert.Error(t, err)
}
