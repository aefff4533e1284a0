package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/scrape"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlayerService struct {
	player  *domain.Player
	stats   domain.StatRecord
	err     error
	gotName string
	gotF    scrape.Filter
	gotRef  bool
}

func (s *stubPlayerService) GetStats(_ context.Context, name string, f scrape.Filter, refresh bool) (*domain.Player, domain.StatRecord, error) {
	s.gotName = name
	s.gotF = f
	s.gotRef = refresh
	return s.player, s.stats, s.err
}

type stubMatchService struct {
	refs []domain.MatchReference
	err  error
}

func (s *stubMatchService) GetMatches(_ context.Context, _ string, _ scrape.Filter, _ bool) ([]domain.MatchReference, error) {
	return s.refs, s.err
}

func newTestServer(playerSvc PlayerStatsService, matchSvc MatchHistoryService) *httptest.Server {
	srv := NewTrackerServer(playerSvc, matchSvc, zerolog.Nop())
	srv.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	mux := http.NewServeMux()
	srv.Routes(mux)
	return httptest.NewServer(mux)
}

func fullRecord() domain.StatRecord {
	stats := make(domain.StatRecord, len(domain.StatFields))
	for i, field := range domain.StatFields {
		stats[field] = string(rune('0' + i))
	}
	return stats
}

func TestStatsEndpoint(t *testing.T) {
	playerSvc := &stubPlayerService{
		player: &domain.Player{ID: "7998", Slug: "s1mple", Name: "s1mple"},
		stats:  fullRecord(),
	}
	ts := newTestServer(playerSvc, &stubMatchService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/s1mple/stats?rankingFilter=Top5&refresh=true")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "s1mple", playerSvc.gotName)
	assert.True(t, playerSvc.gotRef)
	assert.Equal(t, "rankingFilter=Top5", playerSvc.gotF.Format())

	var payload statsResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, "7998", payload.Player.ID)
	assert.Equal(t, "s1mple", payload.Player.Slug)
	assert.Len(t, payload.Stats, len(domain.StatFields))
}

func TestStatsEndpointFilterFromQuery(t *testing.T) {
	playerSvc := &stubPlayerService{
		player: &domain.Player{ID: "7998", Slug: "s1mple", Name: "s1mple"},
		stats:  fullRecord(),
	}
	ts := newTestServer(playerSvc, &stubMatchService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/s1mple/stats?quickTime=Last+Month&matchType=Lan&maps=de_dust2&maps=de_mirage")
	require.NoError(t, err)
	res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t,
		"startDate=2025-05-16&endDate=2025-06-15&matchType=Lan&maps=de_dust2&de_mirage",
		playerSvc.gotF.Format())
}

func TestStatsEndpointNotFound(t *testing.T) {
	ts := newTestServer(&stubPlayerService{}, &stubMatchService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/nobody/stats")
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStatsEndpointBadDate(t *testing.T) {
	ts := newTestServer(&stubPlayerService{}, &stubMatchService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/s1mple/stats?startDate=15-06-2025")
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStatsEndpointServiceError(t *testing.T) {
	ts := newTestServer(&stubPlayerService{err: errors.New("database locked")}, &stubMatchService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/s1mple/stats")
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestMatchesEndpoint(t *testing.T) {
	matchSvc := &stubMatchService{
		refs: []domain.MatchReference{
			{URL: "/stats/matches/1/m1"},
			{URL: "/stats/matches/2/m2"},
		},
	}
	ts := newTestServer(&stubPlayerService{}, matchSvc)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/s1mple/matches")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var payload matchesResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, 2, payload.Total)
	assert.Equal(t, []string{"/stats/matches/1/m1", "/stats/matches/2/m2"}, payload.Matches)
}

func TestMatchesEndpointEmptyHistory(t *testing.T) {
	// not-found and exhausted both surface as an empty list
	ts := newTestServer(&stubPlayerService{}, &stubMatchService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/nobody/matches")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var payload matchesResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, 0, payload.Total)
	assert.Empty(t, payload.Matches)
}

func TestReportEndpoint(t *testing.T) {
	playerSvc := &stubPlayerService{
		player: &domain.Player{ID: "7998", Slug: "s1mple", Name: "s1mple"},
		stats:  fullRecord(),
	}
	ts := newTestServer(playerSvc, &stubMatchService{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/players/s1mple/report")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/plain")

	buf := make([]byte, 4096)
	n, _ := res.Body.Read(buf)
	body := string(buf[:n])
	assert.Contains(t, body, "Player Stat Report")
	assert.Contains(t, body, "s1mple")
}
