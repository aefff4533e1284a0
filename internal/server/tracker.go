// Package server is the JSON API surface over the cached scraper.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hltv-tracker/internal/domain"
	"hltv-tracker/internal/report"
	"hltv-tracker/internal/scrape"

	"github.com/rs/zerolog"
)

// PlayerStatsService is the slice of the service layer the stats
// endpoints need. *service.PlayerService implements it.
type PlayerStatsService interface {
	GetStats(ctx context.Context, name string, f scrape.Filter, refresh bool) (*domain.Player, domain.StatRecord, error)
}

// MatchHistoryService is the slice of the service layer the match
// endpoints need. *service.MatchService implements it.
type MatchHistoryService interface {
	GetMatches(ctx context.Context, name string, f scrape.Filter, refresh bool) ([]domain.MatchReference, error)
}

type TrackerServer struct {
	playerSvc PlayerStatsService
	matchSvc  MatchHistoryService
	logger    zerolog.Logger
	now       func() time.Time
}

func NewTrackerServer(playerSvc PlayerStatsService, matchSvc MatchHistoryService, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{
		playerSvc: playerSvc,
		matchSvc:  matchSvc,
		logger:    logger,
		now:       time.Now,
	}
}

// Routes registers the API endpoints on mux.
func (s *TrackerServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players/{name}/stats", s.handleStats)
	mux.HandleFunc("GET /api/players/{name}/matches", s.handleMatches)
	mux.HandleFunc("GET /api/players/{name}/report", s.handleReport)
}

type playerPayload struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type statsResponse struct {
	Player playerPayload     `json:"player"`
	Stats  map[string]string `json:"stats"`
}

type matchesResponse struct {
	Name    string   `json:"name"`
	Total   int      `json:"total"`
	Matches []string `json:"matches"`
}

func (s *TrackerServer) handleStats(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, refresh, err := s.parseFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	player, stats, err := s.playerSvc.GetStats(r.Context(), name, f, refresh)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if player == nil {
		// not found and retry-exhausted both land here; the logs
		// carry the distinction
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no stats available for %q", name))
		return
	}

	payload := statsResponse{
		Player: playerPayload{ID: player.ID, Slug: player.Slug, Name: player.Name},
		Stats:  make(map[string]string, len(stats)),
	}
	for field, value := range stats {
		payload.Stats[string(field)] = value
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *TrackerServer) handleMatches(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, refresh, err := s.parseFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	refs, err := s.matchSvc.GetMatches(r.Context(), name, f, refresh)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		urls = append(urls, ref.URL)
	}
	s.writeJSON(w, http.StatusOK, matchesResponse{Name: name, Total: len(urls), Matches: urls})
}

func (s *TrackerServer) handleReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, refresh, err := s.parseFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	player, stats, err := s.playerSvc.GetStats(r.Context(), name, f, refresh)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if player == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no stats available for %q", name))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, report.Render(player.Name, stats))
}

// parseFilter builds the scrape filter from query parameters. Dates
// use the site's YYYY-MM-DD layout; maps may repeat.
func (s *TrackerServer) parseFilter(r *http.Request) (scrape.Filter, bool, error) {
	q := r.URL.Query()

	opts := scrape.FilterOptions{
		QuickTime: scrape.QuickTime(q.Get("quickTime")),
		MatchType: q.Get("matchType"),
		CSVersion: q.Get("csVersion"),
		Maps:      q["maps"],
		Ranking:   q.Get("rankingFilter"),
	}

	for _, date := range []struct {
		key string
		dst *time.Time
	}{
		{"startDate", &opts.StartDate},
		{"endDate", &opts.EndDate},
	} {
		raw := q.Get(date.key)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return scrape.Filter{}, false, fmt.Errorf("%s %q is not a YYYY-MM-DD date", date.key, raw)
		}
		*date.dst = t
	}

	refresh := false
	if raw := q.Get("refresh"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return scrape.Filter{}, false, fmt.Errorf("refresh %q is not a boolean", raw)
		}
		refresh = b
	}

	return scrape.NewFilter(opts, s.now), refresh, nil
}

func (s *TrackerServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *TrackerServer) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
