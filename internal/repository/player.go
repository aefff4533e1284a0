package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hltv-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

// GetByName returns the cached player known under name, or nil when
// none is cached yet.
func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, slug, name, last_fetch_at, created_at, updated_at
		 FROM players WHERE name = ?`, name)

	var p domain.Player
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.LastFetchAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player by name: %w", err)
	}
	return &p, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, p *domain.Player) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (id, slug, name, last_fetch_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   slug = excluded.slug,
		   name = excluded.name,
		   updated_at = excluded.updated_at`,
		p.ID, p.Slug, p.Name, now, now, now)
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}

// ShouldRefresh reports whether the player's cached data is older
// than ttl. An unknown player always refreshes.
func (r *PlayerRepository) ShouldRefresh(ctx context.Context, playerID string, ttl time.Duration) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT last_fetch_at FROM players WHERE id = ?`, playerID)

	var lastFetchAt time.Time
	err := row.Scan(&lastFetchAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("player_id", playerID).Msg("player not cached, should refresh")
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get player last fetch: %w", err)
	}

	timeSince := time.Since(lastFetchAt)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Str("player_id", playerID).
		Time("last_fetch_at", lastFetchAt).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("refresh decision")
	return shouldRefresh, nil
}

func (r *PlayerRepository) SetLastFetchAt(ctx context.Context, playerID string, lastFetchAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE players SET last_fetch_at = ?, updated_at = ? WHERE id = ?`,
		lastFetchAt, time.Now(), playerID)
	if err != nil {
		return fmt.Errorf("set last fetch at: %w", err)
	}
	return nil
}
