package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hltv-tracker/internal/constants"
	"hltv-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(db *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: db, logger: logger}
}

// Replace swaps the cached match list for the player/filter pair with
// refs, atomically. A crawl always re-collects the whole history, so
// partial merges are never needed.
func (r *MatchRepository) Replace(ctx context.Context, playerID, filterQuery string, refs []domain.MatchReference) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM match_references WHERE player_id = ? AND filter_query = ?`,
		playerID, filterQuery)
	if err != nil {
		return fmt.Errorf("clear match references: %w", err)
	}

	now := time.Now()
	for i := 0; i < len(refs); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(refs))
		for _, ref := range refs[i:end] {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO match_references (player_id, filter_query, position, url, created_at)
				 VALUES (?, ?, ?, ?, ?)`,
				playerID, filterQuery, ref.Position, ref.URL, now)
			if err != nil {
				return fmt.Errorf("insert match reference %d: %w", ref.Position, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match references: %w", err)
	}

	r.logger.Debug().
		Str("player_id", playerID).
		Str("filter_query", filterQuery).
		Int("count", len(refs)).
		Msg("match references replaced")
	return nil
}

// Get returns the cached match list in crawl order.
func (r *MatchRepository) Get(ctx context.Context, playerID, filterQuery string) ([]domain.MatchReference, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, filter_query, position, url, created_at
		 FROM match_references
		 WHERE player_id = ? AND filter_query = ?
		 ORDER BY position`,
		playerID, filterQuery)
	if err != nil {
		return nil, fmt.Errorf("get match references: %w", err)
	}
	defer rows.Close()

	var refs []domain.MatchReference
	for rows.Next() {
		var ref domain.MatchReference
		if err := rows.Scan(&ref.PlayerID, &ref.FilterQuery, &ref.Position, &ref.URL, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match reference: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match references: %w", err)
	}
	return refs, nil
}

// Has reports whether any matches are cached for the pair.
func (r *MatchRepository) Has(ctx context.Context, playerID, filterQuery string) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_references WHERE player_id = ? AND filter_query = ?`,
		playerID, filterQuery)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("count match references: %w", err)
	}
	return count > 0, nil
}
