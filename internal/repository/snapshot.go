package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hltv-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// SnapshotRepository caches extracted stat records, keyed by player
// and the canonical filter query string the extraction ran under.
type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSnapshotRepository(db *sql.DB, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logger}
}

func (r *SnapshotRepository) Upsert(ctx context.Context, playerID, filterQuery string, stats domain.StatRecord) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("generate snapshot id: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO stat_snapshots
		   (id, player_id, filter_query, rating, t_side_rating, ct_side_rating,
		    round_swing, dpr, kast, multi_kill, adr, kpr, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player_id, filter_query) DO UPDATE SET
		   rating = excluded.rating,
		   t_side_rating = excluded.t_side_rating,
		   ct_side_rating = excluded.ct_side_rating,
		   round_swing = excluded.round_swing,
		   dpr = excluded.dpr,
		   kast = excluded.kast,
		   multi_kill = excluded.multi_kill,
		   adr = excluded.adr,
		   kpr = excluded.kpr,
		   updated_at = excluded.updated_at`,
		id, playerID, filterQuery,
		stats[domain.FieldRating], stats[domain.FieldTSideRating], stats[domain.FieldCTSideRate],
		stats[domain.FieldRoundSwing], stats[domain.FieldDPR], stats[domain.FieldKAST],
		stats[domain.FieldMultiKill], stats[domain.FieldADR], stats[domain.FieldKPR],
		now, now)
	if err != nil {
		return fmt.Errorf("upsert stat snapshot: %w", err)
	}
	return nil
}

// Get returns the cached record for the player under filterQuery, or
// nil when nothing is cached.
func (r *SnapshotRepository) Get(ctx context.Context, playerID, filterQuery string) (domain.StatRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT rating, t_side_rating, ct_side_rating, round_swing,
		        dpr, kast, multi_kill, adr, kpr
		 FROM stat_snapshots WHERE player_id = ? AND filter_query = ?`,
		playerID, filterQuery)

	stats := make(domain.StatRecord, len(domain.StatFields))
	var rating, tSide, ctSide, swing, dpr, kast, multiKill, adr, kpr string
	err := row.Scan(&rating, &tSide, &ctSide, &swing, &dpr, &kast, &multiKill, &adr, &kpr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stat snapshot: %w", err)
	}

	stats[domain.FieldRating] = rating
	stats[domain.FieldTSideRating] = tSide
	stats[domain.FieldCTSideRate] = ctSide
	stats[domain.FieldRoundSwing] = swing
	stats[domain.FieldDPR] = dpr
	stats[domain.FieldKAST] = kast
	stats[domain.FieldMultiKill] = multiKill
	stats[domain.FieldADR] = adr
	stats[domain.FieldKPR] = kpr
	return stats, nil
}
