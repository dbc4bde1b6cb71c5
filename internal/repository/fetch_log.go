package repository

import (
	"context"
	"database/sql"
	"espn-ffl/internal/domain"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type FetchLogRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewFetchLogRepository(sqlDB *sql.DB, logger zerolog.Logger) *FetchLogRepository {
	return &FetchLogRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *FetchLogRepository) Record(ctx context.Context, entry domain.FetchLog) (*domain.FetchLog, error) {
	if entry.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate nanoid: %w", err)
		}
		entry.ID = id
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fetch_log (id, season, week, source, player_count, fetched_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Season, entry.Week, string(entry.Source), entry.PlayerCount, entry.FetchedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record fetch: %w", err)
	}
	return &entry, nil
}

// Latest returns nil when the week and source were never fetched.
func (r *FetchLogRepository) Latest(ctx context.Context, season, week int, source domain.StatSource) (*domain.FetchLog, error) {
	var entry domain.FetchLog
	var src string
	err := r.db.QueryRowContext(ctx, `
SELECT id, season, week, source, player_count, fetched_at
FROM fetch_log
WHERE season = ? AND week = ? AND source = ?
ORDER BY fetched_at DESC
LIMIT 1`, season, week, string(source)).
		Scan(&entry.ID, &entry.Season, &entry.Week, &src, &entry.PlayerCount, &entry.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest fetch: %w", err)
	}
	entry.Source = domain.StatSource(src)
	return &entry, nil
}
