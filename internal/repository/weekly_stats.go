package repository

import (
	"context"
	"database/sql"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type WeeklyStatsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewWeeklyStatsRepository(sqlDB *sql.DB, logger zerolog.Logger) *WeeklyStatsRepository {
	return &WeeklyStatsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Projected and actual points come from separate fetches; COALESCE keeps
// whichever side the incoming row does not carry.
const mergeWeeklyStats = `
INSERT INTO player_weekly_stats (player_id, season, week, projected_points, actual_points, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(player_id, season, week) DO UPDATE SET
    projected_points = COALESCE(excluded.projected_points, player_weekly_stats.projected_points),
    actual_points    = COALESCE(excluded.actual_points, player_weekly_stats.actual_points),
    updated_at       = excluded.updated_at`

func (r *WeeklyStatsRepository) MergeBatch(ctx context.Context, stats []domain.WeeklyStats) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, mergeWeeklyStats)
	if err != nil {
		return fmt.Errorf("failed to prepare weekly stats merge: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, s := range stats {
		_, err := stmt.ExecContext(ctx, s.PlayerID, s.Season, s.Week, s.ProjectedPoints, s.ActualPoints, now, now)
		if err != nil {
			return fmt.Errorf("failed to merge weekly stats for player %d week %d: %w", s.PlayerID, s.Week, err)
		}
	}

	return tx.Commit()
}

// HasDataForWeek is true once a fetch for the week and source was logged and
// at least one stored row carries that value.
func (r *WeeklyStatsRepository) HasDataForWeek(ctx context.Context, season, week int, source domain.StatSource) (bool, error) {
	column := pointsColumn(source)
	query := fmt.Sprintf(`
SELECT EXISTS (SELECT 1 FROM fetch_log WHERE season = ? AND week = ? AND source = ?)
   AND EXISTS (SELECT 1 FROM player_weekly_stats WHERE season = ? AND week = ? AND %s IS NOT NULL)`, column)

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, season, week, string(source), season, week).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check stored data: %w", err)
	}
	return ok, nil
}

// CachedPlayerPoints rebuilds points for a week from stored rows, highest
// first. Injury and roster fields are left empty.
func (r *WeeklyStatsRepository) CachedPlayerPoints(ctx context.Context, season, week int, source domain.StatSource) ([]domain.PlayerPoints, error) {
	column := pointsColumn(source)
	query := fmt.Sprintf(`
SELECT p.player_id, p.name, p.position, p.team, s.%[1]s
FROM player_weekly_stats s
JOIN players p ON p.player_id = s.player_id
WHERE s.season = ? AND s.week = ? AND s.%[1]s IS NOT NULL
ORDER BY s.%[1]s DESC, p.name ASC`, column)

	rows, err := r.db.QueryContext(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached points: %w", err)
	}
	defer rows.Close()

	var out []domain.PlayerPoints
	for rows.Next() {
		pp := domain.PlayerPoints{Week: week, Projected: source == domain.SourceProjected}
		var team sql.NullString
		if err := rows.Scan(&pp.PlayerID, &pp.Name, &pp.Position, &team, &pp.Points); err != nil {
			return nil, fmt.Errorf("failed to scan cached points: %w", err)
		}
		if team.Valid {
			pp.ProTeam = &team.String
		}
		out = append(out, pp)
	}
	return out, rows.Err()
}

// HistoryForPlayers returns stored weeks 1..beforeWeek-1 of season for the
// given players, grouped by player id.
func (r *WeeklyStatsRepository) HistoryForPlayers(ctx context.Context, season, beforeWeek int, playerIDs []int64) (map[int64][]domain.WeeklyStats, error) {
	out := make(map[int64][]domain.WeeklyStats, len(playerIDs))
	if beforeWeek <= 1 || len(playerIDs) == 0 {
		return out, nil
	}

	for start := 0; start < len(playerIDs); start += constants.DBBatchSize {
		end := min(start+constants.DBBatchSize, len(playerIDs))
		chunk := playerIDs[start:end]

		args := make([]any, 0, len(chunk)+2)
		args = append(args, season, beforeWeek)
		for _, id := range chunk {
			args = append(args, id)
		}

		query := `
SELECT player_id, season, week, projected_points, actual_points, created_at, updated_at
FROM player_weekly_stats
WHERE season = ? AND week >= 1 AND week < ? AND player_id IN (?` + strings.Repeat(",?", len(chunk)-1) + `)
ORDER BY player_id, week`

		if err := r.scanInto(ctx, out, query, args...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *WeeklyStatsRepository) scanInto(ctx context.Context, out map[int64][]domain.WeeklyStats, query string, args ...any) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.WeeklyStats
		var projected, actual sql.NullFloat64
		if err := rows.Scan(&s.PlayerID, &s.Season, &s.Week, &projected, &actual, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan history: %w", err)
		}
		if projected.Valid {
			s.ProjectedPoints = &projected.Float64
		}
		if actual.Valid {
			s.ActualPoints = &actual.Float64
		}
		out[s.PlayerID] = append(out[s.PlayerID], s)
	}
	return rows.Err()
}

func (r *WeeklyStatsRepository) ClearAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"player_weekly_stats", "fetch_log", "players"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.Info().Msg("cleared all stored player data")
	return nil
}

func pointsColumn(source domain.StatSource) string {
	if source == domain.SourceProjected {
		return "projected_points"
	}
	return "actual_points"
}
