package repository

import (
	"context"
	"database/sql"
	"espn-ffl/internal/database"
	"espn-ffl/internal/domain"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func f(v float64) *float64 { return &v }

func seedPlayers(t *testing.T, db *sql.DB, ids ...int64) {
	t.Helper()
	repo := NewPlayerRepository(db, zerolog.Nop())
	players := make([]domain.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, domain.Player{PlayerID: id, Name: "Player", Position: "RB"})
	}
	require.NoError(t, repo.UpsertBatch(context.Background(), players))
}

func TestPlayerUpsert(t *testing.T) {
	db := openDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()
	team := "KC"

	require.NoError(t, repo.UpsertBatch(ctx, []domain.Player{{PlayerID: 1, Name: "A", Position: "QB", Team: &team}}))
	require.NoError(t, repo.UpsertBatch(ctx, []domain.Player{{PlayerID: 1, Name: "A. Renamed", Position: "QB"}, {PlayerID: 2, Name: "B", Position: "WR"}}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var name string
	var gotTeam sql.NullString
	require.NoError(t, db.QueryRow(`SELECT name, team FROM players WHERE player_id = 1`).Scan(&name, &gotTeam))
	assert.Equal(t, "A. Renamed", name)
	assert.Equal(t, "KC", gotTeam.String)
}

func TestMergeBatchKeepsBothSides(t *testing.T) {
	db := openDB(t)
	seedPlayers(t, db, 10)
	repo := NewWeeklyStatsRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.MergeBatch(ctx, []domain.WeeklyStats{{PlayerID: 10, Season: 2025, Week: 1, ProjectedPoints: f(14.5)}}))
	require.NoError(t, repo.MergeBatch(ctx, []domain.WeeklyStats{{PlayerID: 10, Season: 2025, Week: 1, ActualPoints: f(19.25)}}))

	history, err := repo.HistoryForPlayers(ctx, 2025, 2, []int64{10})
	require.NoError(t, err)
	require.Len(t, history[10], 1)
	assert.Equal(t, 14.5, *history[10][0].ProjectedPoints)
	assert.Equal(t, 19.25, *history[10][0].ActualPoints)
}

func TestHistoryForPlayers(t *testing.T) {
	db := openDB(t)
	seedPlayers(t, db, 1, 2, 3)
	repo := NewWeeklyStatsRepository(db, zerolog.Nop())
	ctx := context.Background()

	var rows []domain.WeeklyStats
	for w := 1; w <= 5; w++ {
		rows = append(rows,
			domain.WeeklyStats{PlayerID: 1, Season: 2025, Week: w, ProjectedPoints: f(10), ActualPoints: f(float64(w))},
			domain.WeeklyStats{PlayerID: 2, Season: 2025, Week: w, ProjectedPoints: f(5), ActualPoints: f(5)},
		)
	}
	rows = append(rows, domain.WeeklyStats{PlayerID: 1, Season: 2024, Week: 2, ProjectedPoints: f(1), ActualPoints: f(1)})
	require.NoError(t, repo.MergeBatch(ctx, rows))

	history, err := repo.HistoryForPlayers(ctx, 2025, 4, []int64{1, 3})
	require.NoError(t, err)
	require.Len(t, history[1], 3)
	assert.Equal(t, []int{1, 2, 3}, []int{history[1][0].Week, history[1][1].Week, history[1][2].Week})
	assert.Empty(t, history[2])
	assert.Empty(t, history[3])

	empty, err := repo.HistoryForPlayers(ctx, 2025, 1, []int64{1})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHasDataForWeekAndCachedPoints(t *testing.T) {
	db := openDB(t)
	seedPlayers(t, db, 1, 2)
	stats := NewWeeklyStatsRepository(db, zerolog.Nop())
	logs := NewFetchLogRepository(db, zerolog.Nop())
	ctx := context.Background()

	ok, err := stats.HasDataForWeek(ctx, 2025, 3, domain.SourceActual)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, stats.MergeBatch(ctx, []domain.WeeklyStats{
		{PlayerID: 1, Season: 2025, Week: 3, ActualPoints: f(8)},
		{PlayerID: 2, Season: 2025, Week: 3, ActualPoints: f(21)},
	}))

	ok, err = stats.HasDataForWeek(ctx, 2025, 3, domain.SourceActual)
	require.NoError(t, err)
	assert.False(t, ok, "rows without a logged fetch are not trusted")

	entry, err := logs.Record(ctx, domain.FetchLog{Season: 2025, Week: 3, Source: domain.SourceActual, PlayerCount: 2})
	require.NoError(t, err)
	assert.Len(t, entry.ID, 21)

	ok, err = stats.HasDataForWeek(ctx, 2025, 3, domain.SourceActual)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = stats.HasDataForWeek(ctx, 2025, 3, domain.SourceProjected)
	require.NoError(t, err)
	assert.False(t, ok)

	points, err := stats.CachedPlayerPoints(ctx, 2025, 3, domain.SourceActual)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, int64(2), points[0].PlayerID)
	assert.Equal(t, 21.0, points[0].Points)
	assert.False(t, points[0].Projected)
}

func TestFetchLogLatest(t *testing.T) {
	db := openDB(t)
	logs := NewFetchLogRepository(db, zerolog.Nop())
	ctx := context.Background()

	latest, err := logs.Latest(ctx, 2025, 1, domain.SourceProjected)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = logs.Record(ctx, domain.FetchLog{Season: 2025, Week: 1, Source: domain.SourceProjected, PlayerCount: 5})
	require.NoError(t, err)
	second, err := logs.Record(ctx, domain.FetchLog{Season: 2025, Week: 1, Source: domain.SourceProjected, PlayerCount: 9, FetchedAt: time.Now().UTC().Add(time.Minute)})
	require.NoError(t, err)

	latest, err = logs.Latest(ctx, 2025, 1, domain.SourceProjected)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 9, latest.PlayerCount)
	assert.Equal(t, domain.SourceProjected, latest.Source)
}

func TestClearAll(t *testing.T) {
	db := openDB(t)
	seedPlayers(t, db, 1)
	stats := NewWeeklyStatsRepository(db, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, stats.MergeBatch(ctx, []domain.WeeklyStats{{PlayerID: 1, Season: 2025, Week: 1, ActualPoints: f(1)}}))
	require.NoError(t, stats.ClearAll(ctx))

	n, err := NewPlayerRepository(db, zerolog.Nop()).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
