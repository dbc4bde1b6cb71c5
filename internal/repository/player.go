package repository

import (
	"context"
	"database/sql"
	"espn-ffl/internal/constants"
	"espn-ffl/internal/domain"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const upsertPlayer = `
INSERT INTO players (player_id, name, position, team, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(player_id) DO UPDATE SET
    name       = excluded.name,
    position   = excluded.position,
    team       = COALESCE(excluded.team, players.team),
    updated_at = excluded.updated_at`

func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertPlayer)
	if err != nil {
		return fmt.Errorf("failed to prepare player upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, p := range players {
		if _, err := stmt.ExecContext(ctx, p.PlayerID, p.Name, p.Position, p.Team, now, now); err != nil {
			return fmt.Errorf("failed to upsert player %d: %w", p.PlayerID, err)
		}
		if (i+1)%constants.DBBatchSize == 0 {
			r.logger.Debug().Int("count", i+1).Msg("players upserted")
		}
	}

	return tx.Commit()
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}
