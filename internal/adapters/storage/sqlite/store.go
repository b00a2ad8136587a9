// Package sqlite provides a SQLite-backed session store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/openplayhq/rally/internal/adapters/storage"
	"github.com/openplayhq/rally/internal/adapters/storage/sqlite/migrations"
	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/session"
	_ "modernc.org/sqlite" // registers the sqlite driver
)

// snapshotRowID pins the snapshot table to a single row. One store
// holds one session.
const snapshotRowID = 1

// Store persists session state in SQLite: the latest snapshot as one
// JSON document plus an append-only game log.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite session store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := runMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSnapshot upserts the snapshot document and appends its game
// records to the log in one transaction. Records already in the log
// are left untouched.
func (s *Store) SaveSnapshot(ctx context.Context, snap session.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO session_snapshots (id, payload, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		snapshotRowID,
		string(payload),
		toMillis(time.Now()),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save snapshot: %w", err)
	}

	for _, rec := range snap.History {
		// Records without ids stay in the snapshot payload only.
		if rec.ID == "" {
			continue
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO game_records (
			   id, played_at, court,
			   team1_a, team1_b, team2_a, team2_b,
			   winner_a, winner_b
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID,
			toMillis(rec.PlayedAt),
			rec.Court,
			rec.Team1[0], rec.Team1[1],
			rec.Team2[0], rec.Team2[1],
			rec.Winners[0], rec.Winners[1],
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append game record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot transaction: %w", err)
	}
	return nil
}

// LoadSnapshot returns the persisted snapshot. A snapshot whose
// history is empty while the game log is not gets its history
// restored from the log.
func (s *Store) LoadSnapshot(ctx context.Context) (session.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return session.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return session.Snapshot{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT payload FROM session_snapshots WHERE id = ?`,
		snapshotRowID,
	)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Snapshot{}, storage.ErrNoSnapshot
		}
		return session.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	if len(snap.History) == 0 {
		games, err := s.listGames(ctx)
		if err != nil {
			return session.Snapshot{}, err
		}
		if len(games) > 0 {
			snap.History = games
		}
	}

	return snap, nil
}

// Reset deletes the snapshot and the game log in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM game_records`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("reset game records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM session_snapshots`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("reset snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset transaction: %w", err)
	}
	return nil
}

func (s *Store) listGames(ctx context.Context) ([]model.GameRecord, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, played_at, court,
		        team1_a, team1_b, team2_a, team2_b,
		        winner_a, winner_b
		   FROM game_records
		  ORDER BY played_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list game records: %w", err)
	}
	defer rows.Close()

	var games []model.GameRecord
	for rows.Next() {
		var rec model.GameRecord
		var playedAt int64
		if err := rows.Scan(
			&rec.ID,
			&playedAt,
			&rec.Court,
			&rec.Team1[0], &rec.Team1[1],
			&rec.Team2[0], &rec.Team2[1],
			&rec.Winners[0], &rec.Winners[1],
		); err != nil {
			return nil, fmt.Errorf("list game records: %w", err)
		}
		rec.PlayedAt = fromMillis(playedAt)
		games = append(games, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list game records: %w", err)
	}
	return games, nil
}

var _ storage.Store = (*Store)(nil)
