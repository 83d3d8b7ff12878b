// Package db persists fetched players, price snapshots, catalog fingerprints
// and upgrade runs in sqlite or postgres.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/udisondev/dpscalc/internal/config"
	"github.com/udisondev/dpscalc/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const memoryDSN = ":memory:"

// Store is a database/sql handle plus the dialect it speaks.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Open connects to the configured database and runs the dialect's init
// statements. Migrations are applied separately with Migrate.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	d, err := NewDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN()
	if _, ok := d.(sqliteDialect); ok && dsn != memoryDSN {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Dialect, err)
	}
	if dsn == memoryDSN {
		// every sqlite connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	for _, stmt := range d.InitStatements() {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("init %q: %w", stmt, err)
		}
	}
	return NewStore(sqlDB, d), nil
}

// NewStore wraps an open handle.
func NewStore(sqlDB *sql.DB, d Dialect) *Store {
	return &Store{db: sqlDB, dialect: d, now: time.Now}
}

// Close closes the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) q(query string) string { return rebind(s.dialect, query) }

// insertID runs an INSERT and returns the generated id column.
func (s *Store) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	if s.dialect.SupportsLastInsertID() {
		res, err := s.db.ExecContext(ctx, s.q(query), args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	var id int64
	err := s.db.QueryRowContext(ctx, s.q(query)+" RETURNING id", args...).Scan(&id)
	return id, err
}

// PlayerSnapshot is one fetch of a player's levels and worn item ids.
type PlayerSnapshot struct {
	Username  string
	Skills    map[model.Skill]int
	Equipment map[model.Slot]int
	FetchedAt time.Time
}

// SavePlayer appends a snapshot. A zero FetchedAt means now.
func (s *Store) SavePlayer(ctx context.Context, p PlayerSnapshot) error {
	if p.FetchedAt.IsZero() {
		p.FetchedAt = s.now()
	}
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("encoding skills: %w", err)
	}
	equipment, err := json.Marshal(p.Equipment)
	if err != nil {
		return fmt.Errorf("encoding equipment: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.q(
		`INSERT INTO player_snapshots (username, skills_json, equipment_json, fetched_at)
		 VALUES (?, ?, ?, ?)`),
		p.Username, string(skills), string(equipment), p.FetchedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving player %q: %w", p.Username, err)
	}
	return nil
}

// LatestPlayer returns the newest snapshot of username, matched
// case-insensitively.
func (s *Store) LatestPlayer(ctx context.Context, username string) (*PlayerSnapshot, error) {
	var (
		p                 PlayerSnapshot
		skills, equipment string
		at                int64
	)
	err := s.db.QueryRowContext(ctx, s.q(
		`SELECT username, skills_json, equipment_json, fetched_at
		 FROM player_snapshots WHERE LOWER(username) = LOWER(?)
		 ORDER BY fetched_at DESC, id DESC LIMIT 1`), username,
	).Scan(&p.Username, &skills, &equipment, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player %q: %w", username, err)
	}
	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills of %q: %w", username, err)
	}
	if err := json.Unmarshal([]byte(equipment), &p.Equipment); err != nil {
		return nil, fmt.Errorf("decoding equipment of %q: %w", username, err)
	}
	p.FetchedAt = time.UnixMilli(at)
	return &p, nil
}

// SavePrices stores a price snapshot in one transaction.
func (s *Store) SavePrices(ctx context.Context, quotes map[int]model.Quote, at time.Time) error {
	if at.IsZero() {
		at = s.now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning price snapshot: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.q(
		`INSERT INTO price_snapshots (item_id, high, low, fetched_at) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("preparing price insert: %w", err)
	}
	defer stmt.Close()

	ts := at.UnixMilli()
	for id, q := range quotes {
		if _, err := stmt.ExecContext(ctx, id, q.High, q.Low, ts); err != nil {
			return fmt.Errorf("saving price of item %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing price snapshot: %w", err)
	}
	return nil
}

// LoadPrices returns the newest stored quote of every item.
func (s *Store) LoadPrices(ctx context.Context) (map[int]model.Quote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.item_id, p.high, p.low
		 FROM price_snapshots p
		 JOIN (SELECT item_id, MAX(fetched_at) AS fetched_at
		       FROM price_snapshots GROUP BY item_id) latest
		   ON p.item_id = latest.item_id AND p.fetched_at = latest.fetched_at`)
	if err != nil {
		return nil, fmt.Errorf("querying prices: %w", err)
	}
	defer rows.Close()

	out := make(map[int]model.Quote)
	for rows.Next() {
		var (
			id int
			q  model.Quote
		)
		if err := rows.Scan(&id, &q.High, &q.Low); err != nil {
			return nil, fmt.Errorf("scanning price: %w", err)
		}
		out[id] = q
	}
	return out, rows.Err()
}

// RecordCatalog stores a catalog fingerprint. It reports false when the same
// kind with the same fingerprint was recorded before.
func (s *Store) RecordCatalog(ctx context.Context, kind, fingerprint string, count int) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.q(
		`SELECT COUNT(*) FROM catalog_snapshots WHERE kind = ? AND fingerprint = ?`),
		kind, fingerprint,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying catalog %s: %w", kind, err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, s.q(
		`INSERT INTO catalog_snapshots (fingerprint, kind, item_count, loaded_at) VALUES (?, ?, ?, ?)`),
		fingerprint, kind, count, s.now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("recording catalog %s: %w", kind, err)
	}
	return true, nil
}

// RunSuggestion is the persisted form of one upgrade suggestion.
type RunSuggestion struct {
	Items      string  `json:"items"`
	Price      int     `json:"price"`
	DPSGain    float64 `json:"dps_gain"`
	Efficiency float64 `json:"efficiency"`
}

// UpgradeRun is one upgrade search with its ranked suggestions.
type UpgradeRun struct {
	ID          int64
	Username    string
	Target      string
	BaselineDPS float64
	Suggestions []RunSuggestion
	CreatedAt   time.Time
}

// SaveUpgradeRun stores run and returns its id.
func (s *Store) SaveUpgradeRun(ctx context.Context, run UpgradeRun) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	if run.Suggestions == nil {
		run.Suggestions = []RunSuggestion{}
	}
	raw, err := json.Marshal(run.Suggestions)
	if err != nil {
		return 0, fmt.Errorf("encoding suggestions: %w", err)
	}

	id, err := s.insertID(ctx,
		`INSERT INTO upgrade_runs (username, target, baseline_dps, suggestions_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.Username, run.Target, run.BaselineDPS, string(raw), run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("saving upgrade run: %w", err)
	}
	return id, nil
}

// RecentUpgradeRuns returns up to limit runs, newest first.
func (s *Store) RecentUpgradeRuns(ctx context.Context, limit int) ([]UpgradeRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT id, username, target, baseline_dps, suggestions_json, created_at
		 FROM upgrade_runs ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("querying upgrade runs: %w", err)
	}
	defer rows.Close()

	var runs []UpgradeRun
	for rows.Next() {
		var (
			run UpgradeRun
			raw string
			at  int64
		)
		if err := rows.Scan(&run.ID, &run.Username, &run.Target, &run.BaselineDPS, &raw, &at); err != nil {
			return nil, fmt.Errorf("scanning upgrade run: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &run.Suggestions); err != nil {
			return nil, fmt.Errorf("decoding suggestions of run %d: %w", run.ID, err)
		}
		run.CreatedAt = time.UnixMilli(at)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
