package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"CryptoFollow/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists records to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP API read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log.With().Str("component", "store").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			symbol         TEXT NOT NULL,
			kind           TEXT NOT NULL CHECK (kind IN ('BUY', 'SELL')),
			amount         REAL NOT NULL,
			price_per_unit REAL NOT NULL,
			timestamp      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_user_ts ON transactions(user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			symbol       TEXT NOT NULL,
			target_price REAL NOT NULL,
			condition    TEXT NOT NULL CHECK (condition IN ('ABOVE', 'BELOW')),
			is_active    INTEGER NOT NULL DEFAULT 1,
			user_email   TEXT,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_active ON alerts(is_active)`,

		`CREATE TABLE IF NOT EXISTS market_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			coin_id        TEXT,
			symbol         TEXT,
			rank           INTEGER,
			price_usd      REAL,
			market_cap_usd REAL,
			volume_24h_usd REAL,
			change_pct_24h REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON market_snapshots(symbol, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AddTransaction(ctx context.Context, tx *model.Transaction) error {
	prepareTransaction(tx)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions
		(id, user_id, symbol, kind, amount, price_per_unit, timestamp)
		VALUES (?,?,?,?,?,?,?)`,
		tx.ID, tx.UserID, tx.Symbol, string(tx.Kind), tx.Amount, tx.PricePerUnit, tx.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, symbol, kind, amount, price_per_unit, timestamp
		FROM transactions WHERE user_id = ? ORDER BY timestamp, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]model.Transaction, 0)
	for rows.Next() {
		var (
			tx   model.Transaction
			kind string
			ts   int64
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Symbol, &kind, &tx.Amount, &tx.PricePerUnit, &ts); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = model.TxKind(kind)
		tx.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) AddAlert(ctx context.Context, a *model.Alert) error {
	prepareAlert(a)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO alerts
		(id, user_id, symbol, target_price, condition, is_active, user_email, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		a.ID, a.UserID, a.Symbol, a.TargetPrice, string(a.Condition), a.Active, a.UserEmail, a.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAlerts(ctx context.Context, userID string) ([]model.Alert, error) {
	return s.queryAlerts(ctx, `WHERE user_id = ?`, userID)
}

func (s *SQLiteStore) ActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	return s.queryAlerts(ctx, `WHERE is_active = 1`)
}

func (s *SQLiteStore) queryAlerts(ctx context.Context, where string, args ...interface{}) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, symbol, target_price, condition, is_active,
		COALESCE(user_email, ''), created_at FROM alerts `+where+` ORDER BY created_at, rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Alert, 0)
	for rows.Next() {
		var (
			a         model.Alert
			condition string
			created   int64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Symbol, &a.TargetPrice, &condition, &a.Active, &a.UserEmail, &created); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Condition = model.Condition(condition)
		a.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeactivateAlerts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE alerts SET is_active = 0 WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("deactivate alerts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAlert(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) RecordSnapshot(ctx context.Context, markets []model.CoinMarket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer dbTx.Rollback()

	now := time.Now().Unix()
	for _, m := range markets {
		if _, err := dbTx.ExecContext(ctx, `INSERT INTO market_snapshots
			(timestamp, coin_id, symbol, rank, price_usd, market_cap_usd, volume_24h_usd, change_pct_24h)
			VALUES (?,?,?,?,?,?,?,?)`,
			now, m.ID, strings.ToUpper(m.Symbol), m.Rank, m.CurrentPrice, m.MarketCap, m.Volume24h, m.ChangePct24h,
		); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", m.Symbol, err)
		}
	}
	return dbTx.Commit()
}

// SnapshotCount returns the number of stored market snapshot rows.
func (s *SQLiteStore) SnapshotCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM market_snapshots`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
