package collector

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockAnalyzer/internal/model"
)

// CachedFetcher is a read-through SQLite cache of daily bars in front of another Fetcher.
// A request is served locally only when a previous fetch covered its whole range.
type CachedFetcher struct {
	inner Fetcher
	db    *sql.DB
	mu    sync.Mutex
	now   func() time.Time
}

// NewCachedFetcher opens (or creates) the SQLite cache and runs migrations.
func NewCachedFetcher(inner Fetcher, dbPath string) (*CachedFetcher, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &CachedFetcher{inner: inner, db: db, now: time.Now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] price cache opened: %s", dbPath)
	return c, nil
}

func (c *CachedFetcher) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT    NOT NULL,
			date   INTEGER NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE TABLE IF NOT EXISTS coverage (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol     TEXT    NOT NULL,
			start_date INTEGER NOT NULL,
			end_date   INTEGER NOT NULL,
			source     TEXT,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_coverage_symbol ON coverage(symbol)`,
	}

	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *CachedFetcher) Name() string { return c.inner.Name() + "+cache" }

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	covered, err := c.covered(ctx, symbol, start, end)
	if err != nil {
		log.Printf("[WARN] price cache lookup failed: %v", err)
	} else if covered {
		bars, err := c.load(ctx, symbol, start, end)
		if err == nil {
			if len(bars) == 0 {
				return nil, ErrNoData
			}
			return bars, nil
		}
		log.Printf("[WARN] price cache read failed, fetching remotely: %v", err)
	}

	bars, err := c.inner.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, symbol, start, end, bars); err != nil {
		log.Printf("[WARN] price cache write failed: %v", err)
	}
	return bars, nil
}

func (c *CachedFetcher) covered(ctx context.Context, symbol string, start, end time.Time) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM coverage WHERE symbol = ? AND start_date <= ? AND end_date >= ?`,
		symbol, start.Unix(), end.Unix(),
	).Scan(&n)
	return n > 0, err
}

func (c *CachedFetcher) load(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT date, open, high, low, close, volume FROM daily_bars
		 WHERE symbol = ? AND date >= ? AND date < ? ORDER BY date`,
		symbol, start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var ts int64
		var b model.OHLCV
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Time = time.Unix(ts, 0).UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (c *CachedFetcher) store(ctx context.Context, symbol string, start, end time.Time, bars []model.OHLCV) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range bars {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO daily_bars
			(symbol, date, open, high, low, close, volume) VALUES (?,?,?,?,?,?,?)`,
			symbol, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume,
		); err != nil {
			return err
		}
	}

	// Ranges reaching today or later may still grow; only settled ranges count as covered.
	if end.Before(model.Date(c.now())) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO coverage
			(symbol, start_date, end_date, source, fetched_at) VALUES (?,?,?,?,?)`,
			symbol, start.Unix(), end.Unix(), c.inner.Name(), c.now().Unix(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (c *CachedFetcher) Close() error {
	log.Println("[INFO] closing price cache")
	return c.db.Close()
}
