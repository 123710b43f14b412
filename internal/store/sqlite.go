package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"RationalPrice/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore caches price histories in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
// Entries older than ttl are treated as missing; ttl <= 0 never expires.
func NewSQLiteStore(dbPath string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, ttl: ttl, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite cache opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetches (
			symbol      TEXT    NOT NULL,
			sampling    TEXT    NOT NULL,
			start_ts    INTEGER NOT NULL,
			end_ts      INTEGER NOT NULL,
			fetched_at  INTEGER NOT NULL,
			point_count INTEGER NOT NULL,
			PRIMARY KEY (symbol, sampling, start_ts, end_ts)
		)`,

		`CREATE TABLE IF NOT EXISTS price_points (
			symbol    TEXT    NOT NULL,
			sampling  TEXT    NOT NULL,
			start_ts  INTEGER NOT NULL,
			end_ts    INTEGER NOT NULL,
			timestamp INTEGER NOT NULL,
			price     REAL    NOT NULL,
			PRIMARY KEY (symbol, sampling, start_ts, end_ts, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_request ON price_points(symbol, sampling, start_ts, end_ts)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(key Key) ([]model.PricePoint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fetchedAt int64
	var count int
	err := s.db.QueryRow(`SELECT fetched_at, point_count FROM fetches
		WHERE symbol = ? AND sampling = ? AND start_ts = ? AND end_ts = ?`,
		key.Symbol, key.Interval, key.Start.Unix(), key.End.Unix(),
	).Scan(&fetchedAt, &count)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query fetch: %w", err)
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(fetchedAt, 0)) > s.ttl {
		return nil, false, nil
	}

	rows, err := s.db.Query(`SELECT timestamp, price FROM price_points
		WHERE symbol = ? AND sampling = ? AND start_ts = ? AND end_ts = ?
		ORDER BY timestamp`,
		key.Symbol, key.Interval, key.Start.Unix(), key.End.Unix(),
	)
	if err != nil {
		return nil, false, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	points := make([]model.PricePoint, 0, count)
	for rows.Next() {
		var ts int64
		var price float64
		if err := rows.Scan(&ts, &price); err != nil {
			return nil, false, fmt.Errorf("scan point: %w", err)
		}
		points = append(points, model.PricePoint{Time: time.Unix(ts, 0).UTC(), Price: price})
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate points: %w", err)
	}
	if len(points) != count {
		log.Printf("[WARN] cache entry for %s has %d points, expected %d; ignoring", key.Symbol, len(points), count)
		return nil, false, nil
	}
	return points, true, nil
}

// Save replaces any cached entry for key.
func (s *SQLiteStore) Save(key Key, points []model.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	args := []any{key.Symbol, key.Interval, key.Start.Unix(), key.End.Unix()}
	if _, err := tx.Exec(`DELETE FROM price_points
		WHERE symbol = ? AND sampling = ? AND start_ts = ? AND end_ts = ?`, args...); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO price_points
		(symbol, sampling, start_ts, end_ts, timestamp, price)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, p := range points {
		if _, err := stmt.Exec(key.Symbol, key.Interval, key.Start.Unix(), key.End.Unix(), p.Time.Unix(), p.Price); err != nil {
			return fmt.Errorf("insert point: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO fetches
		(symbol, sampling, start_ts, end_ts, fetched_at, point_count)
		VALUES (?,?,?,?,?,?)`,
		key.Symbol, key.Interval, key.Start.Unix(), key.End.Unix(), s.now().Unix(), len(points),
	); err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite cache")
	return s.db.Close()
}
