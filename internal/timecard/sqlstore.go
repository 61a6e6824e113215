package timecard

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/f130r/workspace01/internal/logging"
)

// SQLStore keeps records in an SQLite database. Row order is insertion
// order, which matches the CSV file.
type SQLStore struct {
	db   *sql.DB
	file string
	log  *zap.Logger
}

func OpenSQLStore(ctx context.Context, file string, log *zap.Logger) (*SQLStore, error) {
	if dir := filepath.Dir(file); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", file)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS timecard (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		date      TEXT NOT NULL,
		clock_in  TEXT NOT NULL DEFAULT '',
		clock_out TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &SQLStore{db: db, file: file, log: logging.OrNop(log)}, nil
}

func (s *SQLStore) Path() string { return s.file }

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, clock_in, clock_out FROM timecard ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query timecard: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Date, &r.Start, &r.End); err != nil {
			return nil, fmt.Errorf("scan timecard: %w", err)
		}
		recs = append(recs, r.Normalize())
	}
	return recs, rows.Err()
}

func (s *SQLStore) Save(ctx context.Context, recs []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timecard`); err != nil {
		return fmt.Errorf("clear timecard: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO timecard (date, clock_in, clock_out) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.Date, r.Start, r.End); err != nil {
			return fmt.Errorf("insert %s: %w", r.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("timecard saved", zap.String("file", s.file), zap.Int("records", len(recs)))
	return nil
}
