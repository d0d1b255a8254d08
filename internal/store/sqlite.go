package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db        *sql.DB
	validator *aqi.Validator
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
// A nil validator uses the default markers.
func NewSQLite(dsn string, v *aqi.Validator) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if v == nil {
		v = aqi.Default()
	}
	return &SQLiteStore{db: db, validator: v}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS results (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	city       TEXT NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_results_city ON results(city);

CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion)
	return eris.Wrap(err, "sqlite: record schema version")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, place, text string) (*model.SavedRecord, error) {
	place, text, err := ValidateRecord(s.validator, place, text)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO results (city, result, created_at) VALUES (?, ?, ?)`,
		place, text, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert result")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: last insert id")
	}
	return &model.SavedRecord{ID: id, Place: place, Text: text, CreatedAt: now}, nil
}

func (s *SQLiteStore) ListPlaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT TRIM(city) AS c FROM results WHERE TRIM(city) <> '' ORDER BY c`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list places")
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan place")
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate places")
	}
	return normalizePlaces(names), nil
}

func (s *SQLiteStore) ListSummaries(ctx context.Context) ([]model.PlaceSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT TRIM(city) AS c, COUNT(*) FROM results WHERE TRIM(city) <> '' GROUP BY c ORDER BY c`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list summaries")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.PlaceSummary{}
	for rows.Next() {
		var ps model.PlaceSummary
		if err := rows.Scan(&ps.Place, &ps.Records); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan summary")
		}
		out = append(out, ps)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate summaries")
}

func (s *SQLiteStore) CountRecords(ctx context.Context, place string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE city = ?`, trimPlace(place)).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: count records %s", place)
	}
	return n, nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context, place string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE city = ?`, trimPlace(place))
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete records %s", place)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return n, nil
}

func (s *SQLiteStore) GetOne(ctx context.Context, place string) (*model.SavedRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, city, result, created_at FROM results WHERE city = ? ORDER BY id LIMIT 1`,
		trimPlace(place))

	var r model.SavedRecord
	if err := row.Scan(&r.ID, &r.Place, &r.Text, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "sqlite: get record %s", place)
		}
		return nil, eris.Wrapf(err, "sqlite: get record %s", place)
	}
	return &r, nil
}
