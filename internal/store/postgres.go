package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/db"
	"github.com/sells-group/airquality-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool      db.Pool
	validator *aqi.Validator
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig, v *aqi.Validator) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return newPostgresWithPool(pool, v), nil
}

func newPostgresWithPool(pool db.Pool, v *aqi.Validator) *PostgresStore {
	if v == nil {
		v = aqi.Default()
	}
	return &PostgresStore{pool: pool, validator: v}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS results (
	id         BIGSERIAL PRIMARY KEY,
	city       TEXT NOT NULL,
	result     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_results_city ON results(city);

CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO schema_version (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`, SchemaVersion)
	return eris.Wrap(err, "postgres: record schema version")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, place, text string) (*model.SavedRecord, error) {
	place, text, err := ValidateRecord(s.validator, place, text)
	if err != nil {
		return nil, err
	}

	r := model.SavedRecord{Place: place, Text: text}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO results (city, result) VALUES ($1, $2) RETURNING id, created_at`,
		place, text,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert result")
	}
	return &r, nil
}

func (s *PostgresStore) ListPlaces(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT TRIM(city) AS c FROM results WHERE TRIM(city) <> '' ORDER BY c`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list places")
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan places")
	}
	return normalizePlaces(names), nil
}

func (s *PostgresStore) ListSummaries(ctx context.Context) ([]model.PlaceSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT TRIM(city) AS c, COUNT(*) FROM results WHERE TRIM(city) <> '' GROUP BY c ORDER BY c`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list summaries")
	}
	defer rows.Close()

	out := []model.PlaceSummary{}
	for rows.Next() {
		var (
			place string
			n     int64
		)
		if err := rows.Scan(&place, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan summary")
		}
		out = append(out, model.PlaceSummary{Place: place, Records: int(n)})
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate summaries")
}

func (s *PostgresStore) CountRecords(ctx context.Context, place string) (int, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM results WHERE city = $1`, trimPlace(place)).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: count records %s", place)
	}
	return int(n), nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context, place string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM results WHERE city = $1`, trimPlace(place))
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: delete records %s", place)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) GetOne(ctx context.Context, place string) (*model.SavedRecord, error) {
	var r model.SavedRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, city, result, created_at FROM results WHERE city = $1 ORDER BY id LIMIT 1`,
		trimPlace(place),
	).Scan(&r.ID, &r.Place, &r.Text, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: get record %s", place)
		}
		return nil, eris.Wrapf(err, "postgres: get record %s", place)
	}
	return &r, nil
}
