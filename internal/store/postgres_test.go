package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/airquality-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return newPostgresWithPool(mock, nil), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS results`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`INSERT INTO schema_version`).
		WithArgs(SchemaVersion).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Insert(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO results \(city, result\) VALUES \(\$1, \$2\) RETURNING id, created_at`).
		WithArgs("Paris", validText).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	rec, err := s.Insert(context.Background(), " Paris ", validText+"\n")
	require.NoError(t, err)
	assert.Equal(t, &model.SavedRecord{ID: 7, Place: "Paris", Text: validText, CreatedAt: now}, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertRejectedSkipsDatabase(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	_, err := s.Insert(context.Background(), "Paris", "HTTP Error 500")
	assert.ErrorIs(t, err, ErrRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListPlaces(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT DISTINCT TRIM\(city\)`).
		WillReturnRows(pgxmock.NewRows([]string{"c"}).AddRow("Lima").AddRow("Paris"))

	names, err := s.ListPlaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Lima", "Paris"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListSummaries(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT TRIM\(city\) AS c, COUNT\(\*\) FROM results`).
		WillReturnRows(pgxmock.NewRows([]string{"c", "count"}).AddRow("Lima", int64(1)).AddRow("Paris", int64(3)))

	sums, err := s.ListSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.PlaceSummary{{Place: "Lima", Records: 1}, {Place: "Paris", Records: 3}}, sums)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountRecords(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM results WHERE city = \$1`).
		WithArgs("Paris").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := s.CountRecords(context.Background(), "Paris ")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteAll(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM results WHERE city = \$1`).
		WithArgs("Paris").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteAll(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetOne_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, city, result, created_at FROM results WHERE city = \$1 ORDER BY id LIMIT 1`).
		WithArgs("Atlantis").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetOne(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetOne_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, city, result, created_at FROM results`).
		WithArgs("Paris").
		WillReturnError(errors.New("conn reset"))

	_, err := s.GetOne(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "postgres: get record")
	assert.NoError(t, mock.ExpectationsWereMet())
}
