package journal

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockJournal(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Journal) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, New(db)
}

func TestAppend_ExecError(t *testing.T) {
	db, mock, j := setupMockJournal(t)
	defer db.Close()

	e := mustEntry(t, "s1", 4, "CreateJob", map[string]string{"type": "repair"}, true, t0)

	mock.ExpectExec(`INSERT INTO entries`).
		WithArgs("s1", int64(4), "CreateJob", `{"type":"repair"}`, true, "2026-01-15T09:00:00.000000000Z").
		WillReturnError(errors.New("database is locked"))

	err := j.Append(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append CreateJob seq=4")
	assert.Contains(t, err.Error(), "database is locked")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_NilPayloadStoredAsNull(t *testing.T) {
	db, mock, j := setupMockJournal(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO entries`).
		WithArgs("s1", int64(1), "Tick", "null", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, j.Append(context.Background(), Entry{SessionID: "s1", Seq: 1, Kind: "Tick", RecordedAt: t0}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadSession_QueryError(t *testing.T) {
	db, mock, j := setupMockJournal(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT session_id, seq, kind, payload, applied, recorded_at`).
		WithArgs("s1").
		WillReturnError(errors.New("no such table: entries"))

	_, err := j.ReadSession(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query entries")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadSession_BadTimestamp(t *testing.T) {
	db, mock, j := setupMockJournal(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"session_id", "seq", "kind", "payload", "applied", "recorded_at"}).
		AddRow("s1", int64(1), "Login", "{}", int64(1), "yesterday")

	mock.ExpectQuery(`FROM entries`).
		WithArgs("s1").
		WillReturnRows(rows)

	_, err := j.ReadSession(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse recorded_at of seq=1")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessions_RowError(t *testing.T) {
	db, mock, j := setupMockJournal(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"session_id", "count", "applied", "first", "last"}).
		AddRow("s1", 2, 2, "2026-01-15T09:00:00.000000000Z", "2026-01-15T09:00:03.000000000Z").
		RowError(0, errors.New("disk I/O error"))

	mock.ExpectQuery(`GROUP BY session_id`).WillReturnRows(rows)

	_, err := j.Sessions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")

	assert.NoError(t, mock.ExpectationsWereMet())
}
