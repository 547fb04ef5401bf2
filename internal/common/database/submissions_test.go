package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	existsQuery = regexp.QuoteMeta("SELECT EXISTS(")
	insertQuery = regexp.QuoteMeta("INSERT INTO product_application_submissions")
)

func testRecord() *SubmissionRecord {
	return &SubmissionRecord{
		ID:                 "6f1c1a52-52b8-4c4e-bc1b-6a8e2f0e2a11",
		ProcessInstanceKey: 2251799813685249,
		CompanyNumber:      12345678,
		ProductType:        "businessLoans",
		ResultCode:         42,
		Accepted:           true,
		CreatedAt:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSubmissionStore_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := testRecord()
	mock.ExpectQuery(existsQuery).
		WithArgs(rec.ProcessInstanceKey).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertQuery).
		WithArgs(rec.ID, rec.ProcessInstanceKey, rec.CompanyNumber, rec.ProductType, rec.ResultCode, rec.Accepted, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewSubmissionStore(db).Insert(context.Background(), rec)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionStore_InsertDuplicate(t *testing.T) {
	t.Run("pre-check", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(existsQuery).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = NewSubmissionStore(db).Insert(context.Background(), testRecord())

		assert.ErrorIs(t, err, ErrSubmissionExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique index race", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(existsQuery).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(insertQuery).
			WillReturnError(&pq.Error{Code: "23505"})

		err = NewSubmissionStore(db).Insert(context.Background(), testRecord())

		assert.ErrorIs(t, err, ErrSubmissionExists)
	})
}

func TestSubmissionStore_InsertFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSubmissionStore(db)

	mock.ExpectQuery(existsQuery).WillReturnError(errors.New("connection refused"))
	err = store.Insert(context.Background(), testRecord())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubmissionExists)
	assert.Contains(t, err.Error(), "duplicate check failed")

	mock.ExpectQuery(existsQuery).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertQuery).WillReturnError(errors.New("disk full"))
	err = store.Insert(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionStore_FindByProcessInstance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := testRecord()
	mock.ExpectQuery(regexp.QuoteMeta("FROM product_application_submissions")).
		WithArgs(rec.ProcessInstanceKey).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "process_instance_key", "company_number", "product_type", "result_code", "accepted", "created_at",
		}).AddRow(rec.ID, rec.ProcessInstanceKey, rec.CompanyNumber, rec.ProductType, rec.ResultCode, rec.Accepted, rec.CreatedAt))
	mock.ExpectQuery(regexp.QuoteMeta("FROM product_application_submissions")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	store := NewSubmissionStore(db)
	found, err := store.FindByProcessInstance(context.Background(), rec.ProcessInstanceKey)
	require.NoError(t, err)
	assert.Equal(t, rec, found)

	_, err = store.FindByProcessInstance(context.Background(), 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSubmissionStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS product_application_submissions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewSubmissionStore(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
