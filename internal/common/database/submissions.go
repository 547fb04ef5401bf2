package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ErrSubmissionExists is returned when an outcome is already stored for the process instance.
var ErrSubmissionExists = errors.New("submission outcome already recorded")

const uniqueViolation = "23505"

const createSubmissionsTable = `
CREATE TABLE IF NOT EXISTS product_application_submissions (
	id                   UUID PRIMARY KEY,
	process_instance_key BIGINT NOT NULL UNIQUE,
	company_number       INTEGER NOT NULL,
	product_type         TEXT NOT NULL,
	result_code          INTEGER NOT NULL,
	accepted             BOOLEAN NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL
)`

// SubmissionRecord is one row of product_application_submissions.
type SubmissionRecord struct {
	ID                 string
	ProcessInstanceKey int64
	CompanyNumber      int
	ProductType        string
	ResultCode         int
	Accepted           bool
	CreatedAt          time.Time
}

// SubmissionStore persists underwriting outcomes.
type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// EnsureSchema creates the submissions table when missing.
func (s *SubmissionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSubmissionsTable); err != nil {
		return fmt.Errorf("create submissions table: %w", err)
	}
	return nil
}

// Insert stores rec. A second outcome for the same process instance yields
// ErrSubmissionExists, whether caught by the pre-check or by the unique index.
func (s *SubmissionStore) Insert(ctx context.Context, rec *SubmissionRecord) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM product_application_submissions
			WHERE process_instance_key = $1
		)`, rec.ProcessInstanceKey).Scan(&exists)
	if err != nil {
		return fmt.Errorf("duplicate check failed: %w", err)
	}
	if exists {
		return ErrSubmissionExists
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO product_application_submissions (
			id, process_instance_key, company_number, product_type,
			result_code, accepted, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID,
		rec.ProcessInstanceKey,
		rec.CompanyNumber,
		rec.ProductType,
		rec.ResultCode,
		rec.Accepted,
		rec.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrSubmissionExists
		}
		return fmt.Errorf("insert failed: %w", err)
	}

	return nil
}

// FindByProcessInstance returns the stored outcome, or sql.ErrNoRows.
func (s *SubmissionStore) FindByProcessInstance(ctx context.Context, processInstanceKey int64) (*SubmissionRecord, error) {
	rec := &SubmissionRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, process_instance_key, company_number, product_type,
		       result_code, accepted, created_at
		FROM product_application_submissions
		WHERE process_instance_key = $1`, processInstanceKey).Scan(
		&rec.ID,
		&rec.ProcessInstanceKey,
		&rec.CompanyNumber,
		&rec.ProductType,
		&rec.ResultCode,
		&rec.Accepted,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
