// Package postgres persists submissions and their audit log children.
//
// The submissions table carries both keys: submission_id is the business key
// exposed to clients, internal_id is the bigserial surrogate key referenced
// by submission_audit_log. Create returns only after the surrogate key is
// assigned, which is what makes parent-before-child log writes safe.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"applyform/internal/submission"
	"applyform/pkg/platform/sentinel"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// classifyConstraint translates driver error codes into sentinel errors at
// the point of failure. Message text is never inspected.
func classifyConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %s", sentinel.ErrUniqueViolation, pqErr.Constraint)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %s", sentinel.ErrForeignKey, pqErr.Constraint)
	default:
		return err
	}
}

func (s *Store) Create(ctx context.Context, sub *submission.Submission) error {
	query := `
		INSERT INTO submissions (
			submission_id, user_email, status, email_verified,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING internal_id
	`
	err := s.db.QueryRowContext(ctx, query,
		sub.SubmissionID,
		sub.UserEmail,
		int(sub.Status),
		sub.EmailVerified,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Scan(&sub.InternalID)
	if err != nil {
		return fmt.Errorf("insert submission: %w", classifyConstraint(err))
	}
	return nil
}

func (s *Store) Get(ctx context.Context, submissionID string) (*submission.Submission, error) {
	query := `
		SELECT internal_id, submission_id, user_email, form_snapshot,
		       client_ip, request_metadata, status, email_verified,
		       verification_token, verification_attempts,
		       verification_sent_at, verification_expires_at,
		       document_file_name, document_storage_url,
		       created_at, updated_at
		FROM submissions
		WHERE submission_id = $1
	`
	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, submissionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query submission: %w", err)
	}

	logs, err := s.listLogs(ctx, sub.InternalID)
	if err != nil {
		return nil, err
	}
	sub.Logs = logs
	return sub, nil
}

func (s *Store) Update(ctx context.Context, sub *submission.Submission) error {
	query := `
		UPDATE submissions SET
			user_email = $2,
			form_snapshot = $3,
			client_ip = $4,
			request_metadata = $5,
			status = $6,
			email_verified = $7,
			verification_token = $8,
			verification_attempts = $9,
			verification_sent_at = $10,
			verification_expires_at = $11,
			document_file_name = $12,
			document_storage_url = $13,
			updated_at = $14
		WHERE submission_id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		sub.SubmissionID,
		sub.UserEmail,
		nullBytes(sub.FormSnapshot),
		nullString(sub.ClientIP),
		nullString(sub.RequestMetadata),
		int(sub.Status),
		sub.EmailVerified,
		nullString(sub.VerificationToken),
		sub.VerificationAttempts,
		sub.VerificationSentAt,
		sub.VerificationExpiresAt,
		nullString(sub.DocumentFileName),
		nullString(sub.DocumentStorageURL),
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", classifyConstraint(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) AppendLog(ctx context.Context, internalID int64, entry submission.AuditEntry) error {
	query := `
		INSERT INTO submission_audit_log (submission_internal_id, action, details, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, internalID, entry.Action, entry.Details, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", classifyConstraint(err))
	}
	return nil
}

func (s *Store) List(ctx context.Context, filter submission.ListFilter) ([]*submission.Submission, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	n := 0
	next := func() string { n++; return fmt.Sprintf("$%d", n) }

	if filter.Status != nil {
		where += " AND status = " + next()
		args = append(args, int(*filter.Status))
	}
	if filter.From != nil {
		where += " AND created_at >= " + next()
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where += " AND created_at <= " + next()
		args = append(args, *filter.To)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}

	query := `
		SELECT internal_id, submission_id, user_email, form_snapshot,
		       client_ip, request_metadata, status, email_verified,
		       verification_token, verification_attempts,
		       verification_sent_at, verification_expires_at,
		       document_file_name, document_storage_url,
		       created_at, updated_at
		FROM submissions ` + where + `
		ORDER BY created_at DESC
		LIMIT ` + next() + ` OFFSET ` + next()
	args = append(args, size, (page-1)*size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []*submission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, total, nil
}

func (s *Store) Delete(ctx context.Context, submissionID string) error {
	// Audit children go first; the FK has no ON DELETE CASCADE so a failed
	// parent delete can never orphan log rows silently.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM submission_audit_log
		WHERE submission_internal_id = (
			SELECT internal_id FROM submissions WHERE submission_id = $1
		)`, submissionID)
	if err != nil {
		return fmt.Errorf("delete audit entries: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE submission_id = $1`, submissionID)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return tx.Commit()
}

func (s *Store) listLogs(ctx context.Context, internalID int64) ([]submission.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action, details, created_at
		FROM submission_audit_log
		WHERE submission_internal_id = $1
		ORDER BY created_at, id
	`, internalID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []submission.AuditEntry
	for rows.Next() {
		var entry submission.AuditEntry
		if err := rows.Scan(&entry.Action, &entry.Details, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*submission.Submission, error) {
	var (
		sub          submission.Submission
		snapshot     []byte
		clientIP     sql.NullString
		metadata     sql.NullString
		status       int
		token        sql.NullString
		sentAt       sql.NullTime
		expiresAt    sql.NullTime
		fileName     sql.NullString
		storageURL   sql.NullString
	)

	err := row.Scan(
		&sub.InternalID,
		&sub.SubmissionID,
		&sub.UserEmail,
		&snapshot,
		&clientIP,
		&metadata,
		&status,
		&sub.EmailVerified,
		&token,
		&sub.VerificationAttempts,
		&sentAt,
		&expiresAt,
		&fileName,
		&storageURL,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.FormSnapshot = snapshot
	sub.ClientIP = clientIP.String
	sub.RequestMetadata = metadata.String
	sub.Status = submission.Status(status)
	sub.VerificationToken = token.String
	if sentAt.Valid {
		t := sentAt.Time
		sub.VerificationSentAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		sub.VerificationExpiresAt = &t
	}
	sub.DocumentFileName = fileName.String
	sub.DocumentStorageURL = storageURL.String
	return &sub, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

var _ submission.Store = (*Store)(nil)

// Schema is applied by the operator or the integration test harness; the
// server does not migrate on boot.
const Schema = `
CREATE TABLE IF NOT EXISTS submissions (
	internal_id             BIGSERIAL PRIMARY KEY,
	submission_id           TEXT NOT NULL UNIQUE,
	user_email              TEXT NOT NULL,
	form_snapshot           JSONB,
	client_ip               TEXT,
	request_metadata        TEXT,
	status                  INT NOT NULL,
	email_verified          BOOLEAN NOT NULL DEFAULT FALSE,
	verification_token      TEXT,
	verification_attempts   INT NOT NULL DEFAULT 0,
	verification_sent_at    TIMESTAMPTZ,
	verification_expires_at TIMESTAMPTZ,
	document_file_name      TEXT,
	document_storage_url    TEXT,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS submission_audit_log (
	id                      BIGSERIAL PRIMARY KEY,
	submission_internal_id  BIGINT NOT NULL REFERENCES submissions(internal_id),
	action                  TEXT NOT NULL,
	details                 TEXT NOT NULL DEFAULT '',
	created_at              TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_parent
	ON submission_audit_log (submission_internal_id, created_at);
`
