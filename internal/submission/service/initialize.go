package service

import (
	"context"

	"github.com/google/uuid"

	"applyform/internal/auditlog"
	"applyform/internal/submission"
	dErrors "applyform/pkg/domain-errors"
	"applyform/pkg/requestcontext"
)

// Initialize creates a new submission session at Draft and records the first
// audit entry. The create must complete before the audit write so the entry
// has a valid parent key to reference.
func (s *Service) Initialize(ctx context.Context, email string) (*submission.Submission, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email address is required")
	}

	now := requestcontext.Now(ctx).UTC()
	sub := &submission.Submission{
		SubmissionID: uuid.NewString(),
		UserEmail:    email,
		Status:       submission.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to create submission")
	}

	s.audit.Append(ctx, sub, auditlog.ActionSessionInitialized, "session created for "+sub.UserEmail)
	if s.metrics != nil {
		s.metrics.IncSubmissionsCreated()
	}

	s.logger.InfoContext(ctx, "submission initialized",
		"submission_id", sub.SubmissionID,
	)
	return sub, nil
}

// GetStatus returns the submission with its full ordered audit trail.
func (s *Service) GetStatus(ctx context.Context, submissionID string) (*submission.Submission, error) {
	return s.load(ctx, submissionID)
}
