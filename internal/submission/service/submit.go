package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"applyform/internal/auditlog"
	"applyform/internal/submission"
	dErrors "applyform/pkg/domain-errors"
	"applyform/pkg/requestcontext"
)

// Submit captures the form snapshot on a verified submission and runs the
// side-effect pipeline. The precondition check happens before any write: an
// unverified submission is rejected with no change to the snapshot fields.
func (s *Service) Submit(ctx context.Context, submissionID string, form json.RawMessage) (*submission.Submission, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if !sub.EmailVerified {
		return sub, dErrors.New(dErrors.CodePrecondition, "email must be verified before submitting")
	}
	if !submission.CanTransition(sub.Status, submission.StatusSubmitted) {
		return sub, dErrors.New(dErrors.CodePrecondition, "submission has already been submitted")
	}

	parsed, err := submission.ParseForm(form)
	if err != nil {
		return sub, err
	}

	now := requestcontext.Now(ctx).UTC()
	if err := sub.AttachSnapshot(form, requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx)); err != nil {
		return sub, dErrors.Wrap(err, dErrors.CodeConflict, "form has already been captured for this submission")
	}
	if err := sub.Transition(submission.StatusSubmitted); err != nil {
		return sub, dErrors.Wrap(err, dErrors.CodePrecondition, "submission cannot be submitted in its current state")
	}
	sub.UpdatedAt = now

	if err := s.store.Update(ctx, sub); err != nil {
		return sub, dErrors.Wrap(err, dErrors.CodePersistence, "failed to persist submitted form")
	}
	s.audit.Append(ctx, sub, auditlog.ActionFormSubmitted, "form snapshot captured")

	return s.runPipeline(ctx, sub, parsed)
}

// SubmitDirect creates a new submission straight at Submitted, skipping
// email verification entirely. The applicant's email comes from the form
// payload itself.
func (s *Service) SubmitDirect(ctx context.Context, form json.RawMessage) (*submission.Submission, error) {
	parsed, err := submission.ParseForm(form)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(parsed.TenantDetails.Email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid tenant email address is required")
	}

	now := requestcontext.Now(ctx).UTC()
	sub := &submission.Submission{
		SubmissionID: uuid.NewString(),
		UserEmail:    email,
		Status:       submission.StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := sub.AttachSnapshot(form, requestcontext.ClientIP(ctx), requestcontext.UserAgent(ctx)); err != nil {
		// A fresh aggregate always accepts its first snapshot.
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to capture form snapshot")
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to create submission")
	}

	s.audit.Append(ctx, sub, auditlog.ActionDirectSubmission, "submission created without email verification")
	if s.metrics != nil {
		s.metrics.IncSubmissionsCreated()
	}

	return s.runPipeline(ctx, sub, parsed)
}
