package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"applyform/internal/auditlog"
	"applyform/internal/submission"
	"applyform/internal/verification"
	dErrors "applyform/pkg/domain-errors"
	"applyform/pkg/requestcontext"
)

// SendVerification issues a fresh token, persists it, and delivers it by
// email. Each call fully replaces any prior token. When delivery fails the
// issued token stays valid so the caller can retry delivery without a new
// code being minted behind the applicant's back.
func (s *Service) SendVerification(ctx context.Context, submissionID, email string) (time.Time, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return time.Time{}, err
	}

	if !submission.CanTransition(sub.Status, submission.StatusEmailSent) {
		return time.Time{}, dErrors.New(dErrors.CodePrecondition, "submission is not awaiting email verification")
	}

	// The email is mutable until verified.
	if email != "" && !sub.EmailVerified {
		normalized := normalizeEmail(email)
		if normalized == "" {
			return time.Time{}, dErrors.New(dErrors.CodeValidation, "a valid email address is required")
		}
		sub.UserEmail = normalized
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, sub.UserEmail)
		if err != nil {
			// A limiter outage must not block verification.
			s.logger.WarnContext(ctx, "send limiter unavailable, allowing request",
				"submission_id", sub.SubmissionID, "error", err)
		} else if !allowed {
			return time.Time{}, dErrors.New(dErrors.CodeRateLimited, "too many verification emails requested, try again later")
		}
	}

	token, expiresAt, err := s.issuer.Issue(s.cfg.TokenLength, s.cfg.TokenTTL)
	if err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue verification token")
	}

	now := requestcontext.Now(ctx).UTC()
	sub.IssueToken(token, now, expiresAt)
	if err := sub.Transition(submission.StatusEmailSent); err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodePrecondition, "submission cannot enter verification")
	}
	sub.UpdatedAt = now

	if err := s.store.Update(ctx, sub); err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodePersistence, "failed to persist verification token")
	}
	s.audit.Append(ctx, sub, auditlog.ActionEmailVerificationSent, "verification token issued for "+sub.UserEmail)

	if !s.mailer.SendVerificationToken(ctx, sub.UserEmail, token, sub.SubmissionID) {
		s.audit.Append(ctx, sub, auditlog.ActionEmailVerificationFailed, "verification email delivery failed")
		return time.Time{}, dErrors.New(dErrors.CodeNotification, "failed to deliver the verification email")
	}

	if s.metrics != nil {
		s.metrics.IncVerificationsSent()
	}
	return expiresAt, nil
}

// VerifyToken checks a candidate token. On success it marks the email
// verified, clears the token, and returns a session token for the submit
// step. Failed attempts are counted; reaching the attempt limit invalidates
// the current token entirely.
func (s *Service) VerifyToken(ctx context.Context, submissionID, candidate string) (string, *submission.Submission, error) {
	if strings.TrimSpace(candidate) == "" {
		return "", nil, dErrors.New(dErrors.CodeValidation, "verification token is required")
	}

	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return "", nil, err
	}

	if sub.EmailVerified {
		return "", sub, dErrors.New(dErrors.CodePrecondition, "email is already verified")
	}
	if sub.Status != submission.StatusEmailSent {
		return "", sub, dErrors.New(dErrors.CodePrecondition, "no verification is in progress for this submission")
	}

	now := requestcontext.Now(ctx).UTC()

	switch s.issuer.Verify(sub, strings.TrimSpace(candidate)) {
	case verification.Verified:
		sub.ApplyVerification()
		if err := sub.Transition(submission.StatusEmailVerified); err != nil {
			return "", sub, dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply verification")
		}
		sub.UpdatedAt = now
		if err := s.store.Update(ctx, sub); err != nil {
			return "", sub, dErrors.Wrap(err, dErrors.CodePersistence, "failed to persist verification")
		}
		s.audit.Append(ctx, sub, auditlog.ActionEmailVerified, "email verified for "+sub.UserEmail)
		if s.metrics != nil {
			s.metrics.IncVerificationsOK()
		}

		var sessionToken string
		if s.sessions != nil {
			sessionToken, err = s.sessions.Mint(sub.SubmissionID, sub.UserEmail)
			if err != nil {
				// Verification already succeeded; a minting failure is not
				// allowed to undo it.
				s.logger.ErrorContext(ctx, "session token minting failed",
					"submission_id", sub.SubmissionID, "error", err)
			}
		}
		return sessionToken, sub, nil

	case verification.Expired:
		s.audit.Append(ctx, sub, auditlog.ActionEmailVerificationFailed, "verification failed: token expired")
		return "", sub, dErrors.New(dErrors.CodeUnauthorized, "verification token has expired")

	default:
		sub.VerificationAttempts++
		details := fmt.Sprintf("verification failed: invalid token (attempt %d of %d)",
			sub.VerificationAttempts, s.cfg.MaxAttempts)
		limitReached := s.cfg.MaxAttempts > 0 && sub.VerificationAttempts >= s.cfg.MaxAttempts
		if limitReached {
			sub.VerificationToken = ""
			sub.VerificationExpiresAt = nil
			details = "verification failed: attempt limit reached, token invalidated"
		}
		sub.UpdatedAt = now
		if err := s.store.Update(ctx, sub); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist verification attempt",
				"submission_id", sub.SubmissionID, "error", err)
		}
		s.audit.Append(ctx, sub, auditlog.ActionEmailVerificationFailed, details)

		if limitReached {
			return "", sub, dErrors.New(dErrors.CodeRateLimited, "too many failed attempts, request a new verification code")
		}
		return "", sub, dErrors.New(dErrors.CodeUnauthorized, "invalid verification token")
	}
}
