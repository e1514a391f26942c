package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"applyform/internal/auditlog"
	"applyform/internal/renderer"
	"applyform/internal/submission"
	dErrors "applyform/pkg/domain-errors"
	"applyform/pkg/platform/sentinel"
)

// Stats summarizes the submission population for the admin surface.
type Stats struct {
	Total    int            `json:"total"`
	Last24h  int            `json:"last_24h"`
	ByStatus map[string]int `json:"by_status"`
}

// List returns a page of submissions for the admin surface.
func (s *Service) List(ctx context.Context, filter submission.ListFilter) ([]*submission.Submission, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	subs, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodePersistence, "failed to list submissions")
	}
	return subs, total, nil
}

// GetStats counts submissions per lifecycle status.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[string]int)}

	for st := submission.StatusDraft; st <= submission.StatusFailed; st++ {
		status := st
		_, count, err := s.store.List(ctx, submission.ListFilter{
			Status:   &status,
			Page:     1,
			PageSize: 1,
		})
		if err != nil {
			return Stats{}, dErrors.Wrap(err, dErrors.CodePersistence, "failed to count submissions")
		}
		stats.ByStatus[status.String()] = count
		stats.Total += count
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	_, recent, err := s.store.List(ctx, submission.ListFilter{
		From:     &since,
		Page:     1,
		PageSize: 1,
	})
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodePersistence, "failed to count recent submissions")
	}
	stats.Last24h = recent

	return stats, nil
}

// Resend re-renders a submission's document from its stored snapshot and
// re-sends both notifications. This is the manual recovery path for
// submissions stuck at PdfGenerated after a notification failure; a
// successful resend moves them to Completed.
func (s *Service) Resend(ctx context.Context, submissionID string) (*submission.Submission, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if len(sub.FormSnapshot) == 0 {
		return sub, dErrors.New(dErrors.CodePrecondition, "submission has no captured form to resend")
	}

	// Stored snapshots predate validation changes, so a parse failure here
	// only loses the name tokens, not the resend.
	form, parseErr := submission.ParseForm(sub.FormSnapshot)
	if parseErr != nil {
		form = nil
	}

	document, err := s.renderer.Render(ctx, renderer.Request{
		SubmissionID: sub.SubmissionID,
		FormData:     sub.FormSnapshot,
		SubmittedAt:  sub.UpdatedAt,
		ClientIP:     sub.ClientIP,
	})
	if err != nil {
		return sub, err
	}

	fileName := sub.DocumentFileName
	if fileName == "" {
		fileName = s.documentFileName(form, sub, sub.UpdatedAt)
	}

	confirmOK := s.mailer.SendConfirmation(ctx, sub.UserEmail, sub.SubmissionID, document, fileName)
	opsOK := s.mailer.SendToOperations(ctx, sub.SubmissionID, document, fileName, sub.UserEmail)

	if !confirmOK || !opsOK {
		var failed []string
		if !confirmOK {
			failed = append(failed, "applicant")
		}
		if !opsOK {
			failed = append(failed, "operations")
		}
		s.audit.Append(ctx, sub, auditlog.ActionEmailSendFailed,
			"resend delivery failed for: "+strings.Join(failed, ", "))
		return sub, dErrors.New(dErrors.CodeNotification, "resend delivery failed")
	}

	s.audit.Append(ctx, sub, auditlog.ActionEmailsSent, "notifications resent by operator")
	if sub.Status == submission.StatusPdfGenerated {
		if err := sub.Transition(submission.StatusCompleted); err == nil {
			sub.UpdatedAt = time.Now().UTC()
			if err := s.store.Update(ctx, sub); err != nil {
				return sub, dErrors.Wrap(err, dErrors.CodePersistence, "failed to persist completion")
			}
			if s.metrics != nil {
				s.metrics.IncSubmissionsCompleted()
			}
		}
	}
	return sub, nil
}

// Delete removes a submission, its audit trail, and its stored document.
// The document delete is best-effort; retention decisions belong to the
// operator calling this, not the workflow.
func (s *Service) Delete(ctx context.Context, submissionID string) error {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return err
	}

	if sub.DocumentStorageURL != "" {
		if !s.objects.Delete(ctx, sub.DocumentStorageURL) {
			s.logger.WarnContext(ctx, "stored document could not be removed",
				"submission_id", sub.SubmissionID, "url", sub.DocumentStorageURL)
		}
	}

	if err := s.store.Delete(ctx, submissionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return dErrors.Wrap(err, dErrors.CodePersistence, "failed to delete submission")
	}

	s.logger.InfoContext(ctx, "submission deleted", "submission_id", submissionID)
	return nil
}
