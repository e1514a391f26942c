package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"applyform/internal/auditlog"
	"applyform/internal/renderer"
	"applyform/internal/submission"
	dErrors "applyform/pkg/domain-errors"
	"applyform/pkg/email"
)

// runPipeline executes the strictly sequential side-effect pipeline for a
// submitted form: render the document, upload it, notify both recipients.
//
// Failure semantics differ per step. Render and upload failures move the
// submission to Failed. A notification failure leaves it at PdfGenerated so
// the stored document survives and an operator can resend manually; there
// is no automatic retry anywhere in this path.
func (s *Service) runPipeline(ctx context.Context, sub *submission.Submission, form *submission.FormData) (*submission.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "submission.pipeline",
		trace.WithAttributes(attribute.String("submission.id", sub.SubmissionID)))
	defer span.End()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObservePipelineDuration(time.Since(start).Seconds())
		}
	}()

	submittedAt := sub.UpdatedAt

	// Step 1: render.
	document, err := s.renderer.Render(ctx, renderer.Request{
		SubmissionID: sub.SubmissionID,
		FormData:     sub.FormSnapshot,
		SubmittedAt:  submittedAt,
		ClientIP:     sub.ClientIP,
	})
	if err != nil {
		return sub, s.failPipeline(ctx, span, sub, "render", err)
	}

	fileName := s.documentFileName(form, sub, submittedAt)
	if err := sub.AttachDocument(fileName); err != nil {
		// Already named by an earlier attempt; keep the original.
		fileName = sub.DocumentFileName
	}
	if err := sub.Transition(submission.StatusPdfGenerated); err != nil {
		return sub, s.failPipeline(ctx, span, sub, "render",
			dErrors.Wrap(err, dErrors.CodeInternal, "cannot record rendered document"))
	}
	sub.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, sub); err != nil {
		return sub, s.failPipeline(ctx, span, sub, "persist",
			dErrors.Wrap(err, dErrors.CodePersistence, "failed to persist rendered document"))
	}
	s.audit.Append(ctx, sub, auditlog.ActionPdfGenerated, "document rendered: "+fileName)

	// Step 2: upload.
	storageURL, err := s.objects.Upload(ctx, document, fileName, sub.SubmissionID)
	if err != nil {
		return sub, s.failPipeline(ctx, span, sub, "upload", err)
	}
	if err := sub.AttachStorageURL(storageURL); err == nil {
		sub.UpdatedAt = time.Now().UTC()
		if err := s.store.Update(ctx, sub); err != nil {
			return sub, s.failPipeline(ctx, span, sub, "persist",
				dErrors.Wrap(err, dErrors.CodePersistence, "failed to persist storage location"))
		}
	}
	s.audit.Append(ctx, sub, auditlog.ActionPdfUploaded, "document stored at "+storageURL)

	// Step 3: notify. Both sends are attempted regardless of the other's
	// outcome so the audit trail names exactly who did not get the email.
	confirmOK := s.mailer.SendConfirmation(ctx, sub.UserEmail, sub.SubmissionID, document, fileName)
	opsOK := s.mailer.SendToOperations(ctx, sub.SubmissionID, document, fileName, sub.UserEmail)

	if confirmOK && opsOK {
		if err := sub.Transition(submission.StatusCompleted); err != nil {
			return sub, s.failPipeline(ctx, span, sub, "notify",
				dErrors.Wrap(err, dErrors.CodeInternal, "cannot complete submission"))
		}
		sub.UpdatedAt = time.Now().UTC()
		if err := s.store.Update(ctx, sub); err != nil {
			return sub, s.failPipeline(ctx, span, sub, "persist",
				dErrors.Wrap(err, dErrors.CodePersistence, "failed to persist completion"))
		}
		s.audit.Append(ctx, sub, auditlog.ActionEmailsSent, "confirmation and operations emails sent")
		if s.metrics != nil {
			s.metrics.IncSubmissionsCompleted()
		}
		s.logger.InfoContext(ctx, "submission completed",
			"submission_id", sub.SubmissionID, "document", fileName)
		return sub, nil
	}

	var failed []string
	if !confirmOK {
		failed = append(failed, "applicant")
	}
	if !opsOK {
		failed = append(failed, "operations")
	}
	s.audit.Append(ctx, sub, auditlog.ActionEmailSendFailed,
		"notification delivery failed for: "+strings.Join(failed, ", "))
	if s.metrics != nil {
		s.metrics.IncPipelineFailure("notify")
	}
	span.SetStatus(codes.Error, "notification delivery failed")
	return sub, dErrors.New(dErrors.CodeNotification, "document stored but notification delivery failed")
}

// failPipeline records an unrecoverable step failure: it moves the
// submission to Failed on a best-effort basis and returns the original
// error. A failing secondary write is logged but never masks the cause.
func (s *Service) failPipeline(ctx context.Context, span trace.Span, sub *submission.Submission, step string, cause error) error {
	if s.metrics != nil {
		s.metrics.IncPipelineFailure(step)
	}
	span.RecordError(cause)
	span.SetStatus(codes.Error, step+" failed")
	s.logger.ErrorContext(ctx, "pipeline step failed",
		"submission_id", sub.SubmissionID,
		"step", step,
		"error", cause,
	)

	if err := sub.Transition(submission.StatusFailed); err == nil {
		sub.UpdatedAt = time.Now().UTC()
		if err := s.store.Update(ctx, sub); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist Failed status",
				"submission_id", sub.SubmissionID, "error", err)
		}
	}
	s.audit.Append(ctx, sub, auditlog.ActionSubmissionFailed,
		fmt.Sprintf("%s step failed: %s", step, dErrors.Message(cause)))

	return cause
}

// documentFileName derives the deterministic document name from the
// applicant's name tokens, falling back to the email's local part when the
// form has no usable name.
func (s *Service) documentFileName(form *submission.FormData, sub *submission.Submission, submittedAt time.Time) string {
	var first, last string
	if form != nil {
		first, last = form.NameTokens()
	}
	if first == "" || last == "" {
		first, last = email.DeriveNameFromEmail(sub.UserEmail)
	}
	return renderer.FileName(first, last, submittedAt)
}
