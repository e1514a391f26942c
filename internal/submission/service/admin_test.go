package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"applyform/internal/auditlog"
	"applyform/internal/submission"
	dErrors "applyform/pkg/domain-errors"
)

// completedSubmission drives one submission through the whole workflow so
// admin operations have realistic state to act on.
func (s *ServiceSuite) completedSubmission(email string) *submission.Submission {
	sub := s.verifiedSubmission(email)

	document := []byte("pdf")
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(document, nil)
	s.objects.EXPECT().
		Upload(gomock.Any(), document, gomock.Any(), sub.SubmissionID).
		Return("file:///docs/app.pdf", nil)
	s.mailer.EXPECT().
		SendConfirmation(gomock.Any(), email, sub.SubmissionID, document, gomock.Any()).
		Return(true)
	s.mailer.EXPECT().
		SendToOperations(gomock.Any(), sub.SubmissionID, document, gomock.Any(), email).
		Return(true)

	result, err := s.svc.Submit(context.Background(), sub.SubmissionID, validFormJSON(email))
	s.Require().NoError(err)
	return result
}

func (s *ServiceSuite) TestListNormalizesPaging() {
	ctx := context.Background()
	for _, email := range []string{"a@b.com", "b@b.com", "c@b.com"} {
		_, err := s.svc.Initialize(ctx, email)
		s.Require().NoError(err)
	}

	subs, total, err := s.svc.List(ctx, submission.ListFilter{Page: -1, PageSize: 0})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(subs, 3)

	draft := submission.StatusDraft
	_, total, err = s.svc.List(ctx, submission.ListFilter{Status: &draft})
	s.Require().NoError(err)
	s.Equal(3, total)
}

func (s *ServiceSuite) TestGetStatsCountsPerStatus() {
	ctx := context.Background()
	_, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)
	s.completedSubmission("b@b.com")

	stats, err := s.svc.GetStats(ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.Total)
	s.Equal(2, stats.Last24h)
	s.Equal(1, stats.ByStatus[submission.StatusDraft.String()])
	s.Equal(1, stats.ByStatus[submission.StatusCompleted.String()])
}

func (s *ServiceSuite) TestResendCompletesStuckSubmission() {
	ctx := context.Background()
	sub := s.verifiedSubmission("a@b.com")

	// First pass: upload succeeds, operations email fails, stuck at
	// PdfGenerated.
	document := []byte("pdf")
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(document, nil)
	s.objects.EXPECT().
		Upload(gomock.Any(), document, gomock.Any(), sub.SubmissionID).
		Return("file:///docs/app.pdf", nil)
	s.mailer.EXPECT().
		SendConfirmation(gomock.Any(), "a@b.com", sub.SubmissionID, document, gomock.Any()).
		Return(true)
	s.mailer.EXPECT().
		SendToOperations(gomock.Any(), sub.SubmissionID, document, gomock.Any(), "a@b.com").
		Return(false)

	_, err := s.svc.Submit(ctx, sub.SubmissionID, validFormJSON("a@b.com"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotification))

	// Resend: re-render from the stored snapshot, both sends succeed.
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(document, nil)
	s.mailer.EXPECT().
		SendConfirmation(gomock.Any(), "a@b.com", sub.SubmissionID, document, gomock.Any()).
		Return(true)
	s.mailer.EXPECT().
		SendToOperations(gomock.Any(), sub.SubmissionID, document, gomock.Any(), "a@b.com").
		Return(true)

	resent, err := s.svc.Resend(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(submission.StatusCompleted, resent.Status)
	s.Contains(s.auditActions(sub.SubmissionID), auditlog.ActionEmailsSent)
}

func (s *ServiceSuite) TestResendRequiresSnapshot() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	_, err = s.svc.Resend(ctx, sub.SubmissionID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodePrecondition))
}

func (s *ServiceSuite) TestDeleteRemovesSubmissionAndDocument() {
	ctx := context.Background()
	sub := s.completedSubmission("a@b.com")

	s.objects.EXPECT().Delete(gomock.Any(), "file:///docs/app.pdf").Return(true)
	s.Require().NoError(s.svc.Delete(ctx, sub.SubmissionID))

	_, err := s.svc.GetStatus(ctx, sub.SubmissionID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteUnknownSubmission() {
	err := s.svc.Delete(context.Background(), "no-such-id")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
