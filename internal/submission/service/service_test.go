package service

//go:generate mockgen -destination=mocks/mocks.go -package=mocks applyform/internal/submission/service Store,Renderer,ObjectStore,Notifier,TokenIssuer,SessionTokens,SendLimiter,Auditor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"applyform/internal/auditlog"
	"applyform/internal/platform/logger"
	"applyform/internal/submission"
	"applyform/internal/submission/service/mocks"
	"applyform/internal/verification"
	dErrors "applyform/pkg/domain-errors"
)

// countingReader yields a different digit on every Issue call so reissued
// tokens are observably distinct.
type countingReader struct {
	next byte
}

func (r *countingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
	}
	r.next++
	return len(p), nil
}

type ServiceSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	store    *submission.MemoryStore
	renderer *mocks.MockRenderer
	objects  *mocks.MockObjectStore
	mailer   *mocks.MockNotifier
	sessions *mocks.MockSessionTokens

	now time.Time
	svc *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = submission.NewMemoryStore()
	s.renderer = mocks.NewMockRenderer(s.ctrl)
	s.objects = mocks.NewMockObjectStore(s.ctrl)
	s.mailer = mocks.NewMockNotifier(s.ctrl)
	s.sessions = mocks.NewMockSessionTokens(s.ctrl)
	s.now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	log := logger.Discard()
	audit := auditlog.NewRecorder(s.store, log, nil)
	issuer := verification.NewIssuer(
		verification.WithRandom(&countingReader{}),
		verification.WithClock(func() time.Time { return s.now }),
	)

	svc, err := New(s.store, s.renderer, s.objects, s.mailer, audit,
		WithLogger(log),
		WithIssuer(issuer),
		WithSessionTokens(s.sessions),
		WithVerificationConfig(VerificationConfig{
			TokenLength: 6,
			TokenTTL:    10 * time.Minute,
			MaxAttempts: 5,
		}),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func validFormJSON(email string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"tenant_details": {"full_name": "Jane O'Hara", "email": %q, "telephone": "07000000000"},
		"address_history": [
			{"address": "1 Old Road", "from_date": "2020-01-01", "to_date": "2023-06-01"},
			{"address": "2 New Street", "from_date": "2023-06-01"}
		],
		"occupation_agreement": {
			"single_occupancy_agree": true,
			"hmo_terms_agree": true,
			"no_unlisted_occupants": true,
			"no_smoking": true,
			"kitchen_cooking_only": true
		},
		"consent_and_declaration": {
			"consent_given": true,
			"declaration": {
				"main_home": true,
				"enquiries_permission": true,
				"certify_no_judgements": true,
				"certify_no_housing_debt": true,
				"certify_no_landlord_debt": true,
				"certify_no_abuse": true
			}
		}
	}`, email))
}

func (s *ServiceSuite) auditActions(submissionID string) []string {
	sub, err := s.store.Get(context.Background(), submissionID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(sub.Logs))
	for _, entry := range sub.Logs {
		actions = append(actions, entry.Action)
	}
	return actions
}

// verifiedSubmission walks a submission through initialize, send, verify.
func (s *ServiceSuite) verifiedSubmission(email string) *submission.Submission {
	ctx := context.Background()

	sub, err := s.svc.Initialize(ctx, email)
	s.Require().NoError(err)

	s.mailer.EXPECT().
		SendVerificationToken(gomock.Any(), email, gomock.Any(), sub.SubmissionID).
		Return(true)
	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().NoError(err)

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)

	s.sessions.EXPECT().Mint(sub.SubmissionID, email).Return("session-jwt", nil)
	_, verified, err := s.svc.VerifyToken(ctx, sub.SubmissionID, stored.VerificationToken)
	s.Require().NoError(err)
	return verified
}

func (s *ServiceSuite) TestInitializeCreatesDraftWithSingleAuditEntry() {
	sub, err := s.svc.Initialize(context.Background(), "a@b.com")
	s.Require().NoError(err)

	stored, err := s.store.Get(context.Background(), sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(submission.StatusDraft, stored.Status)
	s.Equal("a@b.com", stored.UserEmail)
	s.Require().Len(stored.Logs, 1)
	s.Equal(auditlog.ActionSessionInitialized, stored.Logs[0].Action)
}

func (s *ServiceSuite) TestInitializeRejectsInvalidEmail() {
	for _, email := range []string{"", "   ", "not-an-email", "missing@domain@twice"} {
		_, err := s.svc.Initialize(context.Background(), email)
		s.Require().Error(err, "email %q", email)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func (s *ServiceSuite) TestSendVerificationIssuesAndStoresToken() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	s.mailer.EXPECT().
		SendVerificationToken(gomock.Any(), "a@b.com", gomock.Any(), sub.SubmissionID).
		Return(true)

	expiresAt, err := s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().NoError(err)
	s.Equal(s.now.Add(10*time.Minute), expiresAt)

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(submission.StatusEmailSent, stored.Status)
	s.Len(stored.VerificationToken, 6)
	s.Equal([]string{
		auditlog.ActionSessionInitialized,
		auditlog.ActionEmailVerificationSent,
	}, s.auditActions(sub.SubmissionID))
}

func (s *ServiceSuite) TestSendVerificationReissueReplacesToken() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	s.mailer.EXPECT().
		SendVerificationToken(gomock.Any(), "a@b.com", gomock.Any(), sub.SubmissionID).
		Return(true).Times(2)

	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().NoError(err)
	first, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)

	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().NoError(err)
	second, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)

	s.Equal(submission.StatusEmailSent, second.Status)
	s.NotEqual(first.VerificationToken, second.VerificationToken)
}

func (s *ServiceSuite) TestSendVerificationDeliveryFailureKeepsToken() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	s.mailer.EXPECT().
		SendVerificationToken(gomock.Any(), "a@b.com", gomock.Any(), sub.SubmissionID).
		Return(false)

	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotification))

	// The issued token survives the failed delivery.
	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.NotEmpty(stored.VerificationToken)
	s.Contains(s.auditActions(sub.SubmissionID), auditlog.ActionEmailVerificationFailed)
}

func (s *ServiceSuite) TestSendVerificationRateLimited() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	limiter := mocks.NewMockSendLimiter(s.ctrl)
	limiter.EXPECT().Allow(gomock.Any(), "a@b.com").Return(false, nil)
	WithSendLimiter(limiter)(s.svc)

	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *ServiceSuite) TestSendVerificationUnknownSubmission() {
	_, err := s.svc.SendVerification(context.Background(), "no-such-id", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestVerifyTokenRoundTrip() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	s.mailer.EXPECT().
		SendVerificationToken(gomock.Any(), "a@b.com", gomock.Any(), sub.SubmissionID).
		Return(true)
	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().NoError(err)

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	token := stored.VerificationToken

	s.sessions.EXPECT().Mint(sub.SubmissionID, "a@b.com").Return("session-jwt", nil)
	sessionToken, verified, err := s.svc.VerifyToken(ctx, sub.SubmissionID, token)
	s.Require().NoError(err)
	s.Equal("session-jwt", sessionToken)
	s.Equal(submission.StatusEmailVerified, verified.Status)
	s.True(verified.EmailVerified)
	s.Empty(verified.VerificationToken)

	// A second attempt with the same, now-cleared token fails.
	_, _, err = s.svc.VerifyToken(ctx, sub.SubmissionID, token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodePrecondition))
}

func (s *ServiceSuite) TestVerifyTokenExpired() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	s.mailer.EXPECT().
		SendVerificationToken(gomock.Any(), "a@b.com", gomock.Any(), sub.SubmissionID).
		Return(true)
	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().NoError(err)

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)

	// The correct token after expiry still fails.
	s.now = s.now.Add(11 * time.Minute)
	_, after, err := s.svc.VerifyToken(ctx, sub.SubmissionID, stored.VerificationToken)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal(submission.StatusEmailSent, after.Status)
	s.False(after.EmailVerified)
	s.Contains(s.auditActions(sub.SubmissionID), auditlog.ActionEmailVerificationFailed)
}

func (s *ServiceSuite) TestVerifyTokenAttemptLimitInvalidatesToken() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	s.mailer.EXPECT().
		SendVerificationToken(gomock.Any(), "a@b.com", gomock.Any(), sub.SubmissionID).
		Return(true)
	_, err = s.svc.SendVerification(ctx, sub.SubmissionID, "")
	s.Require().NoError(err)

	for attempt := 1; attempt <= 4; attempt++ {
		_, _, err = s.svc.VerifyToken(ctx, sub.SubmissionID, "000000x")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}

	_, _, err = s.svc.VerifyToken(ctx, sub.SubmissionID, "000000x")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.Empty(stored.VerificationToken)
}

func (s *ServiceSuite) TestSubmitRequiresVerifiedEmail() {
	ctx := context.Background()
	sub, err := s.svc.Initialize(ctx, "a@b.com")
	s.Require().NoError(err)

	_, err = s.svc.Submit(ctx, sub.SubmissionID, validFormJSON("a@b.com"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodePrecondition))

	// No snapshot write happened.
	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.Empty(stored.FormSnapshot)
	s.Equal(submission.StatusDraft, stored.Status)
}

func (s *ServiceSuite) TestSubmitRejectsInvalidForm() {
	ctx := context.Background()
	sub := s.verifiedSubmission("a@b.com")

	_, err := s.svc.Submit(ctx, sub.SubmissionID, json.RawMessage(`{"tenant_details":{}}`))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSubmitEndToEndCompletes() {
	ctx := context.Background()
	sub := s.verifiedSubmission("a@b.com")

	document := []byte("%PDF-1.7 fake")
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(document, nil)
	s.objects.EXPECT().
		Upload(gomock.Any(), document, gomock.Any(), sub.SubmissionID).
		Return("file:///docs/app.pdf", nil)
	s.mailer.EXPECT().
		SendConfirmation(gomock.Any(), "a@b.com", sub.SubmissionID, document, gomock.Any()).
		Return(true)
	s.mailer.EXPECT().
		SendToOperations(gomock.Any(), sub.SubmissionID, document, gomock.Any(), "a@b.com").
		Return(true)

	result, err := s.svc.Submit(ctx, sub.SubmissionID, validFormJSON("a@b.com"))
	s.Require().NoError(err)
	s.Equal(submission.StatusCompleted, result.Status)
	s.Equal("file:///docs/app.pdf", result.DocumentStorageURL)
	s.Contains(result.DocumentFileName, "Jane_OHara_Application_Form_")

	s.Equal([]string{
		auditlog.ActionSessionInitialized,
		auditlog.ActionEmailVerificationSent,
		auditlog.ActionEmailVerified,
		auditlog.ActionFormSubmitted,
		auditlog.ActionPdfGenerated,
		auditlog.ActionPdfUploaded,
		auditlog.ActionEmailsSent,
	}, s.auditActions(sub.SubmissionID))
}

func (s *ServiceSuite) TestRenderFailureMarksSubmissionFailed() {
	ctx := context.Background()
	sub := s.verifiedSubmission("a@b.com")

	s.renderer.EXPECT().
		Render(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeRender, "renderer returned 500"))

	_, err := s.svc.Submit(ctx, sub.SubmissionID, validFormJSON("a@b.com"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRender))

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(submission.StatusFailed, stored.Status)
	s.Empty(stored.DocumentStorageURL)
	s.Contains(s.auditActions(sub.SubmissionID), auditlog.ActionSubmissionFailed)
}

func (s *ServiceSuite) TestUploadFailureMarksSubmissionFailed() {
	ctx := context.Background()
	sub := s.verifiedSubmission("a@b.com")

	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("pdf"), nil)
	s.objects.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), sub.SubmissionID).
		Return("", dErrors.New(dErrors.CodeStorage, "bucket unavailable"))

	_, err := s.svc.Submit(ctx, sub.SubmissionID, validFormJSON("a@b.com"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeStorage))

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(submission.StatusFailed, stored.Status)
	s.Empty(stored.DocumentStorageURL)
}

func (s *ServiceSuite) TestPartialNotificationFailureStaysPdfGenerated() {
	ctx := context.Background()
	sub := s.verifiedSubmission("a@b.com")

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

	stored, err := s.store.Get(ctx, sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(submission.StatusPdfGenerated, stored.Status)
	s.NotEmpty(stored.DocumentStorageURL)

	var sendFailure string
	for _, entry := range stored.Logs {
		if entry.Action == auditlog.ActionEmailSendFailed {
			sendFailure = entry.Details
		}
	}
	s.Contains(sendFailure, "operations")
	s.NotContains(sendFailure, "applicant")
}

func (s *ServiceSuite) TestSubmitDirectSkipsVerification() {
	ctx := context.Background()

	document := []byte("pdf")
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).Return(document, nil)
	s.objects.EXPECT().
		Upload(gomock.Any(), document, gomock.Any(), gomock.Any()).
		Return("file:///docs/app.pdf", nil)
	s.mailer.EXPECT().
		SendConfirmation(gomock.Any(), "jane@example.com", gomock.Any(), document, gomock.Any()).
		Return(true)
	s.mailer.EXPECT().
		SendToOperations(gomock.Any(), gomock.Any(), document, gomock.Any(), "jane@example.com").
		Return(true)

	sub, err := s.svc.SubmitDirect(ctx, validFormJSON("jane@example.com"))
	s.Require().NoError(err)
	s.Equal(submission.StatusCompleted, sub.Status)
	s.False(sub.EmailVerified)

	actions := s.auditActions(sub.SubmissionID)
	s.Require().NotEmpty(actions)
	s.Equal(auditlog.ActionDirectSubmission, actions[0])
}

func (s *ServiceSuite) TestConcurrentInitializeProducesDistinctSubmissions() {
	const n = 25
	ctx := context.Background()

	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub, err := s.svc.Initialize(ctx, "a@b.com")
			if err == nil {
				ids <- sub.SubmissionID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		s.False(seen[id], "duplicate submission id %s", id)
		seen[id] = true

		stored, err := s.store.Get(ctx, id)
		s.Require().NoError(err)
		s.Require().Len(stored.Logs, 1)
		s.Equal(auditlog.ActionSessionInitialized, stored.Logs[0].Action)
	}
	s.Len(seen, n)
}
