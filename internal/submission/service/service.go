// Package service orchestrates the submission workflows: session
// initialization, email verification, form capture, and the side-effect
// pipeline that renders, stores, and notifies for each submitted form.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"applyform/internal/notifier"
	"applyform/internal/objectstore"
	"applyform/internal/platform/metrics"
	"applyform/internal/renderer"
	"applyform/internal/submission"
	"applyform/internal/verification"
	dErrors "applyform/pkg/domain-errors"
	"applyform/pkg/platform/sentinel"
)

// Aliases to the shared ports so mocks and call sites read locally.
type (
	Store       = submission.Store
	Renderer    = renderer.Renderer
	ObjectStore = objectstore.Store
	Notifier    = notifier.Notifier
)

// TokenIssuer generates and checks verification tokens.
type TokenIssuer interface {
	Issue(length int, ttl time.Duration) (string, time.Time, error)
	Verify(sub *submission.Submission, candidate string) verification.Outcome
}

// SessionTokens mints the bearer token returned after a successful
// verification.
type SessionTokens interface {
	Mint(submissionID, email string) (string, error)
}

// SendLimiter bounds verification email sends per address.
type SendLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// Auditor appends entries to a submission's audit trail. Append never fails
// from the caller's point of view.
type Auditor interface {
	Append(ctx context.Context, sub *submission.Submission, action, details string)
}

// VerificationConfig tunes token issuance and attempt limits.
type VerificationConfig struct {
	TokenLength int
	TokenTTL    time.Duration
	MaxAttempts int
}

// Service is the submission workflow orchestrator.
type Service struct {
	store    Store
	renderer Renderer
	objects  ObjectStore
	mailer   Notifier
	audit    Auditor

	issuer   TokenIssuer
	sessions SessionTokens
	limiter  SendLimiter
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer

	cfg VerificationConfig
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithIssuer(issuer TokenIssuer) Option {
	return func(s *Service) {
		if issuer != nil {
			s.issuer = issuer
		}
	}
}

func WithSessionTokens(sessions SessionTokens) Option {
	return func(s *Service) {
		s.sessions = sessions
	}
}

func WithSendLimiter(limiter SendLimiter) Option {
	return func(s *Service) {
		s.limiter = limiter
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithVerificationConfig(cfg VerificationConfig) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

func New(store Store, rend Renderer, objects ObjectStore, mailer Notifier, audit Auditor, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("submission store is required")
	}
	if rend == nil {
		return nil, errors.New("renderer is required")
	}
	if objects == nil {
		return nil, errors.New("object store is required")
	}
	if mailer == nil {
		return nil, errors.New("notifier is required")
	}
	if audit == nil {
		return nil, errors.New("auditor is required")
	}

	svc := &Service{
		store:    store,
		renderer: rend,
		objects:  objects,
		mailer:   mailer,
		audit:    audit,
		issuer:   verification.NewIssuer(),
		logger:   slog.Default(),
		tracer:   otel.Tracer("applyform/submission"),
		cfg: VerificationConfig{
			TokenLength: 6,
			TokenTTL:    10 * time.Minute,
			MaxAttempts: 5,
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// load fetches a submission by business key and translates store sentinels
// into caller-facing errors.
func (s *Service) load(ctx context.Context, submissionID string) (*submission.Submission, error) {
	if strings.TrimSpace(submissionID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "submission id is required")
	}

	sub, err := s.store.Get(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to load submission")
	}
	return sub, nil
}

// normalizeEmail lower-cases and validates an address, returning "" when it
// is not usable.
func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}
