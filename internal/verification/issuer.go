// Package verification issues and checks the short-lived numeric tokens that
// prove control of the submitter's email address.
package verification

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"applyform/internal/submission"
)

// Outcome is the result of checking a candidate token against a submission.
type Outcome int

const (
	Verified Outcome = iota
	InvalidToken
	Expired
)

func (o Outcome) String() string {
	switch o {
	case Verified:
		return "verified"
	case InvalidToken:
		return "invalid_token"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Issuer generates fixed-length numeric tokens. The randomness source and
// clock are injected so tests can pin both.
type Issuer struct {
	random io.Reader
	now    func() time.Time
}

type Option func(*Issuer)

// WithRandom swaps the randomness source; for tests.
func WithRandom(r io.Reader) Option {
	return func(i *Issuer) {
		if r != nil {
			i.random = r
		}
	}
}

// WithClock swaps the clock; for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(opts ...Option) *Issuer {
	issuer := &Issuer{
		random: rand.Reader,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer
}

// Issue produces a numeric token of the given length and its expiry.
func (i *Issuer) Issue(length int, ttl time.Duration) (string, time.Time, error) {
	if length <= 0 {
		return "", time.Time{}, fmt.Errorf("token length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(i.random, buf); err != nil {
		return "", time.Time{}, fmt.Errorf("read randomness: %w", err)
	}

	digits := make([]byte, length)
	for idx, b := range buf {
		digits[idx] = '0' + b%10
	}

	return string(digits), i.now().Add(ttl), nil
}

// Verify checks a candidate against the submission's current token. It never
// mutates state; the caller applies the outcome. Expiry wins over a correct
// match so a stale token can never verify.
func (i *Issuer) Verify(sub *submission.Submission, candidate string) Outcome {
	if sub.VerificationExpiresAt == nil || i.now().After(*sub.VerificationExpiresAt) {
		return Expired
	}
	if sub.VerificationToken == "" || candidate != sub.VerificationToken {
		return InvalidToken
	}
	return Verified
}
