package submission

import (
	"fmt"

	"applyform/pkg/platform/sentinel"
)

// transitions is the forward edge set of the lifecycle graph. Failed is
// additionally reachable from every non-terminal state and is handled in
// CanTransition rather than listed per state.
var transitions = map[Status][]Status{
	StatusDraft:         {StatusEmailSent},
	StatusEmailSent:     {StatusEmailSent, StatusEmailVerified}, // re-entrant: resend reissues a token
	StatusEmailVerified: {StatusSubmitted},
	StatusSubmitted:     {StatusPdfGenerated},
	StatusPdfGenerated:  {StatusCompleted},
	StatusCompleted:     {},
	StatusFailed:        {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	if to == StatusFailed {
		return !from.Terminal()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition applies a status change after validating it against the graph,
// returning sentinel.ErrInvalidState for illegal moves.
func (s *Submission) Transition(to Status) error {
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("transition %s -> %s: %w", s.Status, to, sentinel.ErrInvalidState)
	}
	s.Status = to
	return nil
}
