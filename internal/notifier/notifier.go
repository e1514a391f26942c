// Package notifier sends the application's outbound email: verification
// codes, applicant confirmations, and the operations copy of each completed
// application.
//
// Send methods report success as a bool rather than an error. Email delivery
// is best-effort by contract: the caller decides what a failed send means
// for the workflow, and the transport detail stays in the notifier's logs.
package notifier

import "context"

// Notifier is the outbound email port.
type Notifier interface {
	// SendVerificationToken delivers a verification code to the applicant.
	SendVerificationToken(ctx context.Context, email, token, submissionID string) bool

	// SendConfirmation delivers the submission confirmation to the applicant
	// with the rendered document attached.
	SendConfirmation(ctx context.Context, email, submissionID string, document []byte, fileName string) bool

	// SendToOperations delivers the operations copy of the application.
	SendToOperations(ctx context.Context, submissionID string, document []byte, fileName string, submitterEmail string) bool
}
