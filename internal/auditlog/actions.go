package auditlog

// Action labels recorded in the per-submission audit trail. These are part
// of the stored contract; operators filter on them.
const (
	ActionSessionInitialized      = "SessionInitialized"
	ActionEmailVerificationSent   = "EmailVerificationSent"
	ActionEmailVerificationFailed = "EmailVerificationFailed"
	ActionEmailVerified           = "EmailVerified"
	ActionFormSubmitted           = "FormSubmitted"
	ActionDirectSubmission        = "DirectSubmission"
	ActionPdfGenerated            = "PdfGenerated"
	ActionPdfUploaded             = "PdfUploaded"
	ActionEmailsSent              = "EmailsSent"
	ActionEmailSendFailed         = "EmailSendFailed"
	ActionSubmissionFailed        = "SubmissionFailed"
)
