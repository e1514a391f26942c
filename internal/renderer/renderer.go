// Package renderer turns a submitted form snapshot into a PDF document via
// an external rendering service.
package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Request carries everything the rendering service stamps into the document.
type Request struct {
	SubmissionID string          `json:"submission_id"`
	FormData     json.RawMessage `json:"form_data"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	ClientIP     string          `json:"client_ip,omitempty"`
}

// Renderer produces the PDF bytes for one submission.
type Renderer interface {
	Render(ctx context.Context, req Request) ([]byte, error)
}

// fileNameTimestamp is day, month, year, hour, minute with no separators.
const fileNameTimestamp = "020120061504"

// FileName builds the stored document name from the applicant's name tokens
// and the submission time. The pattern is fixed; downstream systems parse it.
func FileName(firstName, lastName string, submittedAt time.Time) string {
	return fmt.Sprintf("%s_%s_Application_Form_%s.pdf",
		firstName, lastName, submittedAt.UTC().Format(fileNameTimestamp))
}
