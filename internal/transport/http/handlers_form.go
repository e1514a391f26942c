package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"applyform/internal/submission"
	"applyform/internal/transport/http/shared"
	dErrors "applyform/pkg/domain-errors"
	"applyform/pkg/requestcontext"
)

// FormService defines the workflow operations the public form API exposes.
type FormService interface {
	Initialize(ctx context.Context, email string) (*submission.Submission, error)
	SendVerification(ctx context.Context, submissionID, email string) (time.Time, error)
	VerifyToken(ctx context.Context, submissionID, candidate string) (string, *submission.Submission, error)
	Submit(ctx context.Context, submissionID string, form json.RawMessage) (*submission.Submission, error)
	SubmitDirect(ctx context.Context, form json.RawMessage) (*submission.Submission, error)
	GetStatus(ctx context.Context, submissionID string) (*submission.Submission, error)
}

// FormHandler handles the public form endpoints.
type FormHandler struct {
	service FormService
	logger  *slog.Logger
}

func NewFormHandler(service FormService, logger *slog.Logger) *FormHandler {
	return &FormHandler{service: service, logger: logger}
}

// Register mounts the form routes.
func (h *FormHandler) Register(r chi.Router) {
	r.Post("/api/form/initialize", h.handleInitialize)
	r.Post("/api/form/send-verification", h.handleSendVerification)
	r.Post("/api/form/verify-token", h.handleVerifyToken)
	r.Post("/api/form/submit", h.handleSubmit)
	r.Post("/api/form/submit-direct", h.handleSubmitDirect)
	r.Get("/api/form/status/{submissionID}", h.handleStatus)
}

// submissionResponse is the envelope shared by the workflow endpoints. The
// integer status codes are a stable contract with clients.
type submissionResponse struct {
	SubmissionID string    `json:"submission_id"`
	Status       int       `json:"status"`
	StatusLabel  string    `json:"status_label"`
	Message      string    `json:"message"`
	Success      bool      `json:"success"`
	Timestamp    time.Time `json:"timestamp"`

	SessionToken string `json:"session_token,omitempty"`
}

func newSubmissionResponse(sub *submission.Submission, message string) submissionResponse {
	return submissionResponse{
		SubmissionID: sub.SubmissionID,
		Status:       int(sub.Status),
		StatusLabel:  sub.Status.String(),
		Message:      message,
		Success:      true,
		Timestamp:    time.Now().UTC(),
	}
}

// writeWorkflowError reports a failed workflow call. When the submission is
// known its current status rides along so the caller can tell whether it
// reached a terminal state.
func (h *FormHandler) writeWorkflowError(w http.ResponseWriter, r *http.Request, sub *submission.Submission, err error) {
	h.logger.WarnContext(r.Context(), "workflow request failed",
		"request_id", requestcontext.RequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)

	payload := struct {
		shared.ErrorResponse
		SubmissionID string `json:"submission_id,omitempty"`
		Status       *int   `json:"status,omitempty"`
		StatusLabel  string `json:"status_label,omitempty"`
		Terminal     *bool  `json:"terminal,omitempty"`
	}{
		ErrorResponse: shared.ErrorResponse{
			Success: false,
			Error:   string(dErrors.CodeOf(err)),
			Message: dErrors.Message(err),
		},
	}
	if sub != nil {
		status := int(sub.Status)
		terminal := sub.Status.Terminal()
		payload.SubmissionID = sub.SubmissionID
		payload.Status = &status
		payload.StatusLabel = sub.Status.String()
		payload.Terminal = &terminal
	}
	shared.WriteJSON(w, dErrors.ToHTTPStatus(err), payload)
}

func (h *FormHandler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sub, err := h.service.Initialize(r.Context(), req.Email)
	if err != nil {
		h.writeWorkflowError(w, r, nil, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, newSubmissionResponse(sub, "session initialized"))
}

func (h *FormHandler) handleSendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubmissionID string `json:"submission_id"`
		Email        string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	expiresAt, err := h.service.SendVerification(r.Context(), req.SubmissionID, req.Email)
	if err != nil {
		h.writeWorkflowError(w, r, nil, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, struct {
		Success      bool      `json:"success"`
		Message      string    `json:"message"`
		TokenExpires time.Time `json:"token_expires"`
	}{
		Success:      true,
		Message:      "verification email sent",
		TokenExpires: expiresAt,
	})
}

func (h *FormHandler) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubmissionID string `json:"submission_id"`
		Token        string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sessionToken, sub, err := h.service.VerifyToken(r.Context(), req.SubmissionID, req.Token)
	if err != nil {
		h.writeWorkflowError(w, r, sub, err)
		return
	}
	resp := newSubmissionResponse(sub, "email verified")
	resp.SessionToken = sessionToken
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *FormHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubmissionID string          `json:"submission_id"`
		FormData     json.RawMessage `json:"form_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sub, err := h.service.Submit(r.Context(), req.SubmissionID, req.FormData)
	if err != nil {
		h.writeWorkflowError(w, r, sub, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, newSubmissionResponse(sub, "application submitted"))
}

func (h *FormHandler) handleSubmitDirect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FormData json.RawMessage `json:"form_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sub, err := h.service.SubmitDirect(r.Context(), req.FormData)
	if err != nil {
		h.writeWorkflowError(w, r, sub, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, newSubmissionResponse(sub, "application submitted"))
}

// statusResponse exposes the submission with its full ordered audit trail.
type statusResponse struct {
	SubmissionID       string                  `json:"submission_id"`
	UserEmail          string                  `json:"user_email"`
	Status             int                     `json:"status"`
	StatusLabel        string                  `json:"status_label"`
	EmailVerified      bool                    `json:"email_verified"`
	DocumentFileName   string                  `json:"document_file_name,omitempty"`
	DocumentStorageURL string                  `json:"document_storage_url,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	Logs               []submission.AuditEntry `json:"logs"`
}

func (h *FormHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.GetStatus(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		h.writeWorkflowError(w, r, nil, err)
		return
	}

	logs := sub.Logs
	if logs == nil {
		logs = []submission.AuditEntry{}
	}
	shared.WriteJSON(w, http.StatusOK, statusResponse{
		SubmissionID:       sub.SubmissionID,
		UserEmail:          sub.UserEmail,
		Status:             int(sub.Status),
		StatusLabel:        sub.Status.String(),
		EmailVerified:      sub.EmailVerified,
		DocumentFileName:   sub.DocumentFileName,
		DocumentStorageURL: sub.DocumentStorageURL,
		CreatedAt:          sub.CreatedAt,
		UpdatedAt:          sub.UpdatedAt,
		Logs:               logs,
	})
}
