package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"applyform/internal/platform/middleware"
	"applyform/internal/submission"
	"applyform/internal/submission/service"
	"applyform/internal/transport/http/shared"
	dErrors "applyform/pkg/domain-errors"
)

// AdminService defines the operator-facing operations.
type AdminService interface {
	List(ctx context.Context, filter submission.ListFilter) ([]*submission.Submission, int, error)
	GetStats(ctx context.Context) (service.Stats, error)
	Resend(ctx context.Context, submissionID string) (*submission.Submission, error)
	Delete(ctx context.Context, submissionID string) error
}

// AdminHandler handles the token-protected admin endpoints.
type AdminHandler struct {
	service    AdminService
	logger     *slog.Logger
	adminToken string
}

func NewAdminHandler(service AdminService, logger *slog.Logger, adminToken string) *AdminHandler {
	return &AdminHandler{service: service, logger: logger, adminToken: adminToken}
}

// Register mounts the admin routes behind the admin token check.
func (h *AdminHandler) Register(r chi.Router) {
	admin := chi.NewRouter()
	admin.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
	admin.Get("/submissions", h.handleList)
	admin.Get("/stats", h.handleStats)
	admin.Post("/submissions/{submissionID}/resend", h.handleResend)
	admin.Delete("/submissions/{submissionID}", h.handleDelete)

	r.Mount("/api/admin", admin)
}

// adminSubmission is the list-view projection; no snapshot, no logs.
type adminSubmission struct {
	SubmissionID       string    `json:"submission_id"`
	UserEmail          string    `json:"user_email"`
	Status             int       `json:"status"`
	StatusLabel        string    `json:"status_label"`
	EmailVerified      bool      `json:"email_verified"`
	DocumentFileName   string    `json:"document_file_name,omitempty"`
	DocumentStorageURL string    `json:"document_storage_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (h *AdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := submission.ListFilter{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil || code < int(submission.StatusDraft) || code > int(submission.StatusFailed) {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid status filter"))
			return
		}
		status := submission.Status(code)
		filter.Status = &status
	}

	subs, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	items := make([]adminSubmission, 0, len(subs))
	for _, sub := range subs {
		items = append(items, adminSubmission{
			SubmissionID:       sub.SubmissionID,
			UserEmail:          sub.UserEmail,
			Status:             int(sub.Status),
			StatusLabel:        sub.Status.String(),
			EmailVerified:      sub.EmailVerified,
			DocumentFileName:   sub.DocumentFileName,
			DocumentStorageURL: sub.DocumentStorageURL,
			CreatedAt:          sub.CreatedAt,
			UpdatedAt:          sub.UpdatedAt,
		})
	}

	shared.WriteJSON(w, http.StatusOK, struct {
		Submissions []adminSubmission `json:"submissions"`
		Total       int               `json:"total"`
		Page        int               `json:"page"`
		PageSize    int               `json:"page_size"`
	}{
		Submissions: items,
		Total:       total,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
	})
}

func (h *AdminHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) handleResend(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Resend(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, newSubmissionResponse(sub, "notifications resent"))
}

func (h *AdminHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "submissionID")); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
