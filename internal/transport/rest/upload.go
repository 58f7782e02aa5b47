package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/memecached/memecached-web/internal/service/upload"
)

type uploadService interface {
	Request(ctx context.Context, filename string) (*upload.Ticket, error)
}

// UploadHandler serves the presigned-upload REST endpoint.
type UploadHandler struct {
	svc uploadService
	log *slog.Logger
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(svc uploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, log: logger.With("handler", "upload")}
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ImageURL  string `json:"imageUrl"`
}

// Get handles GET /api/upload-url?filename=.
func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.svc.Request(r.Context(), r.URL.Query().Get("filename"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadURLResponse{
		UploadURL: ticket.UploadURL,
		Key:       ticket.Key,
		ImageURL:  ticket.ImageURL,
	})
}
