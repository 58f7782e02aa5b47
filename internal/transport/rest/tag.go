package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/memecached/memecached-web/internal/domain"
)

type tagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
}

// TagHandler serves the tag catalog REST endpoints.
type TagHandler struct {
	svc tagService
	log *slog.Logger
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(svc tagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{svc: svc, log: logger.With("handler", "tag")}
}

type tagJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tagListResponse struct {
	Tags []tagJSON `json:"tags"`
}

// List handles GET /api/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]tagJSON, len(tags))
	for i, t := range tags {
		out[i] = tagJSON{ID: t.ID.String(), Name: t.Name}
	}
	writeJSON(w, http.StatusOK, tagListResponse{Tags: out})
}
