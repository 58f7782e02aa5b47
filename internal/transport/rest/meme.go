package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/internal/service/meme"
)

// memeService defines the minimal interface needed by MemeHandler.
type memeService interface {
	Create(ctx context.Context, input meme.CreateMemeInput) (*domain.Meme, error)
	Update(ctx context.Context, input meme.UpdateMemeInput) (*domain.Meme, error)
	Delete(ctx context.Context, input meme.DeleteMemeInput) error
	BulkDelete(ctx context.Context, input meme.BulkDeleteInput) error
	BulkTag(ctx context.Context, input meme.BulkTagInput) (*meme.BulkTagResult, error)
	Feed(ctx context.Context, query domain.FeedQuery) (*domain.FeedPage, error)
	Dashboard(ctx context.Context, query domain.DashboardQuery) (*domain.DashboardPage, error)
}

// MemeHandler serves the meme catalog REST endpoints.
type MemeHandler struct {
	svc memeService
	log *slog.Logger
}

// NewMemeHandler creates a MemeHandler.
func NewMemeHandler(svc memeService, logger *slog.Logger) *MemeHandler {
	return &MemeHandler{svc: svc, log: logger.With("handler", "meme")}
}

type createMemeRequest struct {
	ImageURL    string   `json:"imageUrl"`
	ImageWidth  *int     `json:"imageWidth"`
	ImageHeight *int     `json:"imageHeight"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type updateMemeRequest struct {
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

type bulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type bulkTagRequest struct {
	IDs  []uuid.UUID `json:"ids"`
	Tags []string    `json:"tags"`
}

type memeResponse struct {
	Meme memeJSON `json:"meme"`
}

type memeListResponse struct {
	Memes      []memeJSON `json:"memes"`
	NextCursor *string    `json:"nextCursor"`
}

type dashboardResponse struct {
	Memes    []memeJSON `json:"memes"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// Create handles POST /api/memes.
func (h *MemeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Create(r.Context(), meme.CreateMemeInput{
		ImageURL:    req.ImageURL,
		ImageWidth:  req.ImageWidth,
		ImageHeight: req.ImageHeight,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, memeResponse{Meme: toMemeJSON(result)})
}

// Update handles PATCH /api/memes/{id}.
func (h *MemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	memeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meme id")
		return
	}

	var req updateMemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Update(r.Context(), meme.UpdateMemeInput{
		MemeID:      memeID,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, memeResponse{Meme: toMemeJSON(result)})
}

// Delete handles DELETE /api/memes/{id}.
func (h *MemeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	memeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meme id")
		return
	}

	if err := h.svc.Delete(r.Context(), meme.DeleteMemeInput{MemeID: memeID}); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkDelete handles POST /api/memes/bulk-delete.
func (h *MemeHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.BulkDelete(r.Context(), meme.BulkDeleteInput{MemeIDs: req.IDs}); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkTag handles POST /api/memes/bulk-tag.
func (h *MemeHandler) BulkTag(w http.ResponseWriter, r *http.Request) {
	var req bulkTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.svc.BulkTag(r.Context(), meme.BulkTagInput{MemeIDs: req.IDs, Tags: req.Tags}); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Feed handles GET /api/memes: cursor pagination, newest first.
func (h *MemeHandler) Feed(w http.ResponseWriter, r *http.Request) {
	query := domain.FeedQuery{Filter: parseFilter(r)}

	if v := r.URL.Query().Get("cursor"); v != "" {
		cursor, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cursor, want RFC 3339 timestamp")
			return
		}
		query.Cursor = &cursor
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		query.Limit = limit
	}

	page, err := h.svc.Feed(r.Context(), query)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := memeListResponse{Memes: toMemeListJSON(page.Memes)}
	if page.NextCursor != nil {
		s := page.NextCursor.Format(time.RFC3339Nano)
		resp.NextCursor = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

// Dashboard handles GET /api/memes/dashboard: offset pagination with total.
func (h *MemeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.DashboardQuery{
		Filter:    parseFilter(r),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	var err error
	if query.Page, err = intParam(q.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	if query.PageSize, err = intParam(q.Get("pageSize")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pageSize")
		return
	}

	page, err := h.svc.Dashboard(r.Context(), query)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Memes:    toMemeListJSON(page.Memes),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func parseFilter(r *http.Request) domain.MemeFilter {
	var f domain.MemeFilter
	if v := r.URL.Query().Get("q"); v != "" {
		f.Search = &v
	}
	if v := r.URL.Query().Get("tag"); v != "" {
		f.Tag = &v
	}
	return f
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
