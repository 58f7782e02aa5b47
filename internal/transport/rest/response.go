package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/memecached/memecached-web/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps domain errors onto HTTP statuses. Validation keeps its
// message (the first field violation), everything else gets a generic body
// so internals never leak to the client.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "some memes not found or not owned by user")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// memeJSON is the wire form of a meme. Tag order is whatever the service
// produced for the endpoint: store order on the feed, sorted elsewhere.
type memeJSON struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ImageURL    string    `json:"imageUrl"`
	ImageWidth  *int      `json:"imageWidth,omitempty"`
	ImageHeight *int      `json:"imageHeight,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tags        []string  `json:"tags"`
}

func toMemeJSON(m *domain.Meme) memeJSON {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return memeJSON{
		ID:          m.ID.String(),
		UserID:      m.UserID.String(),
		ImageURL:    m.ImageURL,
		ImageWidth:  m.ImageWidth,
		ImageHeight: m.ImageHeight,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Tags:        tags,
	}
}

func toMemeListJSON(memes []domain.Meme) []memeJSON {
	out := make([]memeJSON, len(memes))
	for i := range memes {
		out[i] = toMemeJSON(&memes[i])
	}
	return out
}
