// Package upload issues presigned upload tickets: the browser PUTs the
// image bytes straight to object storage, the API never proxies them.
package upload

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

type presigner interface {
	Presign(ctx context.Context, ownerID uuid.UUID, ext string) (*domain.PresignedUpload, error)
	URL(key string) string
}

// Service issues upload tickets.
type Service struct {
	storage presigner
	log     *slog.Logger
}

// NewService creates a new Upload service.
func NewService(log *slog.Logger, storage presigner) *Service {
	return &Service{
		storage: storage,
		log:     log.With("service", "upload"),
	}
}

// Ticket is everything the client needs to upload one image: the presigned
// PUT target, the object key, and the public URL the image will be served
// from once uploaded.
type Ticket struct {
	UploadURL string
	Key       string
	ImageURL  string
}

// Request validates the filename's extension and returns an upload ticket
// keyed under the caller's id.
func (s *Service) Request(ctx context.Context, filename string) (*Ticket, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, domain.NewValidationError("filename", "required")
	}

	ext := extensionOf(filename)
	if !domain.ImageExtensionAllowed(ext) {
		return nil, domain.NewValidationError("filename",
			"invalid file type, allowed: "+strings.Join(domain.AllowedImageExtensions(), ", "))
	}

	presigned, err := s.storage.Presign(ctx, userID, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: presign upload: %s", domain.ErrUpstream, err)
	}

	s.log.InfoContext(ctx, "upload ticket issued",
		slog.String("user_id", userID.String()),
		slog.String("key", presigned.Key),
	)

	return &Ticket{
		UploadURL: presigned.UploadURL,
		Key:       presigned.Key,
		ImageURL:  s.storage.URL(presigned.Key),
	}, nil
}

// extensionOf returns the lowercased part after the last dot, or "" when
// the filename has no extension.
func extensionOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}
