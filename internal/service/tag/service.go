// Package tag exposes the read side of the tag catalog. Writes go through
// the meme service's mutations, which resolve and link tags transactionally.
package tag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

type tagRepo interface {
	List(ctx context.Context) ([]domain.Tag, error)
}

// Service provides tag queries.
type Service struct {
	tags tagRepo
	log  *slog.Logger
}

// NewService creates a new Tag service.
func NewService(log *slog.Logger, tags tagRepo) *Service {
	return &Service{
		tags: tags,
		log:  log.With("service", "tag"),
	}
}

// List returns every tag, ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Tag, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
