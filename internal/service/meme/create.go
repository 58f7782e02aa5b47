package meme

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

// Create catalogues a new meme for the authenticated user: insert the row,
// resolve the tag names to canonical tag rows, link them. All three steps
// commit or roll back together.
func (s *Service) Create(ctx context.Context, input CreateMemeInput) (*domain.Meme, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Meme
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var insertErr error
		created, insertErr = s.memes.Insert(txCtx, &domain.Meme{
			UserID:      userID,
			ImageURL:    input.ImageURL,
			ImageWidth:  input.ImageWidth,
			ImageHeight: input.ImageHeight,
			Description: input.Description,
		})
		if insertErr != nil {
			return fmt.Errorf("insert meme: %w", insertErr)
		}

		tags, resolveErr := s.tags.Resolve(txCtx, input.Tags)
		if resolveErr != nil {
			return fmt.Errorf("resolve tags: %w", resolveErr)
		}

		if linkErr := s.tags.ReplaceMemeLinks(txCtx, created.ID, tagIDs(tags)); linkErr != nil {
			return fmt.Errorf("link tags: %w", linkErr)
		}

		created.Tags = tagNames(tags)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "meme created",
		slog.String("user_id", userID.String()),
		slog.String("meme_id", created.ID.String()),
		slog.Int("tags", len(created.Tags)),
	)

	return created, nil
}
