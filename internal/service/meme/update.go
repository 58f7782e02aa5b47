package meme

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

// Update applies a partial edit: optional description replace, optional
// tag replace-all. The ownership check runs inside the same transaction as
// the writes, so a concurrent delete cannot slip between check and write.
// With neither field present the meme is returned unchanged.
func (s *Service) Update(ctx context.Context, input UpdateMemeInput) (*domain.Meme, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Meme
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if input.Description != nil {
			m, err := s.memes.UpdateDescription(txCtx, userID, input.MemeID, *input.Description)
			if err != nil {
				return fmt.Errorf("update description: %w", err)
			}
			updated = m
		} else {
			m, err := s.memes.GetByID(txCtx, userID, input.MemeID)
			if err != nil {
				return fmt.Errorf("get meme: %w", err)
			}
			updated = m
		}

		if input.Tags != nil {
			tags, err := s.tags.Resolve(txCtx, input.Tags)
			if err != nil {
				return fmt.Errorf("resolve tags: %w", err)
			}
			if err := s.tags.ReplaceMemeLinks(txCtx, updated.ID, tagIDs(tags)); err != nil {
				return fmt.Errorf("replace tags: %w", err)
			}
			updated.Tags = tagNames(tags)
			return nil
		}

		names, err := s.tags.NamesByMemeID(txCtx, updated.ID)
		if err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		sort.Strings(names)
		updated.Tags = names
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "meme updated",
		slog.String("user_id", userID.String()),
		slog.String("meme_id", input.MemeID.String()),
	)

	return updated, nil
}
