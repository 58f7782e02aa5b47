package meme

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

// Delete removes a single meme. The image key is captured before the row
// goes away, the row delete (which cascades the tag links) is the
// correctness boundary, and the blob delete happens after commit. A failed
// blob delete leaves a dangling object, never a dangling record.
func (s *Service) Delete(ctx context.Context, input DeleteMemeInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	var imageURL string
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.memes.GetByID(txCtx, userID, input.MemeID)
		if err != nil {
			return fmt.Errorf("get meme: %w", err)
		}
		imageURL = m.ImageURL

		if err := s.memes.Delete(txCtx, userID, input.MemeID); err != nil {
			return fmt.Errorf("delete meme: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.deleteImages(ctx, []string{imageURL})

	s.log.InfoContext(ctx, "meme deleted",
		slog.String("user_id", userID.String()),
		slog.String("meme_id", input.MemeID.String()),
	)

	return nil
}

// BulkDelete removes a set of memes all-or-nothing. If any id is missing or
// owned by another user the whole batch is rejected with domain.ErrForbidden
// and no rows are touched.
func (s *Service) BulkDelete(ctx context.Context, input BulkDeleteInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	ids := dedupeIDs(input.MemeIDs)

	var imageURLs []string
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		refs, err := s.memes.ListOwned(txCtx, userID, ids)
		if err != nil {
			return fmt.Errorf("check ownership: %w", err)
		}
		if len(refs) != len(ids) {
			return fmt.Errorf("%w: %d of %d memes not owned", domain.ErrForbidden, len(ids)-len(refs), len(ids))
		}

		imageURLs = make([]string, len(refs))
		for i, ref := range refs {
			imageURLs[i] = ref.ImageURL
		}

		if err := s.memes.DeleteByIDs(txCtx, userID, ids); err != nil {
			return fmt.Errorf("delete memes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.deleteImages(ctx, imageURLs)

	s.log.InfoContext(ctx, "memes bulk-deleted",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(ids)),
	)

	return nil
}

// deleteImages is the best-effort post-commit blob cleanup. URLs that do
// not point into our CDN are skipped; storage failures are logged and
// swallowed.
func (s *Service) deleteImages(ctx context.Context, imageURLs []string) {
	keys := make([]string, 0, len(imageURLs))
	for _, u := range imageURLs {
		key, err := s.storage.KeyForURL(u)
		if err != nil {
			s.log.WarnContext(ctx, "skip image cleanup", slog.String("url", u), slog.Any("error", err))
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return
	}
	if err := s.storage.DeleteMany(ctx, keys); err != nil {
		s.log.WarnContext(ctx, "image cleanup failed", slog.Int("keys", len(keys)), slog.Any("error", err))
	}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
