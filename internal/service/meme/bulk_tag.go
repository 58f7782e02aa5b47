package meme

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

// BulkTagResult holds the outcome of a bulk tag operation.
type BulkTagResult struct {
	// Tags are the resolved canonical tag names, sorted.
	Tags []string
	// LinksCreated counts new (meme, tag) links; pairs that already
	// existed are not counted, so re-running the same request yields 0.
	LinksCreated int
}

// BulkTag merge-adds the given tags onto every meme in the set. Same
// all-or-nothing ownership gate as BulkDelete; existing links are left
// untouched, so the operation is idempotent.
func (s *Service) BulkTag(ctx context.Context, input BulkTagInput) (*BulkTagResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	ids := dedupeIDs(input.MemeIDs)

	var result BulkTagResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		refs, err := s.memes.ListOwned(txCtx, userID, ids)
		if err != nil {
			return fmt.Errorf("check ownership: %w", err)
		}
		if len(refs) != len(ids) {
			return fmt.Errorf("%w: %d of %d memes not owned", domain.ErrForbidden, len(ids)-len(refs), len(ids))
		}

		tags, err := s.tags.Resolve(txCtx, input.Tags)
		if err != nil {
			return fmt.Errorf("resolve tags: %w", err)
		}

		created, err := s.tags.MergeLinks(txCtx, ids, tagIDs(tags))
		if err != nil {
			return fmt.Errorf("merge links: %w", err)
		}

		result = BulkTagResult{Tags: tagNames(tags), LinksCreated: created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "memes bulk-tagged",
		slog.String("user_id", userID.String()),
		slog.Int("memes", len(ids)),
		slog.Int("links_created", result.LinksCreated),
	)

	return &result, nil
}
