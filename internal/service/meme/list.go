package meme

import (
	"context"
	"fmt"

	"github.com/memecached/memecached-web/internal/domain"
	"github.com/memecached/memecached-web/pkg/ctxutil"
)

const (
	DefaultLimit    = 20
	MaxLimit        = 50
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// clampLimit forces a page size into [1, MaxLimit], zero meaning default.
func clampLimit(limit, def, max int) int {
	switch {
	case limit <= 0:
		return def
	case limit > max:
		return max
	default:
		return limit
	}
}

// validateSort rejects unknown dashboard sort parameters. Empty values are
// fine, the repo falls back to created_at descending.
func validateSort(sortBy, sortOrder string) error {
	var errs []domain.FieldError
	if sortBy != "" && sortBy != domain.SortByCreatedAt && sortBy != domain.SortByDescription {
		errs = append(errs, domain.FieldError{Field: "sort_by", Message: "must be createdAt or description"})
	}
	if sortOrder != "" && sortOrder != domain.SortOrderAsc && sortOrder != domain.SortOrderDesc {
		errs = append(errs, domain.FieldError{Field: "sort_order", Message: "must be asc or desc"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Feed returns one page of the infinite-scroll feed: rows strictly older
// than the cursor, newest first. It fetches one row beyond the limit to
// decide whether a next page exists; per-meme tag order is the store's
// link order.
func (s *Service) Feed(ctx context.Context, query domain.FeedQuery) (*domain.FeedPage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	limit := clampLimit(query.Limit, DefaultLimit, MaxLimit)

	memes, err := s.memes.ListFeed(ctx, userID, query.Filter, query.Cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}

	page := &domain.FeedPage{}
	if len(memes) > limit {
		memes = memes[:limit]
		cursor := memes[len(memes)-1].CreatedAt
		page.NextCursor = &cursor
	}

	if err := s.attachTags(ctx, memes, false); err != nil {
		return nil, fmt.Errorf("attach tags: %w", err)
	}

	page.Memes = memes
	return page, nil
}

// Dashboard returns one page of the offset-paginated table view plus the
// total row count for the filter. Each meme's tag list is sorted
// alphabetically, unlike the feed.
func (s *Service) Dashboard(ctx context.Context, query domain.DashboardQuery) (*domain.DashboardPage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := validateSort(query.SortBy, query.SortOrder); err != nil {
		return nil, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := clampLimit(query.PageSize, DefaultPageSize, MaxPageSize)

	total, err := s.memes.Count(ctx, userID, query.Filter)
	if err != nil {
		return nil, fmt.Errorf("count memes: %w", err)
	}

	memes, err := s.memes.ListPage(ctx, userID, query.Filter, query.SortBy, query.SortOrder, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list page: %w", err)
	}

	if err := s.attachTags(ctx, memes, true); err != nil {
		return nil, fmt.Errorf("attach tags: %w", err)
	}

	return &domain.DashboardPage{
		Memes:    memes,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
