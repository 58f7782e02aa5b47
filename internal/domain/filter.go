package domain

import "time"

// MemeFilter is the shared filter for both list views: always scoped to the
// owner, optionally narrowed by a case-insensitive description substring
// and/or an exact tag name. The tag match is a subquery against the join
// table, never a join, so multi-tag memes are not multiplied.
type MemeFilter struct {
	Search *string
	Tag    *string
}

// FeedQuery parameterizes the cursor-paginated feed. Sort is fixed:
// created_at descending. When Cursor is set, only rows strictly older than
// it are returned.
type FeedQuery struct {
	Filter MemeFilter
	Cursor *time.Time
	Limit  int
}

// Dashboard sort columns and orders.
const (
	SortByCreatedAt   = "createdAt"
	SortByDescription = "description"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// DashboardQuery parameterizes the offset-paginated dashboard. Page is
// 1-based.
type DashboardQuery struct {
	Filter    MemeFilter
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
