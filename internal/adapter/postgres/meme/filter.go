package meme

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/memecached/memecached-web/internal/domain"
)

// builder is the shared squirrel builder with PostgreSQL placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// memeColumns is the select list for meme rows, in scan order.
var memeColumns = []string{
	"id", "user_id", "image_url", "image_width", "image_height",
	"description", "created_at", "updated_at",
}

// whereFilter translates the shared list filter into squirrel conditions:
// owner match, optional ILIKE on description, optional tag membership via a
// subquery on the join table. The subquery (rather than a join) keeps
// multi-tag memes from appearing once per matching link row.
func whereFilter(userID uuid.UUID, f domain.MemeFilter) sq.And {
	conds := sq.And{sq.Eq{"user_id": userID}}

	if f.Search != nil && *f.Search != "" {
		conds = append(conds, sq.ILike{"description": "%" + *f.Search + "%"})
	}

	if f.Tag != nil && *f.Tag != "" {
		conds = append(conds, sq.Expr(
			`id IN (SELECT mt.meme_id FROM meme_tags mt JOIN tags t ON mt.tag_id = t.id WHERE t.name = ?)`,
			domain.NormalizeTag(*f.Tag),
		))
	}

	return conds
}

// sortColumn maps the dashboard sort key to its column. Unknown keys fall
// back to created_at; the service validates before we get here.
func sortColumn(sortBy string) string {
	if sortBy == domain.SortByDescription {
		return "description"
	}
	return "created_at"
}

// sortDirection maps the dashboard sort order to SQL.
func sortDirection(order string) string {
	if order == domain.SortOrderAsc {
		return "ASC"
	}
	return "DESC"
}
