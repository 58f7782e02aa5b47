// Package meme implements the Meme repository using PostgreSQL.
// Both list views build their WHERE clause with squirrel from the shared
// filter; rows are scanned with scany.
package meme

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/memecached/memecached-web/internal/adapter/postgres"
	"github.com/memecached/memecached-web/internal/domain"
)

// Repo provides meme persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new meme repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// memeRow mirrors the memes table for scany.
type memeRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	ImageURL    string    `db:"image_url"`
	ImageWidth  *int      `db:"image_width"`
	ImageHeight *int      `db:"image_height"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r memeRow) toDomain() domain.Meme {
	return domain.Meme{
		ID:          r.ID,
		UserID:      r.UserID,
		ImageURL:    r.ImageURL,
		ImageWidth:  r.ImageWidth,
		ImageHeight: r.ImageHeight,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type refRow struct {
	ID       uuid.UUID `db:"id"`
	ImageURL string    `db:"image_url"`
}

// Insert persists a new meme and returns it with server-assigned id and
// timestamps.
func (r *Repo) Insert(ctx context.Context, m *domain.Meme) (*domain.Meme, error) {
	query, args, err := builder.
		Insert("memes").
		Columns("user_id", "image_url", "image_width", "image_height", "description").
		Values(m.UserID, m.ImageURL, m.ImageWidth, m.ImageHeight, m.Description).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert meme: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row memeRow
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "meme", uuid.Nil)
	}

	result := row.toDomain()
	return &result, nil
}

// GetByID returns a meme by primary key, scoped to the owner. A meme that
// exists but belongs to someone else reads as domain.ErrNotFound — callers
// cannot probe for foreign ids.
func (r *Repo) GetByID(ctx context.Context, userID, memeID uuid.UUID) (*domain.Meme, error) {
	query, args, err := builder.
		Select(memeColumns...).
		From("memes").
		Where(sq.Eq{"id": memeID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get meme: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row memeRow
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "meme", memeID)
	}

	result := row.toDomain()
	return &result, nil
}

// UpdateDescription replaces the description and bumps updated_at.
// Returns domain.ErrNotFound when the meme is absent or owned by another user.
func (r *Repo) UpdateDescription(ctx context.Context, userID, memeID uuid.UUID, description string) (*domain.Meme, error) {
	query, args, err := builder.
		Update("memes").
		Set("description", description).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": memeID, "user_id": userID}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update meme: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row memeRow
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "meme", memeID)
	}

	result := row.toDomain()
	return &result, nil
}

// Delete removes a meme row; the store cascades meme_tags links. Returns
// domain.ErrNotFound when nothing was deleted.
func (r *Repo) Delete(ctx context.Context, userID, memeID uuid.UUID) error {
	query, args, err := builder.
		Delete("memes").
		Where(sq.Eq{"id": memeID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete meme: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "meme", memeID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meme %s: %w", memeID, domain.ErrNotFound)
	}

	return nil
}

// ListOwned returns id+image_url for the subset of the requested ids that
// the user owns. The caller compares len(result) against len(ids) to reject
// partially-owned batches.
func (r *Repo) ListOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]domain.MemeRef, error) {
	if len(ids) == 0 {
		return []domain.MemeRef{}, nil
	}

	query, args, err := builder.
		Select("id", "image_url").
		From("memes").
		Where(sq.Eq{"id": ids, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list owned: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []refRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list owned memes: %w", err)
	}

	refs := make([]domain.MemeRef, len(rows))
	for i, row := range rows {
		refs[i] = domain.MemeRef{ID: row.ID, ImageURL: row.ImageURL}
	}
	return refs, nil
}

// DeleteByIDs removes all given memes owned by the user in one statement.
// The ownership gate has already run; a shrunk row count here means a
// concurrent delete, which is fine.
func (r *Repo) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := builder.
		Delete("memes").
		Where(sq.Eq{"id": ids, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build bulk delete: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "meme", uuid.Nil)
	}

	return nil
}

// ListFeed returns up to fetchLimit rows matching the filter, newest first,
// restricted to rows strictly older than the cursor when one is given. The
// service passes limit+1 and trims — the over-fetch is how it learns whether
// another page exists.
func (r *Repo) ListFeed(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, cursor *time.Time, fetchLimit int) ([]domain.Meme, error) {
	conds := whereFilter(userID, f)
	if cursor != nil {
		conds = append(conds, sq.Lt{"created_at": *cursor})
	}

	query, args, err := builder.
		Select(memeColumns...).
		From("memes").
		Where(conds).
		OrderBy("created_at DESC").
		Limit(uint64(fetchLimit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build feed query: %w", err)
	}

	return r.selectMemes(ctx, query, args)
}

// Count returns the number of memes matching the filter — the dashboard's
// total, computed with the same WHERE clause as the slice query.
func (r *Repo) Count(ctx context.Context, userID uuid.UUID, f domain.MemeFilter) (int, error) {
	query, args, err := builder.
		Select("count(*)").
		From("memes").
		Where(whereFilter(userID, f)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count memes: %w", err)
	}

	return count, nil
}

// ListPage returns one dashboard page: the filter's rows under the selected
// sort, sliced by (page-1)*pageSize.
func (r *Repo) ListPage(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, sortBy, sortOrder string, page, pageSize int) ([]domain.Meme, error) {
	query, args, err := builder.
		Select(memeColumns...).
		From("memes").
		Where(whereFilter(userID, f)).
		OrderBy(sortColumn(sortBy) + " " + sortDirection(sortOrder)).
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build page query: %w", err)
	}

	return r.selectMemes(ctx, query, args)
}

func (r *Repo) selectMemes(ctx context.Context, query string, args []any) ([]domain.Meme, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var rows []memeRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select memes: %w", err)
	}

	memes := make([]domain.Meme, len(rows))
	for i, row := range rows {
		memes[i] = row.toDomain()
	}
	return memes, nil
}

func columnList() string {
	list := memeColumns[0]
	for _, c := range memeColumns[1:] {
		list += ", " + c
	}
	return list
}
