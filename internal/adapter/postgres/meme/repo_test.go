package meme

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/memecached/memecached-web/internal/adapter/postgres"
	"github.com/memecached/memecached-web/internal/domain"
)

var memeMockColumns = []string{
	"id", "user_id", "image_url", "image_width", "image_height",
	"description", "created_at", "updated_at",
}

// newMockCtx returns a context carrying a pgxmock pool, so the repository
// queries the mock instead of a real database.
func newMockCtx(t *testing.T) (context.Context, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	return postgres.WithQuerier(context.Background(), mock), mock
}

func memeRowValues(id, userID uuid.UUID, description string, createdAt time.Time) []any {
	return []any{id, userID, "https://cdn.example.com/u/f.png", (*int)(nil), (*int)(nil),
		description, createdAt, createdAt}
}

func TestRepoInsert(t *testing.T) {
	t.Parallel()

	ctx, mock := newMockCtx(t)
	repo := New(nil)

	userID, memeID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO memes`).
		WithArgs(userID, "https://cdn.example.com/u/f.png", (*int)(nil), (*int)(nil), "orange cat").
		WillReturnRows(pgxmock.NewRows(memeMockColumns).
			AddRow(memeRowValues(memeID, userID, "orange cat", now)...))

	created, err := repo.Insert(ctx, &domain.Meme{
		UserID:      userID,
		ImageURL:    "https://cdn.example.com/u/f.png",
		Description: "orange cat",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID != memeID {
		t.Errorf("unexpected id %s", created.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepoGetByID_NotFoundMapsNoRows(t *testing.T) {
	t.Parallel()

	ctx, mock := newMockCtx(t)
	repo := New(nil)

	mock.ExpectQuery(`SELECT .* FROM memes`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(memeMockColumns))

	_, err := repo.GetByID(ctx, uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepoDelete_ZeroRowsIsNotFound(t *testing.T) {
	t.Parallel()

	ctx, mock := newMockCtx(t)
	repo := New(nil)

	mock.ExpectExec(`DELETE FROM memes`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(ctx, uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on zero rows, got %v", err)
	}
}

func TestRepoListOwned_EmptyIDsSkipsQuery(t *testing.T) {
	t.Parallel()

	ctx, mock := newMockCtx(t)
	repo := New(nil)

	refs, err := repo.ListOwned(ctx, uuid.New(), nil)
	if err != nil {
		t.Fatalf("ListOwned: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected empty result, got %v", refs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepoDeleteByIDs_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	ctx, mock := newMockCtx(t)
	repo := New(nil)

	if err := repo.DeleteByIDs(ctx, uuid.New(), nil); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepoListFeed_AppliesCursor(t *testing.T) {
	t.Parallel()

	ctx, mock := newMockCtx(t)
	repo := New(nil)

	userID := uuid.New()
	cursor := time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)
	rowTime := cursor.Add(-time.Hour)

	mock.ExpectQuery(`SELECT .* FROM memes WHERE .*created_at < .* ORDER BY created_at DESC LIMIT 21`).
		WithArgs(userID, cursor).
		WillReturnRows(pgxmock.NewRows(memeMockColumns).
			AddRow(memeRowValues(uuid.New(), userID, "older", rowTime)...))

	memes, err := repo.ListFeed(ctx, userID, domain.MemeFilter{}, &cursor, 21)
	if err != nil {
		t.Fatalf("ListFeed: %v", err)
	}
	if len(memes) != 1 || memes[0].Description != "older" {
		t.Errorf("unexpected result %v", memes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepoCount(t *testing.T) {
	t.Parallel()

	ctx, mock := newMockCtx(t)
	repo := New(nil)

	userID := uuid.New()
	search := "cat"

	mock.ExpectQuery(`SELECT count\(\*\) FROM memes`).
		WithArgs(userID, "%cat%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(ctx, userID, domain.MemeFilter{Search: &search})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}
}

func TestSortMapping(t *testing.T) {
	t.Parallel()

	if got := sortColumn(domain.SortByDescription); got != "description" {
		t.Errorf("sortColumn(description) = %q", got)
	}
	if got := sortColumn("anything-else"); got != "created_at" {
		t.Errorf("unknown sort key should fall back to created_at, got %q", got)
	}
	if got := sortDirection(domain.SortOrderAsc); got != "ASC" {
		t.Errorf("sortDirection(asc) = %q", got)
	}
	if got := sortDirection(""); got != "DESC" {
		t.Errorf("default direction should be DESC, got %q", got)
	}
}
