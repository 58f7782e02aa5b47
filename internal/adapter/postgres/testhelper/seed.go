package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memecached/memecached-web/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates an approved user and returns the filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	user := domain.User{
		ID:     uuid.New(),
		Email:  "testuser-" + suffix + "@example.com",
		Name:   "Test User " + suffix,
		Role:   domain.RoleUser,
		Status: domain.StatusApproved,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, role, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		user.ID, user.Email, user.Name, user.Role, user.Status,
	).Scan(&user.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedMeme creates a meme owned by userID, resolving and linking the given
// tag names (created if absent). CreatedAt defaults to now; use
// SeedMemeAt when the test depends on feed ordering.
func SeedMeme(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, description string, tags ...string) domain.Meme {
	t.Helper()
	return SeedMemeAt(t, pool, userID, description, time.Now().UTC(), tags...)
}

// SeedMemeAt creates a meme with an explicit created_at timestamp.
func SeedMemeAt(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, description string, createdAt time.Time, tags ...string) domain.Meme {
	t.Helper()
	ctx := context.Background()

	meme := domain.Meme{
		ID:          uuid.New(),
		UserID:      userID,
		ImageURL:    "https://cdn.example.com/" + userID.String() + "/" + uuid.NewString() + ".png",
		Description: description,
		CreatedAt:   createdAt.Truncate(time.Microsecond),
		UpdatedAt:   createdAt.Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO memes (id, user_id, image_url, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		meme.ID, meme.UserID, meme.ImageURL, meme.Description, meme.CreatedAt, meme.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMemeAt insert meme: %v", err)
	}

	for _, name := range tags {
		tag := SeedTag(t, pool, name)
		_, err := pool.Exec(ctx,
			`INSERT INTO meme_tags (meme_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			meme.ID, tag.ID,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedMemeAt link tag %q: %v", name, err)
		}
		meme.Tags = append(meme.Tags, tag.Name)
	}

	return meme
}

// SeedTag upserts a tag by normalized name and returns the canonical row.
func SeedTag(t *testing.T, pool *pgxpool.Pool, name string) domain.Tag {
	t.Helper()
	ctx := context.Background()

	tag := domain.Tag{Name: domain.NormalizeTag(name)}

	_, err := pool.Exec(ctx,
		`INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
		tag.Name,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTag insert: %v", err)
	}

	err = pool.QueryRow(ctx, `SELECT id FROM tags WHERE name = $1`, tag.Name).Scan(&tag.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedTag select: %v", err)
	}

	return tag
}
