// Package tag implements the Tag repository using PostgreSQL.
// It owns tag resolution (normalize + upsert + fetch) and the meme_tags
// join table under its two write policies: replace-all and merge-add.
package tag

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/memecached/memecached-web/internal/adapter/postgres"
	"github.com/memecached/memecached-web/internal/domain"
)

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tag repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const (
	upsertTagsSQL = `
INSERT INTO tags (name)
SELECT unnest($1::text[])
ON CONFLICT (name) DO NOTHING`

	selectTagsByNamesSQL = `
SELECT id, name FROM tags WHERE name = ANY($1::text[])`

	listTagsSQL = `
SELECT id, name FROM tags ORDER BY name ASC`

	deleteMemeLinksSQL = `
DELETE FROM meme_tags WHERE meme_id = $1`

	insertMemeLinksSQL = `
INSERT INTO meme_tags (meme_id, tag_id)
SELECT $1, unnest($2::uuid[])`

	mergeLinksSQL = `
INSERT INTO meme_tags (meme_id, tag_id)
SELECT m, t FROM unnest($1::uuid[]) AS m CROSS JOIN unnest($2::uuid[]) AS t
ON CONFLICT DO NOTHING`

	namesByMemeIDsSQL = `
SELECT mt.meme_id, t.name
FROM meme_tags mt
JOIN tags t ON mt.tag_id = t.id
WHERE mt.meme_id = ANY($1::uuid[])`
)

// Resolve normalizes the given raw tag names, upserts the missing ones
// (conflicts on the unique name are ignored), and returns the canonical
// rows for exactly that normalized set — never rows for other names, no
// matter what else exists in the store. Safe to call concurrently with
// identical names; a lost insert race resolves on the follow-up select.
// Returns tags ordered by name for deterministic output.
func (r *Repo) Resolve(ctx context.Context, names []string) ([]domain.Tag, error) {
	normalized := domain.NormalizeTags(names)
	if len(normalized) == 0 {
		return []domain.Tag{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, upsertTagsSQL, normalized); err != nil {
		return nil, postgres.MapError(err, "tag", uuid.Nil)
	}

	rows, err := q.Query(ctx, selectTagsByNamesSQL, normalized)
	if err != nil {
		return nil, fmt.Errorf("select tags by names: %w", err)
	}
	defer rows.Close()

	tags, err := scanTags(rows)
	if err != nil {
		return nil, fmt.Errorf("select tags by names: %w", err)
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// List returns every tag ordered by name. Returns an empty slice (not nil)
// when no tags exist.
func (r *Repo) List(ctx context.Context) ([]domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listTagsSQL)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags, err := scanTags(rows)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

// ReplaceMemeLinks clears every link for the meme and inserts links to the
// given tag set. An empty tag set leaves the meme with zero tags.
func (r *Repo) ReplaceMemeLinks(ctx context.Context, memeID uuid.UUID, tagIDs []uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteMemeLinksSQL, memeID); err != nil {
		return postgres.MapError(err, "meme_tag", memeID)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	if _, err := q.Exec(ctx, insertMemeLinksSQL, memeID, tagIDs); err != nil {
		return postgres.MapError(err, "meme_tag", memeID)
	}

	return nil
}

// MergeLinks inserts a link for every (meme, tag) pair in the cross product,
// leaving existing links untouched. Idempotent: re-running with the same
// arguments changes nothing. Returns the number of links actually created.
func (r *Repo) MergeLinks(ctx context.Context, memeIDs, tagIDs []uuid.UUID) (int, error) {
	if len(memeIDs) == 0 || len(tagIDs) == 0 {
		return 0, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, mergeLinksSQL, memeIDs, tagIDs)
	if err != nil {
		return 0, postgres.MapError(err, "meme_tag", uuid.Nil)
	}

	return int(tag.RowsAffected()), nil
}

// NamesByMemeIDs returns the tag names linked to each of the given memes in
// one batch query, grouped by meme id. Per-meme name order is whatever the
// store returns — callers that need sorted lists sort themselves. Memes
// without tags are absent from the map.
func (r *Repo) NamesByMemeIDs(ctx context.Context, memeIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(memeIDs))
	if len(memeIDs) == 0 {
		return result, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, namesByMemeIDsSQL, memeIDs)
	if err != nil {
		return nil, fmt.Errorf("tag names by meme ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			memeID uuid.UUID
			name   string
		)
		if err := rows.Scan(&memeID, &name); err != nil {
			return nil, fmt.Errorf("tag names by meme ids: %w", err)
		}
		result[memeID] = append(result[memeID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tag names by meme ids: %w", err)
	}

	return result, nil
}

// NamesByMemeID returns the tag names linked to a single meme.
func (r *Repo) NamesByMemeID(ctx context.Context, memeID uuid.UUID) ([]string, error) {
	byMeme, err := r.NamesByMemeIDs(ctx, []uuid.UUID{memeID})
	if err != nil {
		return nil, err
	}

	names, ok := byMeme[memeID]
	if !ok {
		return []string{}, nil
	}
	return names, nil
}

// scanTags scans id+name rows into domain.Tag values.
func scanTags(rows pgx.Rows) ([]domain.Tag, error) {
	var result []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Tag{}
	}
	return result, nil
}
