package memeclient

import (
	"context"

	"github.com/google/uuid"
)

// Session combines the API client with a query cache and runs the
// reconciliation protocol on every mutation:
//
//  1. cancel in-flight Feed/Page refetches
//  2. snapshot the Feed and Page families
//  3. apply the mutation's expected effect optimistically
//  4. call the server; on failure restore the snapshot exactly
//  5. either way, invalidate all three families and refetch in background
//
// Reads are cache-first: a fresh entry is served locally, a missing or
// stale one is fetched through the API and stored.
type Session struct {
	api   *Client
	cache *Cache
}

// NewSession creates a Session over the given client and cache handle.
func NewSession(api *Client, cache *Cache) *Session {
	return &Session{api: api, cache: cache}
}

// Cache exposes the underlying cache handle.
func (s *Session) Cache() *Cache { return s.cache }

// UpdateMeme patches a meme and reconciles every cached view of it.
func (s *Session) UpdateMeme(ctx context.Context, id uuid.UUID, input UpdateMemeInput) (*Meme, error) {
	var updated *Meme
	err := s.mutate(ctx,
		func(c *Cache) { c.applyUpdateLocked(id, input.Description, input.Tags) },
		func(ctx context.Context) error {
			var err error
			updated, err = s.api.UpdateMeme(ctx, id, input)
			return err
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteMeme deletes a meme and reconciles the cache.
func (s *Session) DeleteMeme(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx,
		func(c *Cache) { c.applyDeleteLocked([]uuid.UUID{id}) },
		func(ctx context.Context) error { return s.api.DeleteMeme(ctx, id) })
}

// BulkDelete deletes a set of memes and reconciles the cache.
func (s *Session) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	return s.mutate(ctx,
		func(c *Cache) { c.applyDeleteLocked(ids) },
		func(ctx context.Context) error { return s.api.BulkDelete(ctx, ids) })
}

// BulkTag merge-adds tags onto a set of memes and reconciles the cache.
func (s *Session) BulkTag(ctx context.Context, ids []uuid.UUID, tags []string) error {
	return s.mutate(ctx,
		func(c *Cache) { c.applyMergeTagsLocked(ids, tags) },
		func(ctx context.Context) error { return s.api.BulkTag(ctx, ids, tags) })
}

// CreateMeme registers a new meme. Creation has no optimistic apply (the
// server assigns id and timestamps); it still settles the cache so lists
// pick the new meme up.
func (s *Session) CreateMeme(ctx context.Context, input CreateMemeInput) (*Meme, error) {
	created, err := s.api.CreateMeme(ctx, input)

	s.cache.mu.Lock()
	s.cache.invalidateLocked()
	s.cache.mu.Unlock()
	s.refetchStale(ctx)

	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Session) mutate(ctx context.Context, apply func(*Cache), call func(context.Context) error) error {
	s.cache.mu.Lock()
	s.cache.cancelFetchesLocked()
	snap := s.cache.snapshotLocked()
	apply(s.cache)
	s.cache.mu.Unlock()

	err := call(ctx)

	s.cache.mu.Lock()
	if err != nil {
		s.cache.restoreLocked(snap)
	}
	s.cache.invalidateLocked()
	s.cache.mu.Unlock()

	s.refetchStale(ctx)
	return err
}

// Feed returns the accumulated feed for the given filter, fetching the
// first page when the entry is missing or stale.
func (s *Session) Feed(ctx context.Context, key FeedKey, limit int) (*FeedEntry, error) {
	s.cache.mu.Lock()
	if e, ok := s.cache.feeds[key]; ok && !e.Stale {
		out := copyFeedEntry(e)
		s.cache.mu.Unlock()
		return out, nil
	}
	s.cache.mu.Unlock()

	return s.fetchFeed(ctx, key, limit)
}

// FeedMore fetches the next feed page for the filter and appends it to the
// cached entry. It is a no-op at end of feed.
func (s *Session) FeedMore(ctx context.Context, key FeedKey, limit int) (*FeedEntry, error) {
	s.cache.mu.Lock()
	e, ok := s.cache.feeds[key]
	if !ok || e.Stale {
		s.cache.mu.Unlock()
		return s.fetchFeed(ctx, key, limit)
	}
	if e.NextCursor == nil {
		out := copyFeedEntry(e)
		s.cache.mu.Unlock()
		return out, nil
	}
	cursor := *e.NextCursor
	s.cache.mu.Unlock()

	fetchCtx, done := s.cache.registerFetch(ctx)
	defer done()

	page, err := s.api.Feed(fetchCtx, FeedParams{Cursor: &cursor, Limit: limit, Q: key.Q, Tag: key.Tag})
	if err != nil {
		return nil, err
	}

	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if fetchCtx.Err() != nil {
		// A mutation cancelled this fetch; its result is stale.
		return nil, fetchCtx.Err()
	}
	e, ok = s.cache.feeds[key]
	if !ok || e.Stale {
		return nil, context.Canceled
	}
	e.Memes = append(e.Memes, page.Memes...)
	e.NextCursor = page.NextCursor
	return copyFeedEntry(e), nil
}

// Dashboard returns one dashboard page, fetching when missing or stale.
func (s *Session) Dashboard(ctx context.Context, key PageKey) (*PageEntry, error) {
	s.cache.mu.Lock()
	if e, ok := s.cache.pages[key]; ok && !e.Stale {
		out := copyPageEntry(e)
		s.cache.mu.Unlock()
		return out, nil
	}
	s.cache.mu.Unlock()

	return s.fetchPage(ctx, key)
}

// TagList returns the global tag list, fetching when missing or stale.
func (s *Session) TagList(ctx context.Context) ([]Tag, error) {
	s.cache.mu.Lock()
	if e := s.cache.tagList; e != nil && !e.Stale {
		out := append([]Tag(nil), e.Tags...)
		s.cache.mu.Unlock()
		return out, nil
	}
	s.cache.mu.Unlock()

	tags, err := s.api.Tags(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.mu.Lock()
	s.cache.tagList = &TagListEntry{Tags: append([]Tag(nil), tags...)}
	s.cache.mu.Unlock()
	return tags, nil
}

func (s *Session) fetchFeed(ctx context.Context, key FeedKey, limit int) (*FeedEntry, error) {
	fetchCtx, done := s.cache.registerFetch(ctx)
	defer done()

	page, err := s.api.Feed(fetchCtx, FeedParams{Limit: limit, Q: key.Q, Tag: key.Tag})
	if err != nil {
		return nil, err
	}

	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if fetchCtx.Err() != nil {
		return nil, fetchCtx.Err()
	}
	e := &FeedEntry{Memes: page.Memes, NextCursor: page.NextCursor}
	s.cache.feeds[key] = e
	return copyFeedEntry(e), nil
}

func (s *Session) fetchPage(ctx context.Context, key PageKey) (*PageEntry, error) {
	fetchCtx, done := s.cache.registerFetch(ctx)
	defer done()

	page, err := s.api.Dashboard(fetchCtx, DashboardParams{
		Page:      key.Page,
		PageSize:  key.PageSize,
		Q:         key.Q,
		Tag:       key.Tag,
		SortBy:    key.SortBy,
		SortOrder: key.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if fetchCtx.Err() != nil {
		return nil, fetchCtx.Err()
	}
	e := &PageEntry{Memes: page.Memes, Total: page.Total}
	s.cache.pages[key] = e
	return copyPageEntry(e), nil
}

// refetchStale re-runs every cached Feed and Page query that the settle
// step just invalidated, plus the tag list. Errors are dropped: a failed
// refetch leaves the entry stale, and the next read tries again.
func (s *Session) refetchStale(ctx context.Context) {
	s.cache.mu.Lock()
	feedKeys := make([]FeedKey, 0, len(s.cache.feeds))
	for k, e := range s.cache.feeds {
		if e.Stale {
			feedKeys = append(feedKeys, k)
		}
	}
	pageKeys := make([]PageKey, 0, len(s.cache.pages))
	for k, e := range s.cache.pages {
		if e.Stale {
			pageKeys = append(pageKeys, k)
		}
	}
	tagsStale := s.cache.tagList != nil && s.cache.tagList.Stale
	s.cache.mu.Unlock()

	go func() {
		for _, k := range feedKeys {
			s.fetchFeed(ctx, k, 0) //nolint:errcheck
		}
		for _, k := range pageKeys {
			s.fetchPage(ctx, k) //nolint:errcheck
		}
		if tagsStale {
			if tags, err := s.api.Tags(ctx); err == nil {
				s.cache.mu.Lock()
				s.cache.tagList = &TagListEntry{Tags: tags}
				s.cache.mu.Unlock()
			}
		}
	}()
}
