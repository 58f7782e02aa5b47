package memeclient

import (
	"context"
	"sync"
)

// FeedKey identifies one cached feed: the filter combination it was
// fetched with.
type FeedKey struct {
	Q   string
	Tag string
}

// PageKey identifies one cached dashboard page.
type PageKey struct {
	Q         string
	Tag       string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// FeedEntry is the accumulated state of one feed: every page fetched so
// far, appended in order, plus the cursor for the next page.
type FeedEntry struct {
	Memes      []Meme
	NextCursor *string
	Stale      bool
}

// PageEntry is one dashboard page plus the filter-wide total.
type PageEntry struct {
	Memes []Meme
	Total int
	Stale bool
}

// TagListEntry is the cached global tag list.
type TagListEntry struct {
	Tags  []Tag
	Stale bool
}

// Cache holds the three query families the reconciliation protocol operates
// on. The web client runs on a single-threaded event loop; here a mutex
// serializes protocol steps so interleavings match that model.
type Cache struct {
	mu       sync.Mutex
	feeds    map[FeedKey]*FeedEntry
	pages    map[PageKey]*PageEntry
	tagList  *TagListEntry
	inflight map[int]context.CancelFunc
	nextID   int
}

// NewCache creates an empty query cache.
func NewCache() *Cache {
	return &Cache{
		feeds:    make(map[FeedKey]*FeedEntry),
		pages:    make(map[PageKey]*PageEntry),
		inflight: make(map[int]context.CancelFunc),
	}
}

// snapshot is the pre-mutation copy of the Feed and Page families used for
// rollback. Tag-list is never edited optimistically, so it is not captured.
type snapshot struct {
	feeds map[FeedKey]*FeedEntry
	pages map[PageKey]*PageEntry
}

// registerFetch makes a list refetch cancellable by a later mutation.
// It returns a derived context and a release function the fetch must call
// when it completes.
func (c *Cache) registerFetch(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.inflight[id] = cancel
	c.mu.Unlock()

	return ctx, func() {
		cancel()
		c.mu.Lock()
		delete(c.inflight, id)
		c.mu.Unlock()
	}
}

// cancelFetchesLocked aborts every in-flight Feed/Page refetch so a stale
// response cannot land on top of the optimistic write that follows.
func (c *Cache) cancelFetchesLocked() {
	for id, cancel := range c.inflight {
		cancel()
		delete(c.inflight, id)
	}
}

func (c *Cache) snapshotLocked() snapshot {
	snap := snapshot{
		feeds: make(map[FeedKey]*FeedEntry, len(c.feeds)),
		pages: make(map[PageKey]*PageEntry, len(c.pages)),
	}
	for k, e := range c.feeds {
		snap.feeds[k] = copyFeedEntry(e)
	}
	for k, e := range c.pages {
		snap.pages[k] = copyPageEntry(e)
	}
	return snap
}

// restoreLocked overwrites the Feed and Page families with the snapshot,
// discarding every optimistic edit made since it was taken.
func (c *Cache) restoreLocked(snap snapshot) {
	c.feeds = snap.feeds
	c.pages = snap.pages
}

// invalidateLocked marks all three families stale. The next read (or the
// background refetch) replaces them with server truth.
func (c *Cache) invalidateLocked() {
	for _, e := range c.feeds {
		e.Stale = true
	}
	for _, e := range c.pages {
		e.Stale = true
	}
	if c.tagList != nil {
		c.tagList.Stale = true
	}
}

func copyFeedEntry(e *FeedEntry) *FeedEntry {
	out := &FeedEntry{Stale: e.Stale}
	out.Memes = copyMemes(e.Memes)
	if e.NextCursor != nil {
		cur := *e.NextCursor
		out.NextCursor = &cur
	}
	return out
}

func copyPageEntry(e *PageEntry) *PageEntry {
	return &PageEntry{Memes: copyMemes(e.Memes), Total: e.Total, Stale: e.Stale}
}

func copyMemes(memes []Meme) []Meme {
	if memes == nil {
		return nil
	}
	out := make([]Meme, len(memes))
	for i, m := range memes {
		out[i] = m
		if m.Tags != nil {
			out[i].Tags = append([]string(nil), m.Tags...)
		}
		if m.ImageWidth != nil {
			w := *m.ImageWidth
			out[i].ImageWidth = &w
		}
		if m.ImageHeight != nil {
			h := *m.ImageHeight
			out[i].ImageHeight = &h
		}
	}
	return out
}
