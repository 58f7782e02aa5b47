package memeclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func clientMeme(id uuid.UUID, description string, tags ...string) Meme {
	return Meme{
		ID:          id,
		UserID:      uuid.New(),
		ImageURL:    "https://cdn.example.com/u/" + id.String() + ".png",
		Description: description,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Tags:        tags,
	}
}

// newTestSession returns a session whose API answers mutations with
// mutationStatus and refuses every read, so background refetches never
// overwrite the cache state under test.
func newTestSession(t *testing.T, mutationStatus int) *Session {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"unavailable"}`)) //nolint:errcheck
			return
		}
		w.WriteHeader(mutationStatus)
		switch {
		case mutationStatus >= 400:
			w.Write([]byte(`{"error":"rejected"}`)) //nolint:errcheck
		case mutationStatus == http.StatusOK:
			w.Write([]byte(`{"meme":{}}`)) //nolint:errcheck
		}
	}))
	t.Cleanup(srv.Close)

	return NewSession(New(srv.URL, "token"), NewCache())
}

func TestDelete_RemovesFromEveryEntryAndDecrementsTotals(t *testing.T) {
	t.Parallel()

	a, b, c := clientMeme(uuid.New(), "a"), clientMeme(uuid.New(), "b"), clientMeme(uuid.New(), "c")

	s := newTestSession(t, http.StatusNoContent)
	cache := s.Cache()
	cache.feeds[FeedKey{}] = &FeedEntry{Memes: []Meme{a, b, c}}
	cache.feeds[FeedKey{Tag: "cats"}] = &FeedEntry{Memes: []Meme{b}}
	cache.pages[PageKey{Page: 1}] = &PageEntry{Memes: []Meme{a, b}, Total: 10}
	cache.pages[PageKey{Page: 2}] = &PageEntry{Memes: []Meme{c}, Total: 10}

	if err := s.DeleteMeme(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := cache.feeds[FeedKey{}].Memes; len(got) != 2 || got[0].ID != b.ID {
		t.Errorf("feed should keep b,c: %v", got)
	}
	if got := cache.feeds[FeedKey{Tag: "cats"}].Memes; len(got) != 1 {
		t.Errorf("unrelated feed entry should be untouched: %v", got)
	}
	// Only the page that held a loses from its total.
	if got := cache.pages[PageKey{Page: 1}].Total; got != 9 {
		t.Errorf("page 1 total: expected 9, got %d", got)
	}
	if got := cache.pages[PageKey{Page: 2}].Total; got != 10 {
		t.Errorf("page 2 total: expected unchanged 10, got %d", got)
	}
	// Settle invalidates every family.
	if !cache.feeds[FeedKey{}].Stale || !cache.pages[PageKey{Page: 2}].Stale {
		t.Error("entries should be stale after settle")
	}
}

func TestDelete_RollbackRestoresSnapshotExactly(t *testing.T) {
	t.Parallel()

	a, b := clientMeme(uuid.New(), "a", "zebra", "alpha"), clientMeme(uuid.New(), "b")
	cursor := "2026-02-28T10:00:00Z"

	s := newTestSession(t, http.StatusForbidden)
	cache := s.Cache()
	cache.feeds[FeedKey{Q: "cat"}] = &FeedEntry{Memes: []Meme{a, b}, NextCursor: &cursor}
	cache.pages[PageKey{Page: 1}] = &PageEntry{Memes: []Meme{a}, Total: 7}

	wantFeed := copyFeedEntry(cache.feeds[FeedKey{Q: "cat"}])
	wantPage := copyPageEntry(cache.pages[PageKey{Page: 1}])
	wantFeed.Stale, wantPage.Stale = true, true

	err := s.DeleteMeme(context.Background(), a.ID)
	if err == nil {
		t.Fatal("expected rejection")
	}

	if !reflect.DeepEqual(cache.feeds[FeedKey{Q: "cat"}], wantFeed) {
		t.Errorf("feed entry not restored exactly:\n got %+v\nwant %+v",
			cache.feeds[FeedKey{Q: "cat"}], wantFeed)
	}
	if !reflect.DeepEqual(cache.pages[PageKey{Page: 1}], wantPage) {
		t.Errorf("page entry not restored exactly:\n got %+v\nwant %+v",
			cache.pages[PageKey{Page: 1}], wantPage)
	}
}

func TestUpdate_ReplacesFieldsAndSortsTags(t *testing.T) {
	t.Parallel()

	a, b := clientMeme(uuid.New(), "old", "old-tag"), clientMeme(uuid.New(), "other")

	s := newTestSession(t, http.StatusOK)
	cache := s.Cache()
	cache.feeds[FeedKey{}] = &FeedEntry{Memes: []Meme{a, b}}

	desc := "new text"
	if _, err := s.UpdateMeme(context.Background(), a.ID, UpdateMemeInput{
		Description: &desc,
		Tags:        []string{"zebra", "alpha"},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := cache.feeds[FeedKey{}].Memes[0]
	if got.Description != "new text" {
		t.Errorf("description not applied: %q", got.Description)
	}
	if !reflect.DeepEqual(got.Tags, []string{"alpha", "zebra"}) {
		t.Errorf("tags should be stored sorted: %v", got.Tags)
	}
	if cache.feeds[FeedKey{}].Memes[1].Description != "other" {
		t.Error("other memes must stay untouched")
	}
}

func TestUpdate_AbsentFieldsLeftAlone(t *testing.T) {
	t.Parallel()

	a := clientMeme(uuid.New(), "keep me", "tag1")

	s := newTestSession(t, http.StatusOK)
	cache := s.Cache()
	cache.feeds[FeedKey{}] = &FeedEntry{Memes: []Meme{a}}

	if _, err := s.UpdateMeme(context.Background(), a.ID, UpdateMemeInput{Tags: []string{"new"}}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := cache.feeds[FeedKey{}].Memes[0]
	if got.Description != "keep me" {
		t.Errorf("nil description must leave the field untouched: %q", got.Description)
	}
	if !reflect.DeepEqual(got.Tags, []string{"new"}) {
		t.Errorf("unexpected tags: %v", got.Tags)
	}
}

func TestBulkTag_MergeIsIdempotent(t *testing.T) {
	t.Parallel()

	a, b := clientMeme(uuid.New(), "a", "funny"), clientMeme(uuid.New(), "b")

	s := newTestSession(t, http.StatusNoContent)
	cache := s.Cache()
	cache.feeds[FeedKey{}] = &FeedEntry{Memes: []Meme{a, b}}

	ids := []uuid.UUID{a.ID}
	for range 2 {
		if err := s.BulkTag(context.Background(), ids, []string{"cats", "funny"}); err != nil {
			t.Fatalf("bulk tag: %v", err)
		}
	}

	got := cache.feeds[FeedKey{}].Memes[0].Tags
	want := []string{"cats", "funny"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v after double merge, got %v", want, got)
	}
	if len(cache.feeds[FeedKey{}].Memes[1].Tags) != 0 {
		t.Errorf("non-matching meme gained tags: %v", cache.feeds[FeedKey{}].Memes[1].Tags)
	}
}

func TestMutation_CancelsInflightFetches(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, http.StatusNoContent)
	cache := s.Cache()

	fetchCtx, done := cache.registerFetch(context.Background())
	defer done()

	if err := s.DeleteMeme(context.Background(), uuid.New()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	select {
	case <-fetchCtx.Done():
	default:
		t.Error("in-flight fetch should be cancelled by the mutation")
	}
}

func TestMergeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		added    []string
		want     []string
	}{
		{"disjoint", []string{"b"}, []string{"a"}, []string{"a", "b"}},
		{"overlap", []string{"a", "b"}, []string{"b", "c"}, []string{"a", "b", "c"}},
		{"empty existing", nil, []string{"x"}, []string{"x"}},
		{"dupes in added", []string{"a"}, []string{"b", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mergeTags(tt.existing, tt.added); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeTags(%v, %v) = %v, want %v", tt.existing, tt.added, got, tt.want)
			}
		})
	}
}
