package domain

import (
	"time"

	"github.com/google/uuid"
)

// Meme is a single catalogued image. Tags is derived from the meme_tags
// join table, not stored on the row itself; its ordering depends on the
// read path (the dashboard sorts it, the feed does not).
type Meme struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ImageURL    string
	ImageWidth  *int
	ImageHeight *int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tags        []string
}

// MemeUpdateParams carries a partial update. Nil means "leave unchanged".
type MemeUpdateParams struct {
	Description *string
	Tags        []string // nil = don't touch; empty slice = remove all tags
}

// MemeRef is the minimal projection used by the bulk ownership gate: just
// enough to count matches and to collect image keys before deletion.
type MemeRef struct {
	ID       uuid.UUID
	ImageURL string
}

// FeedPage is one page of the infinite-scroll feed. NextCursor is nil at
// the end of the feed.
type FeedPage struct {
	Memes      []Meme
	NextCursor *time.Time
}

// DashboardPage is one page of the sortable dashboard view.
type DashboardPage struct {
	Memes    []Meme
	Total    int
	Page     int
	PageSize int
}
