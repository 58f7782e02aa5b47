package domain

import "github.com/google/uuid"

// Tag is a catalog tag. Name is unique and lowercased at write time:
// "Funny" and "funny" collapse to one row. Tags are created implicitly by
// any write that references a new name and are never deleted by the
// catalog — a tag whose last meme reference disappears simply stays around.
type Tag struct {
	ID   uuid.UUID
	Name string
}
