package memeclient

import (
	"sort"

	"github.com/google/uuid"
)

// The transforms below are the optimistic-apply step of the reconciliation
// protocol. They edit cache entries in place; Snapshot/restore provides the
// undo, so none of them need to be reversible on their own.

// removeMemes drops the given ids from the list and reports how many
// entries were actually removed.
func removeMemes(memes []Meme, ids []uuid.UUID) ([]Meme, int) {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := memes[:0]
	removed := 0
	for _, m := range memes {
		if _, ok := drop[m.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	return kept, removed
}

// applyDelete removes the ids from every Feed and Page entry. Each Page
// entry's total drops by the number of items removed from that entry;
// entries that held none of the ids keep their total.
func (c *Cache) applyDeleteLocked(ids []uuid.UUID) {
	for _, e := range c.feeds {
		e.Memes, _ = removeMemes(e.Memes, ids)
	}
	for _, e := range c.pages {
		var removed int
		e.Memes, removed = removeMemes(e.Memes, ids)
		e.Total -= removed
	}
}

// applyUpdate replaces the matching meme's fields in every entry that
// contains it. A nil description leaves the field as is; a supplied tag
// list is stored sorted.
func (c *Cache) applyUpdateLocked(id uuid.UUID, description *string, tags []string) {
	var sortedTags []string
	if tags != nil {
		sortedTags = append([]string(nil), tags...)
		sort.Strings(sortedTags)
	}

	patch := func(memes []Meme) {
		for i := range memes {
			if memes[i].ID != id {
				continue
			}
			if description != nil {
				memes[i].Description = *description
			}
			if sortedTags != nil {
				memes[i].Tags = append([]string(nil), sortedTags...)
			}
		}
	}

	for _, e := range c.feeds {
		patch(e.Memes)
	}
	for _, e := range c.pages {
		patch(e.Memes)
	}
}

// applyMergeTags unions the new tags into every matching meme across every
// entry, stored deduplicated and sorted. Non-matching memes are untouched.
func (c *Cache) applyMergeTagsLocked(ids []uuid.UUID, tags []string) {
	match := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		match[id] = struct{}{}
	}

	patch := func(memes []Meme) {
		for i := range memes {
			if _, ok := match[memes[i].ID]; !ok {
				continue
			}
			memes[i].Tags = mergeTags(memes[i].Tags, tags)
		}
	}

	for _, e := range c.feeds {
		patch(e.Memes)
	}
	for _, e := range c.pages {
		patch(e.Memes)
	}
}

// mergeTags returns the deduplicated union of both lists, sorted.
func mergeTags(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, lists := range [][]string{existing, added} {
		for _, tag := range lists {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}
