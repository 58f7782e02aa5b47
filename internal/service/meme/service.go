package meme

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/memecached/memecached-web/internal/domain"
)

type memeRepo interface {
	Insert(ctx context.Context, m *domain.Meme) (*domain.Meme, error)
	GetByID(ctx context.Context, userID, memeID uuid.UUID) (*domain.Meme, error)
	UpdateDescription(ctx context.Context, userID, memeID uuid.UUID, description string) (*domain.Meme, error)
	Delete(ctx context.Context, userID, memeID uuid.UUID) error
	ListOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]domain.MemeRef, error)
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	ListFeed(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, cursor *time.Time, fetchLimit int) ([]domain.Meme, error)
	Count(ctx context.Context, userID uuid.UUID, f domain.MemeFilter) (int, error)
	ListPage(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, sortBy, sortOrder string, page, pageSize int) ([]domain.Meme, error)
}

type tagRepo interface {
	Resolve(ctx context.Context, names []string) ([]domain.Tag, error)
	ReplaceMemeLinks(ctx context.Context, memeID uuid.UUID, tagIDs []uuid.UUID) error
	MergeLinks(ctx context.Context, memeIDs, tagIDs []uuid.UUID) (int, error)
	NamesByMemeIDs(ctx context.Context, memeIDs []uuid.UUID) (map[uuid.UUID][]string, error)
	NamesByMemeID(ctx context.Context, memeID uuid.UUID) ([]string, error)
}

type imageStore interface {
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	KeyForURL(imageURL string) (string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the catalog mutations and both list views.
type Service struct {
	memes   memeRepo
	tags    tagRepo
	storage imageStore
	tx      txManager
	log     *slog.Logger
}

// NewService creates a new Meme service.
func NewService(
	log *slog.Logger,
	memes memeRepo,
	tags tagRepo,
	storage imageStore,
	tx txManager,
) *Service {
	return &Service{
		memes:   memes,
		tags:    tags,
		storage: storage,
		tx:      tx,
		log:     log.With("service", "meme"),
	}
}

func tagIDs(tags []domain.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func tagNames(tags []domain.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

// attachTags loads tag names for the given memes in a single query and
// assigns them in place. Per-meme order is the store's link order; pass
// sorted=true to sort each list alphabetically instead.
func (s *Service) attachTags(ctx context.Context, memes []domain.Meme, sorted bool) error {
	if len(memes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(memes))
	for i := range memes {
		ids[i] = memes[i].ID
	}

	byMeme, err := s.tags.NamesByMemeIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range memes {
		names := byMeme[memes[i].ID]
		if names == nil {
			names = []string{}
		}
		if sorted {
			sort.Strings(names)
		}
		memes[i].Tags = names
	}
	return nil
}
