package meme

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/memecached/memecached-web/internal/domain"
)

var (
	_ memeRepo   = &memeRepoMock{}
	_ tagRepo    = &tagRepoMock{}
	_ imageStore = &imageStoreMock{}
	_ txManager  = &txManagerMock{}
)

type memeRepoMock struct {
	InsertFunc            func(ctx context.Context, m *domain.Meme) (*domain.Meme, error)
	GetByIDFunc           func(ctx context.Context, userID, memeID uuid.UUID) (*domain.Meme, error)
	UpdateDescriptionFunc func(ctx context.Context, userID, memeID uuid.UUID, description string) (*domain.Meme, error)
	DeleteFunc            func(ctx context.Context, userID, memeID uuid.UUID) error
	ListOwnedFunc         func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]domain.MemeRef, error)
	DeleteByIDsFunc       func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	ListFeedFunc          func(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, cursor *time.Time, fetchLimit int) ([]domain.Meme, error)
	CountFunc             func(ctx context.Context, userID uuid.UUID, f domain.MemeFilter) (int, error)
	ListPageFunc          func(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, sortBy, sortOrder string, page, pageSize int) ([]domain.Meme, error)

	mu    sync.Mutex
	calls struct {
		Insert      int
		Delete      int
		DeleteByIDs [][]uuid.UUID
		ListOwned   [][]uuid.UUID
	}
}

func (m *memeRepoMock) Insert(ctx context.Context, meme *domain.Meme) (*domain.Meme, error) {
	m.mu.Lock()
	m.calls.Insert++
	m.mu.Unlock()
	if m.InsertFunc == nil {
		panic("memeRepoMock.InsertFunc: method is nil but memeRepo.Insert was just called")
	}
	return m.InsertFunc(ctx, meme)
}

func (m *memeRepoMock) GetByID(ctx context.Context, userID, memeID uuid.UUID) (*domain.Meme, error) {
	if m.GetByIDFunc == nil {
		panic("memeRepoMock.GetByIDFunc: method is nil but memeRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, userID, memeID)
}

func (m *memeRepoMock) UpdateDescription(ctx context.Context, userID, memeID uuid.UUID, description string) (*domain.Meme, error) {
	if m.UpdateDescriptionFunc == nil {
		panic("memeRepoMock.UpdateDescriptionFunc: method is nil but memeRepo.UpdateDescription was just called")
	}
	return m.UpdateDescriptionFunc(ctx, userID, memeID, description)
}

func (m *memeRepoMock) Delete(ctx context.Context, userID, memeID uuid.UUID) error {
	m.mu.Lock()
	m.calls.Delete++
	m.mu.Unlock()
	if m.DeleteFunc == nil {
		panic("memeRepoMock.DeleteFunc: method is nil but memeRepo.Delete was just called")
	}
	return m.DeleteFunc(ctx, userID, memeID)
}

func (m *memeRepoMock) ListOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]domain.MemeRef, error) {
	m.mu.Lock()
	m.calls.ListOwned = append(m.calls.ListOwned, ids)
	m.mu.Unlock()
	if m.ListOwnedFunc == nil {
		panic("memeRepoMock.ListOwnedFunc: method is nil but memeRepo.ListOwned was just called")
	}
	return m.ListOwnedFunc(ctx, userID, ids)
}

func (m *memeRepoMock) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	m.mu.Lock()
	m.calls.DeleteByIDs = append(m.calls.DeleteByIDs, ids)
	m.mu.Unlock()
	if m.DeleteByIDsFunc == nil {
		panic("memeRepoMock.DeleteByIDsFunc: method is nil but memeRepo.DeleteByIDs was just called")
	}
	return m.DeleteByIDsFunc(ctx, userID, ids)
}

func (m *memeRepoMock) ListFeed(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, cursor *time.Time, fetchLimit int) ([]domain.Meme, error) {
	if m.ListFeedFunc == nil {
		panic("memeRepoMock.ListFeedFunc: method is nil but memeRepo.ListFeed was just called")
	}
	return m.ListFeedFunc(ctx, userID, f, cursor, fetchLimit)
}

func (m *memeRepoMock) Count(ctx context.Context, userID uuid.UUID, f domain.MemeFilter) (int, error) {
	if m.CountFunc == nil {
		panic("memeRepoMock.CountFunc: method is nil but memeRepo.Count was just called")
	}
	return m.CountFunc(ctx, userID, f)
}

func (m *memeRepoMock) ListPage(ctx context.Context, userID uuid.UUID, f domain.MemeFilter, sortBy, sortOrder string, page, pageSize int) ([]domain.Meme, error) {
	if m.ListPageFunc == nil {
		panic("memeRepoMock.ListPageFunc: method is nil but memeRepo.ListPage was just called")
	}
	return m.ListPageFunc(ctx, userID, f, sortBy, sortOrder, page, pageSize)
}

func (m *memeRepoMock) DeleteByIDsCalls() [][]uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.DeleteByIDs
}

type tagRepoMock struct {
	ResolveFunc          func(ctx context.Context, names []string) ([]domain.Tag, error)
	ReplaceMemeLinksFunc func(ctx context.Context, memeID uuid.UUID, tagIDs []uuid.UUID) error
	MergeLinksFunc       func(ctx context.Context, memeIDs, tagIDs []uuid.UUID) (int, error)
	NamesByMemeIDsFunc   func(ctx context.Context, memeIDs []uuid.UUID) (map[uuid.UUID][]string, error)
	NamesByMemeIDFunc    func(ctx context.Context, memeID uuid.UUID) ([]string, error)

	mu    sync.Mutex
	calls struct {
		Resolve          [][]string
		ReplaceMemeLinks []uuid.UUID
		MergeLinks       int
	}
}

func (m *tagRepoMock) Resolve(ctx context.Context, names []string) ([]domain.Tag, error) {
	m.mu.Lock()
	m.calls.Resolve = append(m.calls.Resolve, names)
	m.mu.Unlock()
	if m.ResolveFunc == nil {
		panic("tagRepoMock.ResolveFunc: method is nil but tagRepo.Resolve was just called")
	}
	return m.ResolveFunc(ctx, names)
}

func (m *tagRepoMock) ReplaceMemeLinks(ctx context.Context, memeID uuid.UUID, tagIDs []uuid.UUID) error {
	m.mu.Lock()
	m.calls.ReplaceMemeLinks = append(m.calls.ReplaceMemeLinks, memeID)
	m.mu.Unlock()
	if m.ReplaceMemeLinksFunc == nil {
		panic("tagRepoMock.ReplaceMemeLinksFunc: method is nil but tagRepo.ReplaceMemeLinks was just called")
	}
	return m.ReplaceMemeLinksFunc(ctx, memeID, tagIDs)
}

func (m *tagRepoMock) MergeLinks(ctx context.Context, memeIDs, tagIDs []uuid.UUID) (int, error) {
	m.mu.Lock()
	m.calls.MergeLinks++
	m.mu.Unlock()
	if m.MergeLinksFunc == nil {
		panic("tagRepoMock.MergeLinksFunc: method is nil but tagRepo.MergeLinks was just called")
	}
	return m.MergeLinksFunc(ctx, memeIDs, tagIDs)
}

func (m *tagRepoMock) NamesByMemeIDs(ctx context.Context, memeIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	if m.NamesByMemeIDsFunc == nil {
		panic("tagRepoMock.NamesByMemeIDsFunc: method is nil but tagRepo.NamesByMemeIDs was just called")
	}
	return m.NamesByMemeIDsFunc(ctx, memeIDs)
}

func (m *tagRepoMock) NamesByMemeID(ctx context.Context, memeID uuid.UUID) ([]string, error) {
	if m.NamesByMemeIDFunc == nil {
		panic("tagRepoMock.NamesByMemeIDFunc: method is nil but tagRepo.NamesByMemeID was just called")
	}
	return m.NamesByMemeIDFunc(ctx, memeID)
}

func (m *tagRepoMock) ResolveCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Resolve
}

type imageStoreMock struct {
	DeleteFunc     func(ctx context.Context, key string) error
	DeleteManyFunc func(ctx context.Context, keys []string) error
	KeyForURLFunc  func(imageURL string) (string, error)

	mu    sync.Mutex
	calls struct {
		DeleteMany [][]string
	}
}

func (m *imageStoreMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc == nil {
		panic("imageStoreMock.DeleteFunc: method is nil but imageStore.Delete was just called")
	}
	return m.DeleteFunc(ctx, key)
}

func (m *imageStoreMock) DeleteMany(ctx context.Context, keys []string) error {
	m.mu.Lock()
	m.calls.DeleteMany = append(m.calls.DeleteMany, keys)
	m.mu.Unlock()
	if m.DeleteManyFunc == nil {
		panic("imageStoreMock.DeleteManyFunc: method is nil but imageStore.DeleteMany was just called")
	}
	return m.DeleteManyFunc(ctx, keys)
}

func (m *imageStoreMock) KeyForURL(imageURL string) (string, error) {
	if m.KeyForURLFunc == nil {
		panic("imageStoreMock.KeyForURLFunc: method is nil but imageStore.KeyForURL was just called")
	}
	return m.KeyForURLFunc(imageURL)
}

func (m *imageStoreMock) DeleteManyCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.DeleteMany
}

// txManagerMock runs the function directly unless RunInTxFunc is set.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}
