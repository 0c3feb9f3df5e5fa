package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/bookstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo serves a fixed number of books and records requested offsets.
// Entries listed in unmapped are counted as returned but carry no book.
type fakeRepo struct {
	mu       sync.Mutex
	total    int
	err      error
	unmapped map[int]bool
	offsets  []int
}

func (f *fakeRepo) SearchVolumes(_ context.Context, query string, offset, limit int) (*domain.BookListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offsets = append(f.offsets, offset)
	if f.err != nil {
		return nil, f.err
	}
	var items []*domain.Book
	returned := 0
	for i := offset; i < offset+limit && i < f.total; i++ {
		returned++
		if f.unmapped[i] {
			continue
		}
		items = append(items, &domain.Book{ID: fmt.Sprintf("%s-%d", query, i)})
	}
	return &domain.BookListResponse{Items: items, TotalItems: f.total, Offset: offset, Returned: returned}, nil
}

func (f *fakeRepo) GetVolume(_ context.Context, id string) (*domain.Book, error) {
	if id == "known" {
		return &domain.Book{ID: id, Title: "Known"}, nil
	}
	return nil, domain.ErrBookNotFound
}

func TestPagerWalksPages(t *testing.T) {
	repo := &fakeRepo{total: 45}
	p := NewPager(repo, "ios", 0, time.Minute, nil)
	ctx := context.Background()

	assert.Equal(t, domain.PageSize, p.PageSize())

	first, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)
	assert.Len(t, first.Items, 20)
	assert.False(t, first.IsLastPage(p.PageSize()))

	second, err := p.GetNextBookList(ctx, first.NextOffset())
	require.NoError(t, err)
	assert.Equal(t, "ios-20", second.Items[0].ID)

	third, err := p.GetNextBookList(ctx, second.NextOffset())
	require.NoError(t, err)
	assert.Len(t, third.Items, 5)
	assert.True(t, third.IsLastPage(p.PageSize()))

	assert.Equal(t, []int{0, 20, 40}, repo.offsets)
}

func TestPagerInitialResetsOffsetAndUsesCache(t *testing.T) {
	repo := &fakeRepo{total: 100}
	p := NewPager(repo, "go", 20, time.Minute, nil)
	ctx := context.Background()

	_, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)
	_, err = p.GetNextBookList(ctx, 20)
	require.NoError(t, err)

	again, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)
	assert.Equal(t, "go-0", again.Items[0].ID)

	next, err := p.GetNextBookList(ctx, again.NextOffset())
	require.NoError(t, err)
	assert.Equal(t, "go-20", next.Items[0].ID)

	// Second walk was served from cache
	assert.Equal(t, []int{0, 20}, repo.offsets)

	p.Refresh()
	_, err = p.GetInitialBookList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 20, 0}, repo.offsets)
}

func TestPagerCachedPagesAreNotAliased(t *testing.T) {
	p := NewPager(&fakeRepo{total: 20}, "q", 20, time.Minute, nil)

	first, err := p.GetInitialBookList(context.Background())
	require.NoError(t, err)
	first.Items = append(first.Items[:0], &domain.Book{ID: "intruder"})

	again, err := p.GetInitialBookList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "q-0", again.Items[0].ID)
}

func TestPagerErrorKeepsOffset(t *testing.T) {
	repo := &fakeRepo{total: 100}
	p := NewPager(repo, "q", 20, time.Minute, nil)
	ctx := context.Background()

	_, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)

	repo.err = domain.ErrServerOffline
	_, err = p.GetNextBookList(ctx, 20)
	assert.True(t, errors.Is(err, domain.ErrServerOffline))

	repo.err = nil
	page, err := p.GetNextBookList(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, "q-20", page.Items[0].ID, "retry requests the same page")
}

func TestPagerGetBook(t *testing.T) {
	p := NewPager(&fakeRepo{}, "q", 20, time.Minute, nil)

	book, err := p.GetBook(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, "Known", book.Title)

	_, err = p.GetBook(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestPagerSetQueryRewinds(t *testing.T) {
	repo := &fakeRepo{total: 100}
	p := NewPager(repo, "ios", 20, time.Minute, nil)
	ctx := context.Background()

	_, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)
	_, err = p.GetNextBookList(ctx, 20)
	require.NoError(t, err)

	p.SetQuery("golang")
	assert.Equal(t, "golang", p.Query())

	_, err = p.GetNextBookList(ctx, 40)
	assert.ErrorIs(t, err, domain.ErrStalePage, "paging restarts after a query change")

	page, err := p.GetNextBookList(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "golang-0", page.Items[0].ID)
}

func TestPagerAdvancesByReturnedCount(t *testing.T) {
	repo := &fakeRepo{total: 200, unmapped: map[int]bool{5: true}}
	p := NewPager(repo, "ios", 20, time.Minute, nil)
	ctx := context.Background()

	first, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)
	assert.Len(t, first.Items, 19)
	assert.Equal(t, 20, first.Received())
	assert.False(t, first.IsLastPage(p.PageSize()), "an unmappable entry does not end the list")

	next, err := p.GetNextBookList(ctx, first.NextOffset())
	require.NoError(t, err)
	assert.Equal(t, "ios-20", next.Items[0].ID)
	assert.Equal(t, []int{0, 20}, repo.offsets)
}

func TestPagerStaleNextKeepsOffset(t *testing.T) {
	repo := &fakeRepo{total: 200}
	p := NewPager(repo, "ios", 20, time.Minute, nil)
	ctx := context.Background()

	first, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)
	_, err = p.GetNextBookList(ctx, first.NextOffset())
	require.NoError(t, err)

	// A reset lands before the earlier request reaches the pager
	again, err := p.GetInitialBookList(ctx)
	require.NoError(t, err)

	_, err = p.GetNextBookList(ctx, 40)
	assert.ErrorIs(t, err, domain.ErrStalePage)

	page, err := p.GetNextBookList(ctx, again.NextOffset())
	require.NoError(t, err)
	assert.Equal(t, "ios-20", page.Items[0].ID, "no page skipped")
}

func TestPagerClampsPageSize(t *testing.T) {
	repo := &fakeRepo{total: 200}
	p := NewPager(repo, "ios", 50, time.Minute, nil)
	assert.Equal(t, domain.MaxPageSize, p.PageSize())

	first, err := p.GetInitialBookList(context.Background())
	require.NoError(t, err)
	assert.Len(t, first.Items, domain.MaxPageSize)
	assert.False(t, first.IsLastPage(p.PageSize()))
}
