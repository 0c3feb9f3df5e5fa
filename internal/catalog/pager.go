package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/mmcdole/bookstore/internal/domain"
)

const defaultCacheTTL = 10 * time.Minute

// Pager walks the catalog results for a fixed query one page at a time.
// Implements domain.BookSource.
type Pager struct {
	repo     domain.CatalogRepository
	query    string
	pageSize int
	cache    *ttlcache.Cache[string, *domain.BookListResponse]
	logger   *slog.Logger

	mu     sync.Mutex // Serializes page fetches and guards offset
	offset int
}

// NewPager creates a pager for query. pageSize is clamped with
// domain.ClampPageSize, non-positive ttl uses the default cache lifetime.
func NewPager(repo domain.CatalogRepository, query string, pageSize int, ttl time.Duration, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.Default()
	}
	pageSize = domain.ClampPageSize(pageSize)
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Pager{
		repo:     repo,
		query:    query,
		pageSize: pageSize,
		cache: ttlcache.New[string, *domain.BookListResponse](
			ttlcache.WithTTL[string, *domain.BookListResponse](ttl),
		),
		logger: logger,
	}
}

// Query returns the search terms being paged
func (p *Pager) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// SetQuery switches the pager to new search terms and rewinds to the first
// page. Cached pages stay valid since cache keys include the query.
func (p *Pager) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
	p.offset = 0
	p.logger.Info("catalog query changed", "query", query)
}

// PageSize returns the effective number of books requested per page
func (p *Pager) PageSize() int {
	return p.pageSize
}

// GetInitialBookList resets paging and returns the first page
func (p *Pager) GetInitialBookList(ctx context.Context) (*domain.BookListResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.offset = 0
	page, err := p.fetch(ctx, 0)
	if err != nil {
		return nil, err
	}
	p.offset = page.Received()
	return page, nil
}

// GetNextBookList returns the page starting at from, which must be the
// NextOffset of the last page returned. A request for any other offset was
// overtaken by a reset or a newer page and fails with domain.ErrStalePage
// without touching the offset.
func (p *Pager) GetNextBookList(ctx context.Context, from int) (*domain.BookListResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if from != p.offset {
		p.logger.Debug("dropping stale page request", "from", from, "offset", p.offset)
		return nil, domain.ErrStalePage
	}

	page, err := p.fetch(ctx, from)
	if err != nil {
		return nil, err
	}
	p.offset = from + page.Received()
	return page, nil
}

// GetBook fetches the full record for id. Single volumes are not cached.
func (p *Pager) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := p.repo.GetVolume(ctx, id)
	if err != nil {
		p.logger.Error("failed to fetch book", "error", err, "id", id)
		return nil, err
	}
	return book, nil
}

// Refresh drops cached pages so the next load hits the network
func (p *Pager) Refresh() {
	p.cache.DeleteAll()
	p.logger.Info("catalog cache cleared", "query", p.Query())
}

// fetch returns the page at offset, from cache when fresh
func (p *Pager) fetch(ctx context.Context, offset int) (*domain.BookListResponse, error) {
	key := fmt.Sprintf("%s:%d", p.query, offset)

	if item := p.cache.Get(key); item != nil {
		p.logger.Debug("page cache hit", "key", key)
		return clonePage(item.Value()), nil
	}

	page, err := p.repo.SearchVolumes(ctx, p.query, offset, p.pageSize)
	if err != nil {
		p.logger.Error("failed to fetch page", "error", err, "query", p.query, "offset", offset)
		return nil, err
	}

	p.cache.Set(key, page, ttlcache.DefaultTTL)
	p.logger.Debug("fetched page", "query", p.query, "offset", offset, "count", len(page.Items), "returned", page.Received())
	return clonePage(page), nil
}

// clonePage copies the item slice so callers can't alias cached pages
func clonePage(page *domain.BookListResponse) *domain.BookListResponse {
	cp := *page
	cp.Items = append([]*domain.Book(nil), page.Items...)
	return &cp
}
