package domain

import (
	"context"
)

// CatalogRepository provides access to the remote book catalog
type CatalogRepository interface {
	// SearchVolumes returns one page of books matching query.
	// Returns (page, error); page.TotalItems is the catalog's estimate.
	SearchVolumes(ctx context.Context, query string, offset, limit int) (*BookListResponse, error)

	// GetVolume returns a single book by ID
	GetVolume(ctx context.Context, id string) (*Book, error)
}

// BookSource is the paged view over the catalog consumed by the UI
type BookSource interface {
	// GetInitialBookList resets paging and returns the first page
	GetInitialBookList(ctx context.Context) (*BookListResponse, error)

	// GetNextBookList returns the page at from, the NextOffset of the last
	// page returned. Returns ErrStalePage when paging has moved on.
	GetNextBookList(ctx context.Context, from int) (*BookListResponse, error)

	// GetBook returns the full record for one book
	GetBook(ctx context.Context, id string) (*Book, error)

	// Refresh drops any cached pages
	Refresh()

	// Query returns the search terms being paged
	Query() string

	// SetQuery switches to new search terms; the next load starts at the first page
	SetQuery(query string)
}
