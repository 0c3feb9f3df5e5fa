package tui

import (
	"github.com/mmcdole/bookstore/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// BooksLoadedMsg signals that a page of remote books arrived.
// Gen is the list generation the request was issued under.
type BooksLoadedMsg struct {
	Page    *domain.BookListResponse
	Initial bool
	Gen     int
}

// BooksLoadFailedMsg signals that a page request failed
type BooksLoadFailedMsg struct {
	Err     error
	Initial bool
	Gen     int
}

// FavoritesUpdatedMsg carries the latest favorites snapshot
type FavoritesUpdatedMsg struct {
	Books []*domain.Book
	Gen   int
}

// FavoritesReloadedMsg carries favorites read directly from the store
type FavoritesReloadedMsg struct {
	Books []*domain.Book
	Gen   int
}

// FavoritesClosedMsg signals that a favorites subscription ended
type FavoritesClosedMsg struct {
	Gen int
}

// FavoriteToggledMsg signals that a book was added to or removed from favorites
type FavoriteToggledMsg struct {
	Book  *domain.Book
	Added bool
}

// BookDetailLoadedMsg carries the full record for a book shown in detail
type BookDetailLoadedMsg struct {
	Book *domain.Book
}

// LinkOpenedMsg signals that a link was handed to the browser
type LinkOpenedMsg struct {
	URL string
}

// StatusMsg displays a transient status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}
