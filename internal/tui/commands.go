package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/bookstore/internal/domain"
)

const requestTimeout = 30 * time.Second

// Command factories for async operations

// LoadInitialBooksCmd loads the first page of remote books
func LoadInitialBooksCmd(src domain.BookSource, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := src.GetInitialBookList(ctx)
		if err != nil {
			return BooksLoadFailedMsg{Err: err, Initial: true, Gen: gen}
		}
		return BooksLoadedMsg{Page: page, Initial: true, Gen: gen}
	}
}

// LoadNextBooksCmd loads the page starting at from
func LoadNextBooksCmd(src domain.BookSource, from, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := src.GetNextBookList(ctx, from)
		if err != nil {
			return BooksLoadFailedMsg{Err: err, Gen: gen}
		}
		return BooksLoadedMsg{Page: page, Gen: gen}
	}
}

// RefreshBooksCmd purges cached pages and reloads the first page
func RefreshBooksCmd(src domain.BookSource, gen int) tea.Cmd {
	return func() tea.Msg {
		src.Refresh()
		return LoadInitialBooksCmd(src, gen)()
	}
}

// LoadBookDetailCmd fetches the full record for a book shown in detail
func LoadBookDetailCmd(src domain.BookSource, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		book, err := src.GetBook(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading book details"}
		}
		return BookDetailLoadedMsg{Book: book}
	}
}

// WaitForFavoritesCmd blocks until the subscription delivers a snapshot.
// Re-issue it after every FavoritesUpdatedMsg to keep listening.
func WaitForFavoritesCmd(ch <-chan []*domain.Book, gen int) tea.Cmd {
	return func() tea.Msg {
		books, ok := <-ch
		if !ok {
			return FavoritesClosedMsg{Gen: gen}
		}
		return FavoritesUpdatedMsg{Books: books, Gen: gen}
	}
}

// ReloadFavoritesCmd reads the favorites collection from the store
func ReloadFavoritesCmd(svc domain.FavoritesService, gen int) tea.Cmd {
	return func() tea.Msg {
		books, err := svc.LoadFavoriteBooks()
		if err != nil {
			return ErrMsg{Err: err, Context: "loading favorites"}
		}
		return FavoritesReloadedMsg{Books: books, Gen: gen}
	}
}

// ToggleFavoriteCmd adds or removes a book from favorites
func ToggleFavoriteCmd(svc domain.FavoritesService, book *domain.Book) tea.Cmd {
	return func() tea.Msg {
		added, err := svc.Toggle(book)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating favorites"}
		}
		return FavoriteToggledMsg{Book: book, Added: added}
	}
}

// OpenLinkCmd opens url in the system browser
func OpenLinkCmd(opener domain.LinkOpener, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := opener.Open(ctx, url); err != nil {
			return ErrMsg{Err: err, Context: "opening link"}
		}
		return LinkOpenedMsg{URL: url}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
