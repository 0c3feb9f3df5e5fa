package domain

import "context"

// FavoritesService is the favorites collaborator consumed by the UI
type FavoritesService interface {
	LoadFavoriteBooks() ([]*Book, error)
	Toggle(book *Book) (added bool, err error)
	IsFavorite(id string) bool
	Watch() (<-chan []*Book, func())
}

// LinkOpener opens a URL outside the terminal (system browser)
type LinkOpener interface {
	Open(ctx context.Context, url string) error
}
