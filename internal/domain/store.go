package domain

// FavoritesStore persists the user's favorite books.
// Every mutation is published to subscribers as a full snapshot.
type FavoritesStore interface {
	LoadFavoriteBooks() ([]*Book, error)
	AddFavorite(book *Book) error
	RemoveFavorite(id string) error
	IsFavorite(id string) bool

	// Subscribe returns a channel that receives the favorites list after
	// every change. The channel is closed by cancel.
	Subscribe() (<-chan []*Book, func())

	Close() error
}
