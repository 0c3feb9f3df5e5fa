package favorites

import (
	"log/slog"

	"github.com/mmcdole/bookstore/internal/domain"
)

// Service manages the user's favorite books.
// Implements domain.FavoritesService.
type Service struct {
	store  domain.FavoritesStore
	logger *slog.Logger
}

// NewService creates a new favorites service
func NewService(store domain.FavoritesStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// LoadFavoriteBooks returns all favorites, oldest first
func (s *Service) LoadFavoriteBooks() ([]*domain.Book, error) {
	books, err := s.store.LoadFavoriteBooks()
	if err != nil {
		s.logger.Error("failed to load favorites", "error", err)
		return nil, err
	}
	return books, nil
}

// Toggle adds book to favorites, or removes it if already present.
// Returns true when the book was added.
func (s *Service) Toggle(book *domain.Book) (bool, error) {
	if s.store.IsFavorite(book.ID) {
		if err := s.store.RemoveFavorite(book.ID); err != nil {
			s.logger.Error("failed to remove favorite", "error", err, "bookID", book.ID)
			return false, err
		}
		s.logger.Info("removed favorite", "bookID", book.ID)
		return false, nil
	}

	if err := s.store.AddFavorite(book); err != nil {
		s.logger.Error("failed to add favorite", "error", err, "bookID", book.ID)
		return false, err
	}
	s.logger.Info("added favorite", "bookID", book.ID)
	return true, nil
}

// IsFavorite reports whether the book is a favorite
func (s *Service) IsFavorite(id string) bool {
	return s.store.IsFavorite(id)
}

// Watch subscribes to favorites changes; see domain.FavoritesStore.Subscribe
func (s *Service) Watch() (<-chan []*domain.Book, func()) {
	s.logger.Debug("watching favorites")
	return s.store.Subscribe()
}
