package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/bookstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book(id, title string) *domain.Book {
	return &domain.Book{ID: id, Title: title}
}

// fakeClock returns strictly increasing times
func fakeClock() func() time.Time {
	t := time.Unix(1700000000, 0)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func ids(books []*domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	s, err := NewFavoritesStore("")
	require.NoError(t, err)
	defer s.Close()
	s.now = fakeClock()

	require.NoError(t, s.AddFavorite(book("b", "Second")))
	require.NoError(t, s.AddFavorite(book("a", "First")))
	assert.True(t, s.IsFavorite("a"))
	assert.False(t, s.IsFavorite("zzz"))

	favs, err := s.LoadFavoriteBooks()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(favs), "ordered by time added")

	// Re-adding keeps position but refreshes metadata
	require.NoError(t, s.AddFavorite(book("b", "Second (2nd ed.)")))
	favs, _ = s.LoadFavoriteBooks()
	assert.Equal(t, []string{"b", "a"}, ids(favs))
	assert.Equal(t, "Second (2nd ed.)", favs[0].Title)

	require.NoError(t, s.RemoveFavorite("b"))
	require.NoError(t, s.RemoveFavorite("missing"))
	favs, _ = s.LoadFavoriteBooks()
	assert.Equal(t, []string{"a"}, ids(favs))
}

func TestAddFavoriteRequiresID(t *testing.T) {
	s, err := NewFavoritesStore("")
	require.NoError(t, err)
	assert.Error(t, s.AddFavorite(nil))
	assert.Error(t, s.AddFavorite(&domain.Book{Title: "no id"}))
}

func TestLoadedBooksAreCopies(t *testing.T) {
	s, err := NewFavoritesStore("")
	require.NoError(t, err)

	b := book("a", "Original")
	require.NoError(t, s.AddFavorite(b))
	b.Title = "mutated by caller"

	favs, _ := s.LoadFavoriteBooks()
	favs[0].Title = "mutated by reader"

	again, _ := s.LoadFavoriteBooks()
	assert.Equal(t, "Original", again[0].Title)
}

func TestBoltPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "favorites.db")

	s, err := NewFavoritesStore(path)
	require.NoError(t, err)
	s.now = fakeClock()
	require.NoError(t, s.AddFavorite(&domain.Book{ID: "x", Title: "Persisted", Authors: []string{"Ann"}}))
	require.NoError(t, s.AddFavorite(book("y", "Removed")))
	require.NoError(t, s.RemoveFavorite("y"))
	require.NoError(t, s.Close())

	reopened, err := NewFavoritesStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	favs, err := reopened.LoadFavoriteBooks()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Persisted", favs[0].Title)
	assert.Equal(t, []string{"Ann"}, favs[0].Authors)
	assert.False(t, reopened.IsFavorite("y"))
}

func TestSubscribe(t *testing.T) {
	s, err := NewFavoritesStore("")
	require.NoError(t, err)
	s.now = fakeClock()
	require.NoError(t, s.AddFavorite(book("a", "A")))

	ch, cancel := s.Subscribe()

	// Current list is delivered immediately
	assert.Equal(t, []string{"a"}, ids(<-ch))

	require.NoError(t, s.AddFavorite(book("b", "B")))
	assert.Equal(t, []string{"a", "b"}, ids(<-ch))

	// A slow reader only sees the latest snapshot
	require.NoError(t, s.AddFavorite(book("c", "C")))
	require.NoError(t, s.RemoveFavorite("a"))
	assert.Equal(t, []string{"b", "c"}, ids(<-ch))

	cancel()
	cancel() // idempotent
	_, open := <-ch
	assert.False(t, open)

	// Mutations after cancel do not block
	require.NoError(t, s.AddFavorite(book("d", "D")))
}

func TestCloseClosesSubscribers(t *testing.T) {
	s, err := NewFavoritesStore("")
	require.NoError(t, err)
	ch, cancel := s.Subscribe()
	<-ch

	require.NoError(t, s.Close())
	_, open := <-ch
	assert.False(t, open)
	cancel() // safe after Close
}
