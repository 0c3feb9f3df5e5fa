package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/bookstore/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketFavorites = []byte("favorites")
)

// favoriteRecord is the persisted form of a favorite book
type favoriteRecord struct {
	Book    *domain.Book `json:"book"`
	AddedAt int64        `json:"added_at"` // Unix nanoseconds
}

// FavoritesStore implements domain.FavoritesStore using BoltDB.
type FavoritesStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache and subscribers

	// In-memory copy of the bucket (authoritative in memory-only mode)
	cache map[string]favoriteRecord

	subscribers map[int]chan []*domain.Book
	nextSubID   int

	now func() time.Time
}

// NewFavoritesStore opens (or creates) the favorites database at path.
// An empty path keeps favorites in memory only.
func NewFavoritesStore(path string) (*FavoritesStore, error) {
	s := &FavoritesStore{
		cache:       make(map[string]favoriteRecord),
		subscribers: make(map[int]chan []*domain.Book),
		now:         time.Now,
	}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFavorites)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	if err := s.loadCache(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// loadCache reads every record into memory; the bucket is small
func (s *FavoritesStore) loadCache() error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFavorites)
		return b.ForEach(func(k, v []byte) error {
			var rec favoriteRecord
			if err := json.Unmarshal(v, &rec); err != nil || rec.Book == nil {
				return nil // Skip corrupt entries
			}
			s.cache[string(k)] = rec
			return nil
		})
	})
}

// Close closes the database and all subscriber channels
func (s *FavoritesStore) Close() error {
	s.mu.Lock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadFavoriteBooks returns all favorites, oldest first
func (s *FavoritesStore) LoadFavoriteBooks() ([]*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

// AddFavorite stores book as a favorite. Re-adding refreshes the stored
// metadata but keeps the original position.
func (s *FavoritesStore) AddFavorite(book *domain.Book) error {
	if book == nil || book.ID == "" {
		return fmt.Errorf("favorite requires a book id")
	}

	s.mu.Lock()
	rec, ok := s.cache[book.ID]
	if !ok {
		rec.AddedAt = s.now().UnixNano()
	}
	copied := *book
	rec.Book = &copied

	if err := s.put(book.ID, rec); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cache[book.ID] = rec
	s.publishLocked()
	s.mu.Unlock()
	return nil
}

// RemoveFavorite deletes a favorite; removing a missing ID is not an error
func (s *FavoritesStore) RemoveFavorite(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[id]; !ok {
		return nil
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketFavorites).Delete([]byte(id))
		})
		if err != nil {
			return err
		}
	}

	delete(s.cache, id)
	s.publishLocked()
	return nil
}

// IsFavorite reports whether id is stored
func (s *FavoritesStore) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[id]
	return ok
}

// Subscribe returns a channel receiving the full favorites list after every
// change. The current list is delivered immediately. Only the latest
// snapshot is kept for a slow reader.
func (s *FavoritesStore) Subscribe() (<-chan []*domain.Book, func()) {
	ch := make(chan []*domain.Book, 1)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// put writes a record to BoltDB (no-op in memory-only mode)
func (s *FavoritesStore) put(id string, rec favoriteRecord) error {
	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFavorites).Put([]byte(id), data)
	})
}

// publishLocked replaces any unread snapshot with the current one
func (s *FavoritesStore) publishLocked() {
	for _, ch := range s.subscribers {
		snapshot := s.snapshotLocked()
		select {
		case <-ch: // Drop stale snapshot
		default:
		}
		ch <- snapshot
	}
}

// snapshotLocked copies the favorites ordered by AddedAt, then ID
func (s *FavoritesStore) snapshotLocked() []*domain.Book {
	recs := make([]favoriteRecord, 0, len(s.cache))
	for _, rec := range s.cache {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].AddedAt != recs[j].AddedAt {
			return recs[i].AddedAt < recs[j].AddedAt
		}
		return recs[i].Book.ID < recs[j].Book.ID
	})

	books := make([]*domain.Book, len(recs))
	for i, rec := range recs {
		b := *rec.Book
		books[i] = &b
	}
	return books
}
