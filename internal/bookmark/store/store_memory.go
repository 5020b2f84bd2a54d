package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"schemeteller/internal/bookmark"
	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and local development.
type InMemory struct {
	mu        sync.RWMutex
	bookmarks map[id.BookmarkID]*bookmark.Bookmark
}

func NewInMemory() *InMemory {
	return &InMemory{bookmarks: make(map[id.BookmarkID]*bookmark.Bookmark)}
}

func (s *InMemory) Create(_ context.Context, b *bookmark.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookmarks {
		if existing.UserID == b.UserID && existing.SchemeID == b.SchemeID {
			return sentinel.ErrConflict
		}
	}
	stored := *b
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.bookmarks[b.ID] = &stored
	return nil
}

func (s *InMemory) FindByUserAndScheme(_ context.Context, userID id.UserID, schemeID id.SchemeID) (*bookmark.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookmarks {
		if b.UserID == userID && b.SchemeID == schemeID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*bookmark.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*bookmark.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID, bookmarkID id.BookmarkID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[bookmarkID]
	if !ok || b.UserID != userID {
		return sentinel.ErrNotFound
	}
	delete(s.bookmarks, bookmarkID)
	return nil
}

func (s *InMemory) DeleteByScheme(_ context.Context, userID id.UserID, schemeID id.SchemeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for bookmarkID, b := range s.bookmarks {
		if b.UserID == userID && b.SchemeID == schemeID {
			delete(s.bookmarks, bookmarkID)
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemory) CountByUser(_ context.Context, userID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) CountByScheme(_ context.Context, schemeID id.SchemeID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bookmarks {
		if b.SchemeID == schemeID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookmarks), nil
}
