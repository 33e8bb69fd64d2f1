package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
)

// LibraryStore keeps library items in memory.
type LibraryStore struct {
	mu    sync.RWMutex
	items map[string]models.LibraryItem
}

func NewLibraryStore() *LibraryStore {
	return &LibraryStore{items: make(map[string]models.LibraryItem)}
}

func (s *LibraryStore) List(ctx context.Context) ([]models.LibraryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.LibraryItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Created < items[j].Created })
	return items, nil
}

func (s *LibraryStore) Sync(ctx context.Context, items []models.LibraryItem) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input := make(map[string]models.LibraryItem, len(items))
	for _, item := range items {
		input[item.ID] = item
	}

	var inserted, deleted int
	for id, item := range input {
		if _, ok := s.items[id]; !ok {
			s.items[id] = item
			inserted++
		}
	}
	for id := range s.items {
		if _, ok := input[id]; !ok {
			delete(s.items, id)
			deleted++
		}
	}
	return inserted, deleted, nil
}
