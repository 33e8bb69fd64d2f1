package memory

import (
	"context"
	"sync"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

// UploadStore keeps binary assets in memory.
type UploadStore struct {
	mu      sync.RWMutex
	uploads map[string]models.Upload
}

func NewUploadStore() *UploadStore {
	return &UploadStore{uploads: make(map[string]models.Upload)}
}

func (s *UploadStore) Put(ctx context.Context, upload models.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.uploads[upload.ID]; ok {
		return storage.ErrExists
	}
	s.uploads[upload.ID] = upload
	return nil
}

func (s *UploadStore) Get(ctx context.Context, id string) (models.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	upload, ok := s.uploads[id]
	if !ok {
		return models.Upload{}, storage.ErrNotFound
	}
	return upload, nil
}
