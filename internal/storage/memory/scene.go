package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/LiaoAnn/edgecalidraw/internal/protocol"
)

// SceneStore keeps scene snapshots in memory, keyed by room id.
type SceneStore struct {
	mu     sync.RWMutex
	scenes map[string]json.RawMessage
}

func NewSceneStore() *SceneStore {
	return &SceneStore{scenes: make(map[string]json.RawMessage)}
}

func (s *SceneStore) Load(ctx context.Context, roomID string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elements, ok := s.scenes[roomID]
	if !ok {
		return protocol.EmptyElements, nil
	}
	// Copy so the caller's mutations never alias the stored slice.
	out := make(json.RawMessage, len(elements))
	copy(out, elements)
	return out, nil
}

func (s *SceneStore) Save(ctx context.Context, roomID string, elements json.RawMessage) error {
	stored := make(json.RawMessage, len(elements))
	copy(stored, elements)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes[roomID] = stored
	return nil
}

func (s *SceneStore) Delete(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scenes, roomID)
	return nil
}
