package valkeystore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/LiaoAnn/edgecalidraw/internal/protocol"
)

// SceneStore mirrors each room's authoritative scene into Valkey. One key
// per room; the relay actor owning the room is the only writer.
type SceneStore struct {
	client valkey.Client
}

func NewSceneStore(client valkey.Client) *SceneStore {
	return &SceneStore{client: client}
}

func (s *SceneStore) Load(ctx context.Context, roomID string) (json.RawMessage, error) {
	raw, err := s.client.Do(ctx,
		s.client.B().Get().Key(sceneKeyPrefix+roomID).Build(),
	).AsBytes()
	if valkey.IsValkeyNil(err) {
		return protocol.EmptyElements, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", roomID, err)
	}
	return json.RawMessage(raw), nil
}

func (s *SceneStore) Save(ctx context.Context, roomID string, elements json.RawMessage) error {
	err := s.client.Do(ctx,
		s.client.B().Set().Key(sceneKeyPrefix+roomID).Value(string(elements)).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("save scene %s: %w", roomID, err)
	}
	return nil
}

func (s *SceneStore) Delete(ctx context.Context, roomID string) error {
	err := s.client.Do(ctx,
		s.client.B().Del().Key(sceneKeyPrefix+roomID).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("delete scene %s: %w", roomID, err)
	}
	return nil
}
