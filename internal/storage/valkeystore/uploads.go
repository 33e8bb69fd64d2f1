package valkeystore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

// UploadStore keeps binary assets in Valkey, one hash per upload.
type UploadStore struct {
	client valkey.Client
}

func NewUploadStore(client valkey.Client) *UploadStore {
	return &UploadStore{client: client}
}

func (s *UploadStore) Put(ctx context.Context, upload models.Upload) error {
	key := uploadKeyPrefix + upload.ID

	exists, err := s.client.Do(ctx, s.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("put upload %s: %w", upload.ID, err)
	}
	if exists > 0 {
		return storage.ErrExists
	}

	err = s.client.Do(ctx,
		s.client.B().Hset().Key(key).FieldValue().
			FieldValue("contentType", upload.ContentType).
			FieldValue("body", valkey.BinaryString(upload.Body)).
			Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("put upload %s: %w", upload.ID, err)
	}
	return nil
}

func (s *UploadStore) Get(ctx context.Context, id string) (models.Upload, error) {
	fields, err := s.client.Do(ctx,
		s.client.B().Hgetall().Key(uploadKeyPrefix+id).Build(),
	).AsStrMap()
	if err != nil {
		return models.Upload{}, fmt.Errorf("get upload %s: %w", id, err)
	}
	if len(fields) == 0 {
		return models.Upload{}, storage.ErrNotFound
	}
	return models.Upload{
		ID:          id,
		ContentType: fields["contentType"],
		Body:        []byte(fields["body"]),
	}, nil
}
