package valkeystore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/valkey-io/valkey-go"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
)

// LibraryStore keeps library items in one Valkey hash, field per item id.
type LibraryStore struct {
	client valkey.Client
}

func NewLibraryStore(client valkey.Client) *LibraryStore {
	return &LibraryStore{client: client}
}

func (s *LibraryStore) List(ctx context.Context) ([]models.LibraryItem, error) {
	fields, err := s.client.Do(ctx,
		s.client.B().Hgetall().Key(libraryKey).Build(),
	).AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}

	items := make([]models.LibraryItem, 0, len(fields))
	for id, raw := range fields {
		var item models.LibraryItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("library item %s: %w", id, err)
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Created < items[j].Created })
	return items, nil
}

func (s *LibraryStore) Sync(ctx context.Context, items []models.LibraryItem) (int, int, error) {
	stored, err := s.client.Do(ctx,
		s.client.B().Hkeys().Key(libraryKey).Build(),
	).AsStrSlice()
	if err != nil {
		return 0, 0, fmt.Errorf("sync library: %w", err)
	}
	storedIDs := make(map[string]bool, len(stored))
	for _, id := range stored {
		storedIDs[id] = true
	}

	input := make(map[string]models.LibraryItem, len(items))
	for _, item := range items {
		input[item.ID] = item
	}

	var cmds []valkey.Completed
	var inserted, deleted int
	for id, item := range input {
		if storedIDs[id] {
			continue
		}
		raw, err := json.Marshal(item)
		if err != nil {
			return 0, 0, fmt.Errorf("sync library item %s: %w", id, err)
		}
		cmds = append(cmds, s.client.B().Hset().Key(libraryKey).FieldValue().
			FieldValue(id, string(raw)).Build())
		inserted++
	}
	for id := range storedIDs {
		if _, ok := input[id]; !ok {
			cmds = append(cmds, s.client.B().Hdel().Key(libraryKey).Field(id).Build())
			deleted++
		}
	}

	if len(cmds) > 0 {
		for _, resp := range s.client.DoMulti(ctx, cmds...) {
			if err := resp.Error(); err != nil {
				return 0, 0, fmt.Errorf("sync library: %w", err)
			}
		}
	}
	return inserted, deleted, nil
}
