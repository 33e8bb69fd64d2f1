package valkeystore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

// RoomStore keeps the room directory in Valkey: one hash per room plus a
// sorted set scoring rooms by last activity, so listing never scans keys.
type RoomStore struct {
	client valkey.Client
}

func NewRoomStore(client valkey.Client) *RoomStore {
	return &RoomStore{client: client}
}

func (s *RoomStore) List(ctx context.Context) ([]models.Room, error) {
	ids, err := s.client.Do(ctx,
		s.client.B().Zrangebyscore().Key(roomActivityKey).Min("-inf").Max("+inf").Build(),
	).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	// The index is score-ascending; the directory lists most recent first.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	if len(ids) == 0 {
		return []models.Room{}, nil
	}

	cmds := make([]valkey.Completed, len(ids))
	for i, id := range ids {
		cmds[i] = s.client.B().Hgetall().Key(roomKeyPrefix + id).Build()
	}

	rooms := make([]models.Room, 0, len(ids))
	for i, resp := range s.client.DoMulti(ctx, cmds...) {
		fields, err := resp.AsStrMap()
		if err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		if len(fields) == 0 {
			// Hash and index can drift if a delete is interrupted; skip.
			continue
		}
		room, err := roomFromFields(ids[i], fields)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *RoomStore) Create(ctx context.Context, room models.Room) error {
	key := roomKeyPrefix + room.ID

	exists, err := s.client.Do(ctx, s.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("create room %s: %w", room.ID, err)
	}
	if exists > 0 {
		return storage.ErrExists
	}

	cmds := []valkey.Completed{
		s.client.B().Hset().Key(key).FieldValue().
			FieldValue("name", room.Name).
			FieldValue("createdAt", strconv.FormatInt(room.CreatedAt.UnixMilli(), 10)).
			FieldValue("lastActivity", strconv.FormatInt(room.LastActivity.UnixMilli(), 10)).
			Build(),
		s.client.B().Zadd().Key(roomActivityKey).ScoreMember().
			ScoreMember(float64(room.LastActivity.UnixMilli()), room.ID).
			Build(),
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("create room %s: %w", room.ID, err)
		}
	}
	return nil
}

func (s *RoomStore) Get(ctx context.Context, id string) (models.Room, error) {
	fields, err := s.client.Do(ctx,
		s.client.B().Hgetall().Key(roomKeyPrefix+id).Build(),
	).AsStrMap()
	if err != nil {
		return models.Room{}, fmt.Errorf("get room %s: %w", id, err)
	}
	if len(fields) == 0 {
		return models.Room{}, storage.ErrNotFound
	}
	return roomFromFields(id, fields)
}

func (s *RoomStore) TouchActivity(ctx context.Context, id string) (models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return models.Room{}, err
	}

	room.LastActivity = time.Now().UTC()
	millis := room.LastActivity.UnixMilli()
	cmds := []valkey.Completed{
		s.client.B().Hset().Key(roomKeyPrefix + id).FieldValue().
			FieldValue("lastActivity", strconv.FormatInt(millis, 10)).
			Build(),
		s.client.B().Zadd().Key(roomActivityKey).ScoreMember().
			ScoreMember(float64(millis), id).
			Build(),
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return models.Room{}, fmt.Errorf("touch room %s: %w", id, err)
		}
	}
	return room, nil
}

func (s *RoomStore) Delete(ctx context.Context, id string) (models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return models.Room{}, err
	}

	cmds := []valkey.Completed{
		s.client.B().Del().Key(roomKeyPrefix + id).Build(),
		s.client.B().Zrem().Key(roomActivityKey).Member(id).Build(),
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return models.Room{}, fmt.Errorf("delete room %s: %w", id, err)
		}
	}
	return room, nil
}

func roomFromFields(id string, fields map[string]string) (models.Room, error) {
	createdAt, err := strconv.ParseInt(fields["createdAt"], 10, 64)
	if err != nil {
		return models.Room{}, fmt.Errorf("room %s has bad createdAt %q", id, fields["createdAt"])
	}
	lastActivity, err := strconv.ParseInt(fields["lastActivity"], 10, 64)
	if err != nil {
		return models.Room{}, fmt.Errorf("room %s has bad lastActivity %q", id, fields["lastActivity"])
	}
	return models.Room{
		ID:           id,
		Name:         fields["name"],
		CreatedAt:    time.UnixMilli(createdAt).UTC(),
		LastActivity: time.UnixMilli(lastActivity).UTC(),
	}, nil
}
