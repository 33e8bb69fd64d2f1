package memory

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

// RoomStore keeps the room directory in memory. Used for tests and for
// running without a Valkey instance; rooms do not survive a restart.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]models.Room)}
}

func (s *RoomStore) List(ctx context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].LastActivity.After(rooms[j].LastActivity)
	})
	return rooms, nil
}

func (s *RoomStore) Create(ctx context.Context, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return storage.ErrExists
	}
	s.rooms[room.ID] = room
	log.Printf("[Rooms] Created room: ID=%s, Name=%s", room.ID, room.Name)
	return nil
}

func (s *RoomStore) Get(ctx context.Context, id string) (models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return models.Room{}, storage.ErrNotFound
	}
	return room, nil
}

func (s *RoomStore) TouchActivity(ctx context.Context, id string) (models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return models.Room{}, storage.ErrNotFound
	}
	room.LastActivity = time.Now().UTC()
	s.rooms[id] = room
	return room, nil
}

func (s *RoomStore) Delete(ctx context.Context, id string) (models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return models.Room{}, storage.ErrNotFound
	}
	delete(s.rooms, id)
	log.Printf("[Rooms] Deleted room: ID=%s", id)
	return room, nil
}
