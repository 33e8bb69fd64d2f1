package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
)

// ErrNotFound is returned by room-scoped lookups when the id is absent.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when creating a record whose id is already taken.
var ErrExists = errors.New("already exists")

// SceneStore holds the durable copy of each room's scene. Access to a given
// room's slot is confined to the relay actor that owns that room, so
// implementations never see concurrent writers for the same key.
type SceneStore interface {
	// Load returns the stored element sequence for a room, or the empty
	// array if nothing was ever stored. Absence is not an error.
	Load(ctx context.Context, roomID string) (json.RawMessage, error)
	// Save replaces the stored element sequence for a room.
	Save(ctx context.Context, roomID string, elements json.RawMessage) error
	// Delete drops the stored element sequence for a room, if any.
	Delete(ctx context.Context, roomID string) error
}

// RoomStore is the room directory.
type RoomStore interface {
	// List returns all rooms ordered by last activity, most recent first.
	List(ctx context.Context) ([]models.Room, error)
	Create(ctx context.Context, room models.Room) error
	Get(ctx context.Context, id string) (models.Room, error)
	// TouchActivity bumps lastActivity to now and returns the updated room.
	TouchActivity(ctx context.Context, id string) (models.Room, error)
	// Delete removes the room and returns its last known record.
	Delete(ctx context.Context, id string) (models.Room, error)
}

// UploadStore holds immutable binary assets.
type UploadStore interface {
	Put(ctx context.Context, upload models.Upload) error
	Get(ctx context.Context, id string) (models.Upload, error)
}

// LibraryStore holds the shared shape library.
type LibraryStore interface {
	List(ctx context.Context) ([]models.LibraryItem, error)
	// Sync reconciles the stored set against the client's full item list:
	// unseen ids are inserted, stored ids missing from the input are
	// deleted, overlapping ids are left untouched.
	Sync(ctx context.Context, items []models.LibraryItem) (inserted, deleted int, err error)
}
