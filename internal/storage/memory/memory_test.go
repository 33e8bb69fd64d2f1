package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

func TestRoomStoreListOrder(t *testing.T) {
	s := NewRoomStore()
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"a-111111", "b-222222", "c-333333"} {
		err := s.Create(ctx, models.Room{
			ID:           id,
			Name:         id,
			CreatedAt:    base,
			LastActivity: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	rooms, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c-333333", "b-222222", "a-111111"}
	for i, room := range rooms {
		if room.ID != want[i] {
			t.Errorf("rooms[%d] = %s, want %s", i, room.ID, want[i])
		}
	}
}

func TestRoomStoreCreateDuplicate(t *testing.T) {
	s := NewRoomStore()
	ctx := context.Background()
	room := models.Room{ID: "dup-000000", Name: "Dup"}

	if err := s.Create(ctx, room); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, room); !errors.Is(err, storage.ErrExists) {
		t.Errorf("duplicate create err = %v, want ErrExists", err)
	}
}

func TestRoomStoreMissingIDs(t *testing.T) {
	s := NewRoomStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
	if _, err := s.TouchActivity(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("TouchActivity err = %v, want ErrNotFound", err)
	}
	if _, err := s.Delete(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestSceneStoreLoadDefaultsToEmpty(t *testing.T) {
	s := NewSceneStore()
	ctx := context.Background()

	elements, err := s.Load(ctx, "never-written")
	if err != nil {
		t.Fatal(err)
	}
	if string(elements) != "[]" {
		t.Errorf("Load = %s, want []", elements)
	}
}

func TestSceneStoreSaveLoadDelete(t *testing.T) {
	s := NewSceneStore()
	ctx := context.Background()
	scene := json.RawMessage(`[{"id":"e1"}]`)

	if err := s.Save(ctx, "r", scene); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx, "r")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(scene) {
		t.Errorf("Load = %s", got)
	}

	// The stored copy must not alias caller-held buffers.
	scene[2] = 'X'
	got, _ = s.Load(ctx, "r")
	if string(got) != `[{"id":"e1"}]` {
		t.Errorf("stored scene aliased caller buffer: %s", got)
	}

	if err := s.Delete(ctx, "r"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Load(ctx, "r")
	if string(got) != "[]" {
		t.Errorf("Load after delete = %s", got)
	}
}

func TestLibraryStoreSync(t *testing.T) {
	s := NewLibraryStore()
	ctx := context.Background()

	items := []models.LibraryItem{
		{ID: "l1", Status: "published", Elements: json.RawMessage(`[]`), Created: 1},
		{ID: "l2", Status: "unpublished", Elements: json.RawMessage(`[{"id":"e"}]`), Created: 2},
	}
	inserted, deleted, err := s.Sync(ctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 2 || deleted != 0 {
		t.Errorf("first sync = (%d, %d), want (2, 0)", inserted, deleted)
	}

	// Same set again: nothing to do.
	inserted, deleted, err = s.Sync(ctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 0 || deleted != 0 {
		t.Errorf("idempotent sync = (%d, %d), want (0, 0)", inserted, deleted)
	}

	// Dropping l1 from the input deletes it server-side.
	inserted, deleted, err = s.Sync(ctx, items[1:])
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 0 || deleted != 1 {
		t.Errorf("pruning sync = (%d, %d), want (0, 1)", inserted, deleted)
	}

	remaining, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].ID != "l2" {
		t.Errorf("remaining = %+v", remaining)
	}
}
