package rooms_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/LiaoAnn/edgecalidraw/internal/api/rooms"
	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
	"github.com/LiaoAnn/edgecalidraw/internal/storage/memory"
	"github.com/LiaoAnn/edgecalidraw/internal/ws"
)

type roomsFixture struct {
	store  *memory.RoomStore
	scenes *memory.SceneStore
	server *httptest.Server
}

func newRoomsFixture(t *testing.T) *roomsFixture {
	t.Helper()
	store := memory.NewRoomStore()
	scenes := memory.NewSceneStore()
	handler := &rooms.RoomHandler{Store: store, Relay: ws.NewRegistry(scenes)}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	rooms.RegisterRoomRoutes(api, api, handler)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return &roomsFixture{store: store, scenes: scenes, server: server}
}

func (f *roomsFixture) createRoom(t *testing.T, title string) (int, map[string]json.RawMessage) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"title": title})
	resp, err := http.Post(f.server.URL+"/api/rooms", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var payload map[string]json.RawMessage
	json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func TestCreateRoomGeneratesSlugID(t *testing.T) {
	f := newRoomsFixture(t)

	status, payload := f.createRoom(t, "My Room!")
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}

	var roomID string
	json.Unmarshal(payload["roomId"], &roomID)
	if ok, _ := regexp.MatchString(`^my-room-[a-z0-9]{6}$`, roomID); !ok {
		t.Errorf("roomId = %q", roomID)
	}

	if _, err := f.store.Get(context.Background(), roomID); err != nil {
		t.Errorf("created room not in store: %v", err)
	}
}

// collidingRoomStore fails the first n creates with ErrExists, simulating
// slug-suffix collisions.
type collidingRoomStore struct {
	*memory.RoomStore
	collisions int
}

func (s *collidingRoomStore) Create(ctx context.Context, room models.Room) error {
	if s.collisions > 0 {
		s.collisions--
		return storage.ErrExists
	}
	return s.RoomStore.Create(ctx, room)
}

func TestCreateRoomRetriesOnSuffixCollision(t *testing.T) {
	store := &collidingRoomStore{RoomStore: memory.NewRoomStore(), collisions: 2}
	handler := &rooms.RoomHandler{Store: store, Relay: ws.NewRegistry(memory.NewSceneStore())}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	rooms.RegisterRoomRoutes(api, api, handler)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	body, _ := json.Marshal(map[string]string{"title": "Crowded"})
	resp, err := http.Post(server.URL+"/api/rooms", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201 after retrying a fresh suffix", resp.StatusCode)
	}
	listed, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Errorf("got %d rooms, want exactly 1", len(listed))
	}
}

func TestCreateRoomRejectsBlankTitle(t *testing.T) {
	f := newRoomsFixture(t)

	for _, title := range []string{"", "   "} {
		status, _ := f.createRoom(t, title)
		if status != http.StatusBadRequest {
			t.Errorf("title %q: status = %d, want 400", title, status)
		}
	}
}

func TestListRoomsOrdersByActivity(t *testing.T) {
	f := newRoomsFixture(t)
	ctx := context.Background()

	// Seed in the past so the touch below is strictly the newest activity.
	base := time.Now().UTC().Add(-time.Minute)
	for i, id := range []string{"first-aaaaaa", "second-bbbbbb", "third-cccccc"} {
		err := f.store.Create(ctx, models.Room{
			ID:           id,
			Name:         id,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
			LastActivity: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	// Touch the oldest room; it should float to the top.
	if _, err := f.store.TouchActivity(ctx, "first-aaaaaa"); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(f.server.URL + "/api/rooms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var payload struct {
		Rooms []models.Room `json:"rooms"`
	}
	json.NewDecoder(resp.Body).Decode(&payload)

	if len(payload.Rooms) != 3 {
		t.Fatalf("got %d rooms, want 3", len(payload.Rooms))
	}
	want := []string{"first-aaaaaa", "third-cccccc", "second-bbbbbb"}
	for i, room := range payload.Rooms {
		if room.ID != want[i] {
			t.Errorf("rooms[%d] = %s, want %s", i, room.ID, want[i])
		}
	}
}

func TestGetRoomReports404ForUnknownID(t *testing.T) {
	f := newRoomsFixture(t)

	resp, err := http.Get(f.server.URL + "/api/rooms/no-such-room")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var payload struct {
		Exists bool `json:"exists"`
	}
	json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Exists {
		t.Error("exists = true for unknown room")
	}
}

func TestDeleteRoomResetsSceneState(t *testing.T) {
	f := newRoomsFixture(t)
	ctx := context.Background()

	_, payload := f.createRoom(t, "doomed")
	var roomID string
	json.Unmarshal(payload["roomId"], &roomID)

	if err := f.scenes.Save(ctx, roomID, json.RawMessage(`[{"id":"e1"}]`)); err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodDelete, f.server.URL+"/api/rooms/"+roomID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	if _, err := f.store.Get(ctx, roomID); err == nil {
		t.Error("room still present after delete")
	}
	stored, err := f.scenes.Load(ctx, roomID)
	if err != nil {
		t.Fatal(err)
	}
	if string(stored) != "[]" {
		t.Errorf("scene after delete = %s, want empty", stored)
	}
}

func TestDeleteUnknownRoomIs404(t *testing.T) {
	f := newRoomsFixture(t)

	req, _ := http.NewRequest(http.MethodDelete, f.server.URL+"/api/rooms/ghost-room", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTouchActivityBumpsRoom(t *testing.T) {
	f := newRoomsFixture(t)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-time.Hour)
	if err := f.store.Create(ctx, models.Room{ID: "idle-room", Name: "Idle", CreatedAt: stale, LastActivity: stale}); err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodPatch, f.server.URL+"/api/rooms/idle-room/activity", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	room, err := f.store.Get(ctx, "idle-room")
	if err != nil {
		t.Fatal(err)
	}
	if !room.LastActivity.After(stale) {
		t.Error("lastActivity was not bumped")
	}
}
