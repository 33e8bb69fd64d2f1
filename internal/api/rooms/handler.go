package rooms

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/LiaoAnn/edgecalidraw/internal/models"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
	"github.com/LiaoAnn/edgecalidraw/internal/ws"
)

// RoomHandler holds the dependencies for the room directory endpoints and
// the room-scoped relay endpoints.
type RoomHandler struct {
	Store storage.RoomStore
	Relay *ws.Registry
}

// ListRooms handles GET /api/rooms, ordered by last activity descending.
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Store.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list rooms", http.StatusInternalServerError)
		log.Printf("[Rooms] Error listing rooms: %v", err)
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"rooms": rooms})
}

// CreateRoom handles POST /api/rooms. The room id is derived from the title
// plus a random suffix; empty or whitespace-only titles are rejected.
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Printf("[Rooms] Error decoding request body for CreateRoom: %v", err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	var room models.Room
	for attempt := 0; ; attempt++ {
		room = models.Room{
			ID:           GenerateRoomID(title),
			Name:         title,
			CreatedAt:    now,
			LastActivity: now,
		}
		err := h.Store.Create(r.Context(), room)
		if err == nil {
			break
		}
		// The random suffix can collide; a fresh one almost certainly won't.
		if errors.Is(err, storage.ErrExists) && attempt < 2 {
			log.Printf("[Rooms] Room id %s taken, retrying with a new suffix", room.ID)
			continue
		}
		http.Error(w, "Failed to create room", http.StatusInternalServerError)
		log.Printf("[Rooms] Error creating room %s: %v", room.ID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"roomId":  room.ID,
		"room":    room,
	})
	log.Printf("[Rooms] Created room: ID=%s, Name=%s", room.ID, room.Name)
}

// GetRoom handles GET /api/rooms/{roomID}: existence check plus metadata.
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	room, err := h.Store.Get(r.Context(), roomID)
	if errors.Is(err, storage.ErrNotFound) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"exists": false, "room": nil})
		return
	}
	if err != nil {
		http.Error(w, "Failed to get room", http.StatusInternalServerError)
		log.Printf("[Rooms] Error getting room %s: %v", roomID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"exists": true, "room": room})
}

// TouchActivity handles PATCH /api/rooms/{roomID}/activity.
func (h *RoomHandler) TouchActivity(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	room, err := h.Store.TouchActivity(r.Context(), roomID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to update room activity", http.StatusInternalServerError)
		log.Printf("[Rooms] Error touching room %s: %v", roomID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "room": room})
}

// DeleteRoom handles DELETE /api/rooms/{roomID}. The relay's scene state for
// the room is reset as well, so recreating the id starts blank.
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	room, err := h.Store.Delete(r.Context(), roomID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to delete room", http.StatusInternalServerError)
		log.Printf("[Rooms] Error deleting room %s: %v", roomID, err)
		return
	}

	if err := h.Relay.Reset(r.Context(), roomID); err != nil {
		// The directory entry is gone either way; the scene blob is
		// orphaned and will be wiped on the next reset attempt.
		log.Printf("[Rooms] Error resetting relay state for room %s: %v", roomID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "room": room})
	log.Printf("[Rooms] Deleted room: ID=%s", roomID)
}

// GetElements handles GET /api/get-elements/{roomID}: a REST read of the
// room's current scene.
func (h *RoomHandler) GetElements(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	elements, err := h.Relay.Elements(r.Context(), roomID)
	if err != nil {
		http.Error(w, "Failed to read elements", http.StatusInternalServerError)
		log.Printf("[Rooms] Error reading elements for room %s: %v", roomID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]json.RawMessage{"data": elements})
}

// ServeWS handles GET /api/ws/{roomID}: the relay connection endpoint.
func (h *RoomHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	// Every room-scoped connection counts as directory activity. Unknown
	// ids still get a relay (the room may have been deleted mid-session).
	if _, err := h.Store.TouchActivity(r.Context(), roomID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("[Rooms] Error touching room %s on connect: %v", roomID, err)
	}

	h.Relay.ServeWS(w, r, roomID)
}
