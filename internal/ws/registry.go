package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers connect from the frontend origin; CORS is handled at
		// the HTTP layer for the REST surface.
		return true
	},
}

// Registry resolves room ids to relay actors: one actor per room id,
// created lazily on first access, so repeated lookups always land on the
// same instance.
type Registry struct {
	mu     sync.Mutex
	scenes storage.SceneStore
	rooms  map[string]*Room
}

func NewRegistry(scenes storage.SceneStore) *Registry {
	return &Registry{
		scenes: scenes,
		rooms:  make(map[string]*Room),
	}
}

func (g *Registry) lookup(roomID string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		room = newRoom(roomID, g.scenes)
		g.rooms[roomID] = room
		go room.start()
		log.Printf("[Relay] Room %s: actor created", roomID)
	}
	return room
}

func (g *Registry) live(roomID string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[roomID]
}

// ServeWS upgrades the request and attaches the socket to the room's actor.
// Non-upgrade requests are rejected outright.
func (g *Registry) ServeWS(w http.ResponseWriter, r *http.Request, roomID string) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "Expected websocket", http.StatusBadRequest)
		return
	}

	room := g.lookup(roomID)
	<-room.ready

	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Relay] Upgrade failed for room %s: %v", roomID, err)
		return
	}

	c := &Conn{
		room: room,
		sock: sock,
		send: make(chan []byte, sendBufferSize),
	}
	room.register <- c

	go c.writePump()
	go c.readPump()
}

// Elements returns the current scene for a room. A warm actor answers from
// memory; otherwise the stored copy is read directly so a REST read does
// not spin up an actor.
func (g *Registry) Elements(ctx context.Context, roomID string) (json.RawMessage, error) {
	room := g.live(roomID)
	if room == nil {
		return g.scenes.Load(ctx, roomID)
	}
	<-room.ready
	return room.Elements(), nil
}

// Reset drops a room's scene state, both in-memory and durable. Called when
// the room is deleted, so recreating the same id starts from a blank scene.
func (g *Registry) Reset(ctx context.Context, roomID string) error {
	room := g.live(roomID)
	if room == nil {
		return g.scenes.Delete(ctx, roomID)
	}
	<-room.ready

	done := make(chan error, 1)
	room.resets <- done
	return <-done
}
