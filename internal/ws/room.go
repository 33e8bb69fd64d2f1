package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/LiaoAnn/edgecalidraw/internal/protocol"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
)

type frame struct {
	conn *Conn
	data []byte
}

type persistReq struct {
	elements json.RawMessage
	drop     bool
	done     chan error
}

// Room is the per-room relay actor. One goroutine owns all of its state
// (scene elements and presence), so message handling is serialized: each
// inbound frame is fully applied, including any persistence scheduling,
// before the next one starts. Different rooms run fully in parallel.
type Room struct {
	id     string
	scenes storage.SceneStore

	register    chan *Conn
	unregister  chan *Conn
	frames      chan frame
	resets      chan chan error
	elementsReq chan chan json.RawMessage

	// Closed once the stored scene has loaded; sockets are not admitted
	// before that, so a fast first broadcast can't race an empty scene.
	ready chan struct{}

	persist chan persistReq

	elements json.RawMessage
	presence *Tracker
}

func newRoom(id string, scenes storage.SceneStore) *Room {
	return &Room{
		id:          id,
		scenes:      scenes,
		register:    make(chan *Conn),
		unregister:  make(chan *Conn),
		frames:      make(chan frame),
		resets:      make(chan chan error),
		elementsReq: make(chan chan json.RawMessage),
		ready:       make(chan struct{}),
		persist:     make(chan persistReq, 1),
		elements:    protocol.EmptyElements,
		presence:    NewTracker(),
	}
}

// start performs the cold-start load and then runs the event loop. A load
// failure is logged, not fatal: the room comes up empty and the next
// elementChange re-establishes the durable copy.
func (r *Room) start() {
	elements, err := r.scenes.Load(context.Background(), r.id)
	if err != nil {
		log.Printf("[Relay] Room %s: loading stored scene failed, starting empty: %v", r.id, err)
		elements = protocol.EmptyElements
	}
	r.elements = elements
	close(r.ready)

	go r.persistLoop()
	r.run()
}

func (r *Room) run() {
	for {
		select {
		case c := <-r.register:
			r.presence.AddConnection(c)
			log.Printf("[Relay] Room %s: socket attached (%d open)", r.id, r.presence.ConnectionCount())
		case c := <-r.unregister:
			r.dropConn(c)
		case f := <-r.frames:
			if r.presence.HasConnection(f.conn) {
				r.handleFrame(f.conn, f.data)
			}
		case done := <-r.resets:
			r.handleReset(done)
		case reply := <-r.elementsReq:
			reply <- r.elements
		}
	}
}

func (r *Room) handleFrame(c *Conn, data []byte) {
	// Initial-sync handshake: the bare control string, not a tagged event.
	// The reply goes to the requesting socket only.
	if string(data) == protocol.SetupMessage {
		payload, err := protocol.Encode(protocol.ElementChangeEvent{Data: r.elements})
		if err != nil {
			log.Printf("[Relay] Room %s: encoding scene snapshot: %v", r.id, err)
			return
		}
		r.send(c, payload)
		return
	}

	ev, err := protocol.Decode(data)
	if err != nil {
		// Malformed frames are dropped; the connection stays open.
		log.Printf("[Relay] Room %s: dropped frame: %v", r.id, err)
		return
	}

	switch e := ev.(type) {
	case protocol.PointerEvent:
		if r.presence.RecordActivity(e.Data.UserID, c) {
			r.announce(c, protocol.UserJoinEvent{Data: protocol.UserData{UserID: e.Data.UserID}})
		}
		r.broadcast(c, data)
	case protocol.ElementChangeEvent:
		r.elements = e.Data
		r.queuePersist()
		r.broadcast(c, data)
	case protocol.UserJoinEvent, protocol.UserLeaveEvent, protocol.ViewChangeEvent:
		// Ephemeral signals: relayed verbatim, no state touched.
		r.broadcast(c, data)
	}
}

// broadcast relays data to every socket except the sender. Per-socket
// delivery order matches send order; an unwritable peer is dropped without
// stalling delivery to the rest.
func (r *Room) broadcast(sender *Conn, data []byte) {
	for _, peer := range r.presence.HandlesExcept(sender) {
		r.send(peer, data)
	}
}

func (r *Room) announce(sender *Conn, ev protocol.Event) {
	payload, err := protocol.Encode(ev)
	if err != nil {
		log.Printf("[Relay] Room %s: encoding %s: %v", r.id, ev.Type(), err)
		return
	}
	r.broadcast(sender, payload)
}

func (r *Room) send(c *Conn, data []byte) {
	if !c.enqueue(data) {
		log.Printf("[Relay] Room %s: send queue full, dropping socket", r.id)
		r.dropConn(c)
		c.sock.Close()
	}
}

func (r *Room) dropConn(c *Conn) {
	if !r.presence.HasConnection(c) {
		return
	}
	userID, found := r.presence.RemoveByConnection(c)
	close(c.send)
	log.Printf("[Relay] Room %s: socket detached (%d open)", r.id, r.presence.ConnectionCount())

	if found {
		r.announce(c, protocol.UserLeaveEvent{Data: protocol.UserData{UserID: userID}})
	}
}

// handleReset clears the in-memory scene and the durable copy. The pending
// persist is discarded, the delete runs through the persist writer, and the
// loop holds until it confirms, so no stale save can land after the wipe.
func (r *Room) handleReset(done chan error) {
	r.elements = protocol.EmptyElements
	select {
	case <-r.persist:
	default:
	}
	req := persistReq{drop: true, done: make(chan error, 1)}
	r.persist <- req
	done <- <-req.done
}

// queuePersist schedules a durable write of the current scene without
// blocking message handling. Writes coalesce to the latest snapshot; a
// failed write is retried by whatever mutation comes next.
func (r *Room) queuePersist() {
	req := persistReq{elements: r.elements}
	for {
		select {
		case r.persist <- req:
			return
		default:
		}
		// Displace the stale pending snapshot.
		select {
		case <-r.persist:
		default:
		}
	}
}

func (r *Room) persistLoop() {
	for req := range r.persist {
		var err error
		if req.drop {
			err = r.scenes.Delete(context.Background(), r.id)
		} else {
			err = r.scenes.Save(context.Background(), r.id, req.elements)
		}
		if err != nil {
			log.Printf("[Relay] Room %s: persist failed, will retry on next change: %v", r.id, err)
		}
		if req.done != nil {
			req.done <- err
		}
	}
}

// Elements returns the authoritative scene as seen by the event loop.
func (r *Room) Elements() json.RawMessage {
	reply := make(chan json.RawMessage, 1)
	r.elementsReq <- reply
	return <-reply
}
