package ws

// Tracker records which sockets are attached to a room and which userId each
// participant last spoke from. It is confined to the owning room's event
// loop, so it needs no locking.
//
// A participant appears on the first pointer event carrying its userId. If
// the same userId shows up again on a different socket (reconnect), the
// handle is replaced, not duplicated: at most one active handle per userId.
type Tracker struct {
	conns        map[*Conn]struct{}
	participants map[string]*Conn
}

func NewTracker() *Tracker {
	return &Tracker{
		conns:        make(map[*Conn]struct{}),
		participants: make(map[string]*Conn),
	}
}

func (t *Tracker) AddConnection(c *Conn) {
	t.conns[c] = struct{}{}
}

func (t *Tracker) HasConnection(c *Conn) bool {
	_, ok := t.conns[c]
	return ok
}

// RecordActivity upserts the participant mapping and reports whether this
// userId is newly seen, which is what decides a userJoin broadcast.
func (t *Tracker) RecordActivity(userID string, c *Conn) bool {
	_, seen := t.participants[userID]
	t.participants[userID] = c
	return !seen
}

// RemoveByConnection detaches a socket and evicts the participant mapped to
// that exact handle, if any. Matching by handle rather than userId means a
// participant who already reconnected on a new socket is not evicted when
// the stale socket finally closes.
func (t *Tracker) RemoveByConnection(c *Conn) (string, bool) {
	delete(t.conns, c)
	for userID, handle := range t.participants {
		if handle == c {
			delete(t.participants, userID)
			return userID, true
		}
	}
	return "", false
}

// HandlesExcept returns every attached socket other than c, the broadcast
// fan-out set. Sockets that have not sent a pointer yet are included.
func (t *Tracker) HandlesExcept(c *Conn) []*Conn {
	peers := make([]*Conn, 0, len(t.conns))
	for conn := range t.conns {
		if conn != c {
			peers = append(peers, conn)
		}
	}
	return peers
}

func (t *Tracker) ConnectionCount() int {
	return len(t.conns)
}
