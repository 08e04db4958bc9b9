package service

import (
	"sync"

	"github.com/rivalplay/arena-backend/internal/entity"
)

// Registry is the single source of truth for live connection presence.
// Registration order is kept explicitly so opponent selection is
// deterministic instead of depending on map iteration order.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*entity.Connection
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*entity.Connection),
	}
}

// Register - creates an idle connection record for a freshly opened socket.
func (that *Registry) Register(connID string) *entity.Connection {
	that.mu.Lock()
	defer that.mu.Unlock()

	if conn, ok := that.conns[connID]; ok {
		return conn
	}

	conn := &entity.Connection{
		ID:    connID,
		State: entity.StateIdle,
	}

	that.conns[connID] = conn
	that.order = append(that.order, connID)

	return conn
}

// MarkReady - attaches the (possibly empty, anonymous) identity to the
// connection and makes it discoverable for the next opponent scan.
func (that *Registry) MarkReady(connID, name, userID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	conn, ok := that.conns[connID]
	if !ok {
		return
	}

	conn.Name = name
	conn.UserID = userID

	if conn.State == entity.StateIdle || conn.State == entity.StateOffline {
		conn.State = entity.StateSearching
	}
}

func (that *Registry) MarkOffline(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if conn, ok := that.conns[connID]; ok {
		conn.State = entity.StateOffline
	}
}

func (that *Registry) Remove(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.conns[connID]; !ok {
		return
	}

	delete(that.conns, connID)

	for i, id := range that.order {
		if id == connID {
			that.order = append(that.order[:i], that.order[i+1:]...)
			break
		}
	}
}

func (that *Registry) Get(connID string) (*entity.Connection, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	conn, ok := that.conns[connID]

	return conn, ok
}

// ClaimPair - scans for the first searching connection other than the
// requester, in registration order, and binds both sides into a room under
// one write lock: the claimed opponent plays X, the requester plays O. The
// atomic claim is what keeps two concurrent requests from pairing with each
// other twice. Returns false when the requester is not searching anymore or
// nobody else is.
func (that *Registry) ClaimPair(requesterID string) (requester, opponent *entity.Connection, ok bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	requester, exists := that.conns[requesterID]
	if !exists || !requester.IsSearching() {
		return nil, nil, false
	}

	for _, id := range that.order {
		if id == requesterID {
			continue
		}

		conn := that.conns[id]
		if !conn.IsSearching() {
			continue
		}

		conn.Mark = entity.PlayerX
		conn.State = entity.StateInRoom

		requester.Mark = entity.PlayerO
		requester.State = entity.StateInRoom

		return requester, conn, true
	}

	return nil, nil, false
}

// BindRoom - transitions a paired connection into its room with its mark.
func (that *Registry) BindRoom(connID, mark string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if conn, ok := that.conns[connID]; ok {
		conn.Mark = mark
		conn.State = entity.StateInRoom
	}
}

// ReleaseRoom - returns a participant to idle after its room is destroyed.
// Offline connections stay offline; they are removed on socket close.
func (that *Registry) ReleaseRoom(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	conn, ok := that.conns[connID]
	if !ok {
		return
	}

	conn.Mark = ""

	if conn.State == entity.StateInRoom {
		conn.State = entity.StateIdle
	}
}
