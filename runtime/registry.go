package runtime

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Registry is the presence registry of the server process.
// It holds at most one live connection per user.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.Connection // map user -> connection
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.Connection),
	}
}

// Register binds the connection to the user.
// A previous connection of the same user is replaced without being notified.
func (r *Registry) Register(userID string, conn contract.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[domain.CanonicalID(userID)] = conn
}

// Unregister removes the user only when conn is still the registered connection.
// A stale close of a replaced connection must not log out the newer one.
func (r *Registry) Unregister(userID string, conn contract.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := domain.CanonicalID(userID)
	current, ok := r.sessions[id]
	if !ok || conn == nil || current.ID() != conn.ID() {
		return
	}
	delete(r.sessions, id)
}

func (r *Registry) Lookup(userID string) (contract.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.sessions[domain.CanonicalID(userID)]
	return conn, ok
}

// OnlineSet returns the ids of every connected user, sorted.
func (r *Registry) OnlineSet() []string {
	r.mu.RLock()
	ids := lo.Keys(r.sessions)
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

func (r *Registry) IsOnline(userID string) bool {
	_, ok := r.Lookup(userID)
	return ok
}

// Count returns the number of connected users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
