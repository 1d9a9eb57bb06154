package session

import "sync"

// Registry is the process-wide directory of live sessions. All mutation
// and iteration goes through its lock; sessions are registered on accept
// and removed on teardown or duplicate-identity eviction.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a live session
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Remove unregisters a session by id. Safe to call twice.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Contains reports whether the session id is still registered
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// Snapshot returns the live sessions at this instant. Callers iterate
// the copy, never the underlying map, so broadcasts cannot race with
// connects and disconnects.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Views returns read-only snapshots of every live session, sorted
// nowhere in particular. Used by the ops API.
func (r *Registry) Views() []View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]View, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Snapshot())
	}
	return out
}

// Kick unregisters and closes every session claiming the given steam
// id. Returns how many sessions were kicked.
func (r *Registry) Kick(steamID string) int {
	r.mu.Lock()
	var kicked []*Session
	for id, s := range r.sessions {
		if s.SteamID() == steamID {
			delete(r.sessions, id)
			kicked = append(kicked, s)
		}
	}
	r.mu.Unlock()

	for _, s := range kicked {
		s.Close()
	}
	return len(kicked)
}

// EvictDuplicates removes every other registered session claiming the
// same steam id as the given session. The evicted sessions' connections
// are left to die on their own failure path; only the registry entry
// goes. Returns the evicted sessions for logging.
func (r *Registry) EvictDuplicates(of *Session) []*Session {
	steamID := of.SteamID()
	if steamID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []*Session
	for id, other := range r.sessions {
		if other == of {
			continue
		}
		if other.SteamID() == steamID {
			delete(r.sessions, id)
			evicted = append(evicted, other)
		}
	}
	return evicted
}
