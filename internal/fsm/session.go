package fsm

import "sync"

// Session is the in-flight wizard of one user. Sessions live only in
// memory: a restart drops them, which is acceptable because every flow
// commits in a single statement at its final step.
type Session struct {
	UserID       int64
	Purpose      string
	State        string
	SelectedDate string // YYYY-MM-DD, set once a day is picked
	WaiterID     int64  // target waiter (the user's own, or admin-selected)
}

// SessionStore maps user IDs to their wizard sessions. Updates from
// different users arrive on different goroutines, so the map is guarded;
// the transport serializes per-chat delivery, so no per-session locking
// is needed beyond that.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the user's session or nil when the user is idle.
func (s *SessionStore) Get(userID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Put replaces whatever session the user had. Entering a new flow
// overwrites an abandoned one.
func (s *SessionStore) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
}

func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
