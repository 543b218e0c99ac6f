package staging

import (
	"sync"
	"time"
)

type session struct {
	engine       *Engine
	lastActivity time.Time
}

// SessionManager keeps one engine per user.
type SessionManager struct {
	sessions map[string]*session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Get retrieves the engine for a user and marks the session active.
func (sm *SessionManager) Get(userID string) (*Engine, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s, exists := sm.sessions[userID]
	if !exists {
		return nil, false
	}
	s.lastActivity = sm.now()
	return s.engine, true
}

// GetOrCreate returns the user's engine, building one with factory when absent.
func (sm *SessionManager) GetOrCreate(userID string, factory func() *Engine) *Engine {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, exists := sm.sessions[userID]; exists {
		s.lastActivity = sm.now()
		return s.engine
	}
	s := &session{engine: factory(), lastActivity: sm.now()}
	sm.sessions[userID] = s
	return s.engine
}

// Clear removes a user's session.
func (sm *SessionManager) Clear(userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userID)
}

// Len returns the number of live sessions.
func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// SweepIdle drops sessions idle for longer than ttl and returns how many were
// removed. Sessions with a submission in flight are kept.
func (sm *SessionManager) SweepIdle(ttl time.Duration) int {
	cutoff := sm.now().Add(-ttl)

	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for userID, s := range sm.sessions {
		if !s.lastActivity.Before(cutoff) || s.engine.inFlight() {
			continue
		}
		delete(sm.sessions, userID)
		removed++
	}
	return removed
}
