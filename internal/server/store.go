package server

import (
	"math"
	"sync"

	"github.com/copyleftdev/VALOR/internal/experiment"
)

// sessionStore holds live experiment sessions keyed by ID.
// Access is guarded so concurrent handlers can create, fit and delete
// sessions independently.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*experiment.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*experiment.Session)}
}

func (st *sessionStore) put(s *experiment.Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

func (st *sessionStore) get(id string) (*experiment.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *sessionStore) delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *sessionStore) clear() {
	st.mu.Lock()
	st.sessions = make(map[string]*experiment.Session)
	st.mu.Unlock()
}

// logGuess converts natural-scale starting values to the log-domain
// vector the estimator expects.
func logGuess(k, beta float64) []float64 {
	return []float64{math.Log(k), math.Log(beta)}
}
