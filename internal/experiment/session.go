package experiment

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/copyleftdev/VALOR/internal/errors"
	"github.com/copyleftdev/VALOR/internal/fitting"
)

// Session is one subject's adaptive experiment: a parameter space,
// an append-only trial history, and fit configuration. It replaces
// any ambient client state with an explicit object the caller
// constructs and discards. Sessions are safe for concurrent use, and
// fits of distinct sessions share no state.
type Session struct {
	ID        string
	Space     ParameterSpace
	CreatedAt time.Time

	fitOpts fitting.Options

	mu     sync.RWMutex
	trials []Trial
}

// NewSession creates a session over the given parameter space.
func NewSession(space ParameterSpace, fitOpts fitting.Options) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Space:     space,
		CreatedAt: time.Now().UTC(),
		fitOpts:   fitOpts,
	}
}

// Record appends an observed trial. Trials outside the parameter
// space are rejected; the fitting core assumes its inputs respect the
// configured bounds.
func (s *Session) Record(t Trial) error {
	if t.Choice != 0 && t.Choice != 1 {
		return errors.Errorf("trial choice must be 0 or 1, got %d", t.Choice).
			WithOperation("record").
			WithComponent("experiment")
	}
	if !s.Space.Contains(t) {
		return errors.New("trial stimulus is outside the configured parameter space").
			WithOperation("record").
			WithComponent("experiment")
	}

	s.mu.Lock()
	s.trials = append(s.trials, t)
	s.mu.Unlock()
	return nil
}

// Burnin seeds the session with the six standard burn-in trials.
func (s *Session) Burnin() {
	s.mu.Lock()
	s.trials = append(s.trials, BurninTrials()...)
	s.mu.Unlock()
}

// Trials returns a copy of the recorded history.
func (s *Session) Trials() []Trial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Trial(nil), s.trials...)
}

// Len returns the number of recorded trials.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trials)
}

// Fit estimates the hyperbolic discounting parameters from a snapshot
// of the current history. The returned record is what the external
// trial-selection process consumes to propose the next stimulus.
func (s *Session) Fit() (fitting.HyperbolicFit, error) {
	s.mu.RLock()
	data := make(fitting.Dataset, len(s.trials))
	for i, t := range s.trials {
		data[i] = t.Observation()
	}
	s.mu.RUnlock()

	return fitting.FitHyperbolic(data, s.fitOpts)
}
