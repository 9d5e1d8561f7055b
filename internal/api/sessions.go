// internal/api/sessions.go
package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/models"
	"capital-match/internal/simulation"
	"capital-match/internal/visualizer"
)

// Session is one in-memory match view: the visualizer state plus its
// simulation panel. Sessions are never persisted.
type Session struct {
	ID        string
	CreatedAt time.Time

	view *visualizer.View
	sim  *simulation.State

	mu       sync.Mutex
	lastSeen time.Time
}

// Select changes the LP/deal pair. Any open simulation is discarded because
// its parameters were seeded from the previous deal.
func (s *Session) Select(lp *models.LP, deal *models.Deal) {
	s.sim.Deactivate()
	s.view.Select(lp, deal)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionSnapshot is the JSON view of a session.
type SessionSnapshot struct {
	ID         string                     `json:"id"`
	View       visualizer.Snapshot        `json:"view"`
	Simulation simulation.Snapshot        `json:"simulation"`
	Confidence *visualizer.ConfidenceBand `json:"confidence,omitempty"`
}

// Snapshot renders the session. The confidence bar shows the simulated score
// while a simulation result is on screen and the evaluated score otherwise.
func (s *Session) Snapshot(hovered string) SessionSnapshot {
	snap := SessionSnapshot{
		ID:         s.ID,
		View:       s.view.Snapshot(hovered),
		Simulation: s.sim.Snapshot(),
	}
	switch {
	case snap.Simulation.Result != nil:
		band := visualizer.BandFor(snap.Simulation.Result.ConfidenceScore)
		snap.Confidence = &band
	case snap.View.Diagram != nil:
		band := snap.View.Diagram.Confidence
		snap.Confidence = &band
	}
	return snap
}

// SessionFactory builds the collaborators of a new session.
type SessionFactory func(id string) (*visualizer.View, *simulation.State)

// SessionStore keeps sessions in memory and expires them after an idle TTL.
type SessionStore struct {
	ttl     time.Duration
	factory SessionFactory
	logger  logger.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore(ttl time.Duration, factory SessionFactory, log logger.Logger) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		factory:  factory,
		logger:   logger.Component(log, "api.sessions"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (st *SessionStore) Create() *Session {
	id := uuid.NewString()
	view, sim := st.factory(id)
	now := st.now()
	s := &Session{ID: id, CreatedAt: now, view: view, sim: sim, lastSeen: now}

	st.mu.Lock()
	st.sessions[id] = s
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ViewSessionsActive.Set(float64(n))
	return s
}

// Get returns a live session and refreshes its idle timer.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, errors.NewSessionNotFoundError(id)
	}
	now := st.now()
	if st.ttl > 0 && now.Sub(s.idleSince()) > st.ttl {
		st.remove(id)
		return nil, errors.NewSessionNotFoundError(id)
	}
	s.touch(now)
	return s, nil
}

func (st *SessionStore) Delete(id string) error {
	if !st.remove(id) {
		return errors.NewSessionNotFoundError(id)
	}
	return nil
}

func (st *SessionStore) remove(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if ok {
		s.view.Close()
		metrics.ViewSessionsActive.Set(float64(n))
	}
	return ok
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()
	var expired []string
	st.mu.RLock()
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > st.ttl {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()

	n := 0
	for _, id := range expired {
		if st.remove(id) {
			n++
		}
	}
	if n > 0 {
		st.logger.Info("expired idle sessions", map[string]interface{}{"count": n})
	}
	return n
}

// Run sweeps on every interval until ctx is done, then closes every session.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			st.Close()
			return nil
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// Close drops every session and cancels their in-flight evaluations.
func (st *SessionStore) Close() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range all {
		s.view.Close()
	}
	metrics.ViewSessionsActive.Set(0)
}
