// Package session keeps one quiz aggregator per HTTP client session.
package session

import (
	"context"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/service"
	"quiz-forge/internal/util"
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	mu         sync.Mutex
	aggregator *service.QuizAggregator
	lastUsed   time.Time
}

// Store is a registry of live sessions. Operations on one session run one
// at a time; different sessions proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	newAggregator func(id string) *service.QuizAggregator
	ttl           time.Duration
	now           func() time.Time
	onEvict       func(id string)
}

// NewStore creates an empty registry. newAggregator receives the id of the
// session being created. Sessions idle for longer than ttl are removed by
// Sweep; a non-positive ttl disables sweeping.
func NewStore(newAggregator func(id string) *service.QuizAggregator, ttl time.Duration) *Store {
	return &Store{
		sessions:      make(map[string]*entry),
		newAggregator: newAggregator,
		ttl:           ttl,
		now:           time.Now,
	}
}

// OnEvict registers a callback run after a session is deleted or swept.
func (s *Store) OnEvict(fn func(id string)) {
	s.mu.Lock()
	s.onEvict = fn
	s.mu.Unlock()
}

// Create opens a session with an empty aggregator and returns its id.
func (s *Store) Create() string {
	id := util.NewULID()
	e := &entry{aggregator: s.newAggregator(id), lastUsed: s.now()}

	s.mu.Lock()
	s.sessions[id] = e
	n := len(s.sessions)
	s.mu.Unlock()

	logger.Get().Info("Session created", zap.String("session_id", id), zap.Int("active_sessions", n))
	return id
}

// Do runs fn with the session's aggregator while holding the session lock.
func (s *Store) Do(id string, fn func(a *service.QuizAggregator) error) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domain.NewSessionNotFoundError(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()
	return fn(e.aggregator)
}

// Delete removes the session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	onEvict := s.onEvict
	s.mu.Unlock()

	if ok && onEvict != nil {
		onEvict(id)
	}
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns their ids.
// Sessions with an operation in flight are kept.
func (s *Store) Sweep() []string {
	if s.ttl <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []string
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
		e.mu.Unlock()
	}
	onEvict := s.onEvict
	s.mu.Unlock()

	if len(expired) > 0 {
		logger.Get().Info("Swept idle sessions", zap.Int("expired", len(expired)), zap.Int("active_sessions", s.Len()))
	}
	if onEvict != nil {
		for _, id := range expired {
			onEvict(id)
		}
	}
	return expired
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
