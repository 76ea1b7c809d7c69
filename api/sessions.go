package api

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var errSessionNotFound = errors.New("session not found")

type session[T any] struct {
	mu    sync.Mutex
	value T
}

// sessionStore keeps game sessions in memory. each session is locked
// for the length of a request, different sessions don't contend
type sessionStore[T any] struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session[T]
}

func newSessionStore[T any]() *sessionStore[T] {
	return &sessionStore[T]{
		sessions: map[uuid.UUID]*session[T]{},
	}
}

func (s *sessionStore[T]) add(value T) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session[T]{value: value}
	return id
}

func (s *sessionStore[T]) with(rawID string, fn func(T) error) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("%w: %s", errSessionNotFound, rawID)
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", errSessionNotFound, id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.value)
}

func (s *sessionStore[T]) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
