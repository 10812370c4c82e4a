package storage

import (
	"sync"

	"github.com/mapclick/map-quiz-bot/internal/quiz"
)

// SessionStore holds one quiz controller per chat, in memory.
type SessionStore struct {
	mu          sync.RWMutex
	controllers map[int64]*quiz.Controller
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		controllers: make(map[int64]*quiz.Controller),
	}
}

// GetOrCreate returns the controller for the chat, creating it with the
// given factory when the chat has none yet.
func (s *SessionStore) GetOrCreate(chatID int64, create func() *quiz.Controller) *quiz.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[chatID]; ok {
		return c
	}

	c := create()
	s.controllers[chatID] = c
	return c
}

// Get returns the controller for the chat, or nil.
func (s *SessionStore) Get(chatID int64) *quiz.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controllers[chatID]
}

// Delete removes the controller for the chat.
func (s *SessionStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.controllers, chatID)
}
