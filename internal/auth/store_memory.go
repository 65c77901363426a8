package auth

import (
	"context"
	"strings"
	"sync"

	id "sajag/pkg/domain"
	"sajag/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users keyed by ID with a lowercase email index.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*User
	byEmail map[string]id.UserID
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]*User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.users[uid]
	return &cp, nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryUserStore) Save(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if existing, taken := s.byEmail[key]; taken && existing != user.ID {
		return sentinel.ErrConflict
	}
	if old, ok := s.users[user.ID]; ok {
		delete(s.byEmail, strings.ToLower(old.Email))
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[key] = user.ID
	return nil
}
