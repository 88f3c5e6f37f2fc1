package accounts

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage implements TokenStorage and UserStorage in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	tokens map[string]Token
	users  map[string]User
	now    func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tokens: make(map[string]Token),
		users:  make(map[string]User),
		now:    time.Now,
	}
}

func (s *MemoryStorage) CreateToken(_ context.Context, token Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.UID] = token
	return nil
}

func (s *MemoryStorage) GetToken(_ context.Context, uid string) (Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[uid]
	if !ok {
		return Token{}, ErrTokenNotFound
	}
	return t, nil
}

func (s *MemoryStorage) DeleteToken(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[uid]; !ok {
		return ErrTokenNotFound
	}
	delete(s.tokens, uid)
	return nil
}

func (s *MemoryStorage) GetUser(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryStorage) GetOrCreateUser(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	u := User{Email: email, CreatedAt: s.now()}
	s.users[email] = u
	return u, nil
}

// TokenCount reports how many tokens are stored.
func (s *MemoryStorage) TokenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
