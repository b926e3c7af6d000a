package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/kv"
)

// Keys in the local store.
const (
	keyToken = "token"
	keyUser  = "user"
	keyPlan  = "plan"
)

const demoTokenPrefix = "demo-token-"

// Session is the authenticated state of one client, backed by a kv.Store.
type Session struct {
	mu    sync.RWMutex
	store kv.Store
	token string
	user  *domain.User
}

// LoadSession reads the token and user saved by a previous run.
func LoadSession(ctx context.Context, store kv.Store) (*Session, error) {
	s := &Session{store: store}
	token, _, err := store.Get(ctx, keyToken)
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	var user domain.User
	found, err := kv.GetJSON(ctx, store, keyUser, &user)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	s.token = token
	if found {
		s.user = &user
	}
	return s, nil
}

// Set records a login or registration.
func (s *Session) Set(ctx context.Context, token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, keyToken, token); err != nil {
		return err
	}
	if user != nil {
		if err := kv.SetJSON(ctx, s.store, keyUser, user); err != nil {
			return err
		}
	}
	s.token, s.user = token, user
	return nil
}

// Clear logs out and removes everything the session cached.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = "", nil
	for _, key := range []string{keyToken, keyUser, keyPlan} {
		if err := s.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Demo reports whether the session was synthesized offline.
func (s *Session) Demo() bool {
	return strings.HasPrefix(s.Token(), demoTokenPrefix)
}

// Store exposes the backing store for cached data.
func (s *Session) Store() kv.Store {
	return s.store
}
