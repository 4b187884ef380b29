// Package session owns the authenticated user state: the token pair, the
// profile, and their persistence. It is the client's token source, so a
// transparent refresh lands here and is written through to local storage.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/storage"
)

const storageKey = "auth-storage"

// persisted is the subset written to local storage.
type persisted struct {
	AccessToken     string    `json:"accessToken"`
	RefreshToken    string    `json:"refreshToken"`
	User            *api.User `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// Snapshot is an immutable view of the session.
type Snapshot struct {
	User          *api.User
	Authenticated bool
}

// Store holds the session state.
type Store struct {
	mu            sync.RWMutex
	access        string
	refresh       string
	user          *api.User
	authenticated bool
	local         *storage.Store
	client        *api.Client
}

// Load builds a Store, restoring any persisted session. A nil local
// store keeps the session in memory only.
func Load(local *storage.Store) *Store {
	s := &Store{local: local}
	if local == nil {
		return s
	}
	var doc persisted
	if ok, err := local.Get(storageKey, &doc); err == nil && ok {
		s.access = doc.AccessToken
		s.refresh = doc.RefreshToken
		s.user = doc.User
		s.authenticated = doc.IsAuthenticated
	}
	return s
}

// SetClient attaches the API client. The client needs the store as its
// token source and the store needs the client for login, so wiring
// happens in two steps.
func (s *Store) SetClient(client *api.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// Login exchanges credentials for a token pair and loads the profile.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("session: no api client attached")
	}

	auth, err := client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		s.Clear()
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.access = auth.AccessToken
	s.refresh = auth.RefreshToken
	s.persistLocked()
	s.mu.Unlock()

	return s.LoadProfile(ctx)
}

// LoadProfile fetches the authenticated user and marks the session
// authenticated.
func (s *Store) LoadProfile(ctx context.Context) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("session: no api client attached")
	}

	user, err := client.Profile(ctx)
	if err != nil {
		s.mu.Lock()
		s.authenticated = false
		s.persistLocked()
		s.mu.Unlock()
		return fmt.Errorf("load profile: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.authenticated = true
	s.persistLocked()
	s.mu.Unlock()
	return nil
}

// Logout drops the session.
func (s *Store) Logout() {
	s.Clear()
}

// Snapshot returns a copy of the session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Authenticated: s.authenticated}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// TokenExpiry reports the access token's expiry, read from its claims
// without signature verification. Verification is the server's job; the
// client only uses this for display and proactive refresh hints.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	access := s.access
	s.mu.RUnlock()
	if access == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// AccessToken implements api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken implements api.TokenSource.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// UpdateTokens implements api.TokenSource; the client calls it after a
// transparent refresh.
func (s *Store) UpdateTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	s.persistLocked()
}

// Clear implements api.TokenSource; dropping both tokens forces the user
// back to the sign-in entry point.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.user = nil
	s.authenticated = false
	s.persistLocked()
}

func (s *Store) persistLocked() {
	if s.local == nil {
		return
	}
	_ = s.local.Set(storageKey, persisted{
		AccessToken:     s.access,
		RefreshToken:    s.refresh,
		User:            s.user,
		IsAuthenticated: s.authenticated,
	})
}
