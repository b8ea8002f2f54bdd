// ABOUTME: Credential store, the single source of truth for authentication state
// ABOUTME: Owns access/refresh tokens across storage scopes and the user snapshot

package auth

import (
	"log/slog"
	"sync"
	"time"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// User is the authenticated user's snapshot: profile plus last known home
// location. Populated best-effort after login or session restore.
type User struct {
	ID       string
	Username string
	Email    string

	// Home location; nil until the backend has one
	Location   *geo.Point
	LocationAt time.Time
}

// Store holds the current credential set. The access token lives in
// session-scoped storage, the refresh token in durable storage, the user
// snapshot in memory only. Only Store methods mutate any of it.
type Store struct {
	mu      sync.Mutex
	access  string
	refresh string
	user    *User

	session Storage
	durable Storage
}

// NewStore creates a credential store over the two storage scopes.
func NewStore(session, durable Storage) *Store {
	return &Store{session: session, durable: durable}
}

// SetCredentials records a fresh token pair. The access token goes to
// session storage; the refresh token goes to durable storage only when the
// backend actually returned one (refresh responses may omit it).
func (s *Store) SetCredentials(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	if err := s.session.Set(accessTokenKey, access); err != nil {
		slog.Warn("Failed to persist access token", "error", err)
	}

	if refresh != "" {
		s.refresh = refresh
		if err := s.durable.Set(refreshTokenKey, refresh); err != nil {
			slog.Warn("Failed to persist refresh token", "error", err)
		}
	}
}

// AccessToken returns the in-memory access token, restoring it from
// session storage first when memory is empty.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access == "" {
		if stored, ok := s.session.Get(accessTokenKey); ok {
			s.access = stored
		}
	}
	return s.access
}

// RefreshToken returns the refresh token, falling back to durable storage.
// Empty means no refresh is possible.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresh == "" {
		if stored, ok := s.durable.Get(refreshTokenKey); ok {
			s.refresh = stored
		}
	}
	return s.refresh
}

// Authenticated reports whether an access token is currently held.
func (s *Store) Authenticated() bool {
	return s.AccessToken() != ""
}

// User returns the current user snapshot, nil when unknown.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser replaces the user snapshot.
func (s *Store) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// SetUserLocation updates just the location part of the snapshot.
// No-op while no user is known.
func (s *Store) SetUserLocation(p geo.Point, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	s.user.Location = &p
	s.user.LocationAt = at
}

// Logout clears tokens and the user snapshot from memory and both storage
// scopes. Never fails; storage errors are logged and swallowed.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""
	s.user = nil

	if err := s.session.Delete(accessTokenKey); err != nil {
		slog.Warn("Failed to clear access token", "error", err)
	}
	if err := s.durable.Delete(refreshTokenKey); err != nil {
		slog.Warn("Failed to clear refresh token", "error", err)
	}
}
