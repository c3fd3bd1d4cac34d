// internal/domain/auth/store.go

// Package auth holds the client-side session: the bearer token, the user
// it identifies, and the login/register/logout/profile operations. The
// token alone decides authentication; the user object may lag behind it
// until the profile is fetched.
package auth

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/pkg/apierror"
	"github.com/your-org/storefront-client/internal/session"
)

// Store is the session state store
type Store struct {
	client   *api.Client
	sessions session.Store
	logger   *logrus.Logger

	mu      sync.Mutex
	token   string
	user    *User
	loading bool
	lastErr string
}

// NewStore creates the auth store and restores any persisted token.
// The user stays nil until FetchProfile succeeds.
func NewStore(client *api.Client, sessions session.Store, logger *logrus.Logger) *Store {
	s := &Store{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}

	token, err := sessions.Load()
	if err != nil {
		logger.WithError(err).Warn("Failed to restore persisted token")
	} else if token != "" {
		s.token = token
		client.SetToken(token)
	}

	return s
}

// Token returns the current bearer token, empty when unauthenticated
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the cached user, nil until the profile has been fetched
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether an auth action is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display message of the last failed action
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// IsAuthenticated is derived strictly from token presence, independent
// of whether the user object has been loaded
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Login exchanges credentials for a session
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.begin()
	defer s.end()

	var result Success
	if err := s.client.Post(ctx, "/auth/login", Credentials{Email: email, Password: password}, &result); err != nil {
		s.fail("Failed to login", err)
		return err
	}

	s.setSession(result)
	return nil
}

// Register creates an account. The session is only established when the
// response carries the nested token payload.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.begin()
	defer s.end()

	var result registerResponse
	payload := RegisterPayload{Name: name, Email: email, Password: password}
	if err := s.client.Post(ctx, "/auth/register", payload, &result); err != nil {
		s.fail("Failed to register", err)
		return err
	}

	if result.Token != nil {
		s.setSession(*result.Token)
	}
	return nil
}

// Logout best-effort notifies the server, then unconditionally clears
// the local session. Server failures are swallowed: the local outcome is
// the same either way.
func (s *Store) Logout(ctx context.Context) {
	if s.Token() != "" {
		if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
			s.logger.WithError(err).Debug("Server-side logout failed, clearing session anyway")
		}
	}
	s.clearSession()
}

// FetchProfile loads the user identified by the current token. A no-op
// without a token. Any failure invalidates the whole session rather than
// surfacing as a transient error.
func (s *Store) FetchProfile(ctx context.Context) {
	if s.Token() == "" {
		return
	}

	var user User
	if err := s.client.Get(ctx, "/auth/me", &user); err != nil {
		s.logger.WithError(err).Info("Profile fetch failed, invalidating session")
		s.clearSession()
		return
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

// setSession stores the token and user and mirrors the token into the
// durable cell
func (s *Store) setSession(payload Success) {
	s.mu.Lock()
	s.token = payload.AccessToken
	user := payload.User
	s.user = &user
	s.mu.Unlock()

	s.client.SetToken(payload.AccessToken)
	if err := s.sessions.Save(payload.AccessToken); err != nil {
		s.logger.WithError(err).Warn("Failed to persist token")
	}
}

// clearSession drops the token and user and the durable cell
func (s *Store) clearSession() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.client.ClearToken()
	if err := s.sessions.Clear(); err != nil {
		s.logger.WithError(err).Warn("Failed to clear persisted token")
	}
}

// begin marks an action in flight and clears the previous error
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

// end clears the in-flight flag regardless of outcome
func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// fail records the extracted display message; the original error is
// still returned to the caller
func (s *Store) fail(what string, err error) {
	s.mu.Lock()
	s.lastErr = apierror.Message(err)
	s.mu.Unlock()
	s.logger.WithError(err).Error(what)
}
