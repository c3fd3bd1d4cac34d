// internal/domain/auth/store_test.go
package auth_test

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/domain/auth"
	"github.com/your-org/storefront-client/internal/pkg/apitest"
	"github.com/your-org/storefront-client/internal/session"
)

type env struct {
	backend  *apitest.Server
	client   *api.Client
	sessions *session.FileStore
	store    *auth.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()

	backend := apitest.NewServer()
	require.NoError(t, backend.SeedUser("Ada", "ada@example.com", "correct horse"))

	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	cfg := &config.Config{
		API: config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := api.NewClient(cfg, logger)
	sessions := session.NewFileStore(filepath.Join(t.TempDir(), "token"))

	return &env{
		backend:  backend,
		client:   client,
		sessions: sessions,
		store:    auth.NewStore(client, sessions, logger),
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.Login(ctx, "ada@example.com", "correct horse"))

	assert.True(t, e.store.IsAuthenticated())
	assert.NotEmpty(t, e.store.Token())
	require.NotNil(t, e.store.User())
	assert.Equal(t, "ada@example.com", e.store.User().Email)
	assert.False(t, e.store.Loading())
	assert.Empty(t, e.store.Err())

	// Token mirrored into the durable cell
	persisted, err := e.sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, e.store.Token(), persisted)
}

func TestLoginFailureRecordsMessageAndReturnsError(t *testing.T) {
	e := newEnv(t)

	err := e.store.Login(context.Background(), "ada@example.com", "wrong password")
	require.Error(t, err)

	assert.Equal(t, "Invalid credentials", e.store.Err())
	assert.False(t, e.store.IsAuthenticated())
	assert.False(t, e.store.Loading())
}

func TestLoginValidationFailureSurfacesFirstFieldMessage(t *testing.T) {
	e := newEnv(t)

	err := e.store.Login(context.Background(), "", "")
	require.Error(t, err)

	assert.Equal(t, "The email field is required.", e.store.Err())
}

func TestRegisterEstablishesSessionWhenTokenPresent(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.store.Register(context.Background(), "Grace", "grace@example.com", "longenough"))

	assert.True(t, e.store.IsAuthenticated())
	require.NotNil(t, e.store.User())
	assert.Equal(t, "grace@example.com", e.store.User().Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)

	err := e.store.Register(context.Background(), "Ada Again", "ada@example.com", "longenough")
	require.Error(t, err)

	assert.Equal(t, "The email has already been taken.", e.store.Err())
	assert.False(t, e.store.IsAuthenticated())
}

func TestLogoutClearsSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.Login(ctx, "ada@example.com", "correct horse"))
	e.store.Logout(ctx)

	assert.False(t, e.store.IsAuthenticated())
	assert.Empty(t, e.store.Token())
	assert.Nil(t, e.store.User())

	persisted, err := e.sessions.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestLogoutWithoutTokenIsLocalOnly(t *testing.T) {
	e := newEnv(t)

	before := e.backend.RequestCount()
	e.store.Logout(context.Background())

	assert.Equal(t, before, e.backend.RequestCount())
	assert.False(t, e.store.IsAuthenticated())
}

func TestRestoredTokenAuthenticatesWithoutUser(t *testing.T) {
	e := newEnv(t)

	token, err := e.backend.IssueToken("ada@example.com")
	require.NoError(t, err)
	require.NoError(t, e.sessions.Save(token))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	restored := auth.NewStore(e.client, e.sessions, logger)

	// Authenticated purely from token presence; the user lags behind
	assert.True(t, restored.IsAuthenticated())
	assert.Nil(t, restored.User())

	restored.FetchProfile(context.Background())
	require.NotNil(t, restored.User())
	assert.Equal(t, "Ada", restored.User().Name)
}

func TestFetchProfileFailureInvalidatesSession(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.sessions.Save("expired-or-garbage-token"))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	restored := auth.NewStore(e.client, e.sessions, logger)
	require.True(t, restored.IsAuthenticated())

	restored.FetchProfile(context.Background())

	assert.False(t, restored.IsAuthenticated())
	assert.Empty(t, restored.Token())
	assert.Nil(t, restored.User())

	persisted, err := e.sessions.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestFetchProfileWithoutTokenIsNoOp(t *testing.T) {
	e := newEnv(t)

	before := e.backend.RequestCount()
	e.store.FetchProfile(context.Background())

	assert.Equal(t, before, e.backend.RequestCount())
}
