// internal/router/guard_test.go
package router_test

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
	"github.com/your-org/storefront-client/internal/router"
	"github.com/your-org/storefront-client/internal/session"
)

type env struct {
	backend  *apitest.Server
	sessions *session.FileStore
	client   *api.Client
	auth     *auth.Store
	guard    *router.Guard
	logger   *logrus.Logger
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
	authStore := auth.NewStore(client, sessions, logger)

	return &env{
		backend:  backend,
		sessions: sessions,
		client:   client,
		auth:     authStore,
		guard:    router.NewGuard(authStore, logger),
		logger:   logger,
	}
}

func mustRoute(t *testing.T, name string) router.Route {
	t.Helper()
	route, ok := router.Lookup(name)
	require.True(t, ok, "route %s missing from table", name)
	return route
}

func TestRouteTable(t *testing.T) {
	login := mustRoute(t, router.RouteLogin)
	assert.True(t, login.GuestOnly)
	assert.False(t, login.RequiresAuth)

	register := mustRoute(t, router.RouteRegister)
	assert.True(t, register.GuestOnly)

	for _, name := range []string{router.RouteDashboard, router.RouteProducts, router.RouteOrders} {
		route := mustRoute(t, name)
		assert.True(t, route.RequiresAuth, "%s must require auth", name)
		assert.False(t, route.GuestOnly)
	}

	_, ok := router.Lookup("no-such-route")
	assert.False(t, ok)
}

func TestGuardDecisionMatrix(t *testing.T) {
	protected := router.Route{Name: "settings", RequiresAuth: true}
	guestOnly := router.Route{Name: "welcome", GuestOnly: true}
	open := router.Route{Name: "about"}

	t.Run("unauthenticated", func(t *testing.T) {
		e := newEnv(t)
		ctx := context.Background()

		decision := e.guard.Resolve(ctx, protected)
		assert.False(t, decision.Allowed)
		assert.Equal(t, router.RouteLogin, decision.RedirectTo)

		assert.True(t, e.guard.Resolve(ctx, guestOnly).Allowed)
		assert.True(t, e.guard.Resolve(ctx, open).Allowed)
	})

	t.Run("authenticated", func(t *testing.T) {
		e := newEnv(t)
		ctx := context.Background()
		require.NoError(t, e.auth.Login(ctx, "ada@example.com", "correct horse"))

		assert.True(t, e.guard.Resolve(ctx, protected).Allowed)

		decision := e.guard.Resolve(ctx, guestOnly)
		assert.False(t, decision.Allowed)
		assert.Equal(t, router.RouteDashboard, decision.RedirectTo)

		assert.True(t, e.guard.Resolve(ctx, open).Allowed)
	})
}

func TestGuardLazilyFetchesProfile(t *testing.T) {
	e := newEnv(t)

	// Simulate a restored session: token persisted, user not yet loaded
	token, err := e.backend.IssueToken("ada@example.com")
	require.NoError(t, err)
	require.NoError(t, e.sessions.Save(token))
	restored := auth.NewStore(e.client, e.sessions, e.logger)
	guard := router.NewGuard(restored, e.logger)
	require.Nil(t, restored.User())

	decision := guard.Resolve(context.Background(), mustRoute(t, router.RouteDashboard))

	assert.True(t, decision.Allowed)
	require.NotNil(t, restored.User())
	assert.Equal(t, "ada@example.com", restored.User().Email)
}

func TestGuardExpiredTokenRedirectsToLogin(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.sessions.Save("expired-or-garbage-token"))
	restored := auth.NewStore(e.client, e.sessions, e.logger)
	guard := router.NewGuard(restored, e.logger)
	require.True(t, restored.IsAuthenticated())

	decision := guard.Resolve(context.Background(), mustRoute(t, router.RouteDashboard))

	// Profile fetch failed, session invalidated, navigation redirected
	assert.False(t, decision.Allowed)
	assert.Equal(t, router.RouteLogin, decision.RedirectTo)
	assert.False(t, restored.IsAuthenticated())
	assert.Nil(t, restored.User())
}

func TestGuardDoesNotRefetchCachedUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.auth.Login(ctx, "ada@example.com", "correct horse"))

	before := e.backend.RequestCount()
	e.guard.Resolve(ctx, mustRoute(t, router.RouteProducts))

	// User already cached; the guard consults only local state
	assert.Equal(t, before, e.backend.RequestCount())
}
