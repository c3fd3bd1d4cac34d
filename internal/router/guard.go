// internal/router/guard.go
package router

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/domain/auth"
)

// Decision is the guard's verdict on one navigation attempt. When
// Allowed is false, RedirectTo names the route to go to instead.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Guard runs before every navigation and consults only the auth store
type Guard struct {
	auth   *auth.Store
	logger *logrus.Logger
}

// NewGuard creates a navigation guard over the given auth store
func NewGuard(authStore *auth.Store, logger *logrus.Logger) *Guard {
	return &Guard{
		auth:   authStore,
		logger: logger,
	}
}

// Resolve decides whether navigation to the target route proceeds.
// Navigation suspends until this returns.
//
// When a token is present but no user is cached yet, the profile is
// fetched first; a failed fetch clears the session and resolution
// continues with the updated state.
func (g *Guard) Resolve(ctx context.Context, to Route) Decision {
	if g.auth.Token() != "" && g.auth.User() == nil {
		g.auth.FetchProfile(ctx)
	}

	if to.RequiresAuth && !g.auth.IsAuthenticated() {
		g.logger.WithField("route", to.Name).Debug("Navigation blocked, redirecting to login")
		return Decision{RedirectTo: RouteLogin}
	}

	if to.GuestOnly && g.auth.IsAuthenticated() {
		g.logger.WithField("route", to.Name).Debug("Guest-only route while authenticated, redirecting to dashboard")
		return Decision{RedirectTo: RouteDashboard}
	}

	return Decision{Allowed: true}
}
