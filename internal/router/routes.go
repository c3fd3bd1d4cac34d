// internal/router/routes.go

// Package router models the navigable routes of the storefront and the
// guard that gates every navigation on authentication state.
package router

// Route names
const (
	RouteLogin     = "login"
	RouteRegister  = "register"
	RouteDashboard = "dashboard"
	RouteProducts  = "products"
	RouteOrders    = "orders"
)

// Route describes one navigable path. RequiresAuth and GuestOnly are
// mutually exclusive; a route with neither set is open to everyone.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
	GuestOnly    bool
}

// Routes returns the storefront route table. The dashboard children
// inherit its authentication requirement.
func Routes() []Route {
	return []Route{
		{Name: RouteLogin, Path: "/login", GuestOnly: true},
		{Name: RouteRegister, Path: "/register", GuestOnly: true},
		{Name: RouteDashboard, Path: "/", RequiresAuth: true},
		{Name: RouteProducts, Path: "/products", RequiresAuth: true},
		{Name: RouteOrders, Path: "/orders", RequiresAuth: true},
	}
}

// Lookup finds a route by name
func Lookup(name string) (Route, bool) {
	for _, route := range Routes() {
		if route.Name == name {
			return route, true
		}
	}
	return Route{}, false
}
