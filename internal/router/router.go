package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/restaurant-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/restaurant-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to issue a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Register a POST endpoint to log out.  The handler accepts either a
	// JSON body containing a `refresh_token` (single session) or a bearer
	// access token (all sessions) and invalidates accordingly.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Both STAFF and CUSTOMER roles may introspect their own session.  The
	// middleware rejects requests with missing or unknown roles.
	auth.Use(middleware.RequireRole("STAFF", "CUSTOMER"))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)

	// Additionally map POST /v1/logout to the same handler.  This route lives
	// at the top level (outside of the protected group) so it does not
	// require a JWT.  Clients can therefore call either /v1/auth/logout or
	// /v1/logout with a valid refresh token in the body to terminate a
	// session.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The provided PublicHandler exposes handlers that return
// sanitized data for venues, their tables and menus, plus the advisory
// availability probe.  These routes do not apply any JWT or role middleware
// and are intended for guest users.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Expose list of all venues
	e.GET("/v1/venues", p.GetPublicVenues)
	// Venue details by venue id
	e.GET("/v1/venues/:id", p.GetPublicVenue)
	// List bookable tables of a specific venue
	e.GET("/v1/venues/:id/tables", p.GetPublicTables)
	// List the available menu of a specific venue
	e.GET("/v1/venues/:id/menu", p.GetPublicMenu)
	// Probe whether a table could admit a reservation at a given slot.
	// The answer is advisory; reservation creation re-checks under lock.
	e.GET("/v1/venues/:id/availability", p.CheckAvailability)
}

// RegisterWebhooks registers callback endpoints invoked by external
// systems rather than end users.  The payment gateway authenticates
// with a shared header secret checked inside the handler, so no JWT
// middleware applies here.
func RegisterWebhooks(e *echo.Echo, p *handler.PaymentHandler) {
	e.POST("/v1/payments/webhook", p.Webhook)
}
