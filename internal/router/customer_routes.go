package router

import (
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  Customers can create
// reservations, request cancellations, place orders, open gateway
// payments and manage their notification inbox.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, p *handler.PaymentHandler, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Note: GET /v1/venues, /v1/venues/:id/tables, /v1/venues/:id/menu and
	// the availability probe are registered on the public router so that
	// guests can browse before signing up.  Customer-specific endpoints
	// begin here.
	g.POST("/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	// Customers never cancel directly; they file a request which staff
	// approve or reject.
	g.POST("/reservations/:id/cancellation", h.RequestCancellation)
	g.PATCH("/reservations/:id/requests", h.UpdateSpecialRequests)

	// ---- Orders ----
	g.POST("/orders", h.CreateOrder)
	g.GET("/my-orders", h.ListOrders)
	g.GET("/orders/:id", h.GetOrder)
	g.POST("/orders/:id/payments", p.CreateGatewayPayment)

	// ---- Notifications ----
	g.GET("/my-notifications", n.ListMyNotifications)
	g.POST("/my-notifications/:id/read", n.MarkMyNotificationRead)
	g.DELETE("/my-notifications/:id", n.DeleteMyNotification)
}
