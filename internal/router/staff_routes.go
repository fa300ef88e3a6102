package router // router defines how HTTP routes are registered for the API

import (
	"github.com/iliyamo/restaurant-reservation/internal/handler"    // staff handlers
	"github.com/iliyamo/restaurant-reservation/internal/middleware" // JWT + role middlewares
	"github.com/labstack/echo/v4"
)

// RegisterStaff registers STAFF-scoped endpoints under /v1.
// All routes require a valid JWT and STAFF role; venue scoping is
// enforced inside the handlers through the venue_id token claim.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, p *handler.PaymentHandler, n *handler.NotificationHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STAFF"),
	)

	// ---- Venue ----
	g.POST("/venues", s.CreateVenue)
	// NOTE: Listing venues is handled by the public browse API.  Staff-scoped
	// reads operate on the venue bound to the account.
	g.GET("/staff/venue", s.GetMyVenue)
	g.PATCH("/staff/venue", s.UpdateMyVenue)
	g.DELETE("/staff/venue", s.DeleteMyVenue)

	// ---- Tables ----
	g.POST("/staff/tables", s.CreateTable)
	g.GET("/staff/tables", s.ListTables)
	g.GET("/staff/tables/:id", s.GetTable)
	g.PATCH("/staff/tables/:id", s.UpdateTable)
	g.DELETE("/staff/tables/:id", s.DeleteTable)
	// Printable QR code linking to the public menu
	g.GET("/staff/tables/:id/qr", s.TableQR)

	// ---- Menu ----
	g.POST("/staff/menu", s.CreateMenuItem)
	g.GET("/staff/menu", s.ListMenuItems)
	g.PATCH("/staff/menu/:id", s.UpdateMenuItem)
	g.DELETE("/staff/menu/:id", s.DeleteMenuItem)

	// ---- Reservations ----
	g.GET("/staff/reservations", s.ListVenueReservations)
	g.GET("/staff/reservations/:id", s.GetVenueReservation)
	g.PATCH("/staff/reservations/:id/status", s.UpdateReservationStatus)
	g.POST("/staff/reservations/:id/cancellation/approve", s.ApproveCancellation)
	g.POST("/staff/reservations/:id/cancellation/reject", s.RejectCancellation)

	// ---- Orders ----
	g.GET("/staff/orders", s.ListVenueOrders)
	g.GET("/staff/orders/:id", s.GetVenueOrder)
	g.PATCH("/staff/orders/:id/status", s.UpdateOrderStatus)
	g.POST("/staff/orders/:id/payments", p.RecordManualPayment)
	g.GET("/staff/orders/:id/payments", p.ListOrderPayments)

	// ---- Staff accounts ----
	g.POST("/staff/users", s.AddStaff)
	g.GET("/staff/users", s.ListStaff)

	// ---- Notifications ----
	g.GET("/staff/notifications", n.ListVenueNotifications)
	g.POST("/staff/notifications/:id/read", n.MarkVenueNotificationRead)
	g.DELETE("/staff/notifications/:id", n.DeleteVenueNotification)
}
