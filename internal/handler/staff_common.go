package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in context helpers
    "strconv" // strconv converts strings to numeric types

    "github.com/iliyamo/restaurant-reservation/internal/notify"      // notify writes inbox rows
    "github.com/iliyamo/restaurant-reservation/internal/repository"  // repository holds data access layer
    "github.com/labstack/echo/v4"                                    // echo defines request context types
)

// StaffHandler bundles repositories for staff to manage their venue's
// tables, menu, reservations, orders and payments.
type StaffHandler struct {
    VenueRepo        *repository.VenueRepo        // VenueRepo provides venue persistence
    TableRepo        *repository.TableRepo        // TableRepo provides table persistence
    MenuRepo         *repository.MenuRepo         // MenuRepo provides menu item persistence
    ReservationRepo  *repository.ReservationRepo  // ReservationRepo provides reservation persistence
    OrderRepo        *repository.OrderRepo        // OrderRepo provides order persistence
    PaymentRepo      *repository.PaymentRepo      // PaymentRepo provides payment persistence
    UserRepo         *repository.UserRepo         // UserRepo provides user persistence
    Notifier         *notify.Notifier             // Notifier records inbox notifications
    PublicBaseURL    string                       // PublicBaseURL prefixes QR code links
    BcryptCost       int                          // BcryptCost is used when creating staff accounts
}

// NewStaffHandler constructs a new StaffHandler and panics if any dependency is nil
func NewStaffHandler(venueRepo *repository.VenueRepo, tableRepo *repository.TableRepo, menuRepo *repository.MenuRepo, reservationRepo *repository.ReservationRepo, orderRepo *repository.OrderRepo, paymentRepo *repository.PaymentRepo, userRepo *repository.UserRepo, notifier *notify.Notifier, publicBaseURL string, bcryptCost int) *StaffHandler {
    if venueRepo == nil || tableRepo == nil || menuRepo == nil || reservationRepo == nil || orderRepo == nil || paymentRepo == nil || userRepo == nil || notifier == nil {
        panic("nil dependency passed to NewStaffHandler")
    }
    return &StaffHandler{
        VenueRepo:       venueRepo,
        TableRepo:       tableRepo,
        MenuRepo:        menuRepo,
        ReservationRepo: reservationRepo,
        OrderRepo:       orderRepo,
        PaymentRepo:     paymentRepo,
        UserRepo:        userRepo,
        Notifier:        notifier,
        PublicBaseURL:   publicBaseURL,
        BcryptCost:      bcryptCost,
    }
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    return contextUint(c, "user_id")
}

// getVenueID extracts the venue_id claim placed in context by JWTAuth.
// Staff without a bound venue have no claim and receive an error.
func getVenueID(c echo.Context) (uint64, error) {
    return contextUint(c, "venue_id")
}

// contextUint reads a numeric context value stored by middleware. JWT
// numeric claims decode as float64; values set directly in tests may be
// any integer type, so all of them are accepted.
func contextUint(c echo.Context, key string) (uint64, error) {
    v := c.Get(key)
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid " + key + " in context")
}
