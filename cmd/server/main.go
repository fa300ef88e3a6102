package main // Entry point package

import (
	"log"      // Logging library
	"net/http" // Default HTTP client for the gateway
	"time"     // Request deadline duration

	"github.com/iliyamo/restaurant-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/restaurant-reservation/internal/database"   // MySQL connection pool
	"github.com/iliyamo/restaurant-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/restaurant-reservation/internal/middleware" // Cache and rate-limit middleware
	"github.com/iliyamo/restaurant-reservation/internal/notify"     // In-app notification emitter
	"github.com/iliyamo/restaurant-reservation/internal/payment"    // External payment gateway client
	"github.com/iliyamo/restaurant-reservation/internal/queue"      // Reservation event consumer
	"github.com/iliyamo/restaurant-reservation/internal/repository" // Database repositories
	"github.com/iliyamo/restaurant-reservation/internal/router"     // Internal router setup
	"github.com/joho/godotenv"                                      // .env loader for local runs
	"github.com/labstack/echo/v4"                                   // Echo web framework
)

func main() {
	_ = godotenv.Load()  // Load .env when present; production reads real env vars
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName) // Open MySQL pool
	if err != nil {
		log.Fatalf("database: %v", err) // Abort when the database is unreachable
	}
	defer db.Close() // Release the pool on shutdown

	// Repositories share the single pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	venues := repository.NewVenueRepo(db)
	tables := repository.NewTableRepo(db)
	menus := repository.NewMenuRepo(db)
	reservations := repository.NewReservationRepo(db)
	orders := repository.NewOrderRepo(db)
	payments := repository.NewPaymentRepo(db)
	notifications := repository.NewNotificationRepo(db)

	notifier := notify.New(notifications)                                               // Notification emitter backed by the notifications table
	gateway := payment.NewGatewayClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, http.DefaultClient) // External gateway client

	// Handlers group the repositories by audience.
	auth := handler.NewAuthHandler(cfg, users, tokens)
	staff := handler.NewStaffHandler(venues, tables, menus, reservations, orders, payments, users, notifier, cfg.PublicBaseURL, cfg.BcryptCost)
	customer := handler.NewCustomerHandler(venues, tables, menus, reservations, orders, payments, notifier)
	pay := handler.NewPaymentHandler(payments, orders, gateway, notifier, cfg.GatewayAPIKey)
	notif := handler.NewNotificationHandler(notifications)
	public := &handler.PublicHandler{
		VenueRepo:       venues,
		TableRepo:       tables,
		MenuRepo:        menus,
		ReservationRepo: reservations,
	}

	e := echo.New() // Create Echo instance

	// Every request gets a bounded deadline; a stalled database call
	// surfaces as 503 instead of an open connection that never answers.
	e.Use(middleware.RequestTimeout(5 * time.Second))

	// Redis is optional: without it the API runs uncached and unthrottled.
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	router.RegisterRoutes(e)                                   // Health probe
	router.RegisterAuth(e, auth, cfg.JWTSecret)                // Register/login/refresh/logout
	router.RegisterPublic(e, public)                           // Unauthenticated browsing
	router.RegisterWebhooks(e, pay)                            // Gateway callback
	router.RegisterCustomer(e, customer, pay, notif, cfg.JWTSecret) // Customer surface
	router.RegisterStaff(e, staff, pay, notif, cfg.JWTSecret)       // Staff surface

	// The consumer retries its AMQP connection internally; a broker outage
	// must not hold back the HTTP server.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
