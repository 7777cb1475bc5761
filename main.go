package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-facility-booking/internal/auth"
	"ms-facility-booking/internal/booking"
	"ms-facility-booking/internal/booking/booking_api"
	bookingdb "ms-facility-booking/internal/booking/db"
	rediswrap "ms-facility-booking/internal/booking/redis"
	"ms-facility-booking/internal/config"
	"ms-facility-booking/internal/database/migrations"
	"ms-facility-booking/internal/facility"
	"ms-facility-booking/internal/facility/facility_api"
	facilitydb "ms-facility-booking/internal/facility/db"
	"ms-facility-booking/internal/kafka"
	"ms-facility-booking/internal/logger"
	"ms-facility-booking/internal/order"
	"ms-facility-booking/internal/order/order_api"
	orderdb "ms-facility-booking/internal/order/db"
	"ms-facility-booking/internal/payment"
	"ms-facility-booking/internal/slots"
	"ms-facility-booking/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	// --- PostgreSQL ---
	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open Postgres connection: %v", err))
	}
	defer sqldb.Close()

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := pingWithRetry(sqldb, 5, 2*time.Second); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to Postgres: %v", err))
	}
	log.Info("DATABASE", "Connected to Postgres")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.RunMigrations(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}

	// --- Redis ---
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	log.Info("REDIS", fmt.Sprintf("Connected to Redis at %s", cfg.Redis.Addr))

	// --- Kafka ---
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		topics := []string{
			cfg.Kafka.Topics.BookingCreated,
			cfg.Kafka.Topics.BookingCanceled,
			cfg.Kafka.Topics.OrderCreated,
			cfg.Kafka.Topics.OrderPaid,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic setup failed, events may be dropped: %v", err))
		}
		producer = kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		log.Info("KAFKA", fmt.Sprintf("Producer connected to %v", cfg.Kafka.Brokers))
	} else {
		log.Warn("KAFKA", "Kafka disabled, lifecycle events will not be published")
	}

	// --- Payment provider ---
	provider, err := payment.NewStripeProvider(payment.StripeConfig{
		SecretKey:  cfg.Payment.StripeKey,
		Currency:   cfg.Payment.Currency,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
	}, log)
	if err != nil {
		log.Fatal("STRIPE", fmt.Sprintf("Payment provider init failed: %v", err))
	}

	// --- Services ---
	facilityDB := &facilitydb.DB{Bun: bunDB}
	facilityService := facility.NewService(facilityDB)

	bookingDB := &bookingdb.DB{Bun: bunDB}
	slotLock := rediswrap.NewRedis(redisClient, cfg.Redis.SlotLockTTL)
	slotCfg := slots.Config{
		DayStart:  cfg.Slots.DayStart,
		DayEnd:    cfg.Slots.DayEnd,
		SlotWidth: cfg.Slots.SlotWidth,
	}

	var bookingEvents booking.KafkaPublisher
	var orderEvents order.KafkaPublisher
	if producer != nil {
		bookingEvents = producer
		orderEvents = producer
	}

	bookingService := booking.NewService(bookingDB, slotLock, facilityService, bookingEvents, slotCfg, log,
		cfg.Kafka.Topics.BookingCreated, cfg.Kafka.Topics.BookingCanceled)

	orderDB := &orderdb.DB{Bun: bunDB}
	userDB := &users.DB{Bun: bunDB}
	orderService := order.NewService(orderDB, bookingDB, userDB, provider, orderEvents, log,
		cfg.Kafka.Topics.OrderCreated, cfg.Kafka.Topics.OrderPaid)

	bookingHandler := booking_api.NewHandler(bookingService, log)
	facilityHandler := facility_api.NewHandler(facilityService, log)
	orderHandler := order_api.NewHandler(orderService, log)

	authenticate := auth.Middleware(cfg.Auth.OIDCIssuer)

	// --- Router ---
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/check-availability", bookingHandler.CheckAvailability)
		r.Get("/facility", facilityHandler.AllFacilities)
		r.Get("/facility/{facilityId}", facilityHandler.GetFacility)

		// Payment gateway return URLs, reached by the payer's browser
		// without a bearer token.
		r.Get("/payment/confirmation", orderHandler.PaymentConfirmation)
		r.Post("/payment/confirmation", orderHandler.PaymentConfirmation)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/bookings", bookingHandler.CreateBooking)
			r.Delete("/bookings/{bookingId}", bookingHandler.CancelBooking)
			r.Get("/bookings/user", bookingHandler.UserBookings)
			r.Post("/orders", orderHandler.PlaceOrder)
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(auth.RequireAdmin)

			r.Get("/bookings", bookingHandler.AllBookings)
			r.Post("/facility", facilityHandler.CreateFacility)
			r.Put("/facility/{facilityId}", facilityHandler.UpdateFacility)
			r.Delete("/facility/{facilityId}", facilityHandler.DeleteFacility)
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("Facility booking service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SERVER", "Shutdown signal received, cleaning up...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("SERVER", fmt.Sprintf("Forced shutdown: %v", err))
		return
	}
	log.Info("SERVER", "Server exited gracefully")
}

// pingWithRetry waits out the window where Postgres is still starting,
// which is the common case under docker compose.
func pingWithRetry(db *sql.DB, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(delay)
	}
	return err
}
