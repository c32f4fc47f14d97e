package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-rental-gateway/internal/client"
	"github.com/iliyamo/book-rental-gateway/internal/config"
	"github.com/iliyamo/book-rental-gateway/internal/handler"
	"github.com/iliyamo/book-rental-gateway/internal/outbox"
	"github.com/iliyamo/book-rental-gateway/internal/queue"
	"github.com/iliyamo/book-rental-gateway/internal/router"
	"github.com/iliyamo/book-rental-gateway/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional, real deployments set the environment
	cfg := config.Load()

	// Typed clients for the three backend services.
	libraries := client.NewLibraryClient(cfg.LibraryBaseURL, cfg.DownstreamTimeout)
	ratings := client.NewRatingClient(cfg.RatingBaseURL, cfg.DownstreamTimeout)
	reservations := client.NewReservationClient(cfg.ReservationBaseURL, cfg.DownstreamTimeout)

	// Durable outbox for compensations that could not run inline.
	db, err := outbox.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open outbox database: %v", err)
	}
	store := outbox.NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		log.Fatalf("init outbox schema: %v", err)
	}

	retrier := service.NewRetrier(libraries, ratings, reservations)
	drainer := outbox.NewDrainer(store, retrier, cfg.OutboxPollInterval, cfg.OutboxMaxAttempts)
	go drainer.Run(context.Background())

	// Saga event notifications: best-effort publisher, background consumer
	// appending to the operations log.
	publisher := queue.NewPublisher(cfg.AmqpURL)
	go func() {
		if err := queue.StartSagaConsumer(cfg.AmqpURL); err != nil {
			log.Printf("saga consumer stopped: %v", err)
		}
	}()

	coordinator := service.NewCoordinator(libraries, ratings, reservations, store, publisher)

	rdb := config.NewRedisClient() // nil disables caching and rate limiting
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Library:     handler.NewLibraryHandler(libraries),
		Rating:      handler.NewRatingHandler(ratings),
		Reservation: handler.NewReservationHandler(coordinator, reservations, libraries),
	}, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
