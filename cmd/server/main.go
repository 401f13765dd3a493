package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/powermilk/cinema-reservation/internal/config"
	"github.com/powermilk/cinema-reservation/internal/database"
	"github.com/powermilk/cinema-reservation/internal/handler"
	"github.com/powermilk/cinema-reservation/internal/queue"
	"github.com/powermilk/cinema-reservation/internal/repository"
	"github.com/powermilk/cinema-reservation/internal/router"
	"github.com/powermilk/cinema-reservation/internal/service"
	"github.com/powermilk/cinema-reservation/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)
	reservations := service.NewReservationService(store, cfg.ReservationTimeout())
	catalog := service.NewCatalogService(store)
	stats := service.NewStatsService(store)
	events := queue.NewPublisher()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e,
		handler.NewReservationHandler(reservations, events),
		handler.NewCatalogHandler(catalog, reservations),
		handler.NewStatsHandler(stats),
		handler.NewHealthHandler(db),
		rdb,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background expiry sweep reclaims seats from unpaid holds.
	go worker.NewExpirer(reservations, events, cfg.SweepInterval).Run(ctx)

	// Lifecycle event consumer writes the reservation audit log. It
	// reconnects forever, so it gets its own goroutine for the whole
	// process lifetime.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, timeout=%dm)", addr, cfg.Env, cfg.ReservationTimeoutMin)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
