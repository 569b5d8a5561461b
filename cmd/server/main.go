package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/loft-reservation/internal/config"
    "github.com/iliyamo/loft-reservation/internal/database"
    "github.com/iliyamo/loft-reservation/internal/handler"
    "github.com/iliyamo/loft-reservation/internal/middleware"
    "github.com/iliyamo/loft-reservation/internal/queue"
    "github.com/iliyamo/loft-reservation/internal/repository"
    "github.com/iliyamo/loft-reservation/internal/router"
    "github.com/iliyamo/loft-reservation/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments use env vars
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()

    // Repositories
    lofts := repository.NewLoftRepo(db)
    reservations := repository.NewReservationRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    // Services
    reservationSvc := service.NewReservationService(lofts, reservations, cfg.Currency)

    // Handlers
    authHandler := handler.NewAuthHandler(cfg, users, tokens)
    publicHandler := handler.NewPublicHandler(lofts, reservations, cfg.Currency)
    guestHandler := handler.NewGuestHandler(reservationSvc, reservations, lofts)
    partnerHandler := handler.NewPartnerHandler(lofts)
    partnerResHandler := handler.NewPartnerReservationHandler(reservationSvc, reservations, lofts)

    e := echo.New()

    // Redis-backed rate limiting and response caching degrade to
    // no-ops when Redis is unreachable.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and response cache disabled")
    }
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authHandler, cfg.JWTSecret)
    router.RegisterPublic(e, publicHandler)
    router.RegisterGuest(e, guestHandler, cfg.JWTSecret)
    router.RegisterPartner(e, partnerHandler, partnerResHandler, cfg.JWTSecret)

    // Audit-log consumer for reservation.created events runs for the
    // lifetime of the process and reconnects on broker failures.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
