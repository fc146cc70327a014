package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-hotel-booking/internal/config"
	"github.com/iliyamo/event-hotel-booking/internal/database"
	"github.com/iliyamo/event-hotel-booking/internal/handler"
	"github.com/iliyamo/event-hotel-booking/internal/middleware"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
	"github.com/iliyamo/event-hotel-booking/internal/router"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	slog.Info("connected to database", slog.String("host", cfg.DBHost), slog.String("database", cfg.DBName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.ApplySchema(ctx, db); err != nil {
			slog.Error("failed to apply schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("schema applied")
	}

	store := repository.NewStore(db)
	sessions := repository.NewSessionRepo(db)

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.AMQPURL, cfg.AMQPDialTimeout)
	}
	if cfg.EventsEnabled && cfg.ConsumerEnabled {
		consumer := &queue.Consumer{URL: cfg.AMQPURL, Dir: cfg.EventLogDir, Log: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("booking consumer stopped", slog.String("error", err.Error()))
			}
		}()
	}

	bookings := service.NewBookingService(service.BookingServiceConfig{
		Gateway: store,
		Events:  events,
		Logger:  logger,
	})
	tickets := service.NewTicketService(store)

	// Redis backs rate limiting and the catalog cache; both are skipped
	// when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable; rate limiting and caching disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))

	router.Register(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Sessions:  sessions,
		Bookings:  handler.NewBookingHandler(bookings, logger),
		Tickets:   handler.NewTicketHandler(tickets, logger),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger),
		Logger:    logger,
	})

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting server", slog.String("addr", addr), slog.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	slog.Info("server exited")
}
