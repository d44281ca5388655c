package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/gateway"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/configs"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/metrics"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ratelimiter"
	healthHandler "github.com/mohitmore375-rgb/buzzer-app-backand/internal/presentation/handler/health"
	roomsHandler "github.com/mohitmore375-rgb/buzzer-app-backand/internal/presentation/handler/rooms"
	statsHandler "github.com/mohitmore375-rgb/buzzer-app-backand/internal/presentation/handler/stats"
)

type Application struct {
	config        configs.Config
	roomsHandler  *roomsHandler.Handler
	statsHandler  *statsHandler.Handler
	healthHandler *healthHandler.Handler
	gateway       *gateway.Gateway
	metrics       *metrics.Metrics
	logger        logging.Logger
	ratelimiter   ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	roomsHandler *roomsHandler.Handler,
	statsHandler *statsHandler.Handler,
	healthHandler *healthHandler.Handler,
	gw *gateway.Gateway,
	m *metrics.Metrics,
	logger logging.Logger,
	limiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:        config,
		roomsHandler:  roomsHandler,
		statsHandler:  statsHandler,
		healthHandler: healthHandler,
		gateway:       gw,
		metrics:       m,
		logger:        logger,
		ratelimiter:   limiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.loggerMiddleware)
	r.Use(app.enableCors)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(app.rateLimiterMiddleware)

		r.Route("/api", func(r chi.Router) {
			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", app.roomsHandler.ListRoomsHandler)
				r.Get("/{roomCode}", app.roomsHandler.GetRoomHandler)
				r.Get("/{roomCode}/history", app.roomsHandler.GetRoomHistoryHandler)
			})

			r.Get("/stats", app.statsHandler.GetStatsHandler)

			r.Get("/health", app.healthHandler.GetHealth)
			r.Get("/healthz", app.healthHandler.GetHealth)
			r.Get("/ready", app.healthHandler.GetHealth)
			r.Get("/live", app.healthHandler.GetHealth)
		})

		r.Handle("/metrics", app.metrics.Handler())
	})

	// Long-lived connections stay outside the timeout group.
	r.Get("/ws", app.gateway.ServeWS)

	return otelhttp.NewHandler(r, "buzzer-server")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		healthHandler.SetUnhealthy()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"Signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"Addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"Addr": srv.Addr,
	})

	return nil
}
