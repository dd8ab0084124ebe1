package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ReawEiEi/hotel-booking-server/internal/health"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	"github.com/ReawEiEi/hotel-booking-server/pkg/contracts"
	"github.com/ReawEiEi/hotel-booking-server/pkg/dispatch"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	httputil "github.com/ReawEiEi/hotel-booking-server/pkg/http"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
	"github.com/ReawEiEi/hotel-booking-server/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type namedCloser struct {
	name   string
	closer io.Closer
}

type Application struct {
	cfg         *config.Config
	server      *http.Server
	rateLimiter *middleware.RateLimiter
	dispatcher  *dispatch.Dispatcher
	metrics     *metrics.Metrics
	closers     []namedCloser

	healthHandler http.Handler
	appHandler    http.Handler
}

// NewApplication takes the dispatcher so shutdown can drain pending
// notifications before the store connection closes. Both m and dispatcher may be nil.
func NewApplication(cfg *config.Config, dispatcher *dispatch.Dispatcher, m *metrics.Metrics) *Application {
	return &Application{
		cfg:        cfg,
		dispatcher: dispatcher,
		metrics:    m,
	}
}

// OnShutdown registers c to be closed after the server and dispatcher stop.
func (a *Application) OnShutdown(name string, c io.Closer) {
	a.closers = append(a.closers, namedCloser{name: name, closer: c})
}

func (a *Application) SetApp(handlers ...contracts.Handler) {
	a.setHealthHandler()
	a.setAppHandler(handlers)
	a.setAppServer()
}

// Handler exposes the fully wrapped mux.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	health.NewHandler(a.cfg.Client.Mongo, a.cfg.Log).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers []contracts.Handler) {
	appRouter := httprouter.New()
	appRouter.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := httputil.WriteError(w, apperrors.NotFound("Route not found")); err != nil {
			a.cfg.Log.Error("failed to write JSON response", "path", r.URL.Path, "error", err)
		}
	})
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	a.rateLimiter = middleware.NewRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitBurst,
		middleware.ClientAddress,
		a.cfg.Log,
	)

	var appHTTPHandler http.Handler = appRouter
	appHTTPHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHTTPHandler)
	appHTTPHandler = middleware.RateLimit(a.rateLimiter)(appHTTPHandler)
	appHTTPHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHTTPHandler)
	appHTTPHandler = middleware.RequestLogging(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(a.cfg.Log)(appHTTPHandler)
	a.appHandler = appHTTPHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	if a.cfg.MetricsEnabled && a.metrics != nil {
		mux.Handle("/metrics", middleware.Recovery(a.cfg.Log)(a.metrics.Handler()))
		a.cfg.Log.Info("Metrics endpoint enabled", "path", "/metrics")
	}
	mux.Handle("/", a.appHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

// gracefulShutdown stops accepting requests, drains notification tasks, closes
// registered resources and finally disconnects from the store.
func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}
	a.cfg.Log.Info("Server stopped")

	a.cfg.Log.Info("Stopping background workers...")
	if a.dispatcher != nil {
		if err := a.dispatcher.Stop(ctx); err != nil {
			a.cfg.Log.Warn("Pending notifications abandoned", "error", err)
		}
	}
	for _, c := range a.closers {
		if err := c.closer.Close(); err != nil {
			a.cfg.Log.Error("Failed to close resource", "resource", c.name, "error", err)
		}
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Shutdown complete")
}
