package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"campus/config"
	_ "campus/docs" // swagger spec
	"campus/infras/otel"
	"campus/internal/domains/booking/sweeper"
	"campus/shared/constant"
	"campus/transport/http/middleware"
	"campus/transport/http/response"
	"campus/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 5 * time.Second
)

type HTTP struct {
	Config  *config.Config
	Router  router.Router
	App     middleware.AppMiddleware
	Sweeper sweeper.Sweeper
	Otel    otel.Otel
	state   atomic.Int32
	mux     *chi.Mux
	server  *http.Server
	done    chan struct{}
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, sweeper sweeper.Sweeper, otel otel.Otel) *HTTP {
	return &HTTP{
		Config:  cfg,
		Router:  r,
		App:     app,
		Sweeper: sweeper,
		Otel:    otel,
	}
}

// Serve blocks until the server has shut down after SIGINT or SIGTERM.
func (h *HTTP) Serve() {
	h.setup()
	h.setupGracefulShutdown()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-h.done
}

// ServeHTTP routes a single request without starting a listener.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.mux == nil {
		h.setup()
	}

	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.setupRoutes()
	h.setState(ServerStateReady)
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(h.App.RequestID)
	h.mux.Use(h.App.Tracing)
	h.mux.Use(chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	h.mux.Use(h.App.RateLimit())

	h.mux.Get(constant.RouteHealth, h.health)

	if h.Config.Server.Env != constant.ServerEnvProduction {
		h.mux.Get(constant.RouteSwagger, httpSwagger.WrapHandler)
	}

	h.Router.SetupRoutes(h.mux)
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setState(state ServerState) {
	h.state.Store(int32(state))
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithMessage(w, http.StatusOK, http.StatusText(http.StatusOK))
}

func (h *HTTP) setupGracefulShutdown() {
	h.done = make(chan struct{})

	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

// respondToSigterm fails /health for the grace period so the load balancer drains the
// instance, then gives in-flight requests and a running sweep the cleanup period to finish.
func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer close(h.done)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		shutdownConfig.GracePeriodSeconds = 0
	} else {
		log.Info().Msg("Received SIGTERM.")
	}

	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.setState(ServerStateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.setState(ServerStateInCleanupPeriod)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := h.Sweeper.Stop(ctx); err != nil {
		log.Warn().Err(err).Msg("Retention sweeper did not stop in time.")
	}

	if err := h.server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("HTTP server did not drain in time.")
	}

	if err := h.Otel.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Pending spans were dropped.")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
