// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - optional redis client + background job worker server (asynq)
//   - optional handoff event publisher (RabbitMQ)
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/storebot/api/internal/config"
	"github.com/storebot/api/internal/database"
	"github.com/storebot/api/internal/lib/handoff"
	"github.com/storebot/api/internal/lib/job"

	loggerPkg "github.com/storebot/api/internal/logger"
)

// handoffPoolSize is the number of AMQP channels kept warm for
// publishing handoff events.
const handoffPoolSize = 4

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds:
//   - the config
//   - the logger(s)
//   - database and optional redis connections
//   - background job service and handoff publisher
//   - an internal *http.Server used to listen and serve requests
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// Redis is the Redis client. Nil when no Redis address is configured.
	Redis *redis.Client

	// Job runs background workers (Asynq server) and provides a client
	// for enqueueing. Nil when Redis is not configured; callers must
	// treat notifications as best-effort in that case.
	Job *job.JobService

	// Handoff publishes escalation events to RabbitMQ. Nil when no
	// broker URL is configured.
	Handoff *handoff.Publisher

	// handoffPool backs the publisher and is closed on shutdown.
	handoffPool *handoff.ChannelPool

	// httpServer is the standard library HTTP server instance.
	// It is configured in SetupHTTPServer and started in Start().
	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server directly. That is done in SetupHTTPServer + Start.
//
// Initialization performed:
//   - PostgreSQL pool + optional New Relic tracing
//   - Redis client + Asynq job worker, only when a Redis address is set
//   - RabbitMQ channel pool + handoff publisher, only when a broker URL is set
//
// Notes:
//   - Redis ping failure does not block startup (it logs and continues).
//   - Broker dial failure does not block startup either; handoff events
//     degrade to email-only.
//   - JobService Start failure DOES block startup (returns error).
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	// Initialize PostgreSQL pool.
	// This also pings the DB to ensure connectivity.
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	// Handoff publisher is optional infrastructure.
	if cfg.Integration.AMQPURL != "" {
		pool, err := handoff.NewChannelPool(cfg.Integration.AMQPURL, cfg.Integration.HandoffQueue, handoffPoolSize, logger)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to connect to message broker, continuing without handoff events")
		} else {
			server.handoffPool = pool
			server.Handoff = handoff.NewPublisher(pool, cfg.Integration.HandoffQueue)
		}
	}

	// Redis (and the Asynq worker on top of it) is optional too.
	if cfg.Redis.Address != "" {
		// redis.NewClient does not connect immediately; connections are lazy.
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		// Add New Relic Redis hooks if New Relic is enabled, so Redis
		// commands show up in distributed traces.
		if loggerService != nil && loggerService.GetApplication() != nil {
			redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
		}

		// Test Redis connection with a timeout so it doesn't hang startup.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// If the ping fails, we log but do not stop startup. Handoff
		// notifications require Redis; everything else does not.
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
		}

		server.Redis = redisClient

		// Background job service (Asynq) uses Redis as its backing store.
		jobService := job.NewJobService(logger, cfg)
		jobService.InitHandlers(logger, server.Handoff)

		// asynq.Server.Start spawns its worker goroutines and returns;
		// it only errors on misconfiguration.
		if err := jobService.Start(); err != nil {
			return nil, err
		}

		server.Job = jobService
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server.
//
// The actual router/mux is passed in as handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		// Bind to port from config.
		Addr: ":" + s.Config.Server.Port,

		// Handler is your router/middleware stack.
		Handler: handler,

		// These timeouts protect against slow clients and resource exhaustion.
		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	// ListenAndServe blocks until the server stops or errors.
	// Graceful shutdown happens by calling s.Shutdown(ctx) from a
	// signal handler.
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies.
//
// It attempts to:
//   - stop HTTP server (finish inflight requests until ctx deadline)
//   - stop job service (asynq) if it exists
//   - close handoff channel pool, redis client and DB pool
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop accepting new connections and wait for ongoing requests.
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.handoffPool != nil {
		s.handoffPool.Close()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Error().Err(err).Msg("failed to close Redis client")
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
