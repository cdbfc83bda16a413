// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/storebot/api/internal/config"
	"github.com/storebot/api/internal/lib/email"
	"github.com/storebot/api/internal/lib/handoff"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	// server runs worker processes that pull tasks from Redis and execute handlers.
	server *asynq.Server

	// logger is used for lifecycle logs and handler logs.
	logger *zerolog.Logger

	// Handler dependencies, stored as fields rather than package-level
	// globals so a JobService is fully usable after InitHandlers.
	cfg       *config.Config
	email     *email.Client
	publisher *handoff.Publisher
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// It builds both:
//   - an asynq.Client (to push jobs)
//   - an asynq.Server (to process jobs)
//
// It also configures queue weights so "critical" tasks get more worker share.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	// Redis address where Asynq stores tasks, retries, schedules, etc.
	redisAddr := cfg.Redis.Address

	// Client for enqueuing tasks.
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	// Server for processing tasks.
	//
	// Concurrency = 10 means up to 10 tasks can be processed in parallel.
	// Queues weights distribute those workers across queues by ratio:
	//   critical: 6
	//   default:  3
	//   low:      1
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6, // Handoff alerts land here; a waiting customer is urgent
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
		cfg:    cfg,
	}
}

// InitHandlers constructs the dependencies task handlers need.
//
// The handoff publisher may be nil when no broker is configured; the
// handler degrades to email-only in that case.
func (j *JobService) InitHandlers(logger *zerolog.Logger, publisher *handoff.Publisher) {
	j.email = email.NewClient(j.cfg, logger)
	j.publisher = publisher
}

// Start starts the background worker server and registers task handlers.
//
// Flow:
//   - Create a ServeMux (routes task type -> handler function).
//   - Register handlers (TaskHandoffNotify -> handleHandoffNotifyTask).
//   - Start the Asynq server (blocks until shutdown or error).
func (j *JobService) Start() error {
	// ServeMux is like HTTP routing, but for job types.
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskHandoffNotify, j.handleHandoffNotifyTask)

	j.logger.Info().Msg("Starting background job server")

	// Start begins processing tasks. If it returns, it's usually due
	// to shutdown or fatal error.
	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
