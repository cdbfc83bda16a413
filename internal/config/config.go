// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded from a
// `.env` file), loads them into structured Go types, and validates that
// required values are present so the application fails fast on bad config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into the Config struct via koanf.
//   - Validate required values with go-playground/validator.
//   - Provide sane defaults for optional blocks (observability, handoff).
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env, if one
	// exists, before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// Env vars are read with the STOREBOT_ prefix and mapped into nested fields
// via "." delimiters: STOREBOT_DATABASE.HOST -> database.host ->
// Config.Database.Host.
//
// Observability is a pointer because it is optional; defaults are injected
// when it is absent. Redis and Integration are optional blocks too: without
// a Redis address the background job worker stays off, and without an AMQP
// URL or Resend key the handoff notifications degrade to log lines.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs/traces and to switch behavior (console vs JSON logs,
// SQL tracing) based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the allowed request rate per client IP, in requests per
	// second. Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
// An empty address means Redis (and the asynq worker) is not configured.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// IntegrationConfig stores credentials and endpoints for the external
// systems the handoff notification pipeline talks to. Every field is
// optional; unset integrations are skipped.
type IntegrationConfig struct {
	// ResendAPIKey authenticates the operator alert emails.
	ResendAPIKey string `koanf:"resend_api_key"`

	// HandoffAlertEmail is the operator mailbox that receives handoff
	// alerts. Empty disables the email channel.
	HandoffAlertEmail string `koanf:"handoff_alert_email"`

	// AMQPURL is the RabbitMQ connection string for handoff events.
	// Empty disables the event channel.
	AMQPURL string `koanf:"amqp_url"`

	// HandoffQueue is the durable queue handoff events are published to.
	HandoffQueue string `koanf:"handoff_queue"`
}

// New loads configuration from environment variables, unmarshals it into
// Config, validates it, and applies defaults.
//
// It logs fatally on any failure: a service with broken config should not
// reach the point of opening sockets.
func New() (*Config, error) {
	// Config loading happens before the main logger exists, so use a
	// throwaway console logger for these fatal paths.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	// Only env vars with the STOREBOT_ prefix are read; the prefix is then
	// stripped and the rest lowercased to form the koanf key path.
	err := k.Load(env.Provider("STOREBOT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STOREBOT_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Force service name and environment so telemetry sees consistent
	// naming regardless of what the env supplied.
	mainConfig.Observability.ServiceName = "storebot"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if mainConfig.Integration.HandoffQueue == "" {
		mainConfig.Integration.HandoffQueue = "storebot.handoffs"
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}
