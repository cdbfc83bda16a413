// Package logger configure the application's logging,
// monitoring, and observability.
//
// It uses *ZeroLog* for logging and integrates with
// *New Relic* to instrument the codebase, forwarding logs,
// metrics, and traces for debugging
package logger

import (
	"io"
	"os"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/storebot/api/internal/config"
)

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is not configured (no license key), the service still
// exists but GetApplication returns nil, and every caller is expected to
// treat that as "observability off".
type LoggerService struct {
	nrApp *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when the agent
// is disabled. Safe to call on a nil receiver.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	if ls == nil {
		return nil
	}
	return ls.nrApp
}

// Shutdown flushes buffered telemetry. No-op when the agent is disabled.
func (ls *LoggerService) Shutdown() {
	if app := ls.GetApplication(); app != nil {
		app.Shutdown(0)
	}
}

// New builds the application's main logger and the LoggerService.
//
// Behavior:
//   - log level comes from ObservabilityConfig.GetLogLevel()
//   - "console" format (or any non-production env) writes human-friendly
//     output; otherwise JSON for log pipelines
//   - with a New Relic license key, the agent is started and, when log
//     forwarding is enabled, the log stream is wrapped with zerologWriter
//     so entries land in New Relic with trace context attached
//
// A failed agent init is logged and ignored: telemetry must never keep the
// service from starting.
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService) {
	obs := cfg.Observability

	level, err := zerolog.ParseLevel(obs.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if obs.Logging.Format == "console" && !obs.IsProduction() {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	service := &LoggerService{}

	if obs.NewRelic.LicenseKey != "" {
		opts := []newrelic.ConfigOption{
			newrelic.ConfigAppName(obs.ServiceName),
			newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
			newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
		}
		if obs.NewRelic.DebugLogging {
			opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
		}

		nrApp, err := newrelic.NewApplication(opts...)
		if err != nil {
			bootLogger := zerolog.New(out).With().Timestamp().Logger()
			bootLogger.Error().Err(err).Msg("failed to initialize New Relic, continuing without APM")
		} else {
			service.nrApp = nrApp
			if obs.NewRelic.AppLogForwardingEnabled {
				out = zerologWriter.New(out, nrApp)
			}
		}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()

	return &logger, service
}

// WithTraceContext returns a child logger carrying the transaction's trace
// and span ids, so log lines correlate with distributed traces.
func WithTraceContext(l zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return l
	}
	md := txn.GetTraceMetadata()
	return l.With().
		Str("trace.id", md.TraceID).
		Str("span.id", md.SpanID).
		Logger()
}

// NewPgxLogger builds the dedicated logger used for SQL query tracing in
// local env. It writes console output regardless of the main format: SQL
// trace lines are for humans at a terminal.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// GetPgxTraceLogLevel maps a zerolog level onto the pgx tracelog level
// scale (tracelog.LogLevelNone=1 .. LogLevelTrace=6). Returned as an int;
// the caller casts to tracelog.LogLevel.
func GetPgxTraceLogLevel(level zerolog.Level) int {
	switch level {
	case zerolog.TraceLevel:
		return 6 // tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return 5 // tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return 4 // tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return 3 // tracelog.LogLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return 2 // tracelog.LogLevelError
	default:
		return 1 // tracelog.LogLevelNone
	}
}
