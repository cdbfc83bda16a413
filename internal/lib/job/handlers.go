package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/storebot/api/internal/lib/handoff"
)

// handleHandoffNotifyTask processes a human-handoff notification.
//
// Steps:
//   - Parse JSON payload from the Asynq task
//   - Publish the event to the handoff queue (if a broker is wired)
//   - Email the support inbox (if an alert address is configured)
//
// The two channels are independent; one failing does not suppress the
// other. Any failure is returned so Asynq retries the task.
func (j *JobService) handleHandoffNotifyTask(ctx context.Context, t *asynq.Task) error {
	// Decode task payload (JSON bytes) into struct.
	var p HandoffNotifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal handoff payload: %w", err)
	}

	j.logger.Info().
		Str("type", "handoff").
		Str("request_id", p.RequestID).
		Msg("Processing handoff notification task")

	var firstErr error

	if j.publisher != nil {
		event := handoff.Event{
			RequestID:   p.RequestID,
			Note:        p.Note,
			RequestedAt: p.RequestedAt,
		}
		if err := j.publisher.Publish(ctx, event); err != nil {
			j.logger.Error().
				Str("request_id", p.RequestID).
				Err(err).
				Msg("Failed to publish handoff event")
			firstErr = err
		}
	}

	if to := j.cfg.Integration.HandoffAlertEmail; to != "" {
		err := j.email.SendHandoffAlert(to, p.RequestID, p.RequestedAt.Format(time.RFC3339))
		if err != nil {
			j.logger.Error().
				Str("request_id", p.RequestID).
				Str("to", to).
				Err(err).
				Msg("Failed to send handoff alert email")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return firstErr // Asynq marks the task failed and schedules a retry
	}

	j.logger.Info().
		Str("type", "handoff").
		Str("request_id", p.RequestID).
		Msg("Handoff notification delivered")

	return nil
}
