package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

// TaskHandoffNotify is the task type for human-handoff notifications.
const TaskHandoffNotify = "handoff:notify"

// HandoffNotifyPayload carries everything the notification handler
// needs to alert the support team.
type HandoffNotifyPayload struct {
	RequestID   string    `json:"request_id"`
	Note        string    `json:"note"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewHandoffNotifyTask builds an enqueueable handoff notification task.
//
// The task is placed on the critical queue with a few retries; the
// notification is best-effort but should survive transient provider
// failures.
func NewHandoffNotifyTask(payload HandoffNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal handoff payload")
	}

	return asynq.NewTask(
		TaskHandoffNotify,
		data,
		asynq.Queue("critical"),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	), nil
}
