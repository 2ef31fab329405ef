package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// SessionCleanupPayload carries scheduling metadata.
type SessionCleanupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSessionCleanupTask constructs an Asynq task for the audit prune.
func NewSessionCleanupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SessionCleanupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionCleanup, body, asynq.Queue(QueueDefault)), nil
}

// SessionPruner deletes session audit records that expired before the cutoff.
type SessionPruner interface {
	PruneSessions(ctx context.Context, before time.Time) (int64, error)
}

// NewSessionCleanupHandler returns a handler that prunes expired session
// audit rows.
func NewSessionCleanupHandler(logger *slog.Logger, pruner SessionPruner) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SessionCleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		pruned, err := pruner.PruneSessions(ctx, time.Now())
		if err != nil {
			return err
		}
		logger.Info("session cleanup done",
			slog.Int64("pruned", pruned),
			slog.Time("scheduled_for", payload.ScheduledFor),
		)
		return nil
	}
}
