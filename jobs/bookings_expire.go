package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// BookingExpiryPayload carries scheduling metadata.
type BookingExpiryPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewBookingExpiryTask constructs an Asynq task for the rental sweep.
func NewBookingExpiryTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(BookingExpiryPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingExpiry, body, asynq.Queue(QueueDefault)), nil
}

// RentalReleaser frees resources whose bookings ended before the cutoff.
type RentalReleaser interface {
	ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewBookingExpiryHandler returns a handler that releases tools and trucks
// held past their booking end dates.
func NewBookingExpiryHandler(logger *slog.Logger, releasers ...RentalReleaser) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload BookingExpiryPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		cutoff := time.Now()
		var total int64
		for _, r := range releasers {
			released, err := r.ReleaseExpired(ctx, cutoff)
			if err != nil {
				return err
			}
			total += released
		}
		logger.Info("booking expiry sweep done",
			slog.Int64("released", total),
			slog.Time("scheduled_for", payload.ScheduledFor),
		)
		return nil
	}
}
