package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kpestov/candy-delivery/internal/usecase/courier"
)

// UnassignJob periodically detaches assigned orders that their couriers can
// no longer deliver, for example after the courier's working day has ended.
type UnassignJob struct {
	uc     *courier.CourierUseCase
	cron   *cron.Cron
	logger *slog.Logger
}

func NewUnassignJob(uc *courier.CourierUseCase, logger *slog.Logger) *UnassignJob {
	return &UnassignJob{
		uc:     uc,
		cron:   cron.New(),
		logger: logger.With("component", "unassign_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *UnassignJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		detached, err := j.uc.DetachStaleAssignments(ctx, time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "unassign sweep failed", "error", err)
			return
		}

		if detached > 0 {
			j.logger.InfoContext(ctx, "unassign sweep detached orders", "count", detached)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "unassign job started")
	return nil
}

func (j *UnassignJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "unassign job stopped")
}
