package utils

import (
	"context"
	"log"
	"time"

	"vportal/config"
	"vportal/workflow"

	"github.com/robfig/cron/v3"
)

// StartReconcileScheduler runs the duplicate-assignment sweep on the
// configured cron schedule. An empty schedule disables it; deployments that
// prefer the admin endpoint trigger it by hand instead.
func StartReconcileScheduler(engine *workflow.Engine) *cron.Cron {
	schedule := config.AppConfig.ReconcileSchedule
	if schedule == "" {
		log.Println("Reconcile scheduler disabled (no schedule configured)")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := engine.ReconcileDuplicateAssignments(ctx)
		if err != nil {
			log.Printf("[RECONCILE] scheduled sweep failed: %v", err)
			return
		}
		log.Printf("[RECONCILE] scheduled sweep done: %d duplicate groups, %d vouchers reset",
			result.GroupsFound, result.Reset)
	})
	if err != nil {
		log.Printf("Invalid reconcile schedule %q: %v", schedule, err)
		return nil
	}

	c.Start()
	log.Printf("Reconcile scheduler started (%s)", schedule)
	return c
}
