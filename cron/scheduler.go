package cron

import (
	"log"
	"time"

	"roamstay/config"
	"roamstay/services/tasks"

	"github.com/hibiken/asynq"
)

// InitScheduler registers the periodic jobs and runs the asynq
// scheduler in background. Missed ticks are not backfilled.
func InitScheduler() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	lowStock, lowStockOpts, err := tasks.NewLowStockTask(config.AppConfig.LowStockThreshold)
	if err != nil {
		log.Fatalf("[Scheduler] ❗ Failed to build low stock task: %v", err)
	}
	summary, summaryOpts, err := tasks.NewDailySummaryTask()
	if err != nil {
		log.Fatalf("[Scheduler] ❗ Failed to build daily summary task: %v", err)
	}
	cleanup, cleanupOpts, err := tasks.NewCleanupTask()
	if err != nil {
		log.Fatalf("[Scheduler] ❗ Failed to build cleanup task: %v", err)
	}

	entries := []struct {
		spec string
		task *asynq.Task
		opts []asynq.Option
	}{
		{"0 */12 * * *", lowStock, lowStockOpts},
		{"0 8 * * *", summary, summaryOpts},
		{"0 0 * * *", cleanup, cleanupOpts},
	}
	for _, e := range entries {
		if _, err := scheduler.Register(e.spec, e.task, e.opts...); err != nil {
			log.Fatalf("[Scheduler] ❗ Failed to register %s: %v", e.task.Type(), err)
		}
	}

	go func() {
		log.Println("[Scheduler] 🗓 Starting periodic job scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] ❗ Scheduler stopped: %v", err)
		}
	}()
}
