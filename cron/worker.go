package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"roamstay/config"
	"roamstay/models"
	"roamstay/services/notification"
	"roamstay/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitEmailWorker runs the async worker in background.
func InitEmailWorker(notifSvc *notification.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			// Failed confirmation emails wait a fixed interval
			// before redelivery.
			RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
				return tasks.ConfirmationRetryDelay
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmationEmail, handleConfirmationTask(notifSvc))
	mux.HandleFunc(tasks.TypeBookingCancellationEmail, handleCancellationTask(notifSvc))
	mux.HandleFunc(tasks.TypeBookingReminderEmail, handleReminderTask(notifSvc))
	mux.HandleFunc(tasks.TypeDailySummaryEmail, handleDailySummaryTask(notifSvc))
	mux.HandleFunc(tasks.TypeCleanupOldBookings, handleCleanupTask(notifSvc))
	mux.HandleFunc(tasks.TypeLowStockCheck, handleLowStockTask(notifSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[EmailWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EmailWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EmailWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleConfirmationTask(notifSvc *notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingEmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[EmailWorker] 🔴 Invalid confirmation payload: %v", err)
			return err
		}

		log.Printf("[EmailWorker] 📧 Sending confirmation %s for booking %s", p.ConfirmationNumber, p.BookingID)
		if err := notifSvc.SendBookingConfirmation(p); err != nil {
			log.Printf("[EmailWorker] ❌ Confirmation email failed: %v", err)
			return err
		}
		return nil
	}
}

func handleCancellationTask(notifSvc *notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingEmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[EmailWorker] 🔴 Invalid cancellation payload: %v", err)
			return err
		}

		log.Printf("[EmailWorker] 📧 Sending cancellation notice for booking %s", p.BookingID)
		return notifSvc.SendBookingCancellation(p)
	}
}

func handleReminderTask(notifSvc *notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		sent, err := notifSvc.SendBookingReminder()
		if err != nil {
			log.Printf("[EmailWorker] ❌ Reminder run failed: %v", err)
			return err
		}
		log.Printf("[EmailWorker] ⏰ Sent %d check-in reminders", sent)
		return nil
	}
}

func handleDailySummaryTask(notifSvc *notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if err := notifSvc.SendDailyBookingSummary(); err != nil {
			log.Printf("[EmailWorker] ❌ Daily summary failed: %v", err)
			return err
		}
		log.Printf("[EmailWorker] 📊 Daily summary sent")
		return nil
	}
}

func handleCleanupTask(notifSvc *notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		deleted, err := notifSvc.CleanupOldBookings()
		if err != nil {
			log.Printf("[EmailWorker] ❌ Booking cleanup failed: %v", err)
			return err
		}
		log.Printf("[EmailWorker] 🧹 Removed %d stale cancelled bookings", deleted)
		return nil
	}
}

func handleLowStockTask(notifSvc *notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.LowStockPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[EmailWorker] 🔴 Invalid low stock payload: %v", err)
			return err
		}
		if err := notifSvc.CheckListingSupply(p.Threshold); err != nil {
			log.Printf("[EmailWorker] ❌ Listing supply check failed: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[EmailWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
