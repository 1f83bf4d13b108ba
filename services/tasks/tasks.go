package tasks

import (
	"encoding/json"
	"time"

	"roamstay/models"

	"github.com/hibiken/asynq"
)

// Task type names routed by the worker mux.
const (
	TypeBookingConfirmationEmail = "email:booking_confirmation"
	TypeBookingCancellationEmail = "email:booking_cancellation"
	TypeBookingReminderEmail     = "email:booking_reminder"
	TypeDailySummaryEmail        = "email:daily_summary"
	TypeCleanupOldBookings       = "bookings:cleanup"
	TypeLowStockCheck            = "listings:low_stock"
)

// ConfirmationRetryDelay is the fixed backoff between confirmation
// email attempts.
const ConfirmationRetryDelay = 300 * time.Second

// ConfirmationMaxRetry bounds how many times a failed confirmation
// email is retried before the task is marked failed.
const ConfirmationMaxRetry = 3

// NewBookingConfirmationTask builds the retryable confirmation email task.
func NewBookingConfirmationTask(payload models.BookingEmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmationEmail, b)
	opts := []asynq.Option{asynq.MaxRetry(ConfirmationMaxRetry)}
	return task, opts, nil
}

// NewBookingCancellationTask builds the single-attempt cancellation
// email task.
func NewBookingCancellationTask(payload models.BookingEmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingCancellationEmail, b)
	opts := []asynq.Option{asynq.MaxRetry(0)}
	return task, opts, nil
}

// NewReminderTask builds the batch reminder scan task.
func NewReminderTask() (*asynq.Task, []asynq.Option, error) {
	return asynq.NewTask(TypeBookingReminderEmail, nil), []asynq.Option{asynq.MaxRetry(0)}, nil
}

// NewDailySummaryTask builds the admin digest task.
func NewDailySummaryTask() (*asynq.Task, []asynq.Option, error) {
	return asynq.NewTask(TypeDailySummaryEmail, nil), []asynq.Option{asynq.MaxRetry(0)}, nil
}

// NewCleanupTask builds the cancelled-booking purge task.
func NewCleanupTask() (*asynq.Task, []asynq.Option, error) {
	return asynq.NewTask(TypeCleanupOldBookings, nil), []asynq.Option{asynq.MaxRetry(0)}, nil
}

// NewLowStockTask builds the periodic listing-supply check task.
func NewLowStockTask(threshold int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.LowStockPayload{Threshold: threshold})
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeLowStockCheck, b), []asynq.Option{asynq.MaxRetry(0)}, nil
}
