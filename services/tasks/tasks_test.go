package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"roamstay/models"

	"github.com/hibiken/asynq"
)

func maxRetryOf(t *testing.T, opts []asynq.Option) int {
	t.Helper()
	for _, opt := range opts {
		if opt.Type() == asynq.MaxRetryOpt {
			n, ok := opt.Value().(int)
			if !ok {
				t.Fatalf("MaxRetry value has type %T", opt.Value())
			}
			return n
		}
	}
	t.Fatal("no MaxRetry option set")
	return 0
}

func TestConfirmationTaskRetryPolicy(t *testing.T) {
	payload := models.BookingEmailPayload{
		BookingID:          "b1",
		ConfirmationNumber: "AB12CD34",
		Recipient:          "guest@example.com",
	}
	task, opts, err := NewBookingConfirmationTask(payload)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if task.Type() != TypeBookingConfirmationEmail {
		t.Errorf("type = %q", task.Type())
	}
	if got := maxRetryOf(t, opts); got != 3 {
		t.Errorf("max retry = %d, want 3", got)
	}

	var decoded models.BookingEmailPayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("payload decode error: %v", err)
	}
	if decoded.ConfirmationNumber != "AB12CD34" {
		t.Errorf("payload confirmation = %q", decoded.ConfirmationNumber)
	}
}

func TestCancellationTaskIsSingleAttempt(t *testing.T) {
	task, opts, err := NewBookingCancellationTask(models.BookingEmailPayload{BookingID: "b1"})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if task.Type() != TypeBookingCancellationEmail {
		t.Errorf("type = %q", task.Type())
	}
	if got := maxRetryOf(t, opts); got != 0 {
		t.Errorf("max retry = %d, want 0", got)
	}
}

func TestConfirmationRetryDelay(t *testing.T) {
	if ConfirmationRetryDelay != 300*time.Second {
		t.Errorf("retry delay = %v, want 300s", ConfirmationRetryDelay)
	}
}

func TestPeriodicTaskTypes(t *testing.T) {
	cases := []struct {
		build func() (*asynq.Task, []asynq.Option, error)
		want  string
	}{
		{NewReminderTask, TypeBookingReminderEmail},
		{NewDailySummaryTask, TypeDailySummaryEmail},
		{NewCleanupTask, TypeCleanupOldBookings},
	}
	for _, tc := range cases {
		task, _, err := tc.build()
		if err != nil {
			t.Fatalf("build %s error: %v", tc.want, err)
		}
		if task.Type() != tc.want {
			t.Errorf("type = %q, want %q", task.Type(), tc.want)
		}
	}

	task, _, err := NewLowStockTask(10)
	if err != nil {
		t.Fatalf("build low stock error: %v", err)
	}
	var p models.LowStockPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		t.Fatalf("payload decode error: %v", err)
	}
	if p.Threshold != 10 {
		t.Errorf("threshold = %d, want 10", p.Threshold)
	}
}
