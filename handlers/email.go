package handlers

import (
	"net/http"
	"time"

	"roamstay/models"
	"roamstay/services/tasks"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
)

// SendTestEmail enqueues a confirmation email with synthetic booking
// data so the queue and SMTP wiring can be exercised end to end.
// Admin only.
func SendTestEmail(c *gin.Context) {
	var input struct {
		Recipient string `json:"recipient" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	now := time.Now().UTC()
	payload := models.BookingEmailPayload{
		BookingID:          "test-booking",
		ConfirmationNumber: "TEST1234",
		ListingTitle:       "Test Listing",
		CheckIn:            now.AddDate(0, 0, 7).Format("2006-01-02"),
		CheckOut:           now.AddDate(0, 0, 10).Format("2006-01-02"),
		Guests:             2,
		TotalPrice:         150,
		Status:             models.BookingStatusConfirmed,
		CreatedAt:          now.Format(time.RFC3339),
		Recipient:          input.Recipient,
	}

	task, opts, err := tasks.NewBookingConfirmationTask(payload)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	if err := TaskEnqueuer.Enqueue(task, opts...); err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "test email queued", "recipient": input.Recipient})
}

// TriggerReminderRun enqueues an immediate check-in reminder batch
// outside the normal schedule. Admin only.
func TriggerReminderRun(c *gin.Context) {
	task, opts, err := tasks.NewReminderTask()
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	if err := TaskEnqueuer.Enqueue(task, opts...); err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "reminder run queued"})
}
