package handlers

import (
	"net/http"

	"roamstay/middleware"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
)

// StartPayment initializes a checkout session with the gateway and
// returns the redirect URL.
func StartPayment(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var input struct {
		Amount    float64 `json:"amount" binding:"required,gt=0"`
		Email     string  `json:"email" binding:"required,email"`
		BookingID string  `json:"booking_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	payment, checkoutURL, err := BookingService.StartPayment(c.Request.Context(), actor, input.Amount, input.Email, input.BookingID)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment":      payment,
		"checkout_url": checkoutURL,
	})
}

// VerifyPayment queries the gateway for the transaction outcome and
// settles the payment and its booking.
func VerifyPayment(c *gin.Context) {
	payment, err := BookingService.VerifyPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// PaymentHistory returns payments tied to the caller's email or bookings.
func PaymentHistory(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	payments, err := BookingService.PaymentHistory(actor)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
