package handlers

import (
	"net/http"

	"roamstay/middleware"
	bookingSvc "roamstay/services/booking"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
)

// CreateBooking places a booking request for the caller.
func CreateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var input bookingSvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	booking, err := BookingService.Create(c.Request.Context(), actor, input)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns one booking visible to the caller.
func GetBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	booking, err := BookingService.Get(actor, c.Param("id"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookings returns the caller's bookings; admins see all.
func ListBookings(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	bookings, err := BookingService.List(actor)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpcomingBookings returns the caller's bookings starting today or later.
func UpcomingBookings(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	bookings, err := BookingService.Upcoming(actor)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// PastBookings returns the caller's completed stays.
func PastBookings(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	bookings, err := BookingService.Past(actor)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// HostBookings returns bookings across all listings the caller hosts.
func HostBookings(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	bookings, err := BookingService.HostBookings(actor)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListingBookings returns bookings for one listing; host or admin only.
func ListingBookings(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	bookings, err := BookingService.ListingBookings(actor, c.Param("id"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBooking cancels a pending or confirmed booking before check-in.
func CancelBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	booking, err := BookingService.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ConfirmBooking marks a pending booking as confirmed; host or admin only.
func ConfirmBooking(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	booking, err := BookingService.Confirm(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
