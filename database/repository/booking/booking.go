package bookingRepo

import (
	"time"

	"roamstay/models"
)

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	Update(booking *models.Booking) error

	// CountOverlapping counts bookings on the listing whose status holds
	// dates (confirmed/active) and whose [check_in, check_out) window
	// overlaps the given one.
	CountOverlapping(listingID string, checkIn, checkOut time.Time) (int64, error)

	// UnavailableListingIDs returns the ids of listings with at least one
	// confirmed/active booking overlapping the window.
	UnavailableListingIDs(checkIn, checkOut time.Time) ([]string, error)

	All() ([]models.Booking, error)
	ByGuest(guestID string) ([]models.Booking, error)
	Upcoming(guestID string, from time.Time) ([]models.Booking, error)
	Past(guestID string, before time.Time) ([]models.Booking, error)
	ByListings(listingIDs []string) ([]models.Booking, error)
	ByListing(listingID string) ([]models.Booking, error)

	// ConfirmedByCheckInDate returns confirmed bookings whose check-in
	// falls on the given calendar day (UTC).
	ConfirmedByCheckInDate(day time.Time) ([]models.Booking, error)

	// CreatedBetween returns bookings created in [from, to).
	CreatedBetween(from, to time.Time) ([]models.Booking, error)

	// DeleteCancelledBefore removes cancelled bookings last updated
	// before the cutoff and returns how many were deleted.
	DeleteCancelledBefore(cutoff time.Time) (int64, error)
}
