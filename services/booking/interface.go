package booking

import (
	"context"
	"time"

	bookingRepo "roamstay/database/repository/booking"
	listingRepo "roamstay/database/repository/listing"
	paymentRepo "roamstay/database/repository/payment"
	userRepo "roamstay/database/repository/user"
	"roamstay/models"
	"roamstay/services/payment"
	"roamstay/services/tasks"

	"go.uber.org/zap"
)

// CreateInput carries the fields of a booking request. TotalPrice may
// be zero, in which case it is derived from the listing's base price.
type CreateInput struct {
	ListingID  string    `json:"listing_id" binding:"required"`
	CheckIn    time.Time `json:"check_in" binding:"required" time_format:"2006-01-02"`
	CheckOut   time.Time `json:"check_out" binding:"required" time_format:"2006-01-02"`
	Guests     int       `json:"guests" binding:"required,min=1"`
	TotalPrice float64   `json:"total_price"`
}

// BookingService orchestrates the booking lifecycle: state transitions,
// payment initialization and notification dispatch.
type BookingService interface {
	Create(ctx context.Context, actor models.Actor, input CreateInput) (*models.Booking, error)
	Get(actor models.Actor, id string) (*models.Booking, error)
	List(actor models.Actor) ([]models.Booking, error)
	Cancel(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)
	Confirm(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)
	Upcoming(actor models.Actor) ([]models.Booking, error)
	Past(actor models.Actor) ([]models.Booking, error)
	HostBookings(actor models.Actor) ([]models.Booking, error)
	ListingBookings(actor models.Actor, listingID string) ([]models.Booking, error)

	StartPayment(ctx context.Context, actor models.Actor, amount float64, email, bookingID string) (*models.Payment, string, error)
	VerifyPayment(ctx context.Context, reference string) (*models.Payment, error)
	PaymentHistory(actor models.Actor) ([]models.Payment, error)
}

// DefaultBookingService implements BookingService. The task dispatcher
// is a constructor-provided dependency so tests can swap in an
// in-process fake.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Listings listingRepo.ListingRepository
	Payments paymentRepo.PaymentRepository
	Users    userRepo.UserRepository
	Gateway  payment.Gateway
	Enqueuer tasks.Enqueuer
	Logger   *zap.Logger

	// NowFn is injectable for tests; defaults to time.Now.
	NowFn func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.NowFn != nil {
		return s.NowFn()
	}
	return time.Now()
}
