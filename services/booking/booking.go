package booking

import (
	"context"
	"time"

	"roamstay/models"
	"roamstay/services/tasks"
	"roamstay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create validates the request, persists the booking with status
// pending, and only then dispatches the confirmation email and payment
// initialization side effects. A payment failure never rolls the
// booking back.
func (s *DefaultBookingService) Create(ctx context.Context, actor models.Actor, input CreateInput) (*models.Booking, error) {
	listing, err := s.Listings.GetByID(input.ListingID)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", input.ListingID)
	}
	if !listing.IsActive() {
		return nil, utils.NewValidationError("listing %s is not open for booking", listing.ID)
	}

	checkIn := truncateToDay(input.CheckIn)
	checkOut := truncateToDay(input.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, utils.NewValidationError("check_out must be after check_in")
	}
	if input.Guests > listing.MaxGuests {
		return nil, utils.NewValidationError("listing accommodates at most %d guests", listing.MaxGuests)
	}

	// Overlap pre-check against confirmed/active bookings. Not enforced
	// by a storage constraint, so two concurrent requests can still both
	// pass; the check rejects the common case.
	overlapping, err := s.Bookings.CountOverlapping(listing.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, utils.NewConflictError("listing %s is unavailable for the requested dates", listing.ID)
	}

	totalPrice := input.TotalPrice
	if totalPrice <= 0 {
		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		totalPrice = listing.BasePrice * float64(nights)
	}

	now := s.now().UTC()
	booking := &models.Booking{
		ID:                 uuid.New().String(),
		ListingID:          listing.ID,
		GuestID:            actor.ID,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		Guests:             input.Guests,
		TotalPrice:         totalPrice,
		Status:             models.BookingStatusPending,
		ConfirmationNumber: models.NewConfirmationNumber(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.Bookings.Create(booking); err != nil {
		return nil, err
	}

	// The write is durable at this point; side effects follow.
	s.enqueueConfirmationEmail(booking, listing.Title, actor.Email)

	if booking.TotalPrice > 0 {
		if p := s.InitializePayment(ctx, booking, actor.Email); p != nil {
			booking.PaymentStatus = models.PaymentStatusPending
			if err := s.Bookings.Update(booking); err != nil {
				s.Logger.Error("failed to mark booking payment pending",
					zap.String("booking", booking.ID), zap.Error(err))
			}
		}
	}

	return booking, nil
}

// Get returns a booking visible to the actor: its guest, the listing's
// host, or an admin.
func (s *DefaultBookingService) Get(actor models.Actor, id string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(id)
	if err != nil {
		return nil, utils.NewNotFoundError("booking %s not found", id)
	}
	if actor.IsAdmin || booking.GuestID == actor.ID {
		return booking, nil
	}
	if listing, err := s.Listings.GetByID(booking.ListingID); err == nil && listing.HostID == actor.ID {
		return booking, nil
	}
	return nil, utils.NewPermissionError("you do not have access to this booking")
}

// List returns all bookings for admins, the actor's own otherwise.
func (s *DefaultBookingService) List(actor models.Actor) ([]models.Booking, error) {
	if actor.IsAdmin {
		return s.Bookings.All()
	}
	return s.Bookings.ByGuest(actor.ID)
}

// Cancel moves the booking to cancelled if the actor may do so and the
// cancellation policy still allows it. Cancelling twice is rejected.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(id)
	if err != nil {
		return nil, utils.NewNotFoundError("booking %s not found", id)
	}
	if booking.GuestID != actor.ID && !actor.IsAdmin {
		return nil, utils.NewPermissionError("you do not have permission to cancel this booking")
	}
	now := s.now().UTC()
	if !booking.CanBeCancelled(now) {
		return nil, utils.NewInvalidStateError("this booking cannot be cancelled")
	}

	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	if err := s.Bookings.Update(booking); err != nil {
		return nil, err
	}

	if recipient := s.guestEmail(booking); recipient != "" {
		payload := s.emailPayload(booking, recipient)
		payload.CancelledAt = now.Format("2006-01-02 15:04:05")
		if task, opts, err := tasks.NewBookingCancellationTask(payload); err == nil {
			_ = s.Enqueuer.Enqueue(task, opts...)
		} else {
			s.Logger.Error("failed to build cancellation task",
				zap.String("booking", booking.ID), zap.Error(err))
		}
	}

	return booking, nil
}

// Confirm moves the booking to confirmed. Only an admin or the
// listing's host may confirm; the guest gets a confirmation email.
func (s *DefaultBookingService) Confirm(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(id)
	if err != nil {
		return nil, utils.NewNotFoundError("booking %s not found", id)
	}
	if !actor.IsAdmin {
		listing, err := s.Listings.GetByID(booking.ListingID)
		if err != nil || listing.HostID != actor.ID {
			return nil, utils.NewPermissionError("only the host or admin can confirm bookings")
		}
	}

	now := s.now().UTC()
	booking.Status = models.BookingStatusConfirmed
	booking.ConfirmedAt = &now
	if err := s.Bookings.Update(booking); err != nil {
		return nil, err
	}

	s.enqueueConfirmationEmail(booking, s.listingTitle(booking.ListingID), s.guestEmail(booking))
	return booking, nil
}

// Upcoming returns the actor's future confirmed bookings, soonest first.
func (s *DefaultBookingService) Upcoming(actor models.Actor) ([]models.Booking, error) {
	return s.Bookings.Upcoming(actor.ID, truncateToDay(s.now().UTC()))
}

// Past returns the actor's completed stays, most recent first.
func (s *DefaultBookingService) Past(actor models.Actor) ([]models.Booking, error) {
	return s.Bookings.Past(actor.ID, truncateToDay(s.now().UTC()))
}

// HostBookings returns bookings across all listings the actor hosts.
func (s *DefaultBookingService) HostBookings(actor models.Actor) ([]models.Booking, error) {
	listings, err := s.Listings.ByHost(actor.ID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, nil
	}
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return s.Bookings.ByListings(ids)
}

// ListingBookings returns one listing's bookings to its host or an admin.
func (s *DefaultBookingService) ListingBookings(actor models.Actor, listingID string) ([]models.Booking, error) {
	listing, err := s.Listings.GetByID(listingID)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", listingID)
	}
	if !actor.IsAdmin && listing.HostID != actor.ID {
		return nil, utils.NewPermissionError("only the host or admin can view a listing's bookings")
	}
	return s.Bookings.ByListing(listingID)
}

func (s *DefaultBookingService) enqueueConfirmationEmail(booking *models.Booking, listingTitle, recipient string) {
	if recipient == "" {
		s.Logger.Warn("skipping confirmation email without recipient",
			zap.String("booking", booking.ID))
		return
	}
	payload := s.emailPayload(booking, recipient)
	if listingTitle != "" {
		payload.ListingTitle = listingTitle
	}
	task, opts, err := tasks.NewBookingConfirmationTask(payload)
	if err != nil {
		s.Logger.Error("failed to build confirmation task",
			zap.String("booking", booking.ID), zap.Error(err))
		return
	}
	_ = s.Enqueuer.Enqueue(task, opts...)
}

func (s *DefaultBookingService) emailPayload(booking *models.Booking, recipient string) models.BookingEmailPayload {
	payload := models.BookingEmailPayload{
		BookingID:          booking.ID,
		ConfirmationNumber: booking.ConfirmationNumber,
		ListingTitle:       s.listingTitle(booking.ListingID),
		CheckIn:            booking.CheckIn.Format("2006-01-02"),
		CheckOut:           booking.CheckOut.Format("2006-01-02"),
		Guests:             booking.Guests,
		TotalPrice:         booking.TotalPrice,
		Status:             booking.Status,
		CreatedAt:          booking.CreatedAt.Format("2006-01-02 15:04:05"),
		Recipient:          recipient,
	}
	if booking.ConfirmedAt != nil {
		payload.ConfirmedAt = booking.ConfirmedAt.Format("2006-01-02 15:04:05")
	}
	if booking.PaidAt != nil {
		payload.PaidAt = booking.PaidAt.Format("2006-01-02 15:04:05")
	}
	return payload
}

func (s *DefaultBookingService) listingTitle(listingID string) string {
	if listing, err := s.Listings.GetByID(listingID); err == nil {
		return listing.Title
	}
	return "Listing"
}

func (s *DefaultBookingService) guestEmail(booking *models.Booking) string {
	guest, err := s.Users.GetByID(booking.GuestID)
	if err != nil {
		s.Logger.Warn("guest lookup failed for notification",
			zap.String("booking", booking.ID), zap.Error(err))
		return ""
	}
	return guest.Email
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
