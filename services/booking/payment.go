package booking

import (
	"context"

	"roamstay/models"
	"roamstay/services/payment"
	"roamstay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InitializePayment starts a gateway transaction for the booking and
// records the pending Payment row. Failures are logged and swallowed:
// the booking stands regardless, and the guest can re-initiate through
// the payment endpoint.
func (s *DefaultBookingService) InitializePayment(ctx context.Context, booking *models.Booking, email string) *models.Payment {
	reference := uuid.New().String()

	resp, err := s.Gateway.Initialize(ctx, booking.TotalPrice, email, reference)
	if err != nil || resp.Status != "success" {
		s.Logger.Error("payment initialization failed",
			zap.String("booking", booking.ID), zap.Error(err))
		return nil
	}

	p := &models.Payment{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		Amount:        booking.TotalPrice,
		Email:         email,
		Reference:     reference,
		TransactionID: payment.DataString(resp, "tx_ref"),
		Status:        models.PaymentStatusPending,
		InitResponse:  resp,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.Payments.Create(p); err != nil {
		s.Logger.Error("failed to persist payment",
			zap.String("booking", booking.ID), zap.Error(err))
		return nil
	}
	return p
}

// StartPayment backs the explicit payment-start endpoint. Unlike the
// create-side initialization, a gateway failure here is surfaced to the
// caller. Repeated calls for the same booking create further Payment
// rows; they are not deduplicated.
func (s *DefaultBookingService) StartPayment(ctx context.Context, actor models.Actor, amount float64, email, bookingID string) (*models.Payment, string, error) {
	if amount <= 0 || email == "" {
		return nil, "", utils.NewValidationError("amount and email are required")
	}

	var booking *models.Booking
	if bookingID != "" {
		var err error
		booking, err = s.Bookings.GetByID(bookingID)
		if err != nil {
			return nil, "", utils.NewNotFoundError("booking %s not found", bookingID)
		}
	}

	reference := uuid.New().String()
	resp, err := s.Gateway.Initialize(ctx, amount, email, reference)
	if err != nil {
		return nil, "", utils.NewGatewayError("failed to initialize payment: %v", err)
	}
	if resp.Status != "success" {
		return nil, "", utils.NewGatewayError("payment provider rejected initialization")
	}

	p := &models.Payment{
		ID:            uuid.New().String(),
		Amount:        amount,
		Email:         email,
		Reference:     reference,
		TransactionID: payment.DataString(resp, "tx_ref"),
		Status:        models.PaymentStatusPending,
		InitResponse:  resp,
		CreatedAt:     s.now().UTC(),
	}
	if booking != nil {
		p.BookingID = booking.ID
	}
	if err := s.Payments.Create(p); err != nil {
		return nil, "", err
	}

	if booking != nil {
		booking.PaymentStatus = models.PaymentStatusPending
		if err := s.Bookings.Update(booking); err != nil {
			s.Logger.Error("failed to mark booking payment pending",
				zap.String("booking", booking.ID), zap.Error(err))
		}
	}

	return p, payment.DataString(resp, "checkout_url"), nil
}

// VerifyPayment settles a payment by reference. A gateway status of
// "success" completes the payment and confirms the linked booking; any
// other status fails the payment and flips only the booking's
// payment_status.
func (s *DefaultBookingService) VerifyPayment(ctx context.Context, reference string) (*models.Payment, error) {
	p, err := s.Payments.GetByReference(reference)
	if err != nil {
		return nil, utils.NewNotFoundError("payment not found")
	}

	resp, err := s.Gateway.Verify(ctx, reference)
	if err != nil {
		return nil, utils.NewGatewayError("payment verification failed: %v", err)
	}
	p.VerifyResponse = resp

	now := s.now().UTC()
	if payment.DataString(resp, "status") == "success" {
		p.Status = models.PaymentStatusCompleted
		p.PaidAt = &now

		if p.BookingID != "" {
			booking, err := s.Bookings.GetByID(p.BookingID)
			if err != nil {
				s.Logger.Error("verified payment references missing booking",
					zap.String("payment", p.ID), zap.String("booking", p.BookingID), zap.Error(err))
			} else {
				booking.Status = models.BookingStatusConfirmed
				booking.PaymentStatus = models.PaymentStatusCompleted
				booking.PaidAt = &now
				if err := s.Bookings.Update(booking); err != nil {
					s.Logger.Error("failed to confirm booking after payment",
						zap.String("booking", booking.ID), zap.Error(err))
				} else {
					s.enqueueConfirmationEmail(booking, s.listingTitle(booking.ListingID), s.guestEmail(booking))
				}
			}
		}
	} else {
		p.Status = models.PaymentStatusFailed

		if p.BookingID != "" {
			booking, err := s.Bookings.GetByID(p.BookingID)
			if err == nil {
				booking.PaymentStatus = models.PaymentStatusFailed
				if err := s.Bookings.Update(booking); err != nil {
					s.Logger.Error("failed to mark booking payment failed",
						zap.String("booking", booking.ID), zap.Error(err))
				}
			}
		}
	}

	if err := s.Payments.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// PaymentHistory returns the actor's payments, newest first.
func (s *DefaultBookingService) PaymentHistory(actor models.Actor) ([]models.Payment, error) {
	return s.Payments.History(actor.Email, actor.ID)
}

var _ BookingService = (*DefaultBookingService)(nil)
