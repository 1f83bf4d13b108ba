package notification

import (
	"fmt"
	"time"

	bookingRepo "roamstay/database/repository/booking"
	listingRepo "roamstay/database/repository/listing"
	userRepo "roamstay/database/repository/user"
	"roamstay/models"

	"go.uber.org/zap"
)

// Service owns the asynchronous email jobs. Each method is one
// retryable unit of work invoked by the queue worker; none of them is
// ever called on a request path.
type Service struct {
	Bookings   bookingRepo.BookingRepository
	Listings   listingRepo.ListingRepository
	Users      userRepo.UserRepository
	Mailer     Mailer
	Logger     *zap.Logger
	AdminEmail string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SendBookingConfirmation renders and sends the confirmation email.
// The worker retries this job on error (bounded retries, fixed delay).
func (s *Service) SendBookingConfirmation(p models.BookingEmailPayload) error {
	html, err := Render("booking_confirmation.html", p)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Booking Confirmation - %s", p.ConfirmationNumber)
	if err := s.Mailer.Send(p.Recipient, subject, html); err != nil {
		s.Logger.Error("failed to send booking confirmation email",
			zap.String("booking", p.BookingID), zap.Error(err))
		return err
	}
	s.Logger.Info("booking confirmation email sent",
		zap.String("booking", p.BookingID), zap.String("to", p.Recipient))
	return nil
}

// SendBookingCancellation is single-attempt: a failure is logged and
// swallowed so the worker never retries it.
func (s *Service) SendBookingCancellation(p models.BookingEmailPayload) error {
	html, err := Render("booking_cancellation.html", p)
	if err != nil {
		s.Logger.Error("failed to render cancellation email",
			zap.String("booking", p.BookingID), zap.Error(err))
		return nil
	}
	subject := fmt.Sprintf("Booking Cancelled - %s", p.ConfirmationNumber)
	if err := s.Mailer.Send(p.Recipient, subject, html); err != nil {
		s.Logger.Error("failed to send cancellation email",
			zap.String("booking", p.BookingID), zap.Error(err))
		return nil
	}
	s.Logger.Info("booking cancellation email sent",
		zap.String("booking", p.BookingID), zap.String("to", p.Recipient))
	return nil
}

// SendBookingReminder scans confirmed bookings checking in tomorrow and
// mails each guest. One recipient's failure does not abort the batch;
// the count of emails actually sent is returned.
func (s *Service) SendBookingReminder() (int, error) {
	tomorrow := s.now().Add(24 * time.Hour)
	bookings, err := s.Bookings.ConfirmedByCheckInDate(tomorrow)
	if err != nil {
		return 0, fmt.Errorf("reminder scan failed: %w", err)
	}

	sent := 0
	for _, b := range bookings {
		guest, err := s.Users.GetByID(b.GuestID)
		if err != nil {
			s.Logger.Error("reminder: guest lookup failed",
				zap.String("booking", b.ID), zap.Error(err))
			continue
		}
		payload := s.payloadFor(&b)
		payload.Recipient = guest.Email

		html, err := Render("booking_reminder.html", payload)
		if err != nil {
			s.Logger.Error("reminder: render failed",
				zap.String("booking", b.ID), zap.Error(err))
			continue
		}
		subject := fmt.Sprintf("Reminder: Your booking tomorrow - %s", payload.ListingTitle)
		if err := s.Mailer.Send(guest.Email, subject, html); err != nil {
			s.Logger.Error("reminder: send failed",
				zap.String("booking", b.ID), zap.Error(err))
			continue
		}
		sent++
	}

	s.Logger.Info("booking reminders sent", zap.Int("count", sent))
	return sent, nil
}

// SendDailyBookingSummary aggregates today's bookings and mails the
// digest to the admin address. Single attempt.
func (s *Service) SendDailyBookingSummary() error {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	bookings, err := s.Bookings.CreatedBetween(start, start.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("summary scan failed: %w", err)
	}

	summary := models.DailySummary{
		Date:          start.Format("2006-01-02"),
		TotalBookings: len(bookings),
	}
	for _, b := range bookings {
		switch b.Status {
		case models.BookingStatusConfirmed:
			summary.ConfirmedCount++
			summary.TotalRevenue += b.TotalPrice
		case models.BookingStatusCancelled:
			summary.CancelledCount++
		}
	}
	if len(bookings) > 10 {
		summary.Recent = bookings[:10]
	} else {
		summary.Recent = bookings
	}

	html, err := Render("daily_summary.html", summary)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Daily Booking Summary - %s", summary.Date)
	if err := s.Mailer.Send(s.AdminEmail, subject, html); err != nil {
		return err
	}
	s.Logger.Info("daily booking summary sent", zap.String("date", summary.Date))
	return nil
}

// CleanupOldBookings purges cancelled bookings last updated more than
// 30 days ago. Irreversible; returns the number deleted.
func (s *Service) CleanupOldBookings() (int64, error) {
	cutoff := s.now().Add(-30 * 24 * time.Hour)
	deleted, err := s.Bookings.DeleteCancelledBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup failed: %w", err)
	}
	s.Logger.Info("cleaned up old cancelled bookings", zap.Int64("count", deleted))
	return deleted, nil
}

// CheckListingSupply emails the admin when the number of active
// listings drops below the threshold.
func (s *Service) CheckListingSupply(threshold int) error {
	active, err := s.Listings.CountActive()
	if err != nil {
		return fmt.Errorf("supply check failed: %w", err)
	}
	if active >= int64(threshold) {
		return nil
	}

	html, err := Render("low_stock.html", map[string]any{
		"ActiveListings": active,
		"Threshold":      threshold,
	})
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(s.AdminEmail, "Listing supply below threshold", html); err != nil {
		return err
	}
	s.Logger.Warn("listing supply below threshold",
		zap.Int64("active", active), zap.Int("threshold", threshold))
	return nil
}

func (s *Service) payloadFor(b *models.Booking) models.BookingEmailPayload {
	title := "Listing"
	if listing, err := s.Listings.GetByID(b.ListingID); err == nil {
		title = listing.Title
	}
	return models.BookingEmailPayload{
		BookingID:          b.ID,
		ConfirmationNumber: b.ConfirmationNumber,
		ListingTitle:       title,
		CheckIn:            b.CheckIn.Format("2006-01-02"),
		CheckOut:           b.CheckOut.Format("2006-01-02"),
		Guests:             b.Guests,
		TotalPrice:         b.TotalPrice,
		Status:             b.Status,
	}
}
