package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusActive    = "active"
)

// Payment statuses carried on a booking.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Booking represents a guest's reservation of a listing over a
// half-open [check_in, check_out) window.
type Booking struct {
	ID                 string     `bson:"id" json:"id"`
	ListingID          string     `bson:"listing_id" json:"listing_id"`
	GuestID            string     `bson:"guest_id" json:"guest_id"`
	CheckIn            time.Time  `bson:"check_in" json:"check_in"`
	CheckOut           time.Time  `bson:"check_out" json:"check_out"`
	Guests             int        `bson:"guests" json:"guests"`
	TotalPrice         float64    `bson:"total_price" json:"total_price"`
	Status             string     `bson:"status" json:"status"`
	ConfirmationNumber string     `bson:"confirmation_number" json:"confirmation_number"`
	PaymentStatus      string     `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
	ConfirmedAt        *time.Time `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	PaidAt             *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}

// NewConfirmationNumber returns a short human-facing booking code:
// the first 8 characters of a UUID, uppercased.
func NewConfirmationNumber() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// CanBeCancelled reports whether the booking may still be cancelled:
// it must not already be cancelled or in progress, and the stay must
// not have started.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	switch b.Status {
	case BookingStatusPending, BookingStatusConfirmed:
		return now.Before(b.CheckIn)
	default:
		return false
	}
}

// Overlaps applies the half-open interval overlap test against another
// date window on the same listing.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// HoldsDates reports whether the booking's status makes its window
// count against listing availability.
func (b *Booking) HoldsDates() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusActive
}
