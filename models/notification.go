package models

// BookingEmailPayload is the context handed to the booking email tasks.
// Fields mirror what the templates render; times are pre-formatted so
// the payload survives JSON round-trips on the queue unchanged.
type BookingEmailPayload struct {
	BookingID          string  `json:"booking_id"`
	ConfirmationNumber string  `json:"confirmation_number"`
	ListingTitle       string  `json:"listing_title"`
	CheckIn            string  `json:"check_in"`
	CheckOut           string  `json:"check_out"`
	Guests             int     `json:"guests"`
	TotalPrice         float64 `json:"total_price"`
	Status             string  `json:"status"`
	CreatedAt          string  `json:"created_at,omitempty"`
	ConfirmedAt        string  `json:"confirmed_at,omitempty"`
	CancelledAt        string  `json:"cancelled_at,omitempty"`
	PaidAt             string  `json:"paid_at,omitempty"`
	Recipient          string  `json:"recipient"`
}

// DailySummary aggregates one day's booking activity for the admin
// digest.
type DailySummary struct {
	Date           string    `json:"date"`
	TotalBookings  int       `json:"total_bookings"`
	ConfirmedCount int       `json:"confirmed_count"`
	CancelledCount int       `json:"cancelled_count"`
	TotalRevenue   float64   `json:"total_revenue"`
	Recent         []Booking `json:"recent"`
}

// LowStockPayload parametrizes the periodic listing-supply check.
type LowStockPayload struct {
	Threshold int `json:"threshold"`
}
