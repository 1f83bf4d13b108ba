package booking

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"roamstay/models"
	"roamstay/services/tasks"
	"roamstay/utils"

	"go.uber.org/zap"
)

type testEnv struct {
	svc      *DefaultBookingService
	bookings *fakeBookingRepo
	listings *fakeListingRepo
	payments *fakePaymentRepo
	users    *fakeUserRepo
	gateway  *fakeGateway
	enqueuer *fakeEnqueuer
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		bookings: newFakeBookingRepo(),
		listings: newFakeListingRepo(),
		payments: newFakePaymentRepo(),
		users:    newFakeUserRepo(),
		gateway: &fakeGateway{
			initResp: &models.GatewayResponse{
				Status: "success",
				Data: map[string]interface{}{
					"checkout_url": "https://checkout.example/tx",
					"tx_ref":       "tx-123",
				},
			},
		},
		enqueuer: &fakeEnqueuer{},
	}
	env.svc = &DefaultBookingService{
		Bookings: env.bookings,
		Listings: env.listings,
		Payments: env.payments,
		Users:    env.users,
		Gateway:  env.gateway,
		Enqueuer: env.enqueuer,
		Logger:   zap.NewNop(),
		NowFn:    func() time.Time { return now },
	}
	return env
}

func (env *testEnv) addListing(id, hostID string, maxGuests int, basePrice float64) {
	env.listings.Create(&models.Listing{
		ID:        id,
		HostID:    hostID,
		Title:     "Lakeside Cabin",
		MaxGuests: maxGuests,
		BasePrice: basePrice,
		Status:    models.ListingStatusActive,
	})
}

func (env *testEnv) addUser(id, email string) {
	env.users.Create(&models.User{ID: id, Email: email})
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func decodePayload(t *testing.T, raw []byte) models.BookingEmailPayload {
	t.Helper()
	var p models.BookingEmailPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("payload decode error: %v", err)
	}
	return p
}

func TestCreateBooking(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	actor := models.Actor{ID: "g1", Email: "guest@example.com"}

	booking, err := env.svc.Create(context.Background(), actor, CreateInput{
		ListingID: "l1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-13"),
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if booking.Status != models.BookingStatusPending {
		t.Errorf("status = %q, want pending", booking.Status)
	}
	if len(booking.ConfirmationNumber) != 8 || booking.ConfirmationNumber != strings.ToUpper(booking.ConfirmationNumber) {
		t.Errorf("confirmation number %q is not 8 uppercase chars", booking.ConfirmationNumber)
	}
	if booking.TotalPrice != 300 {
		t.Errorf("total price = %v, want 300 (3 nights at 100)", booking.TotalPrice)
	}

	queued := env.enqueuer.ofType(tasks.TypeBookingConfirmationEmail)
	if len(queued) != 1 {
		t.Fatalf("confirmation tasks queued = %d, want 1", len(queued))
	}
	payload := decodePayload(t, queued[0].Payload())
	if payload.ConfirmationNumber != booking.ConfirmationNumber {
		t.Errorf("payload confirmation = %q, want %q", payload.ConfirmationNumber, booking.ConfirmationNumber)
	}
	if payload.Recipient != actor.Email {
		t.Errorf("payload recipient = %q, want %q", payload.Recipient, actor.Email)
	}

	// Payment initialization follows the durable write.
	if env.gateway.initCalls != 1 {
		t.Errorf("gateway init calls = %d, want 1", env.gateway.initCalls)
	}
	if len(env.payments.payments) != 1 {
		t.Fatalf("payments created = %d, want 1", len(env.payments.payments))
	}
	stored, _ := env.bookings.GetByID(booking.ID)
	if stored.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("booking payment status = %q, want pending", stored.PaymentStatus)
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.bookings.Create(&models.Booking{
		ID:        "b-existing",
		ListingID: "l1",
		GuestID:   "other",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-14"),
		Status:    models.BookingStatusConfirmed,
	})

	_, err := env.svc.Create(context.Background(), models.Actor{ID: "g1", Email: "g@example.com"}, CreateInput{
		ListingID: "l1",
		CheckIn:   day("2026-03-12"),
		CheckOut:  day("2026-03-16"),
		Guests:    2,
	})
	if utils.ErrorCode(err) != utils.CodeConflict {
		t.Fatalf("error = %v, want conflict", err)
	}
}

func TestCreateBookingAllowsBackToBack(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.bookings.Create(&models.Booking{
		ID:        "b-existing",
		ListingID: "l1",
		GuestID:   "other",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-14"),
		Status:    models.BookingStatusConfirmed,
	})

	// Check-in on the prior guest's check-out day is not an overlap.
	_, err := env.svc.Create(context.Background(), models.Actor{ID: "g1", Email: "g@example.com"}, CreateInput{
		ListingID: "l1",
		CheckIn:   day("2026-03-14"),
		CheckOut:  day("2026-03-16"),
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("back-to-back create error: %v", err)
	}
}

func TestCreateBookingIgnoresCancelledOverlap(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.bookings.Create(&models.Booking{
		ID:        "b-cancelled",
		ListingID: "l1",
		GuestID:   "other",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-14"),
		Status:    models.BookingStatusCancelled,
	})

	_, err := env.svc.Create(context.Background(), models.Actor{ID: "g1", Email: "g@example.com"}, CreateInput{
		ListingID: "l1",
		CheckIn:   day("2026-03-12"),
		CheckOut:  day("2026-03-16"),
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("create over cancelled booking error: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 2, 100)
	actor := models.Actor{ID: "g1", Email: "g@example.com"}

	_, err := env.svc.Create(context.Background(), actor, CreateInput{
		ListingID: "l1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-10"),
		Guests:    2,
	})
	if utils.ErrorCode(err) != utils.CodeValidation {
		t.Errorf("zero-night stay: error = %v, want validation", err)
	}

	_, err = env.svc.Create(context.Background(), actor, CreateInput{
		ListingID: "l1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Guests:    5,
	})
	if utils.ErrorCode(err) != utils.CodeValidation {
		t.Errorf("over capacity: error = %v, want validation", err)
	}

	_, err = env.svc.Create(context.Background(), actor, CreateInput{
		ListingID: "missing",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Guests:    1,
	})
	if utils.ErrorCode(err) != utils.CodeNotFound {
		t.Errorf("missing listing: error = %v, want not found", err)
	}
}

func TestCancelBooking(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.addUser("g1", "guest@example.com")
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Status:    models.BookingStatusConfirmed,
	})
	actor := models.Actor{ID: "g1", Email: "guest@example.com"}

	booking, err := env.svc.Cancel(context.Background(), actor, "b1")
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if booking.Status != models.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", booking.Status)
	}
	if booking.CancelledAt == nil {
		t.Error("cancelled_at not set")
	}
	if len(env.enqueuer.ofType(tasks.TypeBookingCancellationEmail)) != 1 {
		t.Errorf("cancellation tasks queued = %d, want 1", len(env.enqueuer.ofType(tasks.TypeBookingCancellationEmail)))
	}

	// A second cancel is rejected.
	_, err = env.svc.Cancel(context.Background(), actor, "b1")
	if utils.ErrorCode(err) != utils.CodeInvalidState {
		t.Fatalf("double cancel: error = %v, want invalid state", err)
	}
}

func TestCancelBookingAfterCheckIn(t *testing.T) {
	now := day("2026-03-11")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.addUser("g1", "guest@example.com")
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-14"),
		Status:    models.BookingStatusConfirmed,
	})

	_, err := env.svc.Cancel(context.Background(), models.Actor{ID: "g1"}, "b1")
	if utils.ErrorCode(err) != utils.CodeInvalidState {
		t.Fatalf("cancel after check-in: error = %v, want invalid state", err)
	}
}

func TestCancelBookingPermissions(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.addUser("g1", "guest@example.com")
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Status:    models.BookingStatusPending,
	})

	_, err := env.svc.Cancel(context.Background(), models.Actor{ID: "stranger"}, "b1")
	if utils.ErrorCode(err) != utils.CodePermission {
		t.Fatalf("stranger cancel: error = %v, want permission", err)
	}

	// Admins can cancel on the guest's behalf.
	if _, err := env.svc.Cancel(context.Background(), models.Actor{ID: "admin", IsAdmin: true}, "b1"); err != nil {
		t.Fatalf("admin cancel error: %v", err)
	}
}

func TestConfirmBooking(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.addUser("g1", "guest@example.com")
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Status:    models.BookingStatusPending,
	})

	// The guest cannot confirm their own booking.
	_, err := env.svc.Confirm(context.Background(), models.Actor{ID: "g1"}, "b1")
	if utils.ErrorCode(err) != utils.CodePermission {
		t.Fatalf("guest confirm: error = %v, want permission", err)
	}

	booking, err := env.svc.Confirm(context.Background(), models.Actor{ID: "host1"}, "b1")
	if err != nil {
		t.Fatalf("host confirm error: %v", err)
	}
	if booking.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}
	if booking.ConfirmedAt == nil {
		t.Error("confirmed_at not set")
	}

	queued := env.enqueuer.ofType(tasks.TypeBookingConfirmationEmail)
	if len(queued) != 1 {
		t.Fatalf("confirmation tasks queued = %d, want 1", len(queued))
	}
	payload := decodePayload(t, queued[0].Payload())
	if payload.Recipient != "guest@example.com" {
		t.Errorf("payload recipient = %q, want guest@example.com", payload.Recipient)
	}
}

func TestGetBookingVisibility(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Status:    models.BookingStatusPending,
	})

	for _, actor := range []models.Actor{
		{ID: "g1"},
		{ID: "host1"},
		{ID: "admin", IsAdmin: true},
	} {
		if _, err := env.svc.Get(actor, "b1"); err != nil {
			t.Errorf("actor %s: get error: %v", actor.ID, err)
		}
	}

	if _, err := env.svc.Get(models.Actor{ID: "stranger"}, "b1"); utils.ErrorCode(err) != utils.CodePermission {
		t.Errorf("stranger get: error = %v, want permission", err)
	}
}

func TestVerifyPaymentSuccess(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.addUser("g1", "guest@example.com")
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Status:    models.BookingStatusPending,
	})
	env.payments.Create(&models.Payment{
		ID:        "p1",
		BookingID: "b1",
		Reference: "ref-1",
		Amount:    200,
		Status:    models.PaymentStatusPending,
	})
	env.gateway.verifyResp = &models.GatewayResponse{
		Status: "success",
		Data:   map[string]interface{}{"status": "success"},
	}

	p, err := env.svc.VerifyPayment(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if p.Status != models.PaymentStatusCompleted {
		t.Errorf("payment status = %q, want completed", p.Status)
	}
	if p.PaidAt == nil {
		t.Error("paid_at not set")
	}

	booking, _ := env.bookings.GetByID("b1")
	if booking.Status != models.BookingStatusConfirmed {
		t.Errorf("booking status = %q, want confirmed", booking.Status)
	}
	if booking.PaymentStatus != models.PaymentStatusCompleted {
		t.Errorf("booking payment status = %q, want completed", booking.PaymentStatus)
	}
	if len(env.enqueuer.ofType(tasks.TypeBookingConfirmationEmail)) != 1 {
		t.Errorf("confirmation tasks queued = %d, want 1", len(env.enqueuer.ofType(tasks.TypeBookingConfirmationEmail)))
	}
}

func TestVerifyPaymentFailure(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Status:    models.BookingStatusPending,
	})
	env.payments.Create(&models.Payment{
		ID:        "p1",
		BookingID: "b1",
		Reference: "ref-1",
		Amount:    200,
		Status:    models.PaymentStatusPending,
	})
	env.gateway.verifyResp = &models.GatewayResponse{
		Status: "success",
		Data:   map[string]interface{}{"status": "failed"},
	}

	p, err := env.svc.VerifyPayment(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if p.Status != models.PaymentStatusFailed {
		t.Errorf("payment status = %q, want failed", p.Status)
	}

	// Only the booking's payment flag moves; the booking itself stays pending.
	booking, _ := env.bookings.GetByID("b1")
	if booking.Status != models.BookingStatusPending {
		t.Errorf("booking status = %q, want pending", booking.Status)
	}
	if booking.PaymentStatus != models.PaymentStatusFailed {
		t.Errorf("booking payment status = %q, want failed", booking.PaymentStatus)
	}
	if len(env.enqueuer.tasks) != 0 {
		t.Errorf("tasks queued = %d, want 0", len(env.enqueuer.tasks))
	}
}

func TestStartPaymentRejectedByGateway(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.gateway.initResp = &models.GatewayResponse{Status: "failed"}

	_, _, err := env.svc.StartPayment(context.Background(), models.Actor{ID: "g1"}, 100, "g@example.com", "")
	if utils.ErrorCode(err) != utils.CodeGateway {
		t.Fatalf("error = %v, want gateway", err)
	}
	if len(env.payments.payments) != 0 {
		t.Errorf("payments created = %d, want 0", len(env.payments.payments))
	}
}

func TestStartPaymentLinksBooking(t *testing.T) {
	now := day("2026-03-01")
	env := newTestEnv(now)
	env.addListing("l1", "host1", 4, 100)
	env.bookings.Create(&models.Booking{
		ID:        "b1",
		ListingID: "l1",
		GuestID:   "g1",
		CheckIn:   day("2026-03-10"),
		CheckOut:  day("2026-03-12"),
		Status:    models.BookingStatusPending,
	})

	p, checkoutURL, err := env.svc.StartPayment(context.Background(), models.Actor{ID: "g1"}, 200, "g@example.com", "b1")
	if err != nil {
		t.Fatalf("start payment error: %v", err)
	}
	if p.BookingID != "b1" {
		t.Errorf("payment booking id = %q, want b1", p.BookingID)
	}
	if checkoutURL != "https://checkout.example/tx" {
		t.Errorf("checkout url = %q", checkoutURL)
	}

	booking, _ := env.bookings.GetByID("b1")
	if booking.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("booking payment status = %q, want pending", booking.PaymentStatus)
	}
}
