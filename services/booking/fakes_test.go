package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	listingRepo "roamstay/database/repository/listing"
	"roamstay/models"

	"github.com/hibiken/asynq"
)

// In-memory fakes implementing the repository and gateway interfaces.

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	copy := *b
	r.bookings[b.ID] = &copy
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copy := *b
	return &copy, nil
}

func (r *fakeBookingRepo) Update(b *models.Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return errors.New("not found")
	}
	copy := *b
	r.bookings[b.ID] = &copy
	return nil
}

func (r *fakeBookingRepo) CountOverlapping(listingID string, checkIn, checkOut time.Time) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.ListingID == listingID && b.HoldsDates() && b.Overlaps(checkIn, checkOut) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) UnavailableListingIDs(checkIn, checkOut time.Time) ([]string, error) {
	seen := make(map[string]bool)
	for _, b := range r.bookings {
		if b.HoldsDates() && b.Overlaps(checkIn, checkOut) {
			seen[b.ListingID] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeBookingRepo) All() ([]models.Booking, error) {
	return r.collect(func(*models.Booking) bool { return true }), nil
}

func (r *fakeBookingRepo) ByGuest(guestID string) ([]models.Booking, error) {
	return r.collect(func(b *models.Booking) bool { return b.GuestID == guestID }), nil
}

func (r *fakeBookingRepo) Upcoming(guestID string, from time.Time) ([]models.Booking, error) {
	return r.collect(func(b *models.Booking) bool {
		return b.GuestID == guestID && !b.CheckIn.Before(from)
	}), nil
}

func (r *fakeBookingRepo) Past(guestID string, before time.Time) ([]models.Booking, error) {
	return r.collect(func(b *models.Booking) bool {
		return b.GuestID == guestID && b.CheckOut.Before(before)
	}), nil
}

func (r *fakeBookingRepo) ByListings(listingIDs []string) ([]models.Booking, error) {
	set := make(map[string]bool, len(listingIDs))
	for _, id := range listingIDs {
		set[id] = true
	}
	return r.collect(func(b *models.Booking) bool { return set[b.ListingID] }), nil
}

func (r *fakeBookingRepo) ByListing(listingID string) ([]models.Booking, error) {
	return r.collect(func(b *models.Booking) bool { return b.ListingID == listingID }), nil
}

func (r *fakeBookingRepo) ConfirmedByCheckInDate(day time.Time) ([]models.Booking, error) {
	day = day.UTC()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return r.collect(func(b *models.Booking) bool {
		return b.Status == models.BookingStatusConfirmed &&
			!b.CheckIn.Before(dayStart) && b.CheckIn.Before(dayStart.AddDate(0, 0, 1))
	}), nil
}

func (r *fakeBookingRepo) CreatedBetween(from, to time.Time) ([]models.Booking, error) {
	return r.collect(func(b *models.Booking) bool {
		return !b.CreatedAt.Before(from) && b.CreatedAt.Before(to)
	}), nil
}

func (r *fakeBookingRepo) DeleteCancelledBefore(cutoff time.Time) (int64, error) {
	var deleted int64
	for id, b := range r.bookings {
		if b.Status == models.BookingStatusCancelled && b.UpdatedAt.Before(cutoff) {
			delete(r.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeBookingRepo) collect(keep func(*models.Booking) bool) []models.Booking {
	var out []models.Booking
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	return out
}

type fakeListingRepo struct {
	listings map[string]*models.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*models.Listing)}
}

func (r *fakeListingRepo) Create(l *models.Listing) error {
	copy := *l
	r.listings[l.ID] = &copy
	return nil
}

func (r *fakeListingRepo) GetByID(id string) (*models.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copy := *l
	return &copy, nil
}

func (r *fakeListingRepo) Update(l *models.Listing) error {
	copy := *l
	r.listings[l.ID] = &copy
	return nil
}

func (r *fakeListingRepo) Search(criteria listingRepo.SearchCriteria) ([]models.Listing, int64, error) {
	var out []models.Listing
	excluded := make(map[string]bool, len(criteria.ExcludeIDs))
	for _, id := range criteria.ExcludeIDs {
		excluded[id] = true
	}
	for _, l := range r.listings {
		if l.Status != models.ListingStatusActive || excluded[l.ID] {
			continue
		}
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) ByHost(hostID string) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range r.listings {
		if l.HostID == hostID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) CountActive() (int64, error) {
	var n int64
	for _, l := range r.listings {
		if l.Status == models.ListingStatusActive {
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	payments map[string]*models.Payment // keyed by reference
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (r *fakePaymentRepo) Create(p *models.Payment) error {
	copy := *p
	r.payments[p.Reference] = &copy
	return nil
}

func (r *fakePaymentRepo) GetByReference(reference string) (*models.Payment, error) {
	p, ok := r.payments[reference]
	if !ok {
		return nil, errors.New("not found")
	}
	copy := *p
	return &copy, nil
}

func (r *fakePaymentRepo) Update(p *models.Payment) error {
	copy := *p
	r.payments[p.Reference] = &copy
	return nil
}

func (r *fakePaymentRepo) History(email, guestID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if p.Email == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(u *models.User) error {
	copy := *u
	r.users[u.ID] = &copy
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, errors.New("not found")
}

type fakeGateway struct {
	initResp   *models.GatewayResponse
	initErr    error
	verifyResp *models.GatewayResponse
	verifyErr  error
	initCalls  int
}

func (g *fakeGateway) Initialize(ctx context.Context, amount float64, email, reference string) (*models.GatewayResponse, error) {
	g.initCalls++
	return g.initResp, g.initErr
}

func (g *fakeGateway) Verify(ctx context.Context, reference string) (*models.GatewayResponse, error) {
	return g.verifyResp, g.verifyErr
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) error {
	e.tasks = append(e.tasks, task)
	return nil
}

func (e *fakeEnqueuer) ofType(taskType string) []*asynq.Task {
	var out []*asynq.Task
	for _, t := range e.tasks {
		if t.Type() == taskType {
			out = append(out, t)
		}
	}
	return out
}
