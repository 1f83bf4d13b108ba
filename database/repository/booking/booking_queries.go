package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"roamstay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// holdsDates matches statuses that count against availability.
var holdsDates = bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusActive}}

// overlapFilter builds the half-open interval overlap test:
// existing.check_in < check_out AND existing.check_out > check_in.
func overlapFilter(checkIn, checkOut time.Time) bson.M {
	return bson.M{
		"status":    holdsDates,
		"check_in":  bson.M{"$lt": checkOut},
		"check_out": bson.M{"$gt": checkIn},
	}
}

func (r *MongoBookingRepo) CountOverlapping(listingID string, checkIn, checkOut time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := overlapFilter(checkIn, checkOut)
	filter["listing_id"] = listingID
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings for listing %s: %w", listingID, err)
	}
	return n, nil
}

func (r *MongoBookingRepo) UnavailableListingIDs(checkIn, checkOut time.Time) ([]string, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "listing_id", overlapFilter(checkIn, checkOut))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unavailable listings: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("booking query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) All() ([]models.Booking, error) {
	ctx, cancel := newContext(30 * time.Second)
	defer cancel()
	return r.find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *MongoBookingRepo) ByGuest(guestID string) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	return r.find(ctx, bson.M{"guest_id": guestID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *MongoBookingRepo) Upcoming(guestID string, from time.Time) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	return r.find(ctx, bson.M{
		"guest_id": guestID,
		"status":   models.BookingStatusConfirmed,
		"check_in": bson.M{"$gte": from},
	}, options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}}))
}

func (r *MongoBookingRepo) Past(guestID string, before time.Time) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	return r.find(ctx, bson.M{
		"guest_id":  guestID,
		"check_out": bson.M{"$lt": before},
	}, options.Find().SetSort(bson.D{{Key: "check_out", Value: -1}}))
}

func (r *MongoBookingRepo) ByListings(listingIDs []string) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	return r.find(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *MongoBookingRepo) ByListing(listingID string) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	return r.find(ctx, bson.M{"listing_id": listingID},
		options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}}))
}

// ConfirmedByCheckInDate matches confirmed bookings whose check-in falls
// inside the UTC calendar day containing the given time.
func (r *MongoBookingRepo) ConfirmedByCheckInDate(day time.Time) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return r.find(ctx, bson.M{
		"status":   models.BookingStatusConfirmed,
		"check_in": bson.M{"$gte": start, "$lt": end},
	})
}

func (r *MongoBookingRepo) CreatedBetween(from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	return r.find(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lt": to}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *MongoBookingRepo) DeleteCancelledBefore(cutoff time.Time) (int64, error) {
	ctx, cancel := newContext(30 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{
		"status":     models.BookingStatusCancelled,
		"updated_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete old cancelled bookings: %w", err)
	}
	return result.DeletedCount, nil
}
