package listingRepo

import (
	"context"
	"fmt"
	"time"

	"roamstay/database"
	"roamstay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates a new instance backed by the "listings" collection.
func NewMongoListingRepo() ListingRepository {
	return &MongoListingRepo{coll: database.Collection("listings")}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// Create inserts a new listing document.
func (r *MongoListingRepo) Create(listing *models.Listing) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, listing)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *MongoListingRepo) GetByID(id string) (*models.Listing, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var listing models.Listing
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to fetch listing with id %s: %w", id, err)
	}
	return &listing, nil
}

// Update replaces the stored document for the listing.
func (r *MongoListingRepo) Update(listing *models.Listing) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	listing.UpdatedAt = time.Now().UTC()
	filter := bson.M{"id": listing.ID}
	update := bson.M{"$set": listing}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update listing with id %s: %w", listing.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("listing with id %s not found", listing.ID)
	}
	return nil
}

// ByHost returns every listing owned by the host.
func (r *MongoListingRepo) ByHost(hostID string) ([]models.Listing, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"host_id": hostID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve listings for host %s: %w", hostID, err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

// CountActive counts listings currently open for booking.
func (r *MongoListingRepo) CountActive() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"status": models.ListingStatusActive})
	if err != nil {
		return 0, fmt.Errorf("failed to count active listings: %w", err)
	}
	return n, nil
}
