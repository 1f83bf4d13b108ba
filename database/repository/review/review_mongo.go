package reviewRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roamstay/database"
	"roamstay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a new instance backed by the "reviews" collection.
func NewMongoReviewRepo() ReviewRepository {
	return &MongoReviewRepo{coll: database.Collection("reviews")}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoReviewRepo) Create(review *models.Review) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) GetByID(id string) (*models.Review, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		return nil, fmt.Errorf("failed to fetch review with id %s: %w", id, err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) Update(review *models.Review) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	review.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": review.ID}, bson.M{"$set": review})
	if err != nil {
		return fmt.Errorf("failed to update review with id %s: %w", review.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("review with id %s not found", review.ID)
	}
	return nil
}

// ListPublic returns public reviews matching the filter.
func (r *MongoReviewRepo) ListPublic(f Filter) ([]models.Review, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"is_public": true}
	if f.ListingID != "" {
		filter["listing_id"] = f.ListingID
	}
	if f.Rating > 0 {
		filter["rating"] = f.Rating
	}
	if f.IsVerified != nil {
		filter["is_verified"] = *f.IsVerified
	}

	opts := options.Find().SetSort(reviewSort(f.OrderBy))
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	opts.SetSkip(int64((page - 1) * size)).SetLimit(int64(size))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("review query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// AverageRatingForListing aggregates the mean rating over public reviews.
func (r *MongoReviewRepo) AverageRatingForListing(listingID string) (float64, bool, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"listing_id": listingID, "is_public": true}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, fmt.Errorf("rating aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, false, fmt.Errorf("failed to decode rating aggregation: %w", err)
	}
	if len(results) == 0 {
		return 0, false, nil
	}
	return results[0].Avg, true, nil
}

func reviewSort(orderBy string) bson.D {
	field := strings.TrimPrefix(orderBy, "-")
	dir := 1
	if strings.HasPrefix(orderBy, "-") {
		dir = -1
	}
	if field != "rating" && field != "created_at" {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return bson.D{{Key: field, Value: dir}}
}
