package listingRepo

import (
	"fmt"
	"strings"
	"time"

	"roamstay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// allowed ordering fields, mirrored in the handler's query binding.
var orderableFields = map[string]bool{
	"base_price":     true,
	"created_at":     true,
	"average_rating": true,
}

// Search applies the status filter, field filters, free-text search,
// ordering and pagination in one query, returning the page plus the
// total match count.
func (r *MongoListingRepo) Search(criteria SearchCriteria) ([]models.Listing, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"status": models.ListingStatusActive}

	if criteria.City != "" {
		filter["city"] = bson.M{"$regex": criteria.City, "$options": "i"}
	}
	if criteria.Country != "" {
		filter["country"] = bson.M{"$regex": criteria.Country, "$options": "i"}
	}
	if criteria.PropertyType != "" {
		filter["property_type"] = criteria.PropertyType
	}
	if criteria.Guests > 0 {
		filter["max_guests"] = bson.M{"$gte": criteria.Guests}
	}
	if criteria.MinPrice > 0 || criteria.MaxPrice > 0 {
		price := bson.M{}
		if criteria.MinPrice > 0 {
			price["$gte"] = criteria.MinPrice
		}
		if criteria.MaxPrice > 0 {
			price["$lte"] = criteria.MaxPrice
		}
		filter["base_price"] = price
	}
	if len(criteria.Amenities) > 0 {
		var or []bson.M
		for _, amenity := range criteria.Amenities {
			or = append(or, bson.M{"amenities." + amenity: true})
		}
		filter["$or"] = or
	}
	if criteria.Query != "" {
		regex := bson.M{"$regex": criteria.Query, "$options": "i"}
		text := []bson.M{
			{"title": regex},
			{"description": regex},
			{"city": regex},
			{"country": regex},
		}
		if existing, ok := filter["$or"]; ok {
			filter["$and"] = []bson.M{{"$or": existing}, {"$or": text}}
			delete(filter, "$or")
		} else {
			filter["$or"] = text
		}
	}
	if len(criteria.ExcludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": criteria.ExcludeIDs}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	opts := options.Find().SetSort(sortSpec(criteria.OrderBy))
	page, size := criteria.Page, criteria.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	opts.SetSkip(int64((page - 1) * size)).SetLimit(int64(size))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing search query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, total, nil
}

// sortSpec translates an "-field" style ordering into a Mongo sort
// document, defaulting to newest first.
func sortSpec(orderBy string) bson.D {
	field := strings.TrimPrefix(orderBy, "-")
	dir := 1
	if strings.HasPrefix(orderBy, "-") {
		dir = -1
	}
	if !orderableFields[field] {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return bson.D{{Key: field, Value: dir}}
}
