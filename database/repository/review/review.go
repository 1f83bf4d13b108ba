package reviewRepo

import "roamstay/models"

// Filter narrows public review reads.
type Filter struct {
	ListingID  string
	Rating     int
	IsVerified *bool
	OrderBy    string // rating | created_at, "-" prefix for descending
	Page       int
	PageSize   int
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	Update(review *models.Review) error
	ListPublic(filter Filter) ([]models.Review, error)

	// AverageRatingForListing computes the mean rating over the
	// listing's public reviews; ok is false when there are none.
	AverageRatingForListing(listingID string) (avg float64, ok bool, err error)
}
