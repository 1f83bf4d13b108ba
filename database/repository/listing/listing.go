package listingRepo

import "roamstay/models"

// SearchCriteria collects the filters applied to listing reads.
// Zero values mean "no filter".
type SearchCriteria struct {
	City         string
	Country      string
	PropertyType string
	Guests       int
	MinPrice     float64
	MaxPrice     float64
	Amenities    []string // amenity field names, OR-ed together
	Query        string   // free-text over title/description/city/country

	// Listings in ExcludeIDs are dropped from the result (availability
	// window filtering).
	ExcludeIDs []string

	OrderBy  string // base_price | created_at | average_rating, "-" prefix for descending
	Page     int
	PageSize int
}

// ListingRepository defines the interface for listing data access.
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id string) (*models.Listing, error)
	Update(listing *models.Listing) error
	Search(criteria SearchCriteria) ([]models.Listing, int64, error)
	ByHost(hostID string) ([]models.Listing, error)
	CountActive() (int64, error)
}
