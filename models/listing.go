package models

import "time"

// Listing statuses.
const (
	ListingStatusActive   = "active"
	ListingStatusInactive = "inactive"
)

// ListingImage is a Cloudinary-backed photo attached to a listing.
type ListingImage struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
	Caption  string `bson:"caption,omitempty" json:"caption,omitempty"`
}

// ListingAmenities holds the boolean amenity flags used by search.
type ListingAmenities struct {
	Wifi            bool `bson:"wifi" json:"wifi"`
	Kitchen         bool `bson:"kitchen" json:"kitchen"`
	Parking         bool `bson:"parking" json:"parking"`
	Pool            bool `bson:"pool" json:"pool"`
	AirConditioning bool `bson:"air_conditioning" json:"air_conditioning"`
}

// Listing represents a rentable property owned by a host.
type Listing struct {
	ID            string           `bson:"id" json:"id"`
	HostID        string           `bson:"host_id" json:"host_id"`
	Title         string           `bson:"title" json:"title"`
	Description   string           `bson:"description" json:"description"`
	City          string           `bson:"city" json:"city"`
	Country       string           `bson:"country" json:"country"`
	MaxGuests     int              `bson:"max_guests" json:"max_guests"`
	BasePrice     float64          `bson:"base_price" json:"base_price"`
	PropertyType  string           `bson:"property_type" json:"property_type"` // e.g. "apartment", "house", "villa"
	Status        string           `bson:"status" json:"status"`
	Amenities     ListingAmenities `bson:"amenities" json:"amenities"`
	AverageRating float64          `bson:"average_rating" json:"average_rating"` // derived from public reviews
	Images        []ListingImage   `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt     time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the listing is bookable.
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}
