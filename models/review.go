package models

import "time"

// Review is a guest's rating of a listing after a stay. HostResponse is
// written only by the listing's host.
type Review struct {
	ID           string    `bson:"id" json:"id"`
	ListingID    string    `bson:"listing_id" json:"listing_id"`
	AuthorID     string    `bson:"author_id" json:"author_id"`
	Rating       int       `bson:"rating" json:"rating"`
	Comment      string    `bson:"comment" json:"comment"`
	HostResponse string    `bson:"host_response,omitempty" json:"host_response,omitempty"`
	IsPublic     bool      `bson:"is_public" json:"is_public"`
	IsVerified   bool      `bson:"is_verified" json:"is_verified"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
