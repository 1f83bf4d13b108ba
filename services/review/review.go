package review

import (
	"context"
	"time"

	bookingRepo "roamstay/database/repository/booking"
	listingRepo "roamstay/database/repository/listing"
	reviewRepo "roamstay/database/repository/review"
	"roamstay/models"
	"roamstay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateInput carries the guest-supplied review fields.
type CreateInput struct {
	ListingID string `json:"listing_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// DefaultReviewService implements review writes and the public feed.
type DefaultReviewService struct {
	Reviews  reviewRepo.ReviewRepository
	Listings listingRepo.ListingRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// Create stores a review authored by the actor. A review is marked
// verified when the author has a confirmed or active booking that
// already started on the listing.
func (s *DefaultReviewService) Create(ctx context.Context, actor models.Actor, input CreateInput) (*models.Review, error) {
	listing, err := s.Listings.GetByID(input.ListingID)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", input.ListingID)
	}
	if listing.HostID == actor.ID {
		return nil, utils.NewValidationError("hosts cannot review their own listing")
	}

	now := time.Now().UTC()
	review := &models.Review{
		ID:         uuid.New().String(),
		ListingID:  input.ListingID,
		AuthorID:   actor.ID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		IsPublic:   true,
		IsVerified: s.hasStayed(actor.ID, input.ListingID, now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Reviews.Create(review); err != nil {
		return nil, err
	}
	s.refreshListingRating(ctx, input.ListingID)
	return review, nil
}

// ListPublic returns the public review feed for a listing.
func (s *DefaultReviewService) ListPublic(filter reviewRepo.Filter) ([]models.Review, error) {
	return s.Reviews.ListPublic(filter)
}

// Respond attaches the host's reply to a review. Only the listing's
// host may respond.
func (s *DefaultReviewService) Respond(ctx context.Context, actor models.Actor, reviewID, response string) (*models.Review, error) {
	if response == "" {
		return nil, utils.NewValidationError("response cannot be empty")
	}
	review, err := s.Reviews.GetByID(reviewID)
	if err != nil {
		return nil, utils.NewNotFoundError("review %s not found", reviewID)
	}
	listing, err := s.Listings.GetByID(review.ListingID)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", review.ListingID)
	}
	if listing.HostID != actor.ID {
		return nil, utils.NewPermissionError("only the listing host can respond to reviews")
	}

	review.HostResponse = response
	review.UpdatedAt = time.Now().UTC()
	if err := s.Reviews.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Hide takes a review out of the public feed. Admin only; moderation
// never rewrites the author's content.
func (s *DefaultReviewService) Hide(ctx context.Context, actor models.Actor, reviewID string) error {
	if !actor.IsAdmin {
		return utils.NewPermissionError("only admins can moderate reviews")
	}
	review, err := s.Reviews.GetByID(reviewID)
	if err != nil {
		return utils.NewNotFoundError("review %s not found", reviewID)
	}
	review.IsPublic = false
	review.UpdatedAt = time.Now().UTC()
	if err := s.Reviews.Update(review); err != nil {
		return err
	}
	s.refreshListingRating(ctx, review.ListingID)
	return nil
}

func (s *DefaultReviewService) hasStayed(guestID, listingID string, now time.Time) bool {
	bookings, err := s.Bookings.ByGuest(guestID)
	if err != nil {
		s.Logger.Warn("booking lookup for review verification failed", zap.Error(err))
		return false
	}
	for _, b := range bookings {
		if b.ListingID != listingID {
			continue
		}
		if (b.Status == models.BookingStatusConfirmed || b.Status == models.BookingStatusActive) && b.CheckIn.Before(now) {
			return true
		}
	}
	return false
}

func (s *DefaultReviewService) refreshListingRating(ctx context.Context, listingID string) {
	avg, ok, err := s.Reviews.AverageRatingForListing(listingID)
	if err != nil {
		s.Logger.Warn("average rating recompute failed", zap.String("listing_id", listingID), zap.Error(err))
		return
	}
	if !ok {
		avg = 0
	}
	listing, err := s.Listings.GetByID(listingID)
	if err != nil {
		return
	}
	listing.AverageRating = avg
	if err := s.Listings.Update(listing); err != nil {
		s.Logger.Warn("listing rating update failed", zap.String("listing_id", listingID), zap.Error(err))
	}
}
