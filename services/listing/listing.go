package listing

import (
	"context"
	"encoding/json"
	"time"

	bookingRepo "roamstay/database/repository/booking"
	listingRepo "roamstay/database/repository/listing"
	"roamstay/models"
	"roamstay/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const detailCacheTTL = 5 * time.Minute

// SearchInput is the request shape for listing search, including the
// optional availability window.
type SearchInput struct {
	City         string   `json:"city"`
	Country      string   `json:"country"`
	PropertyType string   `json:"property_type"`
	Guests       int      `json:"guests"`
	MinPrice     float64  `json:"min_price"`
	MaxPrice     float64  `json:"max_price"`
	Amenities    []string `json:"amenities"`
	Query        string   `json:"query"`
	CheckIn      string   `json:"check_in"`  // YYYY-MM-DD
	CheckOut     string   `json:"check_out"` // YYYY-MM-DD
	OrderBy      string   `json:"order_by"`
	Page         int      `json:"page"`
	PageSize     int      `json:"page_size"`
}

// CreateInput carries the host-supplied listing fields.
type CreateInput struct {
	Title        string                  `json:"title" binding:"required"`
	Description  string                  `json:"description"`
	City         string                  `json:"city" binding:"required"`
	Country      string                  `json:"country" binding:"required"`
	MaxGuests    int                     `json:"max_guests" binding:"required,min=1"`
	BasePrice    float64                 `json:"base_price" binding:"required,gt=0"`
	PropertyType string                  `json:"property_type" binding:"required"`
	Amenities    models.ListingAmenities `json:"amenities"`
}

// UpdateInput carries mutable listing fields; nil means "leave as is".
type UpdateInput struct {
	Title        *string                  `json:"title"`
	Description  *string                  `json:"description"`
	City         *string                  `json:"city"`
	Country      *string                  `json:"country"`
	MaxGuests    *int                     `json:"max_guests"`
	BasePrice    *float64                 `json:"base_price"`
	PropertyType *string                  `json:"property_type"`
	Status       *string                  `json:"status"`
	Amenities    *models.ListingAmenities `json:"amenities"`
}

// DefaultListingService implements listing reads and host-scoped writes.
type DefaultListingService struct {
	Repo     listingRepo.ListingRepository
	Bookings bookingRepo.BookingRepository
	Storage  StorageService
	Cache    *redis.Client
	Logger   *zap.Logger
}

// Search resolves the availability window into an exclusion set, then
// delegates filtering, ordering and pagination to the repository.
func (s *DefaultListingService) Search(ctx context.Context, input SearchInput) ([]models.Listing, int64, error) {
	criteria := listingRepo.SearchCriteria{
		City:         input.City,
		Country:      input.Country,
		PropertyType: input.PropertyType,
		Guests:       input.Guests,
		MinPrice:     input.MinPrice,
		MaxPrice:     input.MaxPrice,
		Amenities:    input.Amenities,
		Query:        input.Query,
		OrderBy:      input.OrderBy,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}

	if input.CheckIn != "" && input.CheckOut != "" {
		checkIn, err := time.Parse("2006-01-02", input.CheckIn)
		if err != nil {
			return nil, 0, utils.NewValidationError("invalid check_in date")
		}
		checkOut, err := time.Parse("2006-01-02", input.CheckOut)
		if err != nil {
			return nil, 0, utils.NewValidationError("invalid check_out date")
		}
		if !checkOut.After(checkIn) {
			return nil, 0, utils.NewValidationError("check_out must be after check_in")
		}
		excluded, err := s.Bookings.UnavailableListingIDs(checkIn, checkOut)
		if err != nil {
			return nil, 0, err
		}
		criteria.ExcludeIDs = excluded
	}

	return s.Repo.Search(criteria)
}

// Get reads a listing, serving from the Redis cache when possible.
func (s *DefaultListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	cacheKey := "listing:" + id
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached models.Listing
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	listing, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", id)
	}

	if s.Cache != nil {
		if data, err := json.Marshal(listing); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, detailCacheTTL).Err(); err != nil {
				s.Logger.Debug("listing cache write failed", zap.Error(err))
			}
		}
	}
	return listing, nil
}

// Create persists a new active listing owned by the actor.
func (s *DefaultListingService) Create(actor models.Actor, input CreateInput) (*models.Listing, error) {
	now := time.Now().UTC()
	listing := &models.Listing{
		ID:           uuid.New().String(),
		HostID:       actor.ID,
		Title:        input.Title,
		Description:  input.Description,
		City:         input.City,
		Country:      input.Country,
		MaxGuests:    input.MaxGuests,
		BasePrice:    input.BasePrice,
		PropertyType: input.PropertyType,
		Status:       models.ListingStatusActive,
		Amenities:    input.Amenities,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Update applies partial changes; only the host or an admin may write.
func (s *DefaultListingService) Update(ctx context.Context, actor models.Actor, id string, input UpdateInput) (*models.Listing, error) {
	listing, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", id)
	}
	if listing.HostID != actor.ID && !actor.IsAdmin {
		return nil, utils.NewPermissionError("only the host or admin can modify this listing")
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.City != nil {
		listing.City = *input.City
	}
	if input.Country != nil {
		listing.Country = *input.Country
	}
	if input.MaxGuests != nil {
		listing.MaxGuests = *input.MaxGuests
	}
	if input.BasePrice != nil {
		listing.BasePrice = *input.BasePrice
	}
	if input.PropertyType != nil {
		listing.PropertyType = *input.PropertyType
	}
	if input.Status != nil {
		if *input.Status != models.ListingStatusActive && *input.Status != models.ListingStatusInactive {
			return nil, utils.NewValidationError("status must be active or inactive")
		}
		listing.Status = *input.Status
	}
	if input.Amenities != nil {
		listing.Amenities = *input.Amenities
	}

	if err := s.Repo.Update(listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return listing, nil
}

// Deactivate soft-deletes by flipping the status field.
func (s *DefaultListingService) Deactivate(ctx context.Context, actor models.Actor, id string) error {
	listing, err := s.Repo.GetByID(id)
	if err != nil {
		return utils.NewNotFoundError("listing %s not found", id)
	}
	if listing.HostID != actor.ID && !actor.IsAdmin {
		return utils.NewPermissionError("only the host or admin can deactivate this listing")
	}
	listing.Status = models.ListingStatusInactive
	if err := s.Repo.Update(listing); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *DefaultListingService) invalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, "listing:"+id).Err(); err != nil {
		s.Logger.Debug("listing cache invalidation failed", zap.Error(err))
	}
}
