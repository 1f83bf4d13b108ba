package listing

import (
	"context"
	"mime/multipart"

	"roamstay/models"
	"roamstay/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// StorageService abstracts the media store behind upload and delete.
type StorageService interface {
	Upload(ctx context.Context, file multipart.File, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStorage stores listing images in Cloudinary under a
// shared folder.
type CloudinaryStorage struct {
	Folder string
}

func (c *CloudinaryStorage) Upload(ctx context.Context, file multipart.File, publicID string) (string, error) {
	cld, err := utils.Cloudinary()
	if err != nil {
		return "", err
	}
	resp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: publicID,
		Folder:   c.Folder,
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

func (c *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	cld, err := utils.Cloudinary()
	if err != nil {
		return err
	}
	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

// AddImage uploads a file and appends it to the listing's image set.
// Only the host or an admin may attach images.
func (s *DefaultListingService) AddImage(ctx context.Context, actor models.Actor, listingID string, file multipart.File, caption string) (*models.Listing, error) {
	listing, err := s.Repo.GetByID(listingID)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", listingID)
	}
	if listing.HostID != actor.ID && !actor.IsAdmin {
		return nil, utils.NewPermissionError("only the host or admin can manage listing images")
	}

	publicID := uuid.New().String()
	url, err := s.Storage.Upload(ctx, file, publicID)
	if err != nil {
		return nil, err
	}

	listing.Images = append(listing.Images, models.ListingImage{
		PublicID: publicID,
		URL:      url,
		Caption:  caption,
	})
	if err := s.Repo.Update(listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, listingID)
	return listing, nil
}

// RemoveImage deletes an image from storage and drops it from the
// listing document.
func (s *DefaultListingService) RemoveImage(ctx context.Context, actor models.Actor, listingID, publicID string) (*models.Listing, error) {
	listing, err := s.Repo.GetByID(listingID)
	if err != nil {
		return nil, utils.NewNotFoundError("listing %s not found", listingID)
	}
	if listing.HostID != actor.ID && !actor.IsAdmin {
		return nil, utils.NewPermissionError("only the host or admin can manage listing images")
	}

	kept := listing.Images[:0]
	found := false
	for _, img := range listing.Images {
		if img.PublicID == publicID {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, utils.NewNotFoundError("image %s not found on listing", publicID)
	}

	if err := s.Storage.Delete(ctx, publicID); err != nil {
		return nil, err
	}
	listing.Images = kept
	if err := s.Repo.Update(listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, listingID)
	return listing, nil
}
