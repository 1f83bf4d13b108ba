package handlers

import (
	"net/http"
	"strconv"

	"roamstay/middleware"
	listingSvc "roamstay/services/listing"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
)

// SearchListings filters the catalog, optionally excluding listings
// already booked for a requested date window.
func SearchListings(c *gin.Context) {
	var input listingSvc.SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	listings, total, err := ListingService.Search(c.Request.Context(), input)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    total,
	})
}

// GetListing returns a single listing by id.
func GetListing(c *gin.Context) {
	listing, err := ListingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// CreateListing publishes a new listing owned by the caller.
func CreateListing(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var input listingSvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	listing, err := ListingService.Create(actor, input)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// UpdateListing applies partial changes to a listing.
func UpdateListing(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var input listingSvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	listing, err := ListingService.Update(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DeactivateListing removes a listing from the active catalog.
func DeactivateListing(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	if err := ListingService.Deactivate(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing deactivated"})
}

// UploadListingImage attaches an image to a listing.
func UploadListingImage(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "image file is required", err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "could not read image file", err.Error())
		return
	}
	defer file.Close()

	listing, err := ListingService.AddImage(c.Request.Context(), actor, c.Param("id"), file, c.PostForm("caption"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DeleteListingImage removes an image from a listing.
func DeleteListingImage(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	listing, err := ListingService.RemoveImage(c.Request.Context(), actor, c.Param("id"), c.Param("imageID"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
