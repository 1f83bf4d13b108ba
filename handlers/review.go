package handlers

import (
	"net/http"
	"strconv"

	reviewRepo "roamstay/database/repository/review"
	"roamstay/middleware"
	reviewSvc "roamstay/services/review"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
)

// CreateReview posts a review authored by the caller.
func CreateReview(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var input reviewSvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	review, err := ReviewService.Create(c.Request.Context(), actor, input)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListListingReviews returns the public review feed for a listing.
func ListListingReviews(c *gin.Context) {
	filter := reviewRepo.Filter{
		ListingID: c.Param("id"),
		Rating:    queryInt(c, "rating", 0),
		OrderBy:   c.Query("order_by"),
		Page:      queryInt(c, "page", 0),
		PageSize:  queryInt(c, "page_size", 0),
	}
	if raw := c.Query("verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid verified filter", err.Error())
			return
		}
		filter.IsVerified = &verified
	}

	reviews, err := ReviewService.ListPublic(filter)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// RespondToReview attaches the host's public reply to a review.
func RespondToReview(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	var input struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	review, err := ReviewService.Respond(c.Request.Context(), actor, c.Param("id"), input.Response)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// HideReview takes a review out of the public feed. Admin only.
func HideReview(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required", "")
		return
	}

	if err := ReviewService.Hide(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review hidden"})
}
