package handlers

import (
	bookingSvc "roamstay/services/booking"
	listingSvc "roamstay/services/listing"
	reviewSvc "roamstay/services/review"
	"roamstay/services/tasks"
	userSvc "roamstay/services/user"
)

// Package-level service handles, wired at startup.
var (
	BookingService bookingSvc.BookingService
	ListingService *listingSvc.DefaultListingService
	ReviewService  *reviewSvc.DefaultReviewService
	UserService    *userSvc.DefaultUserService
	TaskEnqueuer   tasks.Enqueuer
)
