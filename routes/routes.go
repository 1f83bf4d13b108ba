package routes

import (
	"time"

	"roamstay/handlers"
	"roamstay/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine) {
	api := r.Group("/api/users")
	{
		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", handlers.CurrentUser)
	}
}

// RegisterListingRoutes registers catalog endpoints. Reads are public;
// writes require the host's token.
func RegisterListingRoutes(r *gin.Engine) {
	api := r.Group("/api/listings")
	{
		api.POST("/search", handlers.SearchListings)
		api.GET("/:id", handlers.GetListing)
		api.GET("/:id/reviews", handlers.ListListingReviews)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", handlers.CreateListing)
		protected.PATCH("/:id", handlers.UpdateListing)
		protected.DELETE("/:id", handlers.DeactivateListing)
		protected.POST("/:id/images", handlers.UploadListingImage)
		protected.DELETE("/:id/images/:imageID", handlers.DeleteListingImage)
		protected.GET("/:id/bookings", handlers.ListingBookings)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.CreateBooking)
		api.GET("", handlers.ListBookings)
		api.GET("/upcoming", handlers.UpcomingBookings)
		api.GET("/past", handlers.PastBookings)
		api.GET("/hosting", handlers.HostBookings)
		api.GET("/:id", handlers.GetBooking)
		api.POST("/:id/cancel", handlers.CancelBooking)
		api.POST("/:id/confirm", handlers.ConfirmBooking)
	}
}

// RegisterPaymentRoutes registers checkout and settlement endpoints.
// Verification stays public so the gateway redirect can land on it.
func RegisterPaymentRoutes(r *gin.Engine) {
	api := r.Group("/api/payments")
	{
		api.GET("/verify/:reference", handlers.VerifyPayment)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/initiate", handlers.StartPayment)
		protected.GET("/history", handlers.PaymentHistory)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(r *gin.Engine) {
	api := r.Group("/api/reviews")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.CreateReview)
		api.POST("/:id/respond", handlers.RespondToReview)
		api.DELETE("/:id", handlers.HideReview)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnly())
		admin.POST("/email-test", handlers.SendTestEmail)
		admin.POST("/reminders/run", handlers.TriggerReminderRun)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r)
	RegisterListingRoutes(r)
	RegisterBookingRoutes(r)
	RegisterPaymentRoutes(r)
	RegisterReviewRoutes(r)
	RegisterAdminRoutes(r)
	RegisterHealthRoute(r)
}
