package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roamstay/config"
	"roamstay/cron"
	"roamstay/database"
	bookingRepoPkg "roamstay/database/repository/booking"
	listingRepoPkg "roamstay/database/repository/listing"
	paymentRepoPkg "roamstay/database/repository/payment"
	reviewRepoPkg "roamstay/database/repository/review"
	userRepoPkg "roamstay/database/repository/user"
	"roamstay/handlers"
	"roamstay/middleware"
	"roamstay/routes"
	"roamstay/services/booking"
	"roamstay/services/listing"
	"roamstay/services/notification"
	"roamstay/services/payment"
	"roamstay/services/review"
	"roamstay/services/tasks"
	"roamstay/services/user"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	listingRepo := listingRepoPkg.NewMongoListingRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// task queue client.
	queueOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	enqueuer := tasks.NewAsynqEnqueuer(queueOpt, logger)
	defer enqueuer.Close()

	// payment gateway client.
	gateway := payment.NewChapaGateway(
		config.AppConfig.ChapaBaseURL,
		config.AppConfig.ChapaSecretKey,
		config.AppConfig.ChapaCurrency,
	)

	// services.
	listingService := &listing.DefaultListingService{
		Repo:     listingRepo,
		Bookings: bookingRepo,
		Storage:  &listing.CloudinaryStorage{Folder: "listings"},
		Cache:    utils.GetCacheClient(),
		Logger:   logger,
	}
	bookingService := &booking.DefaultBookingService{
		Bookings: bookingRepo,
		Listings: listingRepo,
		Payments: paymentRepo,
		Users:    userRepo,
		Gateway:  gateway,
		Enqueuer: enqueuer,
		Logger:   logger,
	}
	reviewService := &review.DefaultReviewService{
		Reviews:  reviewRepo,
		Listings: listingRepo,
		Bookings: bookingRepo,
		Logger:   logger,
	}
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}

	handlers.BookingService = bookingService
	handlers.ListingService = listingService
	handlers.ReviewService = reviewService
	handlers.UserService = userService
	handlers.TaskEnqueuer = enqueuer

	// background email worker and periodic jobs.
	notificationService := &notification.Service{
		Bookings:   bookingRepo,
		Listings:   listingRepo,
		Users:      userRepo,
		Mailer:     notification.NewSMTPMailer(),
		Logger:     logger,
		AdminEmail: config.AppConfig.AdminEmail,
	}
	cron.InitEmailWorker(notificationService)
	cron.InitScheduler()

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.NewQueueClient()},
		database.MongoClient,
	)

	// Register routes.
	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
