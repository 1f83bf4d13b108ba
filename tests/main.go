package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"roamstay/config"
	"roamstay/database"
	"roamstay/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the local database with demo hosts, listings and bookings for
// manual testing against a running stack.
func main() {
	config.LoadConfig()
	database.InitDB()
	client := database.MongoClient
	db := client.Database(config.AppConfig.DatabaseName)
	userColl := db.Collection("users")
	listingColl := db.Collection("listings")
	bookingColl := db.Collection("bookings")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, coll := range []string{"users", "listings", "bookings"} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", coll, err)
		}
	}

	rand.Seed(time.Now().UnixNano())
	now := time.Now().UTC()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	cities := []struct {
		City    string
		Country string
	}{
		{"Addis Ababa", "Ethiopia"},
		{"Nairobi", "Kenya"},
		{"Zanzibar City", "Tanzania"},
	}
	propertyTypes := []string{"apartment", "house", "villa"}

	// Hosts plus one admin and one demo guest.
	var users []interface{}
	var hostIDs []string
	for i := 1; i <= 5; i++ {
		id := uuid.New().String()
		hostIDs = append(hostIDs, id)
		users = append(users, models.User{
			ID:           id,
			Name:         fmt.Sprintf("Host %d", i),
			Email:        fmt.Sprintf("host%d@example.com", i),
			PasswordHash: string(passwordHash),
			CreatedAt:    now,
		})
	}
	guestID := uuid.New().String()
	users = append(users,
		models.User{
			ID:           guestID,
			Name:         "Demo Guest",
			Email:        "guest@example.com",
			PasswordHash: string(passwordHash),
			CreatedAt:    now,
		},
		models.User{
			ID:           uuid.New().String(),
			Name:         "Admin",
			Email:        "admin@example.com",
			PasswordHash: string(passwordHash),
			IsAdmin:      true,
			CreatedAt:    now,
		},
	)
	if _, err := userColl.InsertMany(ctx, users); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	var listings []interface{}
	var listingIDs []string
	for i := 1; i <= 30; i++ {
		loc := cities[rand.Intn(len(cities))]
		id := uuid.New().String()
		listingIDs = append(listingIDs, id)
		listings = append(listings, models.Listing{
			ID:           id,
			HostID:       hostIDs[rand.Intn(len(hostIDs))],
			Title:        fmt.Sprintf("%s stay %d in %s", propertyTypes[i%len(propertyTypes)], i, loc.City),
			Description:  "Seeded listing for local development.",
			City:         loc.City,
			Country:      loc.Country,
			MaxGuests:    2 + rand.Intn(5),
			BasePrice:    40 + float64(rand.Intn(160)),
			PropertyType: propertyTypes[i%len(propertyTypes)],
			Status:       models.ListingStatusActive,
			Amenities: models.ListingAmenities{
				Wifi:    true,
				Kitchen: i%2 == 0,
				Parking: i%3 == 0,
				Pool:    i%5 == 0,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := listingColl.InsertMany(ctx, listings); err != nil {
		log.Fatalf("Failed to seed listings: %v", err)
	}

	// A handful of confirmed bookings over the next two weeks so
	// availability search has something to exclude.
	var bookings []interface{}
	for i := 0; i < 10; i++ {
		checkIn := now.Truncate(24 * time.Hour).AddDate(0, 0, 1+rand.Intn(14))
		nights := 1 + rand.Intn(5)
		bookings = append(bookings, models.Booking{
			ID:                 uuid.New().String(),
			ListingID:          listingIDs[rand.Intn(len(listingIDs))],
			GuestID:            guestID,
			CheckIn:            checkIn,
			CheckOut:           checkIn.AddDate(0, 0, nights),
			Guests:             1 + rand.Intn(3),
			TotalPrice:         float64(nights) * 80,
			Status:             models.BookingStatusConfirmed,
			ConfirmationNumber: models.NewConfirmationNumber(),
			PaymentStatus:      models.PaymentStatusCompleted,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	if _, err := bookingColl.InsertMany(ctx, bookings); err != nil {
		log.Fatalf("Failed to seed bookings: %v", err)
	}

	log.Printf("Seeded %d users, %d listings, %d bookings", len(users), len(listings), len(bookings))
}
