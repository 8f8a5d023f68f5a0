package cmd

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	reviewDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/review"
	userDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, listings, bookings and reviews for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		if err := seed(db, string(hash), time.Now().UTC()); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Database seeded successfully")
	},
}

func clearSeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"payments", "reviews", "bookings", "listings", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func seed(db *gorm.DB, passwordHash string, now time.Time) error {
	var guests []*userDatamodel.User
	for i := 0; i < 5; i++ {
		u, err := seedUser(db, fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("User%d", i), userDatamodel.RoleGuest, passwordHash)
		if err != nil {
			return err
		}
		guests = append(guests, u)
	}

	host, err := seedUser(db, "host@example.com", "Host", userDatamodel.RoleHost, passwordHash)
	if err != nil {
		return err
	}
	if _, err := seedUser(db, "admin@example.com", "Admin", userDatamodel.RoleAdmin, passwordHash); err != nil {
		return err
	}

	var listings []*listingDatamodel.Listing
	for i := 0; i < 5; i++ {
		l := &listingDatamodel.Listing{
			HostID:        host.ID,
			Title:         fmt.Sprintf("Cozy Apartment %d", i),
			Description:   "A lovely place to stay.",
			Location:      "Addis Ababa",
			PricePerNight: decimal.NewFromFloat(30 + rand.Float64()*170).Round(2),
			IsActive:      true,
		}
		if err := db.Omit(clause.Associations).Create(l).Error; err != nil {
			return fmt.Errorf("insert listing: %w", err)
		}
		listings = append(listings, l)
	}
	fmt.Printf("Seeded %d listings\n", len(listings))

	statuses := []bookingDatamodel.Status{
		bookingDatamodel.StatusPending,
		bookingDatamodel.StatusConfirmed,
		bookingDatamodel.StatusCanceled,
	}
	today := now.Truncate(24 * time.Hour)
	for i := 0; i < 10; i++ {
		l := listings[rand.IntN(len(listings))]
		start := today.AddDate(0, 0, 1+rand.IntN(10))
		nights := 1 + rand.IntN(5)
		b := &bookingDatamodel.Booking{
			ListingID:  l.ID,
			UserID:     guests[rand.IntN(len(guests))].ID,
			StartDate:  start,
			EndDate:    start.AddDate(0, 0, nights),
			TotalPrice: l.PricePerNight.Mul(decimal.NewFromInt(int64(nights))).Round(2),
			Status:     statuses[rand.IntN(len(statuses))],
		}
		if err := db.Omit(clause.Associations).Create(b).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
	}
	fmt.Println("Seeded 10 bookings")

	for i := 0; i < 10; i++ {
		comment := "Not bad."
		if i%2 == 0 {
			comment = fmt.Sprintf("This is review %d. Great place!", i)
		}
		r := &reviewDatamodel.Review{
			ListingID: listings[rand.IntN(len(listings))].ID,
			UserID:    guests[rand.IntN(len(guests))].ID,
			Rating:    1 + rand.IntN(5),
			Comment:   comment,
		}
		if err := db.Omit(clause.Associations).Create(r).Error; err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
	}
	fmt.Println("Seeded 10 reviews")

	return nil
}

// seedUser returns the user with email, creating it when missing.
func seedUser(db *gorm.DB, email, firstName string, role userDatamodel.Role, passwordHash string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := db.Where("email = ?", email).First(&u).Error
	if err == nil {
		fmt.Printf("%s user already exists\n", email)
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user %s: %w", email, err)
	}

	u = userDatamodel.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     "Seed",
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("insert user %s: %w", email, err)
	}
	fmt.Println("Seeded user:", email)
	return &u, nil
}
