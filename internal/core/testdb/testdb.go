// Package testdb opens throwaway SQLite databases carrying the application
// schema, for repository and handler tests.
package testdb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alxtravel/travel-booking/internal/core/datamodel/booking"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/payment"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/review"
	"github.com/alxtravel/travel-booking/internal/core/datamodel/user"
)

func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	// Every pooled connection to :memory: would get its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&user.User{}, &listing.Listing{}, &booking.Booking{}, &review.Review{}, &payment.Payment{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func CreateUser(db *gorm.DB, email string, role user.Role) (*user.User, error) {
	u := &user.User{
		Email:        email,
		FirstName:    "Abebe",
		LastName:     "Bikila",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	return u, db.Create(u).Error
}

func CreateListing(db *gorm.DB, host *user.User, price string) (*listing.Listing, error) {
	l := &listing.Listing{
		HostID:        host.ID,
		Title:         "Lakeside Cabin",
		Description:   "A quiet cabin by the lake",
		Location:      "Bishoftu",
		PricePerNight: decimal.RequireFromString(price),
		IsActive:      true,
	}
	return l, db.Omit(clause.Associations).Create(l).Error
}

func CreateBooking(db *gorm.DB, l *listing.Listing, guest *user.User, nights int) (*booking.Booking, error) {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	b := &booking.Booking{
		ListingID:  l.ID,
		UserID:     guest.ID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, nights),
		TotalPrice: l.PricePerNight.Mul(decimal.NewFromInt(int64(nights))),
		Status:     booking.StatusPending,
	}
	return b, db.Omit(clause.Associations).Create(b).Error
}

func CreatePayment(db *gorm.DB, b *booking.Booking, txRef string, status payment.Status) (*payment.Payment, error) {
	p := &payment.Payment{
		BookingID:     b.ID,
		Amount:        b.TotalPrice,
		TransactionID: &txRef,
		Status:        status,
	}
	return p, db.Create(p).Error
}
