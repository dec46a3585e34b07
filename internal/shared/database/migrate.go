package database

import (
	"salonly/internal/bookings"
	"salonly/internal/cancellation"
	"salonly/internal/refunds"
	"salonly/internal/salons"
	"salonly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&salons.Salon{},
		&salons.Offering{},
		&bookings.Booking{},
		&cancellation.Record{},
		&refunds.Dispatch{},
	)
}
