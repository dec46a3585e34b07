package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// At most one cancellation record per booking; the application relies on
	// this together with the row-locked status transition.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_cancellation_per_booking
		ON cancellations (booking_id);
	`).Error
	if err != nil {
		return err
	}

	// Slot conflict checks scan active bookings per offering and time.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_offering_scheduled
		ON bookings (offering_id, scheduled_at)
		WHERE status IN ('PENDING', 'CONFIRMED');
	`).Error
	if err != nil {
		return err
	}

	// The reconciliation worker polls by status and age.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_refund_dispatches_status_created
		ON refund_dispatches (status, created_at);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
