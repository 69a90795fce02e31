package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One active reservation per member per class. Cancelled rows are kept in
	// the ledger, so the uniqueness only covers confirmed reservations.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_confirmed_reservation_per_class
		ON reservations (user_id, class_id)
		WHERE status = 'CONFIRMED';
	`).Error
	if err != nil {
		return err
	}

	// Spot counters must stay within capacity even if application code slips.
	// ADD CONSTRAINT has no IF NOT EXISTS form, so the duplicate_object error
	// from repeated boots is swallowed instead.
	err = db.Exec(`
		DO $$
		BEGIN
			ALTER TABLE classes
			ADD CONSTRAINT chk_reserved_spots_bounds
			CHECK (reserved_spots >= 0 AND reserved_spots <= total_spots);
		EXCEPTION
			WHEN duplicate_object THEN NULL;
		END $$;
	`).Error
	if err != nil {
		return err
	}

	// Add index for reservation lookups by class and status
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_class_status
		ON reservations (class_id, status);
	`).Error
	if err != nil {
		return err
	}

	// Add index for member reservation history queries
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_user_class_date
		ON reservations (user_id, class_date);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
