package database

import (
	"fitbook/internal/classes"
	"fitbook/internal/reservations"
	"fitbook/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&classes.Class{},
		&reservations.Reservation{},
	)
}
