package database

import (
	"github.com/fawkesdbs/roadguard/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Profile{},
		&domain.Vehicle{},
		&domain.Trip{},
		&domain.Alert{},
		&domain.Achievement{},
		&domain.UserAchievement{},
	)
}
