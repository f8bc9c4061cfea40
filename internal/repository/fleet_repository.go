package repository

import (
	"context"

	"github.com/fawkesdbs/roadguard/internal/domain"

	"gorm.io/gorm"
)

// FleetRepository serves the dashboard reads over vehicles, trips, alerts and
// achievements.
type FleetRepository interface {
	VehiclesByUser(ctx context.Context, userID string) ([]domain.Vehicle, error)
	RecentTripsByUser(ctx context.Context, userID string, limit int) ([]domain.Trip, error)
	AlertsByUser(ctx context.Context, userID string, limit int) ([]domain.Alert, error)
	AchievementsByUser(ctx context.Context, userID string) ([]domain.Achievement, error)
}

type GormFleetRepository struct{ db *gorm.DB }

func NewFleetRepository(db *gorm.DB) FleetRepository {
	return &GormFleetRepository{db: db}
}

func (r *GormFleetRepository) VehiclesByUser(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&vehicles).Error
	return vehicles, err
}

func (r *GormFleetRepository) RecentTripsByUser(ctx context.Context, userID string, limit int) ([]domain.Trip, error) {
	var trips []domain.Trip
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("start_time DESC").Limit(limit).Find(&trips).Error
	return trips, err
}

func (r *GormFleetRepository) AlertsByUser(ctx context.Context, userID string, limit int) ([]domain.Alert, error) {
	var alerts []domain.Alert
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Find(&alerts).Error
	return alerts, err
}

func (r *GormFleetRepository) AchievementsByUser(ctx context.Context, userID string) ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	err := r.db.WithContext(ctx).
		Joins("JOIN user_achievements ON user_achievements.achievement_id = achievements.id").
		Where("user_achievements.user_id = ?", userID).
		Order("achievements.id").Find(&achievements).Error
	return achievements, err
}
