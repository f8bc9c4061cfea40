package domain

import "time"

type Trip struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"size:36;not null;index" json:"user_id"`
	VehicleID       uint      `gorm:"not null;index" json:"vehicle_id"`
	TravelRiskScore int       `gorm:"not null" json:"travel_risk_score"`
	StartTime       time.Time `gorm:"not null" json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	CreatedAt       time.Time `json:"created_at"`
}
