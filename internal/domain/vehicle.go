package domain

import "time"

type VehicleVulnerabilities struct {
	HailSensitive bool `json:"hail_sensitive"`
}

type Vehicle struct {
	ID              uint                   `gorm:"primaryKey" json:"id"`
	UserID          string                 `gorm:"size:36;not null;index" json:"user_id"`
	Brand           string                 `gorm:"size:64;not null" json:"brand"`
	Model           string                 `gorm:"size:64;not null" json:"model"`
	NumberPlate     string                 `gorm:"size:16;not null" json:"number_plate"`
	Year            int                    `gorm:"not null" json:"year"`
	Vulnerabilities VehicleVulnerabilities `gorm:"serializer:json" json:"vulnerabilities"`
	CreatedAt       time.Time              `json:"created_at"`
}
