package domain

import "time"

type AlertContent struct {
	Hazard   string `json:"hazard"`
	Severity string `json:"severity"`
	Advice   string `json:"advice"`
}

// Alert rows also carry a geography(point) column populated by the
// create_alert_with_location database function; the column is written on the
// store side and not mapped here.
type Alert struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    string       `gorm:"size:36;not null;index" json:"user_id"`
	TripID    uint         `gorm:"not null;index" json:"trip_id"`
	Type      string       `gorm:"size:32;not null" json:"type"`
	Status    string       `gorm:"size:32;not null" json:"status"`
	Content   AlertContent `gorm:"serializer:json" json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}
