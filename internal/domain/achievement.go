package domain

import "time"

type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string `gorm:"size:255;not null" json:"description"`
	IconURL     string `gorm:"size:255" json:"icon_url"`
}

type UserAchievement struct {
	UserID        string    `gorm:"primaryKey;size:36" json:"user_id"`
	AchievementID uint      `gorm:"primaryKey" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}
