package domain

import "time"

// Profile is the application-level user record. Its ID is the identity id
// assigned by the credential store, not a locally generated key. PasswordHash
// duplicates the hash held by the credential store because other collaborators
// query this table directly; it is a consistency duplication, not a security
// boundary.
type Profile struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	Email              string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name               string    `gorm:"size:255;not null" json:"name"`
	Surname            string    `gorm:"size:255;not null" json:"surname"`
	PhoneNumber        string    `gorm:"size:32;not null" json:"phone_number"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	LanguagePreference string    `gorm:"size:8;default:en" json:"language_preference"`
	Points             int       `gorm:"not null;default:0" json:"points"`
	Level              int       `gorm:"not null;default:1" json:"level"`
	CreatedAt          time.Time `json:"created_at"`
}

func (Profile) TableName() string { return "users" }
