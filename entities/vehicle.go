package entities

import (
	"github.com/google/uuid"
)

type Vehicle struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	Year     int       `json:"year"`
	Trim     string    `json:"trim,omitempty"`
	VIN      string    `json:"vin,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`

	// Parts already installed on the vehicle; excluded from candidate sets
	// when generating recommendations.
	InstalledPartIDs StringList `gorm:"type:text" json:"installed_part_ids"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
