package entities

import (
	"time"

	"github.com/google/uuid"
)

type Part struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string    `json:"name"`
	PartNumber   string    `json:"part_number,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Category     string    `json:"category"` // engine, brakes, suspension, exhaust, ...
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url,omitempty"`
	IsActive     bool      `json:"is_active"`

	// Fitment
	IsUniversal      bool       `json:"is_universal"`
	CompatibleMakes  StringList `gorm:"type:text" json:"compatible_makes"`
	CompatibleModels StringList `gorm:"type:text" json:"compatible_models"`

	// Aggregate rating, 0..5
	QualityScore float64 `json:"quality_score"`

	// Trending signals feeding the popularity score
	ViewCount      int       `json:"view_count"`
	SocialMentions int       `json:"social_mentions"`
	ReviewCount    int       `json:"review_count"`
	ListedAt       time.Time `gorm:"type:timestamp" json:"listed_at"`

	Timestamp
}
