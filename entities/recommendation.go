package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	RecommendationPriorityHigh   = "high"
	RecommendationPriorityMedium = "medium"
	RecommendationPriorityLow    = "low"
)

type Recommendation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	VehicleID *uuid.UUID `json:"vehicle_id,omitempty"`

	// Exactly one of PartID / BundleID is set.
	PartID   *uuid.UUID `json:"part_id,omitempty"`
	BundleID *uuid.UUID `json:"bundle_id,omitempty"`

	Score      float64    `json:"score"`      // 0..100
	Confidence float64    `json:"confidence"` // score / 100
	Reason     string     `gorm:"type:text" json:"reason"`
	Priority   string     `json:"priority"`
	SourceScan *uuid.UUID `json:"source_scan,omitempty"`

	WasViewed    bool `json:"was_viewed"`
	WasClicked   bool `json:"was_clicked"`
	WasDismissed bool `json:"was_dismissed"`
	IsActive     bool `json:"is_active"`

	ExpiresAt *time.Time `gorm:"type:timestamp" json:"expires_at,omitempty"`

	User    *User    `gorm:"foreignKey:UserID"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID"`
	Part    *Part    `gorm:"foreignKey:PartID"`
	Timestamp
}
