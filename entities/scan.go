package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	ScanStatusPending    = "pending"
	ScanStatusProcessing = "processing"
	ScanStatusCompleted  = "completed"
	ScanStatusFailed     = "failed"

	ScanTypeEngineBay          = "engine_bay"
	ScanTypeVIN                = "vin"
	ScanTypePartIdentification = "part_identification"
	ScanTypeFullVehicle        = "full_vehicle"
)

// DetectedPart is one inference hit reported by the worker.
type DetectedPart struct {
	PartID      *string   `json:"part_id,omitempty"`
	Label       string    `json:"label"`
	Confidence  float64   `json:"confidence"`
	BoundingBox []float64 `json:"bounding_box,omitempty"` // [x1, y1, x2, y2]
}

type DetectedPartList []DetectedPart

func (l DetectedPartList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *DetectedPartList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for DetectedPartList")
	}
}

type Scan struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	VehicleID *uuid.UUID `json:"vehicle_id,omitempty"`
	ScanType  string     `json:"scan_type"`
	Status    string     `json:"status"`

	Images        StringList       `gorm:"type:text" json:"images"`
	DetectedParts DetectedPartList `gorm:"type:text" json:"detected_parts"`

	ConfidenceScore  *float64   `json:"confidence_score,omitempty"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	ProcessingTimeMs int        `json:"processing_time_ms"`
	RetryCount       int        `json:"retry_count"`
	CompletedAt      *time.Time `gorm:"type:timestamp" json:"completed_at,omitempty"`

	User    *User    `gorm:"foreignKey:UserID"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID"`
	Timestamp
}

type ScanFeedback struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ScanID             uuid.UUID  `json:"scan_id"`
	UserID             uuid.UUID  `json:"user_id"`
	Accurate           bool       `json:"accurate"`
	MisidentifiedParts StringList `gorm:"type:text" json:"misidentified_parts"`
	Comments           string     `gorm:"type:text" json:"comments,omitempty"`

	Scan *Scan `gorm:"foreignKey:ScanID"`
	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
