package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
	AvailabilityLimited    = "limited"
)

// PricePoint is one historical price observation on a platform.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type PricePointList []PricePoint

func (l PricePointList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *PricePointList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for PricePointList")
	}
}

// MarketplaceIntegration is one platform's observed price for one part.
// Rows are written by the external scraping collaborator; this service
// reads and caches them.
type MarketplaceIntegration struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	PartID   uuid.UUID `gorm:"index" json:"part_id"`
	Platform string    `json:"platform"` // ebay, amazon, autozone, ...

	CurrentPrice       float64  `json:"current_price"`
	OriginalPrice      *float64 `json:"original_price,omitempty"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Availability       string   `json:"availability"`
	ProductURL         string   `json:"product_url,omitempty"`
	IsTracked          bool     `json:"is_tracked"`

	PriceHistory PricePointList `gorm:"type:text" json:"price_history"`
	LastUpdated  time.Time      `gorm:"type:timestamp" json:"last_updated"`

	Part *Part `gorm:"foreignKey:PartID"`
	Timestamp
}

// BeforeSave keeps the derived discount consistent with the invariant:
// (original - current) / original when original is set and above current,
// zero otherwise.
func (m *MarketplaceIntegration) BeforeSave(tx *gorm.DB) error {
	m.DiscountPercentage = 0
	if m.OriginalPrice != nil && *m.OriginalPrice > m.CurrentPrice && *m.OriginalPrice > 0 {
		m.DiscountPercentage = (*m.OriginalPrice - m.CurrentPrice) / *m.OriginalPrice * 100
	}
	return nil
}
