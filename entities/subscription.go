package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionBasic   = "basic"
	SubscriptionPremium = "premium"
	SubscriptionShop    = "shop"
)

type SubscriptionTransaction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	OrderID    string     `gorm:"uniqueIndex" json:"order_id"`
	Tier       string     `json:"tier"`
	Amount     int64      `json:"amount"`
	Status     string     `json:"status"` // Pending, Settled, Failed
	InvoiceURL string     `json:"invoice_url,omitempty"`
	SettledAt  *time.Time `gorm:"type:timestamp" json:"settled_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
