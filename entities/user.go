package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	Password     string    `json:"-"`
	Role         string    `json:"role"`
	Subscription string    `json:"subscription"` // basic, premium, shop

	// Recommendation preferences
	PreferredCategories StringList `gorm:"type:text" json:"preferred_categories"`
	BudgetMin           float64    `json:"budget_min"`
	BudgetMax           float64    `json:"budget_max"`

	Vehicles []*Vehicle `gorm:"foreignKey:UserID"`
	Timestamp
}
