package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetPriceSummary = "price summary retrieved successfully"
	MessageSuccessGetDeals        = "deals retrieved successfully"
	MessageSuccessGetPriceHistory = "price history retrieved successfully"
	MessageSuccessRefreshPrices   = "price refresh requested"

	MessageFailedGetPriceSummary = "failed to retrieve price summary"
	MessageFailedGetDeals        = "failed to retrieve deals"
	MessageFailedGetPriceHistory = "failed to retrieve price history"
	MessageFailedRefreshPrices   = "failed to request price refresh"

	ErrPartNotFound = errors.New("part not found")
)

const (
	DefaultMinDiscountPct   = 20.0
	DefaultHistoryWindow    = 30 // days
	PriceSummaryCacheTTLMin = 30
)

type (
	PriceStatistics struct {
		Lowest  float64 `json:"lowest"`
		Highest float64 `json:"highest"`
		Average float64 `json:"average"`
		Median  float64 `json:"median"`
	}

	PlatformPrice struct {
		Platform           string    `json:"platform"`
		CurrentPrice       float64   `json:"current_price"`
		OriginalPrice      *float64  `json:"original_price,omitempty"`
		DiscountPercentage float64   `json:"discount_percentage"`
		Availability       string    `json:"availability"`
		ProductURL         string    `json:"product_url,omitempty"`
		IsTracked          bool      `json:"is_tracked"`
		LastUpdated        time.Time `json:"last_updated"`
	}

	PriceSummaryResponse struct {
		PartID      string           `json:"part_id"`
		PartName    string           `json:"part_name"`
		Platforms   []PlatformPrice  `json:"platforms"`
		Statistics  *PriceStatistics `json:"statistics,omitempty"`
		LastUpdated time.Time        `json:"last_updated"`
	}

	DealsFilter struct {
		Category       string  `json:"category,omitempty"`
		MinDiscountPct float64 `json:"min_discount_pct,omitempty"`
	}

	DealResponse struct {
		PartID             string  `json:"part_id"`
		PartName           string  `json:"part_name"`
		Category           string  `json:"category"`
		Platform           string  `json:"platform"`
		CurrentPrice       float64 `json:"current_price"`
		OriginalPrice      float64 `json:"original_price"`
		DiscountPercentage float64 `json:"discount_percentage"`
		ProductURL         string  `json:"product_url,omitempty"`
	}

	PriceHistoryEntry struct {
		Platform string    `json:"platform"`
		Date     time.Time `json:"date"`
		Price    float64   `json:"price"`
	}

	PriceHistoryResponse struct {
		PartID  string              `json:"part_id"`
		Window  int                 `json:"window_days"`
		Entries []PriceHistoryEntry `json:"entries"`
	}
)
