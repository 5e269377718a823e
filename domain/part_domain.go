package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetParts      = "parts retrieved successfully"
	MessageSuccessGetPartDetail = "part detail retrieved successfully"

	MessageFailedGetParts      = "failed to retrieve parts"
	MessageFailedGetPartDetail = "failed to retrieve part detail"

	ErrPartInactive = errors.New("part is no longer active")
)

type (
	PartResponse struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		PartNumber   string    `json:"part_number,omitempty"`
		Manufacturer string    `json:"manufacturer,omitempty"`
		Category     string    `json:"category"`
		Description  string    `json:"description,omitempty"`
		Price        float64   `json:"price"`
		ImageURL     string    `json:"image_url,omitempty"`
		IsUniversal  bool      `json:"is_universal"`
		QualityScore float64   `json:"quality_score"`
		CreatedAt    time.Time `json:"created_at"`
	}
)
