package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGenerateRecommendations = "recommendations generated successfully"
	MessageSuccessGetRecommendations      = "recommendations retrieved successfully"
	MessageSuccessRecordInteraction       = "interaction recorded successfully"

	MessageFailedGenerateRecommendations = "failed to generate recommendations"
	MessageFailedGetRecommendations      = "failed to retrieve recommendations"
	MessageFailedRecordInteraction       = "failed to record interaction"

	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrInvalidInteraction     = errors.New("invalid interaction action")
	ErrNoCandidateParts       = errors.New("no candidate parts available")
)

const (
	InteractionView    = "view"
	InteractionClick   = "click"
	InteractionDismiss = "dismiss"

	// How many scored candidates are persisted per generation run.
	RecommendationTopN = 20
)

type (
	// Preferences carries the user context the scoring engine evaluates
	// candidates against.
	Preferences struct {
		Categories []string `json:"categories,omitempty"`
		BudgetMin  float64  `json:"budget_min,omitempty"`
		BudgetMax  float64  `json:"budget_max,omitempty"`
	}

	GenerateRecommendationsRequest struct {
		VehicleID   string       `json:"vehicle_id" validate:"omitempty,uuid"`
		Preferences *Preferences `json:"preferences,omitempty"`
	}

	RecordInteractionRequest struct {
		Action string `json:"action" validate:"required,oneof=view click dismiss"`
	}

	RecommendationResponse struct {
		ID         string     `json:"id"`
		VehicleID  *string    `json:"vehicle_id,omitempty"`
		PartID     *string    `json:"part_id,omitempty"`
		PartName   string     `json:"part_name,omitempty"`
		Category   string     `json:"category,omitempty"`
		Score      float64    `json:"score"`
		Confidence float64    `json:"confidence"`
		Reason     string     `json:"reason"`
		Priority   string     `json:"priority"`
		WasViewed  bool       `json:"was_viewed"`
		WasClicked bool       `json:"was_clicked"`
		ExpiresAt  *time.Time `json:"expires_at,omitempty"`
		CreatedAt  time.Time  `json:"created_at"`
	}
)
