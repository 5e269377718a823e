package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateScan     = "scan created successfully"
	MessageSuccessGetScan        = "scan retrieved successfully"
	MessageSuccessGetScanStatus  = "scan status retrieved successfully"
	MessageSuccessGetScans       = "scans retrieved successfully"
	MessageSuccessDeleteScan     = "scan deleted successfully"
	MessageSuccessRetryScan      = "scan queued for retry"
	MessageSuccessScanReconciled = "scan result recorded"
	MessageSuccessSubmitFeedback = "feedback submitted successfully"

	MessageFailedCreateScan     = "failed to create scan"
	MessageFailedGetScan        = "failed to retrieve scan"
	MessageFailedGetScans       = "failed to retrieve scans"
	MessageFailedDeleteScan     = "failed to delete scan"
	MessageFailedRetryScan      = "failed to retry scan"
	MessageFailedReconcileScan  = "failed to record scan result"
	MessageFailedSubmitFeedback = "failed to submit feedback"

	ErrScanNotFound       = errors.New("scan not found")
	ErrInvalidScanType    = errors.New("invalid scan type")
	ErrInvalidImageCount  = errors.New("between 1 and 10 images are required")
	ErrInvalidScanState   = errors.New("scan is not in a state that allows this action")
	ErrQuotaExceeded      = errors.New("monthly scan quota exceeded")
	ErrInvalidResultState = errors.New("result status must be completed or failed")
)

// Monthly scan quotas per subscription tier; a negative limit means
// unlimited.
var TierScanLimits = map[string]int{
	"basic":   10,
	"premium": 50,
	"shop":    -1,
}

type (
	CreateScanRequest struct {
		VehicleID string                  `json:"vehicle_id" form:"vehicle_id" validate:"omitempty,uuid"`
		ScanType  string                  `json:"scan_type" form:"scan_type" validate:"required,oneof=engine_bay vin part_identification full_vehicle"`
		Images    []*multipart.FileHeader `json:"-" form:"-"`
	}

	CreateScanResponse struct {
		ScanID    string   `json:"scan_id"`
		Status    string   `json:"status"`
		ScanType  string   `json:"scan_type"`
		Images    []string `json:"images"`
		CreatedAt string   `json:"created_at"`
	}

	ScanStatusResponse struct {
		ScanID          string     `json:"scan_id"`
		Status          string     `json:"status"`
		ConfidenceScore *float64   `json:"confidence_score,omitempty"`
		ErrorMessage    *string    `json:"error_message,omitempty"`
		CreatedAt       time.Time  `json:"created_at"`
		UpdatedAt       time.Time  `json:"updated_at"`
		CompletedAt     *time.Time `json:"completed_at,omitempty"`
	}

	DetectedPartPayload struct {
		PartID      *string   `json:"part_id,omitempty"`
		Label       string    `json:"label" validate:"required"`
		Confidence  float64   `json:"confidence" validate:"gte=0,lte=1"`
		BoundingBox []float64 `json:"bounding_box,omitempty"`
	}

	// ScanResultPayload is what the inference worker posts back once an
	// asynchronous scan finishes.
	ScanResultPayload struct {
		Status           string                `json:"status" validate:"required,oneof=completed failed"`
		DetectedParts    []DetectedPartPayload `json:"detected_parts" validate:"omitempty,dive"`
		ConfidenceScore  *float64              `json:"confidence_score" validate:"omitempty,gte=0,lte=1"`
		ProcessingTimeMs int                   `json:"processing_time_ms"`
		ErrorMessage     string                `json:"error_message,omitempty"`
	}

	ScanResponse struct {
		ID               string                `json:"id"`
		VehicleID        *string               `json:"vehicle_id,omitempty"`
		ScanType         string                `json:"scan_type"`
		Status           string                `json:"status"`
		Images           []string              `json:"images"`
		DetectedParts    []DetectedPartPayload `json:"detected_parts"`
		ConfidenceScore  *float64              `json:"confidence_score,omitempty"`
		ErrorMessage     *string               `json:"error_message,omitempty"`
		ProcessingTimeMs int                   `json:"processing_time_ms"`
		RetryCount       int                   `json:"retry_count"`
		CreatedAt        time.Time             `json:"created_at"`
		CompletedAt      *time.Time            `json:"completed_at,omitempty"`
	}

	SubmitFeedbackRequest struct {
		Accurate           bool     `json:"accurate"`
		MisidentifiedParts []string `json:"misidentified_parts,omitempty"`
		Comments           string   `json:"comments,omitempty"`
	}
)
