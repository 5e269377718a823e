package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"modmaster-backend/domain"
	"modmaster-backend/entities"
	"modmaster-backend/internal/utils/mailing"
	"modmaster-backend/internal/utils/storage"
	"modmaster-backend/pkg/inference"
	"modmaster-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// How long a scan may sit in a non-terminal state before the sweeper acts.
const (
	ProcessingDeadline = 10 * time.Minute
	RedispatchAfter    = 2 * time.Minute
)

type (
	// RecommendationGenerator is implemented by the recommendation service.
	// Declared here so the scan completion side effect stays decoupled from
	// that package.
	RecommendationGenerator interface {
		GenerateForScan(ctx context.Context, scan *entities.Scan) error
	}

	ScanService interface {
		CreateScan(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.CreateScanResponse, error)
		GetScan(ctx context.Context, scanID, userID string) (domain.ScanResponse, error)
		GetScanStatus(ctx context.Context, scanID, userID string) (domain.ScanStatusResponse, error)
		GetScans(ctx context.Context, userID string, status string, page, limit int) ([]domain.ScanResponse, int64, error)
		DeleteScan(ctx context.Context, scanID, userID string) error
		ReconcileResult(ctx context.Context, scanID string, payload domain.ScanResultPayload) error
		RetryScan(ctx context.Context, scanID, userID string) error
		SubmitFeedback(ctx context.Context, scanID, userID string, req domain.SubmitFeedbackRequest) error
	}

	scanService struct {
		scanRepository ScanRepository
		userRepository user.UserRepository
		inference      inference.Client
		recommender    RecommendationGenerator
		s3             storage.AwsS3
	}
)

func NewScanService(
	scanRepository ScanRepository,
	userRepository user.UserRepository,
	inferenceClient inference.Client,
	recommender RecommendationGenerator,
	s3 storage.AwsS3,
) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		userRepository: userRepository,
		inference:      inferenceClient,
		recommender:    recommender,
		s3:             s3,
	}
}

func (s *scanService) CreateScan(ctx context.Context, req domain.CreateScanRequest, userID string) (domain.CreateScanResponse, error) {
	if len(req.Images) < 1 || len(req.Images) > 10 {
		return domain.CreateScanResponse{}, domain.ErrInvalidImageCount
	}

	switch req.ScanType {
	case entities.ScanTypeEngineBay, entities.ScanTypeVIN,
		entities.ScanTypePartIdentification, entities.ScanTypeFullVehicle:
	default:
		return domain.CreateScanResponse{}, domain.ErrInvalidScanType
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateScanResponse{}, domain.ErrParseUUID
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CreateScanResponse{}, domain.ErrUserNotFound
		}
		return domain.CreateScanResponse{}, err
	}

	if err := s.checkQuota(ctx, owner); err != nil {
		return domain.CreateScanResponse{}, err
	}

	var vehicleUUID *uuid.UUID
	if req.VehicleID != "" {
		parsed, err := uuid.Parse(req.VehicleID)
		if err != nil {
			return domain.CreateScanResponse{}, domain.ErrParseUUID
		}
		vehicleUUID = &parsed
	}

	scanID := uuid.New()
	imageURLs := make(entities.StringList, 0, len(req.Images))
	uploadedKeys := make([]string, 0, len(req.Images))
	for i, image := range req.Images {
		fileName := fmt.Sprintf("scan-%s-%d", scanID.String(), i)
		objectKey, err := s.s3.UploadFile(fileName, image, "scans", storage.AllowImage...)
		if err != nil {
			for _, key := range uploadedKeys {
				_ = s.s3.DeleteFile(key)
			}
			return domain.CreateScanResponse{}, err
		}
		uploadedKeys = append(uploadedKeys, objectKey)
		imageURLs = append(imageURLs, s.s3.GetPublicLinkKey(objectKey))
	}

	scan := &entities.Scan{
		ID:        scanID,
		UserID:    userUUID,
		VehicleID: vehicleUUID,
		ScanType:  req.ScanType,
		Status:    entities.ScanStatusPending,
		Images:    imageURLs,
	}

	if err := s.scanRepository.CreateScan(ctx, scan); err != nil {
		for _, key := range uploadedKeys {
			_ = s.s3.DeleteFile(key)
		}
		return domain.CreateScanResponse{}, err
	}

	// Hand off to the inference worker. A failed hand-off is not an error:
	// the scan stays pending for the sweeper or a manual retry.
	s.dispatch(ctx, scan)

	return domain.CreateScanResponse{
		ScanID:    scan.ID.String(),
		Status:    entities.ScanStatusPending,
		ScanType:  scan.ScanType,
		Images:    imageURLs,
		CreatedAt: scan.CreatedAt.Format(time.RFC3339),
	}, nil
}

// dispatch hands the scan to the worker and optimistically marks it
// processing. Dispatch failure leaves the scan pending.
func (s *scanService) dispatch(ctx context.Context, scan *entities.Scan) {
	if err := s.inference.Dispatch(ctx, scan); err != nil {
		log.Printf("scan %s: dispatch failed, leaving pending: %v", scan.ID, err)
		return
	}

	if _, err := s.scanRepository.TransitionStatus(ctx, scan.ID.String(),
		[]string{entities.ScanStatusPending},
		map[string]interface{}{"status": entities.ScanStatusProcessing},
	); err != nil {
		log.Printf("scan %s: failed to mark processing: %v", scan.ID, err)
	}
}

func (s *scanService) checkQuota(ctx context.Context, owner *entities.User) error {
	limit, ok := domain.TierScanLimits[owner.Subscription]
	if !ok {
		limit = domain.TierScanLimits[entities.SubscriptionBasic]
	}
	if limit < 0 {
		return nil
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count, err := s.scanRepository.CountScansInMonth(ctx, owner.ID.String(), monthStart)
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return domain.ErrQuotaExceeded
	}
	return nil
}

func (s *scanService) getOwnedScan(ctx context.Context, scanID, userID string) (*entities.Scan, error) {
	scan, err := s.scanRepository.GetScanByID(ctx, scanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScanNotFound
		}
		return nil, err
	}
	// An unauthorized scan id is indistinguishable from an unknown one.
	if scan.UserID.String() != userID {
		return nil, domain.ErrScanNotFound
	}
	return scan, nil
}

func (s *scanService) GetScan(ctx context.Context, scanID, userID string) (domain.ScanResponse, error) {
	scan, err := s.getOwnedScan(ctx, scanID, userID)
	if err != nil {
		return domain.ScanResponse{}, err
	}
	return toScanResponse(scan), nil
}

func (s *scanService) GetScanStatus(ctx context.Context, scanID, userID string) (domain.ScanStatusResponse, error) {
	scan, err := s.getOwnedScan(ctx, scanID, userID)
	if err != nil {
		return domain.ScanStatusResponse{}, err
	}

	return domain.ScanStatusResponse{
		ScanID:          scan.ID.String(),
		Status:          scan.Status,
		ConfidenceScore: scan.ConfidenceScore,
		ErrorMessage:    scan.ErrorMessage,
		CreatedAt:       scan.CreatedAt,
		UpdatedAt:       scan.UpdatedAt,
		CompletedAt:     scan.CompletedAt,
	}, nil
}

func (s *scanService) GetScans(ctx context.Context, userID string, status string, page, limit int) ([]domain.ScanResponse, int64, error) {
	scans, count, err := s.scanRepository.GetScans(ctx, userID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ScanResponse, 0, len(scans))
	for _, scan := range scans {
		response = append(response, toScanResponse(scan))
	}
	return response, count, nil
}

func (s *scanService) DeleteScan(ctx context.Context, scanID, userID string) error {
	if _, err := s.getOwnedScan(ctx, scanID, userID); err != nil {
		return err
	}
	// Soft delete only: recommendations may still reference the scan.
	return s.scanRepository.DeleteScan(ctx, scanID)
}

func (s *scanService) ReconcileResult(ctx context.Context, scanID string, payload domain.ScanResultPayload) error {
	scan, err := s.scanRepository.GetScanByID(ctx, scanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrScanNotFound
		}
		return err
	}

	if payload.Status != entities.ScanStatusCompleted && payload.Status != entities.ScanStatusFailed {
		return domain.ErrInvalidResultState
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":             payload.Status,
		"processing_time_ms": payload.ProcessingTimeMs,
	}

	if payload.Status == entities.ScanStatusCompleted {
		detected := make(entities.DetectedPartList, 0, len(payload.DetectedParts))
		for _, part := range payload.DetectedParts {
			detected = append(detected, entities.DetectedPart{
				PartID:      part.PartID,
				Label:       part.Label,
				Confidence:  part.Confidence,
				BoundingBox: part.BoundingBox,
			})
		}
		updates["detected_parts"] = detected
		updates["confidence_score"] = payload.ConfidenceScore
		updates["completed_at"] = &now
	} else {
		updates["error_message"] = payload.ErrorMessage
	}

	// First terminal transition wins: duplicate worker callbacks find the
	// scan already terminal and become logged no-ops.
	rows, err := s.scanRepository.TransitionStatus(ctx, scanID,
		[]string{entities.ScanStatusPending, entities.ScanStatusProcessing}, updates)
	if err != nil {
		return err
	}
	if rows == 0 {
		log.Printf("scan %s: duplicate reconcile ignored, already %s", scanID, scan.Status)
		return nil
	}

	if payload.Status == entities.ScanStatusCompleted {
		s.onScanCompleted(scan, payload)
	}
	return nil
}

// onScanCompleted runs the completion side effects outside the status
// update so a slow or failing downstream never delays reconciliation.
func (s *scanService) onScanCompleted(scan *entities.Scan, payload domain.ScanResultPayload) {
	completed := *scan
	completed.Status = entities.ScanStatusCompleted
	completed.ConfidenceScore = payload.ConfidenceScore
	detected := make(entities.DetectedPartList, 0, len(payload.DetectedParts))
	for _, part := range payload.DetectedParts {
		detected = append(detected, entities.DetectedPart{
			PartID:      part.PartID,
			Label:       part.Label,
			Confidence:  part.Confidence,
			BoundingBox: part.BoundingBox,
		})
	}
	completed.DetectedParts = detected

	go func() {
		ctx := context.Background()

		if s.recommender != nil {
			if err := s.recommender.GenerateForScan(ctx, &completed); err != nil {
				log.Printf("scan %s: recommendation generation failed: %v", completed.ID, err)
			}
		}

		owner, err := s.userRepository.GetUserByID(ctx, completed.UserID.String())
		if err != nil {
			log.Printf("scan %s: cannot load owner for notification: %v", completed.ID, err)
			return
		}
		body := fmt.Sprintf(
			"<p>Your %s scan finished with %d identified part(s). Open the app to see your recommendations.</p>",
			completed.ScanType, len(completed.DetectedParts),
		)
		if err := mailing.SendMail(owner.Email, "Your scan is ready", body); err != nil {
			log.Printf("scan %s: completion email failed: %v", completed.ID, err)
		}
	}()
}

func (s *scanService) RetryScan(ctx context.Context, scanID, userID string) error {
	scan, err := s.getOwnedScan(ctx, scanID, userID)
	if err != nil {
		return err
	}

	if scan.Status != entities.ScanStatusFailed {
		return domain.ErrInvalidScanState
	}

	rows, err := s.scanRepository.TransitionStatus(ctx, scanID,
		[]string{entities.ScanStatusFailed},
		map[string]interface{}{
			"status":           entities.ScanStatusPending,
			"error_message":    nil,
			"confidence_score": nil,
			"retry_count":      scan.RetryCount + 1,
		})
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvalidScanState
	}

	scan.Status = entities.ScanStatusPending
	scan.ErrorMessage = nil
	scan.ConfidenceScore = nil
	s.dispatch(ctx, scan)
	return nil
}

func (s *scanService) SubmitFeedback(ctx context.Context, scanID, userID string, req domain.SubmitFeedbackRequest) error {
	scan, err := s.getOwnedScan(ctx, scanID, userID)
	if err != nil {
		return err
	}

	if scan.Status != entities.ScanStatusCompleted {
		return domain.ErrInvalidScanState
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	feedback := &entities.ScanFeedback{
		ID:                 uuid.New(),
		ScanID:             scan.ID,
		UserID:             userUUID,
		Accurate:           req.Accurate,
		MisidentifiedParts: entities.StringList(req.MisidentifiedParts),
		Comments:           req.Comments,
	}

	if err := s.scanRepository.CreateFeedback(ctx, feedback); err != nil {
		return err
	}

	// Forward to the training side channel; delivery is best-effort.
	go func() {
		if err := s.inference.SendTrainingFeedback(context.Background(), feedback); err != nil {
			log.Printf("scan %s: training feedback forward failed: %v", scanID, err)
		}
	}()

	return nil
}

func toScanResponse(scan *entities.Scan) domain.ScanResponse {
	detected := make([]domain.DetectedPartPayload, 0, len(scan.DetectedParts))
	for _, part := range scan.DetectedParts {
		detected = append(detected, domain.DetectedPartPayload{
			PartID:      part.PartID,
			Label:       part.Label,
			Confidence:  part.Confidence,
			BoundingBox: part.BoundingBox,
		})
	}

	var vehicleID *string
	if scan.VehicleID != nil {
		id := scan.VehicleID.String()
		vehicleID = &id
	}

	return domain.ScanResponse{
		ID:               scan.ID.String(),
		VehicleID:        vehicleID,
		ScanType:         scan.ScanType,
		Status:           scan.Status,
		Images:           scan.Images,
		DetectedParts:    detected,
		ConfidenceScore:  scan.ConfidenceScore,
		ErrorMessage:     scan.ErrorMessage,
		ProcessingTimeMs: scan.ProcessingTimeMs,
		RetryCount:       scan.RetryCount,
		CreatedAt:        scan.CreatedAt,
		CompletedAt:      scan.CompletedAt,
	}
}
