package recommendation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"modmaster-backend/domain"
	"modmaster-backend/entities"
	"modmaster-backend/pkg/marketplace"
	"modmaster-backend/pkg/part"
	"modmaster-backend/pkg/user"
	"modmaster-backend/pkg/vehicle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Candidate pool size per generation run, before scoring.
	candidatePoolSize = 100

	// Scan-triggered recommendations carry an expiry so stale scan context
	// ages out; on-demand runs stay active until dismissed.
	scanRecommendationTTL = 30 * 24 * time.Hour
)

type (
	RecommendationService interface {
		GenerateFor(ctx context.Context, userID string, req domain.GenerateRecommendationsRequest) ([]domain.RecommendationResponse, error)
		GenerateForScan(ctx context.Context, scan *entities.Scan) error
		GetRecommendations(ctx context.Context, userID string, vehicleID string, page, limit int) ([]domain.RecommendationResponse, int64, error)
		RecordInteraction(ctx context.Context, recommendationID, userID, action string) error
	}

	recommendationService struct {
		recommendationRepository RecommendationRepository
		partRepository           part.PartRepository
		vehicleRepository        vehicle.VehicleRepository
		userRepository           user.UserRepository
		marketplaceService       marketplace.MarketplaceService
	}
)

func NewRecommendationService(
	recommendationRepository RecommendationRepository,
	partRepository part.PartRepository,
	vehicleRepository vehicle.VehicleRepository,
	userRepository user.UserRepository,
	marketplaceService marketplace.MarketplaceService,
) RecommendationService {
	return &recommendationService{
		recommendationRepository: recommendationRepository,
		partRepository:           partRepository,
		vehicleRepository:        vehicleRepository,
		userRepository:           userRepository,
		marketplaceService:       marketplaceService,
	}
}

func (s *recommendationService) GenerateFor(ctx context.Context, userID string, req domain.GenerateRecommendationsRequest) ([]domain.RecommendationResponse, error) {
	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	vehicles, err := s.resolveVehicles(ctx, userID, req.VehicleID)
	if err != nil {
		return nil, err
	}

	prefs := s.resolvePreferences(owner, req.Preferences)

	category := ""
	if len(prefs.Categories) == 1 {
		category = prefs.Categories[0]
	}
	candidates, err := s.partRepository.GetActiveParts(ctx, category, candidatePoolSize)
	if err != nil {
		return nil, err
	}
	candidates = excludeInstalled(candidates, vehicles)
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidateParts
	}

	scored := s.scoreCandidates(ctx, candidates, vehicles, prefs)

	var sourceVehicle *uuid.UUID
	if req.VehicleID != "" {
		parsed, err := uuid.Parse(req.VehicleID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		sourceVehicle = &parsed
	}

	persisted, err := s.persistTopN(ctx, owner.ID, sourceVehicle, nil, scored, nil)
	if err != nil {
		return nil, err
	}

	response := make([]domain.RecommendationResponse, 0, len(persisted))
	for _, rec := range persisted {
		response = append(response, toRecommendationResponse(rec))
	}
	return response, nil
}

// GenerateForScan runs after a scan completes, seeding the candidate set
// with the parts the worker identified. It satisfies scan.RecommendationGenerator.
func (s *recommendationService) GenerateForScan(ctx context.Context, scan *entities.Scan) error {
	owner, err := s.userRepository.GetUserByID(ctx, scan.UserID.String())
	if err != nil {
		return err
	}

	var vehicles []*entities.Vehicle
	if scan.VehicleID != nil {
		v, err := s.vehicleRepository.GetVehicleByID(ctx, scan.VehicleID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if v != nil {
			vehicles = append(vehicles, v)
		}
	} else {
		vehicles, err = s.vehicleRepository.GetVehiclesByUser(ctx, scan.UserID.String())
		if err != nil {
			return err
		}
	}

	var detectedIDs []string
	for _, detected := range scan.DetectedParts {
		if detected.PartID != nil {
			detectedIDs = append(detectedIDs, *detected.PartID)
		}
	}

	candidates, err := s.partRepository.GetPartsByIDs(ctx, detectedIDs)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		// Nothing matched the catalog; fall back to the general pool.
		candidates, err = s.partRepository.GetActiveParts(ctx, "", candidatePoolSize)
		if err != nil {
			return err
		}
	}
	candidates = excludeInstalled(candidates, vehicles)
	if len(candidates) == 0 {
		return nil
	}

	prefs := s.resolvePreferences(owner, nil)
	scored := s.scoreCandidates(ctx, candidates, vehicles, prefs)

	expiry := time.Now().Add(scanRecommendationTTL)
	scanID := scan.ID
	_, err = s.persistTopN(ctx, owner.ID, scan.VehicleID, &scanID, scored, &expiry)
	return err
}

func (s *recommendationService) resolveVehicles(ctx context.Context, userID, vehicleID string) ([]*entities.Vehicle, error) {
	if vehicleID == "" {
		return s.vehicleRepository.GetVehiclesByUser(ctx, userID)
	}

	v, err := s.vehicleRepository.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	if v.UserID.String() != userID {
		return nil, domain.ErrVehicleNotFound
	}
	return []*entities.Vehicle{v}, nil
}

func (s *recommendationService) resolvePreferences(owner *entities.User, override *domain.Preferences) domain.Preferences {
	if override != nil {
		return *override
	}
	return domain.Preferences{
		Categories: owner.PreferredCategories,
		BudgetMin:  owner.BudgetMin,
		BudgetMax:  owner.BudgetMax,
	}
}

// excludeInstalled drops candidates already installed on any of the
// user's vehicles.
func excludeInstalled(candidates []*entities.Part, vehicles []*entities.Vehicle) []*entities.Part {
	installed := make(map[string]struct{})
	for _, vehicle := range vehicles {
		for _, partID := range vehicle.InstalledPartIDs {
			installed[partID] = struct{}{}
		}
	}
	if len(installed) == 0 {
		return candidates
	}

	filtered := candidates[:0]
	for _, candidate := range candidates {
		if _, ok := installed[candidate.ID.String()]; !ok {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

type scoredPart struct {
	part   *entities.Part
	result ScoreResult
}

func (s *recommendationService) scoreCandidates(ctx context.Context, candidates []*entities.Part, vehicles []*entities.Vehicle, prefs domain.Preferences) []scoredPart {
	now := time.Now()
	scored := make([]scoredPart, 0, len(candidates))

	for _, candidate := range candidates {
		scored = append(scored, scoredPart{
			part: candidate,
			result: Score(ScoreInput{
				Part:        candidate,
				Vehicles:    vehicles,
				Preferences: prefs,
				Price:       s.effectivePrice(ctx, candidate),
				Now:         now,
			}),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].result.Score != scored[j].result.Score {
			return scored[i].result.Score > scored[j].result.Score
		}
		return scored[i].part.Name < scored[j].part.Name
	})
	return scored
}

// effectivePrice prefers the lowest tracked marketplace price over the
// catalog list price for budget-fit scoring.
func (s *recommendationService) effectivePrice(ctx context.Context, candidate *entities.Part) float64 {
	summary, err := s.marketplaceService.GetPriceSummary(ctx, candidate.ID.String())
	if err == nil && summary.Statistics != nil {
		return summary.Statistics.Lowest
	}
	return candidate.Price
}

func (s *recommendationService) persistTopN(
	ctx context.Context,
	userID uuid.UUID,
	vehicleID *uuid.UUID,
	sourceScan *uuid.UUID,
	scored []scoredPart,
	expiresAt *time.Time,
) ([]*entities.Recommendation, error) {
	if len(scored) > domain.RecommendationTopN {
		scored = scored[:domain.RecommendationTopN]
	}

	var vehicleIDStr *string
	if vehicleID != nil {
		str := vehicleID.String()
		vehicleIDStr = &str
	}

	persisted := make([]*entities.Recommendation, 0, len(scored))
	for _, candidate := range scored {
		partID := candidate.part.ID

		existing, err := s.recommendationRepository.FindByPartUserVehicle(ctx, userID.String(), vehicleIDStr, partID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if existing != nil {
			// Dedupe by part+user+vehicle: refresh the score in place, but
			// never resurrect something the user dismissed.
			if existing.WasDismissed {
				continue
			}
			existing.Score = candidate.result.Score
			existing.Confidence = candidate.result.Score / 100
			existing.Reason = strings.Join(candidate.result.Reasons, "; ")
			existing.Priority = PriorityForScore(candidate.result.Score)
			existing.ExpiresAt = expiresAt
			existing.IsActive = true
			if err := s.recommendationRepository.UpdateRecommendation(ctx, existing); err != nil {
				return nil, err
			}
			persisted = append(persisted, existing)
			continue
		}

		rec := &entities.Recommendation{
			ID:         uuid.New(),
			UserID:     userID,
			VehicleID:  vehicleID,
			PartID:     &partID,
			Score:      candidate.result.Score,
			Confidence: candidate.result.Score / 100,
			Reason:     strings.Join(candidate.result.Reasons, "; "),
			Priority:   PriorityForScore(candidate.result.Score),
			SourceScan: sourceScan,
			IsActive:   true,
			ExpiresAt:  expiresAt,
		}
		rec.Part = candidate.part
		if err := s.recommendationRepository.CreateRecommendation(ctx, rec); err != nil {
			return nil, err
		}
		persisted = append(persisted, rec)
	}

	return persisted, nil
}

func (s *recommendationService) GetRecommendations(ctx context.Context, userID string, vehicleID string, page, limit int) ([]domain.RecommendationResponse, int64, error) {
	recs, count, err := s.recommendationRepository.GetActiveRecommendations(ctx, userID, vehicleID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		response = append(response, toRecommendationResponse(rec))
	}
	return response, count, nil
}

func (s *recommendationService) RecordInteraction(ctx context.Context, recommendationID, userID, action string) error {
	rec, err := s.recommendationRepository.GetRecommendationByID(ctx, recommendationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecommendationNotFound
		}
		return err
	}
	if rec.UserID.String() != userID {
		return domain.ErrRecommendationNotFound
	}

	switch action {
	case domain.InteractionView:
		rec.WasViewed = true
	case domain.InteractionClick:
		rec.WasViewed = true
		rec.WasClicked = true
	case domain.InteractionDismiss:
		rec.WasDismissed = true
		rec.IsActive = false
	default:
		return domain.ErrInvalidInteraction
	}

	return s.recommendationRepository.UpdateRecommendation(ctx, rec)
}

func toRecommendationResponse(rec *entities.Recommendation) domain.RecommendationResponse {
	var vehicleID, partID *string
	if rec.VehicleID != nil {
		id := rec.VehicleID.String()
		vehicleID = &id
	}
	if rec.PartID != nil {
		id := rec.PartID.String()
		partID = &id
	}

	response := domain.RecommendationResponse{
		ID:         rec.ID.String(),
		VehicleID:  vehicleID,
		PartID:     partID,
		Score:      rec.Score,
		Confidence: rec.Confidence,
		Reason:     rec.Reason,
		Priority:   rec.Priority,
		WasViewed:  rec.WasViewed,
		WasClicked: rec.WasClicked,
		ExpiresAt:  rec.ExpiresAt,
		CreatedAt:  rec.CreatedAt,
	}
	if rec.Part != nil {
		response.PartName = rec.Part.Name
		response.Category = rec.Part.Category
	}
	return response
}
