package recommendation

import (
	"context"
	"time"

	"modmaster-backend/entities"

	"gorm.io/gorm"
)

type (
	RecommendationRepository interface {
		CreateRecommendation(ctx context.Context, rec *entities.Recommendation) error
		GetRecommendationByID(ctx context.Context, id string) (*entities.Recommendation, error)
		UpdateRecommendation(ctx context.Context, rec *entities.Recommendation) error
		FindByPartUserVehicle(ctx context.Context, userID string, vehicleID *string, partID string) (*entities.Recommendation, error)
		GetActiveRecommendations(ctx context.Context, userID string, vehicleID string, page, limit int) ([]*entities.Recommendation, int64, error)
	}

	recommendationRepository struct {
		db *gorm.DB
	}
)

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) CreateRecommendation(ctx context.Context, rec *entities.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendationRepository) GetRecommendationByID(ctx context.Context, id string) (*entities.Recommendation, error) {
	var rec entities.Recommendation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) UpdateRecommendation(ctx context.Context, rec *entities.Recommendation) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *recommendationRepository) FindByPartUserVehicle(ctx context.Context, userID string, vehicleID *string, partID string) (*entities.Recommendation, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND part_id = ?", userID, partID)
	if vehicleID != nil {
		query = query.Where("vehicle_id = ?", *vehicleID)
	} else {
		query = query.Where("vehicle_id IS NULL")
	}

	var rec entities.Recommendation
	if err := query.First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetActiveRecommendations filters expiry lazily at read time: dismissed
// rows are excluded and rows past their expiry never surface again.
func (r *recommendationRepository) GetActiveRecommendations(ctx context.Context, userID string, vehicleID string, page, limit int) ([]*entities.Recommendation, int64, error) {
	var recs []*entities.Recommendation
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recommendation{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now())
	if vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Part").
		Offset(offset).Limit(limit).
		Order("score desc").
		Find(&recs).Error; err != nil {
		return nil, 0, err
	}

	return recs, count, nil
}
