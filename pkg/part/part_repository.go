package part

import (
	"context"

	"modmaster-backend/entities"

	"gorm.io/gorm"
)

type (
	PartRepository interface {
		GetPartByID(ctx context.Context, id string) (*entities.Part, error)
		GetPartsByIDs(ctx context.Context, ids []string) ([]*entities.Part, error)
		GetActiveParts(ctx context.Context, category string, limit int) ([]*entities.Part, error)
		GetParts(ctx context.Context, category string, page, limit int) ([]*entities.Part, int64, error)
		IncrementViewCount(ctx context.Context, id string) error
	}

	partRepository struct {
		db *gorm.DB
	}
)

func NewPartRepository(db *gorm.DB) PartRepository {
	return &partRepository{db: db}
}

func (r *partRepository) GetPartByID(ctx context.Context, id string) (*entities.Part, error) {
	var part entities.Part
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) GetPartsByIDs(ctx context.Context, ids []string) ([]*entities.Part, error) {
	var parts []*entities.Part
	if len(ids) == 0 {
		return parts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) GetActiveParts(ctx context.Context, category string, limit int) ([]*entities.Part, error) {
	var parts []*entities.Part

	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Order("quality_score desc").Limit(limit).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) GetParts(ctx context.Context, category string, page, limit int) ([]*entities.Part, int64, error) {
	var parts []*entities.Part
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Model(&entities.Part{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&parts).Error; err != nil {
		return nil, 0, err
	}

	return parts, count, nil
}

func (r *partRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&entities.Part{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
