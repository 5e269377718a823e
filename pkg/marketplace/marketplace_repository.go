package marketplace

import (
	"context"

	"modmaster-backend/entities"

	"gorm.io/gorm"
)

type (
	MarketplaceRepository interface {
		GetIntegrationsByPart(ctx context.Context, partID string) ([]*entities.MarketplaceIntegration, error)
		GetDeals(ctx context.Context, category string, minDiscountPct float64, page, limit int) ([]*entities.MarketplaceIntegration, int64, error)
		MarkForRefresh(ctx context.Context, partID string) error
	}

	marketplaceRepository struct {
		db *gorm.DB
	}
)

func NewMarketplaceRepository(db *gorm.DB) MarketplaceRepository {
	return &marketplaceRepository{db: db}
}

func (r *marketplaceRepository) GetIntegrationsByPart(ctx context.Context, partID string) ([]*entities.MarketplaceIntegration, error) {
	var integrations []*entities.MarketplaceIntegration
	if err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("platform asc").
		Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *marketplaceRepository) GetDeals(ctx context.Context, category string, minDiscountPct float64, page, limit int) ([]*entities.MarketplaceIntegration, int64, error) {
	var integrations []*entities.MarketplaceIntegration
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.MarketplaceIntegration{}).
		Joins("JOIN parts ON parts.id = marketplace_integrations.part_id").
		Where("marketplace_integrations.is_tracked = ?", true).
		Where("marketplace_integrations.availability = ?", entities.AvailabilityInStock).
		Where("marketplace_integrations.discount_percentage >= ?", minDiscountPct)

	if category != "" {
		query = query.Where("parts.category = ?", category)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Part").
		Offset(offset).Limit(limit).
		Order("marketplace_integrations.discount_percentage desc").
		Find(&integrations).Error; err != nil {
		return nil, 0, err
	}

	return integrations, count, nil
}

// MarkForRefresh flags a part's rows so the scraping collaborator picks
// them up on its next pass.
func (r *marketplaceRepository) MarkForRefresh(ctx context.Context, partID string) error {
	return r.db.WithContext(ctx).Model(&entities.MarketplaceIntegration{}).
		Where("part_id = ?", partID).
		Updates(map[string]interface{}{"is_tracked": true}).Error
}
