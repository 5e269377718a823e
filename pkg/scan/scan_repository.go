package scan

import (
	"context"
	"time"

	"modmaster-backend/entities"

	"gorm.io/gorm"
)

type (
	ScanRepository interface {
		CreateScan(ctx context.Context, scan *entities.Scan) error
		GetScanByID(ctx context.Context, id string) (*entities.Scan, error)
		UpdateScan(ctx context.Context, scan *entities.Scan) error
		DeleteScan(ctx context.Context, id string) error
		GetScans(ctx context.Context, userID string, status string, page, limit int) ([]*entities.Scan, int64, error)
		CountScansInMonth(ctx context.Context, userID string, monthStart time.Time) (int64, error)

		// TransitionStatus is a compare-and-set: the row is updated only if
		// its current status is in fromStatuses. Returns the number of rows
		// changed so callers can detect a lost race.
		TransitionStatus(ctx context.Context, id string, fromStatuses []string, updates map[string]interface{}) (int64, error)

		GetStuckProcessing(ctx context.Context, before time.Time) ([]*entities.Scan, error)
		GetStalePending(ctx context.Context, before time.Time) ([]*entities.Scan, error)

		CreateFeedback(ctx context.Context, feedback *entities.ScanFeedback) error
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) CreateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) GetScanByID(ctx context.Context, id string) (*entities.Scan, error) {
	var scan entities.Scan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) UpdateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Save(scan).Error
}

func (r *scanRepository) DeleteScan(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Scan{}).Error
}

func (r *scanRepository) GetScans(ctx context.Context, userID string, status string, page, limit int) ([]*entities.Scan, int64, error) {
	var scans []*entities.Scan
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "all" && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Model(&entities.Scan{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, count, nil
}

func (r *scanRepository) CountScansInMonth(ctx context.Context, userID string, monthStart time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Scan{}).
		Where("user_id = ? AND created_at >= ?", userID, monthStart).
		Count(&count).Error
	return count, err
}

func (r *scanRepository) TransitionStatus(ctx context.Context, id string, fromStatuses []string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Scan{}).
		Where("id = ? AND status IN ?", id, fromStatuses).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *scanRepository) GetStuckProcessing(ctx context.Context, before time.Time) ([]*entities.Scan, error) {
	var scans []*entities.Scan
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", entities.ScanStatusProcessing, before).
		Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}

func (r *scanRepository) GetStalePending(ctx context.Context, before time.Time) ([]*entities.Scan, error) {
	var scans []*entities.Scan
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", entities.ScanStatusPending, before).
		Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}

func (r *scanRepository) CreateFeedback(ctx context.Context, feedback *entities.ScanFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}
