package subscription

import (
	"context"

	"modmaster-backend/entities"

	"gorm.io/gorm"
)

type (
	SubscriptionRepository interface {
		CreateTransaction(ctx context.Context, tx *entities.SubscriptionTransaction) error
		GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.SubscriptionTransaction, error)
		UpdateTransaction(ctx context.Context, tx *entities.SubscriptionTransaction) error
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateTransaction(ctx context.Context, tx *entities.SubscriptionTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *subscriptionRepository) GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.SubscriptionTransaction, error) {
	var tx entities.SubscriptionTransaction
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *subscriptionRepository) UpdateTransaction(ctx context.Context, tx *entities.SubscriptionTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}
