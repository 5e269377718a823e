package vehicle

import (
	"context"

	"modmaster-backend/entities"

	"gorm.io/gorm"
)

type (
	VehicleRepository interface {
		CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) error
		GetVehicleByID(ctx context.Context, id string) (*entities.Vehicle, error)
		GetVehiclesByUser(ctx context.Context, userID string) ([]*entities.Vehicle, error)
		UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) error
		DeleteVehicle(ctx context.Context, id string) error
	}

	vehicleRepository struct {
		db *gorm.DB
	}
)

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) CreateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) GetVehicleByID(ctx context.Context, id string) (*entities.Vehicle, error) {
	var vehicle entities.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) GetVehiclesByUser(ctx context.Context, userID string) ([]*entities.Vehicle, error) {
	var vehicles []*entities.Vehicle
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) UpdateVehicle(ctx context.Context, vehicle *entities.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *vehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Vehicle{}).Error
}
