package vehicle

import (
	"context"
	"errors"

	"modmaster-backend/domain"
	"modmaster-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	VehicleService interface {
		AddVehicle(ctx context.Context, req domain.AddVehicleRequest, userID string) (domain.VehicleResponse, error)
		GetVehicles(ctx context.Context, userID string) ([]domain.VehicleResponse, error)
		UpdateVehicle(ctx context.Context, id string, req domain.UpdateVehicleRequest, userID string) error
		DeleteVehicle(ctx context.Context, id string, userID string) error
		InstallPart(ctx context.Context, id string, req domain.InstallPartRequest, userID string) error
	}

	vehicleService struct {
		vehicleRepository VehicleRepository
	}
)

func NewVehicleService(vehicleRepository VehicleRepository) VehicleService {
	return &vehicleService{vehicleRepository: vehicleRepository}
}

func (s *vehicleService) AddVehicle(ctx context.Context, req domain.AddVehicleRequest, userID string) (domain.VehicleResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.VehicleResponse{}, domain.ErrParseUUID
	}

	vehicle := &entities.Vehicle{
		ID:     uuid.New(),
		UserID: userUUID,
		Make:   req.Make,
		Model:  req.Model,
		Year:   req.Year,
		Trim:   req.Trim,
		VIN:    req.VIN,
	}

	if err := s.vehicleRepository.CreateVehicle(ctx, vehicle); err != nil {
		return domain.VehicleResponse{}, err
	}

	return toVehicleResponse(vehicle), nil
}

func (s *vehicleService) GetVehicles(ctx context.Context, userID string) ([]domain.VehicleResponse, error) {
	vehicles, err := s.vehicleRepository.GetVehiclesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.VehicleResponse, 0, len(vehicles))
	for _, vehicle := range vehicles {
		response = append(response, toVehicleResponse(vehicle))
	}
	return response, nil
}

func (s *vehicleService) getOwnedVehicle(ctx context.Context, id, userID string) (*entities.Vehicle, error) {
	vehicle, err := s.vehicleRepository.GetVehicleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	if vehicle.UserID.String() != userID {
		return nil, domain.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id string, req domain.UpdateVehicleRequest, userID string) error {
	vehicle, err := s.getOwnedVehicle(ctx, id, userID)
	if err != nil {
		return err
	}

	if req.Make != "" {
		vehicle.Make = req.Make
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Year > 0 {
		vehicle.Year = req.Year
	}
	if req.Trim != "" {
		vehicle.Trim = req.Trim
	}
	if req.VIN != "" {
		vehicle.VIN = req.VIN
	}

	return s.vehicleRepository.UpdateVehicle(ctx, vehicle)
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedVehicle(ctx, id, userID); err != nil {
		return err
	}
	return s.vehicleRepository.DeleteVehicle(ctx, id)
}

func (s *vehicleService) InstallPart(ctx context.Context, id string, req domain.InstallPartRequest, userID string) error {
	vehicle, err := s.getOwnedVehicle(ctx, id, userID)
	if err != nil {
		return err
	}

	for _, existing := range vehicle.InstalledPartIDs {
		if existing == req.PartID {
			return nil
		}
	}
	vehicle.InstalledPartIDs = append(vehicle.InstalledPartIDs, req.PartID)

	return s.vehicleRepository.UpdateVehicle(ctx, vehicle)
}

func toVehicleResponse(vehicle *entities.Vehicle) domain.VehicleResponse {
	return domain.VehicleResponse{
		ID:               vehicle.ID.String(),
		Make:             vehicle.Make,
		Model:            vehicle.Model,
		Year:             vehicle.Year,
		Trim:             vehicle.Trim,
		VIN:              vehicle.VIN,
		InstalledPartIDs: vehicle.InstalledPartIDs,
		CreatedAt:        vehicle.CreatedAt,
	}
}
