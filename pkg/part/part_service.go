package part

import (
	"context"
	"errors"

	"modmaster-backend/domain"
	"modmaster-backend/entities"

	"gorm.io/gorm"
)

type (
	PartService interface {
		GetParts(ctx context.Context, category string, page, limit int) ([]domain.PartResponse, int64, error)
		GetPartByID(ctx context.Context, id string) (domain.PartResponse, error)
	}

	partService struct {
		partRepository PartRepository
	}
)

func NewPartService(partRepository PartRepository) PartService {
	return &partService{partRepository: partRepository}
}

func (s *partService) GetParts(ctx context.Context, category string, page, limit int) ([]domain.PartResponse, int64, error) {
	parts, count, err := s.partRepository.GetParts(ctx, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.PartResponse, 0, len(parts))
	for _, part := range parts {
		response = append(response, toPartResponse(part))
	}
	return response, count, nil
}

func (s *partService) GetPartByID(ctx context.Context, id string) (domain.PartResponse, error) {
	part, err := s.partRepository.GetPartByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PartResponse{}, domain.ErrPartNotFound
		}
		return domain.PartResponse{}, err
	}

	// Detail views feed the trending signal.
	_ = s.partRepository.IncrementViewCount(ctx, id)

	return toPartResponse(part), nil
}

func toPartResponse(part *entities.Part) domain.PartResponse {
	return domain.PartResponse{
		ID:           part.ID.String(),
		Name:         part.Name,
		PartNumber:   part.PartNumber,
		Manufacturer: part.Manufacturer,
		Category:     part.Category,
		Description:  part.Description,
		Price:        part.Price,
		ImageURL:     part.ImageURL,
		IsUniversal:  part.IsUniversal,
		QualityScore: part.QualityScore,
		CreatedAt:    part.CreatedAt,
	}
}
