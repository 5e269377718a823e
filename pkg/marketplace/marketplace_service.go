package marketplace

import (
	"context"
	"errors"
	"sort"
	"time"

	"modmaster-backend/domain"
	"modmaster-backend/pkg/part"

	"gorm.io/gorm"
)

type (
	MarketplaceService interface {
		GetPriceSummary(ctx context.Context, partID string) (domain.PriceSummaryResponse, error)
		GetDeals(ctx context.Context, filter domain.DealsFilter, page, limit int) ([]domain.DealResponse, int64, error)
		GetPriceHistory(ctx context.Context, partID string, platform string, windowDays int) (domain.PriceHistoryResponse, error)
		Invalidate(partID string)
		RefreshPrices(ctx context.Context, partID string) error
	}

	marketplaceService struct {
		marketplaceRepository MarketplaceRepository
		partRepository        part.PartRepository
		cache                 *SummaryCache
	}
)

func NewMarketplaceService(
	marketplaceRepository MarketplaceRepository,
	partRepository part.PartRepository,
	cache *SummaryCache,
) MarketplaceService {
	return &marketplaceService{
		marketplaceRepository: marketplaceRepository,
		partRepository:        partRepository,
		cache:                 cache,
	}
}

func (s *marketplaceService) GetPriceSummary(ctx context.Context, partID string) (domain.PriceSummaryResponse, error) {
	if cached, ok := s.cache.Get(partID); ok {
		return cached, nil
	}

	partRow, err := s.partRepository.GetPartByID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PriceSummaryResponse{}, domain.ErrPartNotFound
		}
		return domain.PriceSummaryResponse{}, err
	}

	integrations, err := s.marketplaceRepository.GetIntegrationsByPart(ctx, partID)
	if err != nil {
		return domain.PriceSummaryResponse{}, err
	}

	platforms := make([]domain.PlatformPrice, 0, len(integrations))
	var trackedPrices []float64
	var lastUpdated time.Time

	for _, integration := range integrations {
		platforms = append(platforms, domain.PlatformPrice{
			Platform:           integration.Platform,
			CurrentPrice:       integration.CurrentPrice,
			OriginalPrice:      integration.OriginalPrice,
			DiscountPercentage: integration.DiscountPercentage,
			Availability:       integration.Availability,
			ProductURL:         integration.ProductURL,
			IsTracked:          integration.IsTracked,
			LastUpdated:        integration.LastUpdated,
		})
		if integration.IsTracked && integration.CurrentPrice > 0 {
			trackedPrices = append(trackedPrices, integration.CurrentPrice)
		}
		if integration.LastUpdated.After(lastUpdated) {
			lastUpdated = integration.LastUpdated
		}
	}

	summary := domain.PriceSummaryResponse{
		PartID:      partID,
		PartName:    partRow.Name,
		Platforms:   platforms,
		Statistics:  computeStatistics(trackedPrices),
		LastUpdated: lastUpdated,
	}

	s.cache.Set(partID, summary)
	return summary, nil
}

// computeStatistics returns nil when no tracked price exists. The median
// uses the lower-middle element for even counts.
func computeStatistics(prices []float64) *domain.PriceStatistics {
	if len(prices) == 0 {
		return nil
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	var sum float64
	for _, price := range sorted {
		sum += price
	}

	return &domain.PriceStatistics{
		Lowest:  sorted[0],
		Highest: sorted[len(sorted)-1],
		Average: sum / float64(len(sorted)),
		Median:  sorted[(len(sorted)-1)/2],
	}
}

func (s *marketplaceService) GetDeals(ctx context.Context, filter domain.DealsFilter, page, limit int) ([]domain.DealResponse, int64, error) {
	minDiscount := filter.MinDiscountPct
	if minDiscount <= 0 {
		minDiscount = domain.DefaultMinDiscountPct
	}

	integrations, count, err := s.marketplaceRepository.GetDeals(ctx, filter.Category, minDiscount, page, limit)
	if err != nil {
		return nil, 0, err
	}

	deals := make([]domain.DealResponse, 0, len(integrations))
	for _, integration := range integrations {
		deal := domain.DealResponse{
			PartID:             integration.PartID.String(),
			Platform:           integration.Platform,
			CurrentPrice:       integration.CurrentPrice,
			DiscountPercentage: integration.DiscountPercentage,
			ProductURL:         integration.ProductURL,
		}
		if integration.OriginalPrice != nil {
			deal.OriginalPrice = *integration.OriginalPrice
		}
		if integration.Part != nil {
			deal.PartName = integration.Part.Name
			deal.Category = integration.Part.Category
		}
		deals = append(deals, deal)
	}

	return deals, count, nil
}

func (s *marketplaceService) GetPriceHistory(ctx context.Context, partID string, platform string, windowDays int) (domain.PriceHistoryResponse, error) {
	if windowDays <= 0 {
		windowDays = domain.DefaultHistoryWindow
	}

	integrations, err := s.marketplaceRepository.GetIntegrationsByPart(ctx, partID)
	if err != nil {
		return domain.PriceHistoryResponse{}, err
	}

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	var entries []domain.PriceHistoryEntry

	for _, integration := range integrations {
		if platform != "" && integration.Platform != platform {
			continue
		}
		for _, point := range integration.PriceHistory {
			if point.Date.Before(cutoff) {
				continue
			}
			entries = append(entries, domain.PriceHistoryEntry{
				Platform: integration.Platform,
				Date:     point.Date,
				Price:    point.Price,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	return domain.PriceHistoryResponse{
		PartID:  partID,
		Window:  windowDays,
		Entries: entries,
	}, nil
}

// Invalidate evicts the cached summary for a part; called when a price
// update event arrives from the scraping collaborator.
func (s *marketplaceService) Invalidate(partID string) {
	s.cache.Delete(partID)
}

// RefreshPrices invalidates the cached summary and re-flags the part's
// rows for the scraping collaborator.
func (s *marketplaceService) RefreshPrices(ctx context.Context, partID string) error {
	s.Invalidate(partID)
	return s.marketplaceRepository.MarkForRefresh(ctx, partID)
}
