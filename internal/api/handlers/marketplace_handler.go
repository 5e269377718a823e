package handlers

import (
	"strconv"

	"modmaster-backend/domain"
	"modmaster-backend/internal/api/presenters"
	"modmaster-backend/pkg/marketplace"

	"github.com/gofiber/fiber/v2"
)

type (
	MarketplaceHandler interface {
		GetPriceSummary(c *fiber.Ctx) error
		GetDeals(c *fiber.Ctx) error
		GetPriceHistory(c *fiber.Ctx) error
		RefreshPrices(c *fiber.Ctx) error
	}

	marketplaceHandler struct {
		marketplaceService marketplace.MarketplaceService
	}
)

func NewMarketplaceHandler(marketplaceService marketplace.MarketplaceService) MarketplaceHandler {
	return &marketplaceHandler{marketplaceService: marketplaceService}
}

func (h *marketplaceHandler) GetPriceSummary(c *fiber.Ctx) error {
	resp, err := h.marketplaceService.GetPriceSummary(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetPriceSummary, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetPriceSummary)
}

func (h *marketplaceHandler) GetDeals(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	minDiscount, err := strconv.ParseFloat(c.Query("min_discount", "0"), 64)
	if err != nil || minDiscount < 0 {
		minDiscount = 0
	}

	filter := domain.DealsFilter{
		Category:       c.Query("category"),
		MinDiscountPct: minDiscount,
	}

	deals, count, err := h.marketplaceService.GetDeals(c.Context(), filter, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDeals, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"deals": deals,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetDeals)
}

func (h *marketplaceHandler) GetPriceHistory(c *fiber.Ctx) error {
	windowDays, err := strconv.Atoi(c.Query("window", "0"))
	if err != nil || windowDays < 0 {
		windowDays = 0
	}

	resp, err := h.marketplaceService.GetPriceHistory(c.Context(), c.Params("id"), c.Query("platform"), windowDays)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPriceHistory, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetPriceHistory)
}

func (h *marketplaceHandler) RefreshPrices(c *fiber.Ctx) error {
	if err := h.marketplaceService.RefreshPrices(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRefreshPrices, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusAccepted, domain.MessageSuccessRefreshPrices)
}
