package handlers

import (
	"strconv"

	"modmaster-backend/domain"
	"modmaster-backend/internal/api/presenters"
	"modmaster-backend/pkg/recommendation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecommendationHandler interface {
		GenerateRecommendations(c *fiber.Ctx) error
		GetRecommendations(c *fiber.Ctx) error
		RecordInteraction(c *fiber.Ctx) error
	}

	recommendationHandler struct {
		recommendationService recommendation.RecommendationService
		validator             *validator.Validate
	}
)

func NewRecommendationHandler(
	recommendationService recommendation.RecommendationService,
	validator *validator.Validate,
) RecommendationHandler {
	return &recommendationHandler{
		recommendationService: recommendationService,
		validator:             validator,
	}
}

func (h *recommendationHandler) GenerateRecommendations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.GenerateRecommendationsRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecommendations, err)
	}

	recs, err := h.recommendationService.GenerateFor(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecommendations, err)
	}

	return presenters.SuccessResponse(c, recs, fiber.StatusOK, domain.MessageSuccessGenerateRecommendations)
}

func (h *recommendationHandler) GetRecommendations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	recs, count, err := h.recommendationService.GetRecommendations(c.Context(), userID, c.Query("vehicle_id"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecommendations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recommendations": recs,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecommendations)
}

func (h *recommendationHandler) RecordInteraction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.RecordInteractionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecordInteraction, err)
	}

	if err := h.recommendationService.RecordInteraction(c.Context(), c.Params("id"), userID, req.Action); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecordInteraction, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRecordInteraction)
}
