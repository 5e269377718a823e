package handlers

import (
	"strconv"

	"modmaster-backend/domain"
	"modmaster-backend/internal/api/presenters"
	"modmaster-backend/pkg/part"

	"github.com/gofiber/fiber/v2"
)

type (
	PartHandler interface {
		GetParts(c *fiber.Ctx) error
		GetPartDetail(c *fiber.Ctx) error
	}

	partHandler struct {
		partService part.PartService
	}
)

func NewPartHandler(partService part.PartService) PartHandler {
	return &partHandler{partService: partService}
}

func (h *partHandler) GetParts(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	parts, count, err := h.partService.GetParts(c.Context(), c.Query("category"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetParts, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"parts": parts,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetParts)
}

func (h *partHandler) GetPartDetail(c *fiber.Ctx) error {
	resp, err := h.partService.GetPartByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetPartDetail, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetPartDetail)
}
